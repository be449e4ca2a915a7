package member

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Common errors
var (
	ErrMemberNotFound = apperror.New(http.StatusNotFound, "MEMBER_NOT_FOUND", "member not found")
	ErrEmailTaken     = apperror.New(http.StatusConflict, "EMAIL_TAKEN", "email already in use")
)

// searchLimit caps search results
const searchLimit = 10

// Service handles member business logic
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a new member service with repository dependency injected
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create registers a new member
func (s *Service) Create(ctx context.Context, req *CreateMemberRequest) (*Member, error) {
	email := strings.TrimSpace(req.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	m := &Member{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "member created", "member_id", m.ID)
	return m, nil
}

// GetByID retrieves a member by their ID
func (s *Service) GetByID(ctx context.Context, id string) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// Search finds up to ten members matching q, never including the actor
func (s *Service) Search(ctx context.Context, actorID, q string) ([]*Member, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*Member{}, nil
	}
	return s.repo.Search(ctx, q, actorID, searchLimit)
}
