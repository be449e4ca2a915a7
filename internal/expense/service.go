package expense

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/money"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Common errors
var (
	ErrExpenseNotFound       = apperror.New(http.StatusNotFound, "EXPENSE_NOT_FOUND", "expense not found")
	ErrExpenseGroupImmutable = apperror.New(http.StatusBadRequest, "EXPENSE_GROUP_IMMUTABLE", "cannot change group for expense")
)

// recentLimit caps the actor's own expense list
const recentLimit = 50

// GroupAccess answers membership questions about groups
type GroupAccess interface {
	EnsureMember(ctx context.Context, groupID, memberID string) (*group.Membership, error)
	GetByID(ctx context.Context, id string) (*group.Group, error)
}

// Notifier records notifications for members
type Notifier interface {
	Notify(ctx context.Context, recipientID string, kind notification.Kind, message, entityType, entityID string)
}

// Recorder receives expense metrics
type Recorder interface {
	ExpenseWritten(op string)
	ShareValidationFailed(code string)
}

// Service handles expense business logic
type Service struct {
	repo         *Repository
	groups       GroupAccess
	splitFactory *split.Factory
	notifier     Notifier
	metrics      Recorder
	now          func() time.Time
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, groups GroupAccess, splitFactory *split.Factory, notifier Notifier, metrics Recorder) *Service {
	return &Service{
		repo:         repo,
		groups:       groups,
		splitFactory: splitFactory,
		notifier:     notifier,
		metrics:      metrics,
		now:          time.Now,
	}
}

// ensureParticipants checks that the payer and every share owner belong to the group
func (s *Service) ensureParticipants(ctx context.Context, groupID string, req *ExpenseRequest) error {
	if _, err := s.groups.EnsureMember(ctx, groupID, req.PaidBy); err != nil {
		return err
	}
	for _, share := range req.Shares {
		if _, err := s.groups.EnsureMember(ctx, groupID, share.MemberID); err != nil {
			return err
		}
	}
	return nil
}

// validateShares runs the share validator and counts rejections by code
func (s *Service) validateShares(req *ExpenseRequest) error {
	err := s.splitFactory.Validate(req.ResolvedBaseAmount(), req.SplitMode, req.SplitShares())
	if err != nil {
		if appErr, ok := apperror.As(err); ok {
			s.metrics.ShareValidationFailed(appErr.Code)
		}
		return err
	}
	return nil
}

// build turns a validated request into an expense in the group's base currency
func (s *Service) build(id string, g *group.Group, req *ExpenseRequest, now time.Time) *Expense {
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC().Truncate(time.Microsecond)
	}

	var notes *string
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		notes = &trimmed
	}

	e := &Expense{
		ID:           id,
		GroupID:      g.ID,
		Description:  strings.TrimSpace(req.Description),
		Notes:        notes,
		Currency:     strings.ToUpper(req.Currency),
		Amount:       money.Round(req.Amount),
		BaseCurrency: g.BaseCurrency,
		BaseAmount:   req.ResolvedBaseAmount(),
		FXRateUsed:   req.FXRateUsed,
		PaidBy:       req.PaidBy,
		OccurredAt:   occurredAt,
		SplitMode:    req.SplitMode,
		CreatedAt:    now,
		UpdatedAt:    now,
		Shares:       make([]*Share, len(req.Shares)),
		GroupName:    g.Name,
	}
	for i, share := range req.SplitShares() {
		e.Shares[i] = &Share{
			MemberID: share.MemberID,
			Amount:   share.Amount,
			Percent:  share.Percent,
			Weight:   share.Weight,
		}
	}
	return e
}

// Create validates and stores a new expense. Nothing is written unless the
// actor, payer and share owners are all members and the shares validate.
func (s *Service) Create(ctx context.Context, actorID string, req *ExpenseRequest) (*Expense, error) {
	if err := req.checkAmounts(); err != nil {
		return nil, err
	}
	if _, err := s.groups.EnsureMember(ctx, req.GroupID, actorID); err != nil {
		return nil, err
	}
	if err := s.ensureParticipants(ctx, req.GroupID, req); err != nil {
		return nil, err
	}
	if err := s.validateShares(req); err != nil {
		return nil, err
	}

	g, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	e := s.build(uuid.New().String(), g, req, s.now().UTC().Truncate(time.Microsecond))
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.metrics.ExpenseWritten("create")

	s.notifyShareOwners(ctx, actorID, e, notification.KindExpenseAdded, "added")
	slog.InfoContext(ctx, "expense created",
		"expense_id", e.ID,
		"group_id", e.GroupID,
		"split_mode", e.SplitMode,
		"base_amount", e.BaseAmount.String(),
	)

	return s.GetByID(ctx, e.ID, actorID)
}

// Update replaces an expense and all of its shares. The group cannot change.
func (s *Service) Update(ctx context.Context, id, actorID string, req *ExpenseRequest) (*Expense, error) {
	if err := req.checkAmounts(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrExpenseNotFound
	}
	if _, err := s.groups.EnsureMember(ctx, existing.GroupID, actorID); err != nil {
		return nil, err
	}
	if existing.GroupID != req.GroupID {
		return nil, ErrExpenseGroupImmutable
	}
	if err := s.ensureParticipants(ctx, existing.GroupID, req); err != nil {
		return nil, err
	}
	if err := s.validateShares(req); err != nil {
		return nil, err
	}

	g, err := s.groups.GetByID(ctx, existing.GroupID)
	if err != nil {
		return nil, err
	}

	e := s.build(existing.ID, g, req, s.now().UTC().Truncate(time.Microsecond))
	e.CreatedAt = existing.CreatedAt
	if req.OccurredAt == nil {
		e.OccurredAt = existing.OccurredAt
	}
	if err := s.repo.Replace(ctx, e); err != nil {
		return nil, err
	}
	s.metrics.ExpenseWritten("update")

	s.notifyShareOwners(ctx, actorID, e, notification.KindExpenseUpdated, "updated")
	slog.InfoContext(ctx, "expense updated", "expense_id", e.ID, "group_id", e.GroupID)

	return s.GetByID(ctx, e.ID, actorID)
}

// Delete removes an expense and its shares
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrExpenseNotFound
	}
	if _, err := s.groups.EnsureMember(ctx, existing.GroupID, actorID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.ExpenseWritten("delete")

	slog.InfoContext(ctx, "expense deleted", "expense_id", id, "group_id", existing.GroupID)
	return nil
}

// GetByID retrieves an expense the actor can see
func (s *Service) GetByID(ctx context.Context, id, actorID string) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	if _, err := s.groups.EnsureMember(ctx, e.GroupID, actorID); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByGroupID retrieves a page of a group's expenses
func (s *Service) ListByGroupID(ctx context.Context, groupID, actorID string, page, perPage int) ([]*Expense, int, error) {
	if _, err := s.groups.EnsureMember(ctx, groupID, actorID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

// ListAllByGroupID retrieves every expense in a group without access checks.
// Callers must have checked membership already.
func (s *Service) ListAllByGroupID(ctx context.Context, groupID string) ([]*Expense, error) {
	return s.repo.ListAllByGroupID(ctx, groupID)
}

// ListMine retrieves the actor's most recent expenses across all groups
func (s *Service) ListMine(ctx context.Context, actorID string) ([]*Expense, error) {
	return s.repo.ListForMember(ctx, actorID, recentLimit)
}

// Allocate previews the shares a split mode would produce
func (s *Service) Allocate(req *AllocateRequest) ([]split.Share, error) {
	if !money.Round(req.BaseAmount).IsPositive() {
		return nil, apperror.Validation("base_amount must be at least 0.01")
	}
	shares, err := s.splitFactory.Allocate(req.BaseAmount, req.SplitMode, req.Shares)
	if err != nil {
		if appErr, ok := apperror.As(err); ok {
			s.metrics.ShareValidationFailed(appErr.Code)
		}
		return nil, err
	}
	return shares, nil
}

// notifyShareOwners tells every share owner other than the actor about the expense
func (s *Service) notifyShareOwners(ctx context.Context, actorID string, e *Expense, kind notification.Kind, verb string) {
	message := fmt.Sprintf("%s %s in %s: %s %s", e.Description, verb, e.GroupName, e.BaseAmount.StringFixed(2), e.BaseCurrency)
	for _, share := range e.Shares {
		if share.MemberID == actorID {
			continue
		}
		s.notifier.Notify(ctx, share.MemberID, kind, message, "EXPENSE", e.ID)
	}
}
