package group

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/internal/member"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Common errors
var (
	ErrGroupNotFound = apperror.New(http.StatusNotFound, "GROUP_NOT_FOUND", "group not found")
	ErrAccessDenied  = apperror.New(http.StatusForbidden, "GROUP_ACCESS_DENIED", "you are not a member of this group")
	ErrAdminOnly     = apperror.New(http.StatusForbidden, "GROUP_ADMIN_ONLY", "only group admins can perform this action")
	ErrMemberExists  = apperror.New(http.StatusConflict, "MEMBER_EXISTS", "member is already in this group")
)

// Notifier records notifications for members
type Notifier interface {
	Notify(ctx context.Context, recipientID string, kind notification.Kind, message, entityType, entityID string)
}

// MemberLookup resolves member profiles
type MemberLookup interface {
	GetByID(ctx context.Context, id string) (*member.Member, error)
}

// Service handles group business logic
type Service struct {
	repo     *Repository
	members  MemberLookup
	notifier Notifier
	now      func() time.Time
}

// NewService creates a new group service
func NewService(repo *Repository, members MemberLookup, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		members:  members,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create creates a group and makes the actor its admin
func (s *Service) Create(ctx context.Context, actorID string, req *CreateGroupRequest) (*Group, error) {
	now := s.timestamp()
	g := &Group{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		BaseCurrency: req.BaseCurrency,
		CreatedBy:    actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	admin := &Membership{
		ID:       uuid.New().String(),
		GroupID:  g.ID,
		MemberID: actorID,
		Role:     MemberRoleAdmin,
		JoinedAt: now,
	}

	if err := s.repo.CreateWithAdmin(ctx, g, admin); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "group created", "group_id", g.ID, "created_by", actorID)
	return g, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Group, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// EnsureMember returns the membership of memberID in groupID, or
// GROUP_ACCESS_DENIED when there is none
func (s *Service) EnsureMember(ctx context.Context, groupID, memberID string) (*Membership, error) {
	m, err := s.repo.GetMember(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrAccessDenied
	}
	return m, nil
}

// EnsureAdmin is EnsureMember plus the ADMIN role
func (s *Service) EnsureAdmin(ctx context.Context, groupID, memberID string) (*Membership, error) {
	m, err := s.EnsureMember(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return m, nil
}

// IsMember reports whether memberID belongs to groupID
func (s *Service) IsMember(ctx context.Context, groupID, memberID string) (bool, error) {
	m, err := s.repo.GetMember(ctx, groupID, memberID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// Members lists the group's members in join order
func (s *Service) Members(ctx context.Context, groupID string) ([]*Membership, error) {
	return s.repo.GetMembers(ctx, groupID)
}

// MemberIDs lists the group's member IDs in join order
func (s *Service) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.MemberID
	}
	return ids, nil
}

// ListForMember lists the actor's groups with their members attached
func (s *Service) ListForMember(ctx context.Context, memberID string, page, perPage int) ([]*GroupResponse, int, error) {
	offset := (page - 1) * perPage
	groups, total, err := s.repo.ListByMemberID(ctx, memberID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	memberships, err := s.repo.GetMembersForGroups(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = g.ToResponse()
		out[i].Members = membersToResponse(memberships[g.ID])
	}
	return out, total, nil
}

// Detail returns the group with its members; the caller must be a member
func (s *Service) Detail(ctx context.Context, groupID, actorID string) (*GroupResponse, error) {
	if _, err := s.EnsureMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	resp := g.ToResponse()
	resp.Members = membersToResponse(members)
	return resp, nil
}

// AddMember adds an existing member to the group. Only admins may do this.
func (s *Service) AddMember(ctx context.Context, groupID, actorID string, req *AddMemberRequest) (*Membership, error) {
	if _, err := s.EnsureAdmin(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if req.MemberID == actorID {
		return nil, ErrMemberExists
	}
	target, err := s.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, groupID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberExists
	}

	m := &Membership{
		ID:       uuid.New().String(),
		GroupID:  groupID,
		MemberID: target.ID,
		Role:     MemberRoleMember,
		JoinedAt: s.timestamp(),
		Name:     target.Name,
		Email:    target.Email,
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, target.ID, notification.KindMemberAdded,
		fmt.Sprintf("You were added to %s", g.Name), "GROUP", g.ID)

	slog.InfoContext(ctx, "member added to group", "group_id", groupID, "member_id", target.ID)
	return m, nil
}
