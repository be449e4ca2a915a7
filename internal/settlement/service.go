package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/internal/balance"
	"github.com/fkhayef/splitledger/internal/expense"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/member"
	"github.com/fkhayef/splitledger/internal/money"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Common errors
var (
	ErrSettlementNotFound = apperror.New(http.StatusNotFound, "SETTLEMENT_NOT_FOUND", "settlement not found")
	ErrSelfSettlement     = apperror.New(http.StatusBadRequest, "SETTLEMENT_SELF", "cannot settle with yourself")
)

// GroupAccess answers membership questions about groups
type GroupAccess interface {
	EnsureMember(ctx context.Context, groupID, memberID string) (*group.Membership, error)
	GetByID(ctx context.Context, id string) (*group.Group, error)
	Members(ctx context.Context, groupID string) ([]*group.Membership, error)
}

// ExpenseLister loads every expense of a group
type ExpenseLister interface {
	ListAllByGroupID(ctx context.Context, groupID string) ([]*expense.Expense, error)
}

// Notifier records notifications for members
type Notifier interface {
	Notify(ctx context.Context, recipientID string, kind notification.Kind, message, entityType, entityID string)
}

// Recorder receives settlement metrics
type Recorder interface {
	SettlementRecorded()
	Simplified(transfers int)
}

// Service handles balances, simplification and recorded settlements
type Service struct {
	repo     *Repository
	groups   GroupAccess
	expenses ExpenseLister
	notifier Notifier
	metrics  Recorder
	now      func() time.Time
}

// NewService creates a new settlement service with dependencies injected
func NewService(repo *Repository, groups GroupAccess, expenses ExpenseLister, notifier Notifier, metrics Recorder) *Service {
	return &Service{
		repo:     repo,
		groups:   groups,
		expenses: expenses,
		notifier: notifier,
		metrics:  metrics,
		now:      time.Now,
	}
}

// GroupBalances computes every member's net balance from the group's
// expenses. Recorded settlements are listed alongside but not netted in.
func (s *Service) GroupBalances(ctx context.Context, groupID, actorID string) (*BalancesResponse, error) {
	if _, err := s.groups.EnsureMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.groups.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListAllByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.repo.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(memberships))
	for i, m := range memberships {
		ids[i] = m.MemberID
	}
	balances := balance.Aggregate(ids, expense.ToBalances(expenses))

	summary := make([]*BalanceLine, len(balances))
	for i, b := range balances {
		m := memberships[i]
		summary[i] = &BalanceLine{
			Member:  member.Summary{ID: m.MemberID, Name: m.Name, Email: m.Email},
			Balance: b.Balance,
			Paid:    b.Paid,
			Owed:    b.Owed,
		}
	}

	return &BalancesResponse{
		Group:       GroupSummary{ID: g.ID, Name: g.Name, BaseCurrency: g.BaseCurrency},
		Summary:     summary,
		Settlements: toResponses(settlements),
	}, nil
}

// Simplify suggests the payments that would bring every balance to zero
func (s *Service) Simplify(ctx context.Context, groupID, actorID string) (*SimplifyResponse, error) {
	sheet, err := s.GroupBalances(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}

	balances := make([]balance.MemberBalance, len(sheet.Summary))
	for i, line := range sheet.Summary {
		balances[i] = balance.MemberBalance{MemberID: line.Member.ID, Balance: line.Balance}
	}

	transfers := balance.Simplify(balances)
	s.metrics.Simplified(len(transfers))

	out := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		out[i] = &TransferResponse{FromMemberID: t.From, ToMemberID: t.To, Amount: t.Amount}
	}
	return &SimplifyResponse{Settlements: out, Currency: sheet.Group.BaseCurrency}, nil
}

// Record stores a payment between two members of the group in the group's
// base currency
func (s *Service) Record(ctx context.Context, groupID, actorID string, req *RecordSettlementRequest) (*Settlement, error) {
	amount := money.Round(req.Amount)
	if !amount.IsPositive() {
		return nil, apperror.Validation("amount must be at least 0.01")
	}

	for _, id := range []string{actorID, req.FromMemberID, req.ToMemberID} {
		if _, err := s.groups.EnsureMember(ctx, groupID, id); err != nil {
			return nil, err
		}
	}
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if req.FromMemberID == req.ToMemberID {
		return nil, ErrSelfSettlement
	}

	var note *string
	if req.Note != nil {
		if trimmed := strings.TrimSpace(*req.Note); trimmed != "" {
			note = &trimmed
		}
	}

	settlement := &Settlement{
		ID:           uuid.New().String(),
		GroupID:      groupID,
		FromMemberID: req.FromMemberID,
		ToMemberID:   req.ToMemberID,
		Amount:       amount,
		Currency:     g.BaseCurrency,
		Note:         note,
		CreatedBy:    actorID,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, settlement); err != nil {
		return nil, err
	}
	s.metrics.SettlementRecorded()

	stored, err := s.repo.GetByID(ctx, settlement.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrSettlementNotFound
	}

	message := fmt.Sprintf("%s paid %s %s %s in %s",
		stored.FromName, stored.ToName, stored.Amount.StringFixed(2), stored.Currency, g.Name)
	for _, id := range []string{stored.FromMemberID, stored.ToMemberID} {
		if id == actorID {
			continue
		}
		s.notifier.Notify(ctx, id, notification.KindSettlementRecorded, message, "SETTLEMENT", stored.ID)
	}

	slog.InfoContext(ctx, "settlement recorded",
		"settlement_id", stored.ID,
		"group_id", groupID,
		"amount", stored.Amount.String(),
	)
	return stored, nil
}

// List returns the group's settlement history, newest first
func (s *Service) List(ctx context.Context, groupID, actorID string) ([]*Settlement, error) {
	if _, err := s.groups.EnsureMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.ListByGroupID(ctx, groupID)
}

// GroupActivity loads the expenses and settlements shown on a group's
// detail page. Callers check membership.
func (s *Service) GroupActivity(ctx context.Context, groupID string) (*group.Activity, error) {
	expenses, err := s.expenses.ListAllByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.repo.ListByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &group.Activity{
		Expenses:    expense.ToResponses(expenses),
		Settlements: toResponses(settlements),
	}, nil
}
