package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/database/dbtest"
	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/member"
	"github.com/fkhayef/splitledger/internal/notification"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

type recordingNotifier struct {
	recipients []string
	kinds      []notification.Kind
}

func (n *recordingNotifier) Notify(_ context.Context, recipientID string, kind notification.Kind, _, _, _ string) {
	n.recipients = append(n.recipients, recipientID)
	n.kinds = append(n.kinds, kind)
}

type recordingMetrics struct {
	writes   map[string]int
	failures map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{writes: map[string]int{}, failures: map[string]int{}}
}

func (m *recordingMetrics) ExpenseWritten(op string)          { m.writes[op]++ }
func (m *recordingMetrics) ShareValidationFailed(code string) { m.failures[code]++ }

type fixture struct {
	db       *database.DB
	svc      *Service
	groups   *group.Service
	notifier *recordingNotifier
	metrics  *recordingMetrics
	groupID  string
	alice    string
	bob      string
	carol    string
	outsider string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := dbtest.Open(t)
	f := &fixture{
		db:       db,
		notifier: &recordingNotifier{},
		metrics:  newRecordingMetrics(),
		alice:    dbtest.SeedMember(t, db, "alice"),
		bob:      dbtest.SeedMember(t, db, "bob"),
		carol:    dbtest.SeedMember(t, db, "carol"),
		outsider: dbtest.SeedMember(t, db, "outsider"),
	}

	f.groups = group.NewService(group.NewRepository(db), member.NewService(member.NewRepository(db)), f.notifier)
	g, err := f.groups.Create(ctx, f.alice, &group.CreateGroupRequest{Name: "Flat", BaseCurrency: "EUR"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	for _, id := range []string{f.bob, f.carol} {
		if _, err := f.groups.AddMember(ctx, g.ID, f.alice, &group.AddMemberRequest{MemberID: id}); err != nil {
			t.Fatalf("failed to add member: %v", err)
		}
	}
	f.groupID = g.ID
	f.notifier.recipients = nil
	f.notifier.kinds = nil

	f.svc = NewService(NewRepository(db), f.groups, split.NewFactory(), f.notifier, f.metrics)
	return f
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func (f *fixture) equalRequest(amount string, shares ...ShareRequest) *ExpenseRequest {
	return &ExpenseRequest{
		GroupID:     f.groupID,
		Description: "Groceries",
		Currency:    "EUR",
		Amount:      d(amount),
		FXRateUsed:  d("1"),
		PaidBy:      f.alice,
		SplitMode:   split.ModeEqual,
		Shares:      shares,
	}
}

func (f *fixture) countShares(t *testing.T, expenseID string) int {
	t.Helper()
	var n int
	if err := f.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM expense_shares WHERE expense_id = $1`, expenseID).Scan(&n); err != nil {
		t.Fatalf("count shares: %v", err)
	}
	return n
}

func TestCreateExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.equalRequest("90",
		ShareRequest{MemberID: f.alice, Amount: d("30")},
		ShareRequest{MemberID: f.bob, Amount: d("30")},
		ShareRequest{MemberID: f.carol, Amount: d("30")},
	)

	e, err := f.svc.Create(ctx, f.alice, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if e.BaseCurrency != "EUR" || !e.BaseAmount.Equal(d("90")) {
		t.Errorf("base = %s %s, want 90 EUR", e.BaseAmount, e.BaseCurrency)
	}
	if e.PayerName != "alice" || e.GroupName != "Flat" {
		t.Errorf("joined names = %q, %q", e.PayerName, e.GroupName)
	}
	if len(e.Shares) != 3 {
		t.Fatalf("shares = %d, want 3", len(e.Shares))
	}
	for i, want := range []string{f.alice, f.bob, f.carol} {
		if e.Shares[i].MemberID != want {
			t.Errorf("share %d member = %s, want %s", i, e.Shares[i].MemberID, want)
		}
	}

	if len(f.notifier.recipients) != 2 {
		t.Errorf("notified %v, want bob and carol", f.notifier.recipients)
	}
	for _, kind := range f.notifier.kinds {
		if kind != notification.KindExpenseAdded {
			t.Errorf("kind = %s", kind)
		}
	}
	if f.metrics.writes["create"] != 1 {
		t.Errorf("create writes = %d, want 1", f.metrics.writes["create"])
	}
}

func TestCreateDefaultsBaseAmountFromFXRate(t *testing.T) {
	f := newFixture(t)

	req := &ExpenseRequest{
		GroupID:     f.groupID,
		Description: "Dinner in London",
		Currency:    "gbp",
		Amount:      d("40"),
		FXRateUsed:  d("1.1725"),
		PaidBy:      f.bob,
		SplitMode:   split.ModeUnequal,
		Shares: []ShareRequest{
			{MemberID: f.alice, Amount: d("20")},
			{MemberID: f.bob, Amount: d("26.90")},
		},
	}

	e, err := f.svc.Create(context.Background(), f.bob, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !e.BaseAmount.Equal(d("46.90")) {
		t.Errorf("BaseAmount = %s, want 46.90", e.BaseAmount)
	}
	if e.Currency != "GBP" || e.BaseCurrency != "EUR" {
		t.Errorf("currencies = %s/%s", e.Currency, e.BaseCurrency)
	}
}

func TestCreateRejectsInvalidShares(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actorID string
		req     *ExpenseRequest
		wantErr error
	}{
		{
			name:    "actor not in group",
			actorID: f.outsider,
			req:     f.equalRequest("10", ShareRequest{MemberID: f.alice, Amount: d("10")}),
			wantErr: group.ErrAccessDenied,
		},
		{
			name:    "share owner not in group",
			actorID: f.alice,
			req: f.equalRequest("10",
				ShareRequest{MemberID: f.alice, Amount: d("5")},
				ShareRequest{MemberID: f.outsider, Amount: d("5")},
			),
			wantErr: group.ErrAccessDenied,
		},
		{
			name:    "no shares",
			actorID: f.alice,
			req:     f.equalRequest("10"),
			wantErr: split.ErrShareRequired,
		},
		{
			name:    "total mismatch",
			actorID: f.alice,
			req: f.equalRequest("10",
				ShareRequest{MemberID: f.alice, Amount: d("5")},
				ShareRequest{MemberID: f.bob, Amount: d("4")},
			),
			wantErr: split.ErrShareTotalMismatch,
		},
		{
			name:    "sub-cent shares round past the total",
			actorID: f.alice,
			req: f.equalRequest("100",
				ShareRequest{MemberID: f.alice, Amount: d("33.335")},
				ShareRequest{MemberID: f.bob, Amount: d("33.335")},
				ShareRequest{MemberID: f.carol, Amount: d("33.335")},
			),
			wantErr: split.ErrShareTotalMismatch,
		},
		{
			name:    "amount rounds to zero",
			actorID: f.alice,
			req:     f.equalRequest("0.004", ShareRequest{MemberID: f.alice, Amount: d("0.004")}),
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "duplicate share",
			actorID: f.alice,
			req: f.equalRequest("10",
				ShareRequest{MemberID: f.bob, Amount: d("5")},
				ShareRequest{MemberID: f.bob, Amount: d("5")},
			),
			wantErr: split.ErrShareDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Create(ctx, tt.actorID, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	expenses, err := f.svc.ListAllByGroupID(ctx, f.groupID)
	if err != nil {
		t.Fatalf("ListAllByGroupID() error = %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("rejected expenses were written: %d", len(expenses))
	}
	if f.metrics.failures["SHARE_TOTAL_MISMATCH"] != 2 || f.metrics.failures["SHARE_DUPLICATE"] != 1 {
		t.Errorf("failures = %v", f.metrics.failures)
	}
}

func TestCreateStoresValidatedShareAmounts(t *testing.T) {
	f := newFixture(t)

	req := f.equalRequest("20",
		ShareRequest{MemberID: f.alice, Amount: d("12.344")},
		ShareRequest{MemberID: f.bob, Amount: d("7.656")},
	)
	req.SplitMode = split.ModeUnequal

	e, err := f.svc.Create(context.Background(), f.alice, req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := []string{"12.34", "7.66"}
	total := decimal.Zero
	for i, share := range e.Shares {
		if !share.Amount.Equal(d(want[i])) {
			t.Errorf("share %d = %s, want %s", i, share.Amount, want[i])
		}
		total = total.Add(share.Amount)
	}
	if !total.Equal(e.BaseAmount) {
		t.Errorf("stored shares sum %s, base %s", total, e.BaseAmount)
	}
}

func TestUpdateReplacesShares(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, f.alice, f.equalRequest("20",
		ShareRequest{MemberID: f.alice, Amount: d("10")},
		ShareRequest{MemberID: f.bob, Amount: d("10")},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := f.equalRequest("30",
		ShareRequest{MemberID: f.bob, Amount: d("15")},
		ShareRequest{MemberID: f.carol, Amount: d("15")},
	)
	req.Description = "Groceries and wine"
	updated, err := f.svc.Update(ctx, e.ID, f.bob, req)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Description != "Groceries and wine" || !updated.BaseAmount.Equal(d("30")) {
		t.Errorf("unexpected expense: %+v", updated)
	}
	if len(updated.Shares) != 2 || updated.Shares[0].MemberID != f.bob || updated.Shares[1].MemberID != f.carol {
		t.Errorf("shares not replaced: %+v", updated.Shares)
	}
	if got := f.countShares(t, e.ID); got != 2 {
		t.Errorf("stored shares = %d, want 2", got)
	}
	if !updated.CreatedAt.Equal(e.CreatedAt) || !updated.OccurredAt.Equal(e.OccurredAt) {
		t.Error("update changed created_at or occurred_at")
	}
}

func TestUpdateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, f.alice, f.equalRequest("10", ShareRequest{MemberID: f.alice, Amount: d("10")}))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	other, err := f.groups.Create(ctx, f.alice, &group.CreateGroupRequest{Name: "Other", BaseCurrency: "USD"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	moved := f.equalRequest("10", ShareRequest{MemberID: f.alice, Amount: d("10")})
	moved.GroupID = other.ID
	if _, err := f.svc.Update(ctx, e.ID, f.alice, moved); !errors.Is(err, ErrExpenseGroupImmutable) {
		t.Errorf("moving group: error = %v, want %v", err, ErrExpenseGroupImmutable)
	}

	valid := f.equalRequest("10", ShareRequest{MemberID: f.alice, Amount: d("10")})
	if _, err := f.svc.Update(ctx, "missing", f.alice, valid); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("missing expense: error = %v, want %v", err, ErrExpenseNotFound)
	}
	if _, err := f.svc.Update(ctx, e.ID, f.outsider, valid); !errors.Is(err, group.ErrAccessDenied) {
		t.Errorf("outsider: error = %v, want %v", err, group.ErrAccessDenied)
	}

	bad := f.equalRequest("10", ShareRequest{MemberID: f.alice, Amount: d("9")})
	if _, err := f.svc.Update(ctx, e.ID, f.alice, bad); !errors.Is(err, split.ErrShareTotalMismatch) {
		t.Errorf("bad shares: error = %v, want %v", err, split.ErrShareTotalMismatch)
	}
	if got := f.countShares(t, e.ID); got != 1 {
		t.Errorf("failed update touched shares: %d stored", got)
	}
}

func TestDeleteExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, f.alice, f.equalRequest("10",
		ShareRequest{MemberID: f.alice, Amount: d("5")},
		ShareRequest{MemberID: f.bob, Amount: d("5")},
	))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.svc.Delete(ctx, e.ID, f.outsider); !errors.Is(err, group.ErrAccessDenied) {
		t.Errorf("outsider delete: error = %v", err)
	}
	if err := f.svc.Delete(ctx, e.ID, f.bob); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.svc.GetByID(ctx, e.ID, f.alice); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("GetByID after delete: error = %v", err)
	}
	if got := f.countShares(t, e.ID); got != 0 {
		t.Errorf("shares left after delete: %d", got)
	}
	if err := f.svc.Delete(ctx, e.ID, f.bob); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("second delete: error = %v", err)
	}
}

func TestListExpenses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		occurred := base.Add(time.Duration(i) * time.Hour)
		req := f.equalRequest("10", ShareRequest{MemberID: f.alice, Amount: d("10")})
		req.OccurredAt = &occurred
		if _, err := f.svc.Create(ctx, f.alice, req); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	shared := f.equalRequest("10", ShareRequest{MemberID: f.bob, Amount: d("10")})
	if _, err := f.svc.Create(ctx, f.alice, shared); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	page, total, err := f.svc.ListByGroupID(ctx, f.groupID, f.carol, 1, 2)
	if err != nil {
		t.Fatalf("ListByGroupID() error = %v", err)
	}
	if total != 4 || len(page) != 2 {
		t.Errorf("page = %d items, total %d", len(page), total)
	}
	if page[0].OccurredAt.Before(page[1].OccurredAt) {
		t.Error("expenses not newest first")
	}
	if _, _, err := f.svc.ListByGroupID(ctx, f.groupID, f.outsider, 1, 20); !errors.Is(err, group.ErrAccessDenied) {
		t.Errorf("outsider list: error = %v", err)
	}

	mine, err := f.svc.ListMine(ctx, f.bob)
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("bob sees %d expenses, want 1", len(mine))
	}
	mine, err = f.svc.ListMine(ctx, f.carol)
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("carol sees %d expenses, want 0", len(mine))
	}
}

func TestAllocatePreview(t *testing.T) {
	f := newFixture(t)

	shares, err := f.svc.Allocate(&AllocateRequest{
		BaseAmount: d("100"),
		SplitMode:  split.ModeShares,
		Shares: []split.Input{
			{MemberID: f.alice, Weight: dp("1")},
			{MemberID: f.bob, Weight: dp("2")},
		},
	})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if !shares[0].Amount.Add(shares[1].Amount).Equal(d("100")) {
		t.Errorf("shares do not sum to base: %+v", shares)
	}

	if _, err := f.svc.Allocate(&AllocateRequest{BaseAmount: d("10"), SplitMode: "HALVES", Shares: []split.Input{{MemberID: f.alice}}}); !errors.Is(err, split.ErrModeInvalid) {
		t.Errorf("unknown mode: error = %v", err)
	}
	if _, err := f.svc.Allocate(&AllocateRequest{BaseAmount: d("0.004"), SplitMode: split.ModeEqual, Shares: []split.Input{{MemberID: f.alice}}}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("sub-cent base: error = %v", err)
	}
}
