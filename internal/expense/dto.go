package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/member"
	"github.com/fkhayef/splitledger/internal/money"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ExpenseRequest is the body for both create and full-replace update.
// An empty share list or unknown split mode is left to the share validator
// so the caller gets SHARE_REQUIRED or SPLIT_MODE_INVALID.
type ExpenseRequest struct {
	GroupID     string           `json:"group_id" validate:"required"`
	Description string           `json:"description" validate:"required,min=1,max=250"`
	Notes       *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
	Currency    string           `json:"currency" validate:"required,iso4217"`
	Amount      decimal.Decimal  `json:"amount" validate:"gt=0"`
	BaseAmount  *decimal.Decimal `json:"base_amount,omitempty" validate:"omitempty,gt=0"` // defaults to amount × fx_rate_used
	FXRateUsed  decimal.Decimal  `json:"fx_rate_used" validate:"gt=0"`
	PaidBy      string           `json:"paid_by" validate:"required"`
	OccurredAt  *time.Time       `json:"occurred_at,omitempty"`
	SplitMode   split.Mode       `json:"split_mode" validate:"required"`
	Shares      []ShareRequest   `json:"shares" validate:"dive"`
}

// ShareRequest is one proposed share
type ShareRequest struct {
	MemberID string           `json:"member_id" validate:"required"`
	Amount   decimal.Decimal  `json:"amount" validate:"gte=0"`
	Percent  *decimal.Decimal `json:"percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Weight   *decimal.Decimal `json:"weight,omitempty" validate:"omitempty,gte=0"`
}

// AllocateRequest asks for a share preview without writing anything
type AllocateRequest struct {
	BaseAmount decimal.Decimal `json:"base_amount" validate:"gt=0"`
	SplitMode  split.Mode      `json:"split_mode" validate:"required"`
	Shares     []split.Input   `json:"shares"`
}

// ResolvedBaseAmount is the base amount to store: the explicit value when
// given, otherwise amount × fx_rate_used, rounded to the cent
func (r *ExpenseRequest) ResolvedBaseAmount() decimal.Decimal {
	if r.BaseAmount != nil {
		return money.Round(*r.BaseAmount)
	}
	return money.Round(r.Amount.Mul(r.FXRateUsed))
}

// SplitShares returns the proposed shares rounded to the cent, which is
// exactly what gets stored
func (r *ExpenseRequest) SplitShares() []split.Share {
	out := make([]split.Share, len(r.Shares))
	for i, s := range r.Shares {
		out[i] = split.Share{MemberID: s.MemberID, Amount: money.Round(s.Amount), Percent: s.Percent, Weight: s.Weight}
	}
	return out
}

// checkAmounts rejects amounts that round to zero at the cent
func (r *ExpenseRequest) checkAmounts() error {
	if !money.Round(r.Amount).IsPositive() {
		return apperror.Validation("amount must be at least 0.01")
	}
	if !r.ResolvedBaseAmount().IsPositive() {
		return apperror.Validation("base_amount must be at least 0.01")
	}
	return nil
}

// GroupSummary identifies the group an expense belongs to
type GroupSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID           string           `json:"id"`
	GroupID      string           `json:"group_id"`
	Group        *GroupSummary    `json:"group,omitempty"`
	Description  string           `json:"description"`
	Notes        *string          `json:"notes,omitempty"`
	Currency     string           `json:"currency"`
	Amount       decimal.Decimal  `json:"amount"`
	BaseCurrency string           `json:"base_currency"`
	BaseAmount   decimal.Decimal  `json:"base_amount"`
	FXRateUsed   decimal.Decimal  `json:"fx_rate_used"`
	PaidBy       member.Summary   `json:"paid_by"`
	OccurredAt   string           `json:"occurred_at"`
	SplitMode    split.Mode       `json:"split_mode"`
	Shares       []*ShareResponse `json:"shares"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

// ShareResponse represents the response for a share
type ShareResponse struct {
	ID      string           `json:"id"`
	Member  member.Summary   `json:"member"`
	Amount  decimal.Decimal  `json:"amount"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
	Weight  *decimal.Decimal `json:"weight,omitempty"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Description:  e.Description,
		Notes:        e.Notes,
		Currency:     e.Currency,
		Amount:       e.Amount,
		BaseCurrency: e.BaseCurrency,
		BaseAmount:   e.BaseAmount,
		FXRateUsed:   e.FXRateUsed,
		PaidBy:       member.Summary{ID: e.PaidBy, Name: e.PayerName, Email: e.PayerEmail},
		OccurredAt:   e.OccurredAt.UTC().Format(timeFormat),
		SplitMode:    e.SplitMode,
		Shares:       make([]*ShareResponse, len(e.Shares)),
		CreatedAt:    e.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:    e.UpdatedAt.UTC().Format(timeFormat),
	}
	if e.GroupName != "" {
		resp.Group = &GroupSummary{ID: e.GroupID, Name: e.GroupName}
	}
	for i, s := range e.Shares {
		resp.Shares[i] = s.ToResponse()
	}
	return resp
}

// ToResponse converts a Share model to a ShareResponse DTO
func (s *Share) ToResponse() *ShareResponse {
	return &ShareResponse{
		ID:      s.ID,
		Member:  member.Summary{ID: s.MemberID, Name: s.MemberName, Email: s.MemberEmail},
		Amount:  s.Amount,
		Percent: s.Percent,
		Weight:  s.Weight,
	}
}

// ToResponses converts a list of expenses
func ToResponses(expenses []*Expense) []*ExpenseResponse {
	out := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToResponse()
	}
	return out
}
