package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/balance"
	"github.com/fkhayef/splitledger/internal/expense/split"
)

// Expense represents an expense paid by one member and shared by others.
// BaseAmount and every share amount are in BaseCurrency.
type Expense struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	Description  string          `json:"description"`
	Notes        *string         `json:"notes,omitempty"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	BaseCurrency string          `json:"base_currency"`
	BaseAmount   decimal.Decimal `json:"base_amount"`
	FXRateUsed   decimal.Decimal `json:"fx_rate_used"`
	PaidBy       string          `json:"paid_by"`
	OccurredAt   time.Time       `json:"occurred_at"`
	SplitMode    split.Mode      `json:"split_mode"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Shares       []*Share        `json:"shares"`

	// Populated via JOIN
	PayerName  string `json:"payer_name,omitempty"`
	PayerEmail string `json:"payer_email,omitempty"`
	GroupName  string `json:"group_name,omitempty"`
}

// Share is one member's portion of an expense
type Share struct {
	ID        string           `json:"id"`
	ExpenseID string           `json:"expense_id"`
	MemberID  string           `json:"member_id"`
	Amount    decimal.Decimal  `json:"amount"`
	Percent   *decimal.Decimal `json:"percent,omitempty"`
	Weight    *decimal.Decimal `json:"weight,omitempty"`
	Position  int              `json:"-"`

	// Populated via JOIN
	MemberName  string `json:"member_name,omitempty"`
	MemberEmail string `json:"member_email,omitempty"`
}

// SplitShares returns the shares in the form the validator checks
func (e *Expense) SplitShares() []split.Share {
	out := make([]split.Share, len(e.Shares))
	for i, s := range e.Shares {
		out[i] = split.Share{MemberID: s.MemberID, Amount: s.Amount, Percent: s.Percent, Weight: s.Weight}
	}
	return out
}

// ToBalance reduces the expense to what the balance aggregator needs
func (e *Expense) ToBalance() balance.Expense {
	shares := make([]balance.Share, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = balance.Share{MemberID: s.MemberID, Amount: s.Amount}
	}
	return balance.Expense{PaidBy: e.PaidBy, BaseAmount: e.BaseAmount, Shares: shares}
}

// ToBalances converts a list of expenses for balance.Aggregate
func ToBalances(expenses []*Expense) []balance.Expense {
	out := make([]balance.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToBalance()
	}
	return out
}
