// Package balance computes per-member net balances for a group and reduces
// them to a short list of transfers.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/money"
)

// Share is the minimal share information needed for balance calculations.
type Share struct {
	MemberID string
	Amount   decimal.Decimal
}

// Expense is the minimal expense information needed for balance calculations.
// Amounts are in the group's base currency.
type Expense struct {
	PaidBy     string
	BaseAmount decimal.Decimal
	Shares     []Share
}

// MemberBalance is one member's position in a group.
// Positive Balance means the member is owed money.
type MemberBalance struct {
	MemberID string
	Balance  decimal.Decimal
	Paid     decimal.Decimal // sum of base amounts paid
	Owed     decimal.Decimal // sum of shares owed
}

// Aggregate credits each payer with the expense's base amount and debits each
// share owner by their share. Every member appears exactly once, in the order
// given, starting from zero; ids outside members are ignored.
//
// Settlements are not applied here.
func Aggregate(members []string, expenses []Expense) []MemberBalance {
	paid := make(map[string]decimal.Decimal, len(members))
	owed := make(map[string]decimal.Decimal, len(members))
	for _, id := range members {
		paid[id] = money.Zero
		owed[id] = money.Zero
	}

	for _, e := range expenses {
		if p, ok := paid[e.PaidBy]; ok {
			paid[e.PaidBy] = p.Add(e.BaseAmount)
		}
		for _, s := range e.Shares {
			if o, ok := owed[s.MemberID]; ok {
				owed[s.MemberID] = o.Add(s.Amount)
			}
		}
	}

	balances := make([]MemberBalance, len(members))
	for i, id := range members {
		balances[i] = MemberBalance{
			MemberID: id,
			Balance:  money.Round(paid[id].Sub(owed[id])),
			Paid:     money.Round(paid[id]),
			Owed:     money.Round(owed[id]),
		}
	}
	return balances
}
