package split

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/money"
)

// =============================================================================
// EQUAL SPLIT STRATEGY
// Every member owes the same amount
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Mode returns the split mode identifier
func (s *EqualStrategy) Mode() Mode {
	return ModeEqual
}

// Validate requires every amount to be within a cent of base / n
func (s *EqualStrategy) Validate(base decimal.Decimal, shares []Share) error {
	expected := base.Div(decimal.NewFromInt(int64(len(shares))))
	for _, share := range shares {
		if !money.ApproxEqual(share.Amount, expected) {
			return ErrEqualInvalid
		}
	}
	return nil
}

// Allocate divides base evenly. Leftover cents go to the first members.
func (s *EqualStrategy) Allocate(base decimal.Decimal, inputs []Input) ([]Share, error) {
	each := base.Div(decimal.NewFromInt(int64(len(inputs))))
	targets := make([]decimal.Decimal, len(inputs))
	for i := range inputs {
		targets[i] = each
	}

	amounts := apportion(base, targets)
	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		shares[i] = Share{MemberID: in.MemberID, Amount: amounts[i]}
	}
	return shares, nil
}
