package split

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/money"
)

// =============================================================================
// SHARES SPLIT STRATEGY
// Each member owes in proportion to a weight, e.g. 2 shares vs 1 share
// =============================================================================

// SharesStrategy implements the Strategy interface for weighted splits
type SharesStrategy struct{}

// Mode returns the split mode identifier
func (s *SharesStrategy) Mode() Mode {
	return ModeShares
}

func totalWeight[T any](items []T, weight func(T) *decimal.Decimal) decimal.Decimal {
	total := money.Zero
	for _, item := range items {
		if w := weight(item); w != nil {
			total = total.Add(*w)
		}
	}
	return total
}

// Validate requires a positive total, a positive weight on every share,
// and amounts matching base * weight / total.
func (s *SharesStrategy) Validate(base decimal.Decimal, shares []Share) error {
	total := totalWeight(shares, func(s Share) *decimal.Decimal { return s.Weight })
	if !total.IsPositive() {
		return ErrWeightTotalInvalid
	}

	for _, share := range shares {
		if share.Weight == nil || !share.Weight.IsPositive() {
			return ErrWeightMissing
		}
		expected := base.Mul(*share.Weight).Div(total)
		if !money.ApproxEqual(share.Amount, expected) {
			return ErrWeightMismatch
		}
	}
	return nil
}

// Allocate computes base * weight / total for each member
func (s *SharesStrategy) Allocate(base decimal.Decimal, inputs []Input) ([]Share, error) {
	total := totalWeight(inputs, func(in Input) *decimal.Decimal { return in.Weight })
	if !total.IsPositive() {
		return nil, ErrWeightTotalInvalid
	}

	targets := make([]decimal.Decimal, len(inputs))
	for i, in := range inputs {
		if in.Weight == nil || !in.Weight.IsPositive() {
			return nil, ErrWeightMissing
		}
		targets[i] = base.Mul(*in.Weight).Div(total)
	}

	amounts := apportion(base, targets)
	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		shares[i] = Share{MemberID: in.MemberID, Amount: amounts[i], Weight: in.Weight}
	}
	return shares, nil
}
