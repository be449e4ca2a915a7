package split

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/money"
)

// =============================================================================
// PERCENT SPLIT STRATEGY
// Each member owes a percentage of the base amount
// =============================================================================

// PercentStrategy implements the Strategy interface for percentage splits
type PercentStrategy struct{}

// Mode returns the split mode identifier
func (s *PercentStrategy) Mode() Mode {
	return ModePercent
}

// Validate checks the percent total before looking at individual shares,
// so a missing percent counts as zero toward the total.
func (s *PercentStrategy) Validate(base decimal.Decimal, shares []Share) error {
	total := money.Zero
	for _, share := range shares {
		if share.Percent != nil {
			total = total.Add(*share.Percent)
		}
	}
	if !money.ApproxEqual(total, money.Hundred) {
		return ErrPercentTotalInvalid
	}

	for _, share := range shares {
		if share.Percent == nil {
			return ErrPercentMissing
		}
		expected := base.Mul(*share.Percent).Div(money.Hundred)
		if !money.ApproxEqual(share.Amount, expected) {
			return ErrPercentMismatch
		}
	}
	return nil
}

// Allocate computes base * percent / 100 for each member
func (s *PercentStrategy) Allocate(base decimal.Decimal, inputs []Input) ([]Share, error) {
	total := money.Zero
	for _, in := range inputs {
		if in.Percent != nil {
			total = total.Add(*in.Percent)
		}
	}
	if !money.ApproxEqual(total, money.Hundred) {
		return nil, ErrPercentTotalInvalid
	}

	targets := make([]decimal.Decimal, len(inputs))
	for i, in := range inputs {
		if in.Percent == nil {
			return nil, ErrPercentMissing
		}
		targets[i] = base.Mul(*in.Percent).Div(money.Hundred)
	}

	amounts := apportion(base, targets)
	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		shares[i] = Share{MemberID: in.MemberID, Amount: amounts[i], Percent: in.Percent}
	}
	return shares, nil
}
