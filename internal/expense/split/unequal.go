package split

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/money"
)

// =============================================================================
// UNEQUAL SPLIT STRATEGY
// Members owe arbitrary amounts; only the total is checked
// =============================================================================

// UnequalStrategy implements the Strategy interface for free-form splits
type UnequalStrategy struct{}

// Mode returns the split mode identifier
func (s *UnequalStrategy) Mode() Mode {
	return ModeUnequal
}

// Validate has nothing to add beyond the common checks
func (s *UnequalStrategy) Validate(base decimal.Decimal, shares []Share) error {
	return nil
}

// Allocate echoes the supplied amounts rounded to the cent
func (s *UnequalStrategy) Allocate(base decimal.Decimal, inputs []Input) ([]Share, error) {
	shares := make([]Share, len(inputs))
	for i, in := range inputs {
		if in.Amount == nil {
			return nil, ErrAmountMissing
		}
		shares[i] = Share{MemberID: in.MemberID, Amount: money.Round(*in.Amount)}
	}
	return shares, nil
}
