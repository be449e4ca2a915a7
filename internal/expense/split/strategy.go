package split

import (
	"net/http"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/money"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Mode defines how an expense is divided between members
type Mode string

const (
	ModeEqual   Mode = "EQUAL"
	ModeUnequal Mode = "UNEQUAL"
	ModePercent Mode = "PERCENT"
	ModeShares  Mode = "SHARES"
)

// Modes lists every supported mode in display order
var Modes = []Mode{ModeEqual, ModeUnequal, ModePercent, ModeShares}

// Share is one member's portion of an expense, in the group's base currency
type Share struct {
	MemberID string           `json:"member_id"`
	Amount   decimal.Decimal  `json:"amount"`
	Percent  *decimal.Decimal `json:"percent,omitempty"`
	Weight   *decimal.Decimal `json:"weight,omitempty"`
}

// Input describes a member taking part in an allocation.
// Which optional field is read depends on the mode.
type Input struct {
	MemberID string           `json:"member_id"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`  // UNEQUAL
	Percent  *decimal.Decimal `json:"percent,omitempty"` // PERCENT
	Weight   *decimal.Decimal `json:"weight,omitempty"`  // SHARES
}

// Strategy is the per-mode rule set
type Strategy interface {
	// Mode returns the mode identifier for this strategy
	Mode() Mode

	// Validate applies the mode rule to shares that already passed the common checks
	Validate(base decimal.Decimal, shares []Share) error

	// Allocate computes share amounts for the inputs
	Allocate(base decimal.Decimal, inputs []Input) ([]Share, error)
}

// Errors returned by validation, one per failed rule
var (
	ErrShareRequired       = apperror.New(http.StatusBadRequest, "SHARE_REQUIRED", "at least one share is required")
	ErrShareDuplicate      = apperror.New(http.StatusBadRequest, "SHARE_DUPLICATE", "duplicate share member")
	ErrShareTotalMismatch  = apperror.New(http.StatusBadRequest, "SHARE_TOTAL_MISMATCH", "share amounts must equal the base amount")
	ErrEqualInvalid        = apperror.New(http.StatusBadRequest, "EQUAL_INVALID", "equal split requires uniform share amounts")
	ErrPercentTotalInvalid = apperror.New(http.StatusBadRequest, "PERCENT_TOTAL_INVALID", "percent splits must total 100%")
	ErrPercentMissing      = apperror.New(http.StatusBadRequest, "PERCENT_MISSING", "percent splits require a percent on every share")
	ErrPercentMismatch     = apperror.New(http.StatusBadRequest, "PERCENT_MISMATCH", "share amount does not match percent")
	ErrWeightTotalInvalid  = apperror.New(http.StatusBadRequest, "WEIGHT_TOTAL_INVALID", "share splits require positive weights")
	ErrWeightMissing       = apperror.New(http.StatusBadRequest, "WEIGHT_MISSING", "each share must include a positive weight")
	ErrWeightMismatch      = apperror.New(http.StatusBadRequest, "WEIGHT_MISMATCH", "share amount does not match weight")
	ErrModeInvalid         = apperror.New(http.StatusBadRequest, "SPLIT_MODE_INVALID", "unknown split mode")
	ErrAmountMissing       = apperror.New(http.StatusBadRequest, "VALIDATION_ERROR", "unequal splits require an amount on every share")
)

// Factory creates split strategies based on the requested mode
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for mode
func (f *Factory) Create(mode Mode) (Strategy, error) {
	switch mode {
	case ModeEqual:
		return &EqualStrategy{}, nil
	case ModeUnequal:
		return &UnequalStrategy{}, nil
	case ModePercent:
		return &PercentStrategy{}, nil
	case ModeShares:
		return &SharesStrategy{}, nil
	default:
		return nil, ErrModeInvalid.WithMessage("unknown split mode: " + string(mode))
	}
}

// Validate runs the common share checks and then the mode rule.
// The first failing rule is returned; nothing else is reported.
func (f *Factory) Validate(base decimal.Decimal, mode Mode, shares []Share) error {
	if len(shares) == 0 {
		return ErrShareRequired
	}

	seen := make(map[string]struct{}, len(shares))
	total := money.Zero
	for _, s := range shares {
		if _, dup := seen[s.MemberID]; dup {
			return ErrShareDuplicate
		}
		seen[s.MemberID] = struct{}{}
		total = total.Add(s.Amount)
	}

	if !money.ApproxEqual(total, base) {
		return ErrShareTotalMismatch
	}

	strategy, err := f.Create(mode)
	if err != nil {
		return err
	}
	return strategy.Validate(base, shares)
}

// Allocate computes shares for mode and checks the result with Validate
func (f *Factory) Allocate(base decimal.Decimal, mode Mode, inputs []Input) ([]Share, error) {
	if len(inputs) == 0 {
		return nil, ErrShareRequired
	}
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.MemberID]; dup {
			return nil, ErrShareDuplicate
		}
		seen[in.MemberID] = struct{}{}
	}

	strategy, err := f.Create(mode)
	if err != nil {
		return nil, err
	}

	shares, err := strategy.Allocate(money.Round(base), inputs)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(base, mode, shares); err != nil {
		return nil, err
	}
	return shares, nil
}

var defaultFactory = NewFactory()

// Validate checks shares against base using the default factory
func Validate(base decimal.Decimal, mode Mode, shares []Share) error {
	return defaultFactory.Validate(base, mode, shares)
}

// Allocate computes shares using the default factory
func Allocate(base decimal.Decimal, mode Mode, inputs []Input) ([]Share, error) {
	return defaultFactory.Allocate(base, mode, inputs)
}

var cent = decimal.New(1, -2)

// apportion rounds each target down to the cent, then hands out the cents
// left over from base one at a time, largest fractional remainder first.
// Ties keep input order.
func apportion(base decimal.Decimal, targets []decimal.Decimal) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(targets))
	remainders := make([]decimal.Decimal, len(targets))
	allocated := money.Zero
	for i, t := range targets {
		amounts[i] = t.RoundFloor(2)
		remainders[i] = t.Sub(amounts[i])
		allocated = allocated.Add(amounts[i])
	}

	leftover := base.Sub(allocated).Div(cent).Round(0).IntPart()
	if leftover == 0 || len(targets) == 0 {
		return amounts
	}

	order := make([]int, len(targets))
	for i := range order {
		order[i] = i
	}
	step := cent
	if leftover > 0 {
		sort.SliceStable(order, func(a, b int) bool {
			return remainders[order[a]].GreaterThan(remainders[order[b]])
		})
	} else {
		step = cent.Neg()
		leftover = -leftover
		sort.SliceStable(order, func(a, b int) bool {
			return remainders[order[a]].LessThan(remainders[order[b]])
		})
	}

	for i := int64(0); i < leftover; i++ {
		idx := order[int(i)%len(order)]
		amounts[idx] = amounts[idx].Add(step)
	}
	return amounts
}
