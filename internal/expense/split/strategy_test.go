package split

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func share(member, amount string) Share {
	return Share{MemberID: member, Amount: dec(amount)}
}

func pct(member, amount, percent string) Share {
	return Share{MemberID: member, Amount: dec(amount), Percent: ptr(percent)}
}

func weighted(member, amount, weight string) Share {
	return Share{MemberID: member, Amount: dec(amount), Weight: ptr(weight)}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		mode    Mode
		shares  []Share
		wantErr error
	}{
		{"no shares", "100", ModeEqual, nil, ErrShareRequired},
		{"no shares unequal", "100", ModeUnequal, []Share{}, ErrShareRequired},
		{"total off by two cents", "100", ModeUnequal, []Share{share("a", "50"), share("b", "49.98")}, ErrShareTotalMismatch},
		{"total off by one cent", "100", ModeUnequal, []Share{share("a", "50"), share("b", "49.99")}, nil},

		{"equal thirds", "100", ModeEqual, []Share{share("a", "33.34"), share("b", "33.33"), share("c", "33.33")}, nil},
		{"equal uneven amounts", "100", ModeEqual, []Share{share("a", "50"), share("b", "25"), share("c", "25")}, ErrEqualInvalid},
		{"equal single member", "42.10", ModeEqual, []Share{share("a", "42.10")}, nil},

		{"percent halves", "200", ModePercent, []Share{pct("a", "100", "50"), pct("b", "100", "50")}, nil},
		{"percent sums to 99", "200", ModePercent, []Share{pct("a", "100", "49"), pct("b", "100", "50")}, ErrPercentTotalInvalid},
		{"percent sums to 101", "200", ModePercent, []Share{pct("a", "100", "51"), pct("b", "100", "50")}, ErrPercentTotalInvalid},
		{"percent missing on one share", "200", ModePercent, []Share{pct("a", "200", "100"), share("b", "0")}, ErrPercentMissing},
		{"percent missing counts as zero in total", "200", ModePercent, []Share{pct("a", "100", "50"), share("b", "100")}, ErrPercentTotalInvalid},
		{"percent amount mismatch", "200", ModePercent, []Share{pct("a", "100", "60"), pct("b", "100", "40")}, ErrPercentMismatch},
		{"percent thirds", "100", ModePercent, []Share{pct("a", "33.33", "33.33"), pct("b", "33.33", "33.33"), pct("c", "33.34", "33.34")}, nil},

		{"weights two to one", "90", ModeShares, []Share{weighted("a", "60", "2"), weighted("b", "30", "1")}, nil},
		{"weights all missing", "90", ModeShares, []Share{share("a", "45"), share("b", "45")}, ErrWeightTotalInvalid},
		{"weight zero", "90", ModeShares, []Share{weighted("a", "0", "0"), weighted("b", "90", "3")}, ErrWeightMissing},
		{"weight missing", "90", ModeShares, []Share{share("a", "0"), weighted("b", "90", "3")}, ErrWeightMissing},
		{"weight mismatch", "90", ModeShares, []Share{weighted("a", "60", "1"), weighted("b", "30", "1")}, ErrWeightMismatch},

		{"unequal anything summing to base", "100", ModeUnequal, []Share{share("a", "70"), share("b", "30")}, nil},
		{"unknown mode", "100", Mode("BOGUS"), []Share{share("a", "100")}, ErrModeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(dec(tt.base), tt.mode, tt.shares)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateDuplicateInEveryMode(t *testing.T) {
	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			// The total is also wrong; the duplicate must still be reported first.
			shares := []Share{
				{MemberID: "a", Amount: dec("10"), Percent: ptr("50"), Weight: ptr("1")},
				{MemberID: "a", Amount: dec("10"), Percent: ptr("50"), Weight: ptr("1")},
			}
			err := Validate(dec("100"), mode, shares)
			if !errors.Is(err, ErrShareDuplicate) {
				t.Fatalf("expected SHARE_DUPLICATE, got %v", err)
			}
		})
	}
}

func TestAllocate(t *testing.T) {
	t.Run("equal thirds puts the extra cent first", func(t *testing.T) {
		shares, err := Allocate(dec("100"), ModeEqual, []Input{{MemberID: "a"}, {MemberID: "b"}, {MemberID: "c"}})
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		want := []string{"33.34", "33.33", "33.33"}
		for i, s := range shares {
			if !s.Amount.Equal(dec(want[i])) {
				t.Errorf("share %d = %s, want %s", i, s.Amount, want[i])
			}
		}
	})

	t.Run("percent keeps percents on shares", func(t *testing.T) {
		shares, err := Allocate(dec("80"), ModePercent, []Input{
			{MemberID: "a", Percent: ptr("25")},
			{MemberID: "b", Percent: ptr("75")},
		})
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		if !shares[0].Amount.Equal(dec("20")) || !shares[1].Amount.Equal(dec("60")) {
			t.Errorf("got %s/%s, want 20/60", shares[0].Amount, shares[1].Amount)
		}
		if shares[1].Percent == nil || !shares[1].Percent.Equal(dec("75")) {
			t.Error("expected percent to be carried over")
		}
	})

	t.Run("percent total rejected", func(t *testing.T) {
		_, err := Allocate(dec("80"), ModePercent, []Input{
			{MemberID: "a", Percent: ptr("25")},
			{MemberID: "b", Percent: ptr("70")},
		})
		if !errors.Is(err, ErrPercentTotalInvalid) {
			t.Fatalf("expected PERCENT_TOTAL_INVALID, got %v", err)
		}
	})

	t.Run("weights", func(t *testing.T) {
		shares, err := Allocate(dec("90"), ModeShares, []Input{
			{MemberID: "a", Weight: ptr("2")},
			{MemberID: "b", Weight: ptr("1")},
		})
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		if !shares[0].Amount.Equal(dec("60")) || !shares[1].Amount.Equal(dec("30")) {
			t.Errorf("got %s/%s, want 60/30", shares[0].Amount, shares[1].Amount)
		}
	})

	t.Run("unequal requires amounts", func(t *testing.T) {
		_, err := Allocate(dec("90"), ModeUnequal, []Input{{MemberID: "a"}})
		if !errors.Is(err, ErrAmountMissing) {
			t.Fatalf("expected missing amount error, got %v", err)
		}
	})

	t.Run("duplicate input", func(t *testing.T) {
		_, err := Allocate(dec("90"), ModeEqual, []Input{{MemberID: "a"}, {MemberID: "a"}})
		if !errors.Is(err, ErrShareDuplicate) {
			t.Fatalf("expected SHARE_DUPLICATE, got %v", err)
		}
	})
}

func TestAllocateAlwaysValidates(t *testing.T) {
	bases := []string{"0.01", "1", "10", "99.99", "100", "1234.57"}

	for _, base := range bases {
		for n := 1; n <= 9; n++ {
			equal := make([]Input, n)
			weights := make([]Input, n)
			for i := 0; i < n; i++ {
				id := string(rune('a' + i))
				equal[i] = Input{MemberID: id}
				weights[i] = Input{MemberID: id, Weight: ptr(decimal.NewFromInt(int64(i + 1)).String())}
			}

			for mode, inputs := range map[Mode][]Input{ModeEqual: equal, ModeShares: weights} {
				shares, err := Allocate(dec(base), mode, inputs)
				if err != nil {
					t.Fatalf("%s base=%s n=%d: %v", mode, base, n, err)
				}
				sum := money.Zero
				for _, s := range shares {
					sum = sum.Add(s.Amount)
				}
				if !sum.Equal(dec(base)) {
					t.Errorf("%s base=%s n=%d: shares sum to %s", mode, base, n, sum)
				}
			}
		}
	}
}
