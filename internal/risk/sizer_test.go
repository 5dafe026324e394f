package risk

import (
	"errors"
	"testing"
)

func TestSizerAmount(t *testing.T) {
	sizer := Sizer{MaxTradePercentage: 25, Aggressiveness: 5}

	amount, err := sizer.Amount(10000, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10000 * 0.25 * 0.5 / 100
	if amount != 12.5 {
		t.Fatalf("expected 12.5, got %f", amount)
	}
}

func TestSizerRejectsNonPositivePrice(t *testing.T) {
	sizer := Sizer{MaxTradePercentage: 25, Aggressiveness: 5}
	for _, price := range []float64{0, -10} {
		if _, err := sizer.Amount(10000, price); !errors.Is(err, ErrInvalidSizing) {
			t.Fatalf("price %.0f: expected ErrInvalidSizing, got %v", price, err)
		}
	}
}

func TestSizerRejectsZeroResult(t *testing.T) {
	cases := []struct {
		name  string
		sizer Sizer
		bal   float64
	}{
		{"zero balance", Sizer{MaxTradePercentage: 25, Aggressiveness: 5}, 0},
		{"zero aggressiveness", Sizer{MaxTradePercentage: 25, Aggressiveness: 0}, 10000},
	}
	for _, tc := range cases {
		if _, err := tc.sizer.Amount(tc.bal, 100); !errors.Is(err, ErrInvalidSizing) {
			t.Fatalf("%s: expected ErrInvalidSizing, got %v", tc.name, err)
		}
	}
}

func TestSizerMonotonicInAggressiveness(t *testing.T) {
	previous := 0.0
	for aggr := 1; aggr <= 10; aggr++ {
		sizer := Sizer{MaxTradePercentage: 25, Aggressiveness: aggr}
		amount, err := sizer.Amount(10000, 100)
		if err != nil {
			t.Fatalf("aggressiveness %d: unexpected error: %v", aggr, err)
		}
		if amount < previous {
			t.Fatalf("aggressiveness %d: amount decreased from %f to %f", aggr, previous, amount)
		}
		previous = amount
	}
}
