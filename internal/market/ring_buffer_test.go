package market

import "testing"

func TestCandleRingKeepsChronologicalOrder(t *testing.T) {
	ring := NewCandleRing(3)
	for i := 1; i <= 5; i++ {
		ring.Add(Candle{Close: float64(i)})
	}

	values := ring.Values()
	if len(values) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(values))
	}
	for i, want := range []float64{3, 4, 5} {
		if values[i].Close != want {
			t.Fatalf("expected close %.0f at index %d, got %.0f", want, i, values[i].Close)
		}
	}
}

func TestCandleRingPartiallyFilled(t *testing.T) {
	ring := NewCandleRing(5)
	ring.Add(Candle{Close: 1})
	ring.Add(Candle{Close: 2})

	if ring.Len() != 2 {
		t.Fatalf("expected len 2, got %d", ring.Len())
	}
	last, ok := ring.Last()
	if !ok || last.Close != 2 {
		t.Fatalf("expected last close 2, got %v ok=%v", last.Close, ok)
	}
}

func TestCandleRingEmpty(t *testing.T) {
	ring := NewCandleRing(4)
	if _, ok := ring.Last(); ok {
		t.Fatalf("expected no last candle on empty ring")
	}
	if len(ring.Values()) != 0 {
		t.Fatalf("expected empty values")
	}
}
