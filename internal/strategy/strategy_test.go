package strategy

import (
	"testing"

	"tradeloop/internal/config"
	"tradeloop/internal/indicator"
)

func testGenerator() Generator {
	return NewGenerator(config.IndicatorConfig{
		RSI:            config.RSIConfig{Period: 14, Oversold: 30, Overbought: 70},
		BollingerBands: config.BollingerConfig{Period: 20, StdDev: 2.0},
	})
}

func TestDecideBuySignal(t *testing.T) {
	gen := testGenerator()
	snap := indicator.Snapshot{RSI: 25, Close: 99, BBLow: 100, BBHigh: 110}

	sig := gen.Decide(snap, 0)
	if sig.Action != Buy {
		t.Fatalf("expected buy, got %s", sig.Action)
	}
	if sig.Reason != "RSI oversold and price near lower Bollinger band" {
		t.Fatalf("unexpected reason: %q", sig.Reason)
	}
}

func TestDecideSellSignal(t *testing.T) {
	gen := testGenerator()
	snap := indicator.Snapshot{RSI: 80, Close: 111, BBLow: 100, BBHigh: 110}

	sig := gen.Decide(snap, 0)
	if sig.Action != Sell {
		t.Fatalf("expected sell, got %s", sig.Action)
	}
	if sig.Reason != "RSI overbought and price near upper Bollinger band" {
		t.Fatalf("unexpected reason: %q", sig.Reason)
	}
}

func TestDecideNoSignal(t *testing.T) {
	gen := testGenerator()
	snap := indicator.Snapshot{RSI: 50, Close: 105, BBLow: 100, BBHigh: 110}

	sig := gen.Decide(snap, 0)
	if sig.Action != None || sig.Reason != "" {
		t.Fatalf("expected none with empty reason, got %s %q", sig.Action, sig.Reason)
	}
}

func TestNegativeSentimentVetoesEverything(t *testing.T) {
	gen := testGenerator()
	snapshots := []indicator.Snapshot{
		{RSI: 25, Close: 99, BBLow: 100, BBHigh: 110},  // would be buy
		{RSI: 80, Close: 111, BBLow: 100, BBHigh: 110}, // would be sell
		{RSI: 50, Close: 105, BBLow: 100, BBHigh: 110}, // already none
	}
	for i, snap := range snapshots {
		sig := gen.Decide(snap, -0.6)
		if sig.Action != None {
			t.Fatalf("snapshot %d: expected veto, got %s", i, sig.Action)
		}
		if sig.Reason != "negative news sentiment" {
			t.Fatalf("snapshot %d: unexpected reason %q", i, sig.Reason)
		}
	}
}

func TestPositiveSentimentAnnotatesReason(t *testing.T) {
	gen := testGenerator()
	snap := indicator.Snapshot{RSI: 25, Close: 99, BBLow: 100, BBHigh: 110}

	sig := gen.Decide(snap, 0.8)
	if sig.Action != Buy {
		t.Fatalf("expected buy, got %s", sig.Action)
	}
	want := "RSI oversold and price near lower Bollinger band; positive news sentiment"
	if sig.Reason != want {
		t.Fatalf("unexpected reason: %q", sig.Reason)
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	gen := testGenerator()
	snap := indicator.Snapshot{RSI: 25, Close: 99, BBLow: 100, BBHigh: 110}

	first := gen.Decide(snap, 0.2)
	for i := 0; i < 10; i++ {
		if got := gen.Decide(snap, 0.2); got != first {
			t.Fatalf("expected identical output, got %+v vs %+v", got, first)
		}
	}
}

func TestExactlyOneActionReturned(t *testing.T) {
	gen := testGenerator()
	snapshots := []indicator.Snapshot{
		{RSI: 25, Close: 99, BBLow: 100, BBHigh: 110},
		{RSI: 80, Close: 111, BBLow: 100, BBHigh: 110},
		{RSI: 25, Close: 111, BBLow: 100, BBHigh: 110}, // oversold but above band
		{RSI: 80, Close: 99, BBLow: 100, BBHigh: 110},  // overbought but below band
		{RSI: 50, Close: 105, BBLow: 100, BBHigh: 110},
	}
	for i, snap := range snapshots {
		sig := gen.Decide(snap, 0)
		switch sig.Action {
		case Buy, Sell, None:
		default:
			t.Fatalf("snapshot %d: unexpected action %q", i, sig.Action)
		}
	}
}
