package exchange

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"tradeloop/internal/strategy"
)

func TestSimulatedExecutorRecordsFills(t *testing.T) {
	exec := NewSimulatedExecutor(zap.NewNop())
	ctx := context.Background()

	if err := exec.SubmitMarketOrder(ctx, "BTC/USD", strategy.Buy, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := exec.SubmitMarketOrder(ctx, "BTC/USD", strategy.Sell, 0.25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orders := exec.Orders()
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].Side != strategy.Buy || orders[0].Amount != 0.5 {
		t.Fatalf("unexpected first order: %+v", orders[0])
	}
	if orders[0].ID == orders[1].ID {
		t.Fatalf("expected distinct order IDs")
	}
}

func TestSimulatedExecutorRejectsInvalidSide(t *testing.T) {
	exec := NewSimulatedExecutor(zap.NewNop())

	if err := exec.SubmitMarketOrder(context.Background(), "BTC/USD", strategy.None, 1); err == nil {
		t.Fatalf("expected error for invalid side")
	}
	if len(exec.Orders()) != 0 {
		t.Fatalf("expected no orders recorded")
	}
}

func TestSimulatedExecutorHonorsCancelledContext(t *testing.T) {
	exec := NewSimulatedExecutor(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := exec.SubmitMarketOrder(ctx, "BTC/USD", strategy.Buy, 1); err == nil {
		t.Fatalf("expected context error")
	}
}
