package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeloop/internal/strategy"
)

// SimulatedOrder is a filled order recorded by the simulated executor.
type SimulatedOrder struct {
	ID     string
	Symbol string
	Side   strategy.Action
	Amount float64
	At     time.Time
}

// SimulatedExecutor fills every order instantly and keeps the fill history
// so simulate mode can be inspected and tested.
type SimulatedExecutor struct {
	mu     sync.Mutex
	orders []SimulatedOrder
	logger *zap.Logger
}

func NewSimulatedExecutor(logger *zap.Logger) *SimulatedExecutor {
	return &SimulatedExecutor{logger: logger}
}

func (e *SimulatedExecutor) SubmitMarketOrder(ctx context.Context, symbol string, side strategy.Action, amount float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := parseSide(side); err != nil {
		return err
	}

	order := SimulatedOrder{
		ID:     uuid.NewString(),
		Symbol: symbol,
		Side:   side,
		Amount: amount,
		At:     time.Now().UTC(),
	}

	e.mu.Lock()
	e.orders = append(e.orders, order)
	e.mu.Unlock()

	e.logger.Info("simulated order filled",
		zap.String("order_id", order.ID),
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("amount", amount))
	return nil
}

// Orders returns a copy of the fill history.
func (e *SimulatedExecutor) Orders() []SimulatedOrder {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SimulatedOrder, len(e.orders))
	copy(out, e.orders)
	return out
}
