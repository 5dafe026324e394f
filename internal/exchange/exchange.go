package exchange

import (
	"context"

	"tradeloop/internal/strategy"
)

// Executor submits market orders. Fire-and-forget from the engine's point
// of view: a returned error means the order was not placed and the cycle
// must not record a position for it.
type Executor interface {
	SubmitMarketOrder(ctx context.Context, symbol string, side strategy.Action, amount float64) error
}
