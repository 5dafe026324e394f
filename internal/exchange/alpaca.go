package exchange

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradeloop/internal/strategy"
)

// AlpacaExecutor places real crypto market orders through the Alpaca
// trading API.
type AlpacaExecutor struct {
	client *alpaca.Client
	logger *zap.Logger
}

func NewAlpacaExecutor(apiKey, apiSecret, baseURL string, logger *zap.Logger) *AlpacaExecutor {
	client := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})
	return &AlpacaExecutor{client: client, logger: logger}
}

func (e *AlpacaExecutor) SubmitMarketOrder(ctx context.Context, symbol string, side strategy.Action, amount float64) error {
	orderSide, err := parseSide(side)
	if err != nil {
		return err
	}

	qty := decimal.NewFromFloat(amount)
	req := alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &qty,
		Side:        orderSide,
		Type:        alpaca.Market,
		TimeInForce: alpaca.GTC,
	}

	order, err := e.client.PlaceOrder(req)
	if err != nil {
		e.logger.Error("place order failed",
			zap.String("symbol", symbol),
			zap.String("side", string(side)),
			zap.Float64("amount", amount),
			zap.Error(err))
		return fmt.Errorf("place %s order for %s: %w", side, symbol, err)
	}

	e.logger.Info("order submitted",
		zap.String("order_id", order.ID),
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("amount", amount),
		zap.String("status", string(order.Status)))
	return nil
}

func parseSide(side strategy.Action) (alpaca.Side, error) {
	switch side {
	case strategy.Buy:
		return alpaca.Buy, nil
	case strategy.Sell:
		return alpaca.Sell, nil
	default:
		return "", fmt.Errorf("unsupported order side: %s", side)
	}
}
