package market

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// AlpacaFetcher pulls crypto candles from the Alpaca market data API.
type AlpacaFetcher struct {
	client   *marketdata.Client
	logger   *zap.Logger
	maxTries uint
}

func NewAlpacaFetcher(apiKey, apiSecret string, logger *zap.Logger) *AlpacaFetcher {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})
	return &AlpacaFetcher{
		client:   client,
		logger:   logger,
		maxTries: 3,
	}
}

func (f *AlpacaFetcher) FetchOHLC(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	tf, step, err := parseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	req := marketdata.GetCryptoBarsRequest{
		TimeFrame: tf,
		// Padded lookback; the API trims to TotalLimit most-recent bars.
		Start:      time.Now().Add(-step * time.Duration(limit*2)),
		TotalLimit: limit,
	}

	operation := func() ([]marketdata.CryptoBar, error) {
		return f.client.GetCryptoBars(symbol, req)
	}
	notify := func(err error, wait time.Duration) {
		f.logger.Warn("market data fetch retry",
			zap.String("symbol", symbol),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	bars, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(f.maxTries),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, fmt.Errorf("fetch crypto bars %s: %w", symbol, err)
	}

	candles := make([]Candle, 0, len(bars))
	for _, bar := range bars {
		candles = append(candles, Candle{
			Timestamp: bar.Timestamp,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
		})
	}
	return candles, nil
}

func parseTimeframe(value string) (marketdata.TimeFrame, time.Duration, error) {
	switch value {
	case "1m":
		return marketdata.NewTimeFrame(1, marketdata.Min), time.Minute, nil
	case "5m":
		return marketdata.NewTimeFrame(5, marketdata.Min), 5 * time.Minute, nil
	case "15m":
		return marketdata.NewTimeFrame(15, marketdata.Min), 15 * time.Minute, nil
	case "1h":
		return marketdata.NewTimeFrame(1, marketdata.Hour), time.Hour, nil
	case "1d":
		return marketdata.NewTimeFrame(1, marketdata.Day), 24 * time.Hour, nil
	default:
		return marketdata.TimeFrame{}, 0, fmt.Errorf("unsupported timeframe: %s", value)
	}
}
