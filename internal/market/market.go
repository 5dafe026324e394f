package market

import (
	"context"
	"time"
)

// Candle is one OHLCV row, most-recent last in every series this package
// returns.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Fetcher retrieves historical candles for a symbol. Implementations own
// their timeout and retry discipline.
type Fetcher interface {
	FetchOHLC(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error)
}

// Closes extracts the close series from a candle slice, oldest first.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
