package indicator

import (
	"errors"
	"time"

	talib "github.com/markcheno/go-talib"

	"tradeloop/internal/config"
	"tradeloop/internal/market"
)

// ErrInsufficientHistory means the candle series is shorter than the largest
// configured indicator window. The cycle that hits it is skipped.
var ErrInsufficientHistory = errors.New("insufficient history for indicator windows")

// Snapshot is the single indicator row the strategy consumes each cycle:
// the latest close with RSI, MACD histogram and Bollinger band bounds.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Close     float64   `json:"close"`
	RSI       float64   `json:"rsi"`
	MACD      float64   `json:"macd"`
	BBLow     float64   `json:"bb_low"`
	BBHigh    float64   `json:"bb_high"`
}

// Compute runs RSI, MACD and Bollinger Bands over the close series and
// returns the last aligned row.
func Compute(candles []market.Candle, cfg config.IndicatorConfig) (Snapshot, error) {
	if len(candles) < config.MinHistory(cfg) {
		return Snapshot{}, ErrInsufficientHistory
	}

	closes := market.Closes(candles)
	last := len(closes) - 1

	rsi := talib.Rsi(closes, cfg.RSI.Period)
	_, _, hist := talib.Macd(closes, cfg.MACD.FastPeriod, cfg.MACD.SlowPeriod, cfg.MACD.SignalPeriod)
	upper, _, lower := talib.BBands(closes, cfg.BollingerBands.Period,
		cfg.BollingerBands.StdDev, cfg.BollingerBands.StdDev, talib.SMA)

	return Snapshot{
		Timestamp: candles[last].Timestamp,
		Close:     closes[last],
		RSI:       rsi[last],
		MACD:      hist[last],
		BBLow:     lower[last],
		BBHigh:    upper[last],
	}, nil
}
