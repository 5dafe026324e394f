package market

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// SimulatedFetcher synthesizes a random-walk candle series so the bot can
// run without exchange credentials. Each fetch advances the walk by one
// candle; the ring keeps enough history for the indicator windows.
type SimulatedFetcher struct {
	mu    sync.Mutex
	ring  *CandleRing
	price float64
	vol   float64
	rng   *rand.Rand
	now   func() time.Time
}

func NewSimulatedFetcher(startPrice float64, window int) *SimulatedFetcher {
	f := &SimulatedFetcher{
		ring:  NewCandleRing(window),
		price: startPrice,
		vol:   0.01,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
	// Seed a full window so the first cycle already has indicator history.
	step := time.Minute
	ts := f.now().Add(-time.Duration(window) * step)
	for i := 0; i < window; i++ {
		f.ring.Add(f.next(ts))
		ts = ts.Add(step)
	}
	return f
}

func (f *SimulatedFetcher) next(ts time.Time) Candle {
	open := f.price
	ret := (f.rng.Float64() - 0.5) * 2.0 * f.vol
	closePx := open * (1.0 + ret)
	high := maxf(open, closePx) * (1.0 + f.rng.Float64()*f.vol*0.5)
	low := minf(open, closePx) * (1.0 - f.rng.Float64()*f.vol*0.5)
	f.price = closePx
	return Candle{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePx,
		Volume:    10000 + f.rng.Float64()*5000,
	}
}

func (f *SimulatedFetcher) FetchOHLC(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ring.Add(f.next(f.now()))
	candles := f.ring.Values()
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
