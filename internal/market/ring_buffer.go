package market

// CandleRing is a fixed-size rolling window of candles. Once full, the
// oldest candle is overwritten.
type CandleRing struct {
	candles []Candle
	size    int
	index   int
	filled  bool
}

func NewCandleRing(size int) *CandleRing {
	return &CandleRing{
		candles: make([]Candle, size),
		size:    size,
	}
}

func (r *CandleRing) Add(candle Candle) {
	r.candles[r.index] = candle
	r.index = (r.index + 1) % r.size
	if r.index == 0 {
		r.filled = true
	}
}

func (r *CandleRing) Len() int {
	if r.filled {
		return r.size
	}
	return r.index
}

// Values returns the window in chronological order, oldest first.
func (r *CandleRing) Values() []Candle {
	length := r.Len()
	result := make([]Candle, 0, length)
	if length == 0 {
		return result
	}
	if r.filled {
		result = append(result, r.candles[r.index:]...)
	}
	result = append(result, r.candles[:r.index]...)
	return result
}

// Last returns the most recent candle, or false when the ring is empty.
func (r *CandleRing) Last() (Candle, bool) {
	if r.Len() == 0 {
		return Candle{}, false
	}
	last := (r.index - 1 + r.size) % r.size
	return r.candles[last], true
}
