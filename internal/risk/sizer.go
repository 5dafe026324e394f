package risk

import (
	"errors"
	"fmt"
)

// ErrInvalidSizing means no position can be opened this cycle; the caller
// treats the signal as none.
var ErrInvalidSizing = errors.New("invalid sizing")

// Sizer converts account balance into a trade amount. Aggressiveness (0-10)
// and the configured max trade percentage scale how much of the balance a
// single position may commit.
type Sizer struct {
	MaxTradePercentage float64 // (0,100]
	Aggressiveness     int     // [0,10]
}

func (s Sizer) Amount(balance, price float64) (float64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("%w: price %.4f must be positive", ErrInvalidSizing, price)
	}
	amount := balance * (s.MaxTradePercentage / 100) * (float64(s.Aggressiveness) / 10) / price
	if amount <= 0 {
		return 0, fmt.Errorf("%w: computed amount %.8f", ErrInvalidSizing, amount)
	}
	return amount, nil
}
