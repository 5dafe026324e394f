package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tradeloop/internal/strategy"
)

// Position is one directional trade. Entry fields are fixed at open; PnL is
// recomputed on every price update; Open flips to false exactly once.
type Position struct {
	ID         string          `json:"id"`
	Action     strategy.Action `json:"action"`
	EntryPrice float64         `json:"entry_price"`
	Amount     float64         `json:"amount"`
	Reason     string          `json:"reason"`
	PnL        float64         `json:"pnl"`
	Open       bool            `json:"is_open"`
	StopLoss   float64         `json:"stop_loss"`
	TakeProfit float64         `json:"take_profit"`
	OpenedAt   time.Time       `json:"opened_at"`
	ClosedAt   time.Time       `json:"closed_at,omitempty"`
}

// Settlement returns the balance credit owed when the position closes:
// principal plus realized PnL.
func (p Position) Settlement() float64 {
	return p.EntryPrice*p.Amount + p.PnL
}

// Ledger owns every position the bot has opened, closed ones included.
// Nothing is ever deleted; closed positions remain for reporting.
type Ledger struct {
	mu        sync.Mutex
	positions []*Position
}

func New() *Ledger {
	return &Ledger{}
}

// Open records a new position and derives its stop-loss/take-profit
// thresholds from the entry price and configured percentages.
func (l *Ledger) Open(action strategy.Action, price, amount float64, reason string, slPct, tpPct float64) (Position, error) {
	if action != strategy.Buy && action != strategy.Sell {
		return Position{}, fmt.Errorf("cannot open position with action %q", action)
	}
	if price <= 0 {
		return Position{}, fmt.Errorf("cannot open position at price %.4f", price)
	}
	if amount <= 0 {
		return Position{}, fmt.Errorf("cannot open position with amount %.8f", amount)
	}

	pos := &Position{
		ID:         uuid.NewString(),
		Action:     action,
		EntryPrice: price,
		Amount:     amount,
		Reason:     reason,
		Open:       true,
		OpenedAt:   time.Now().UTC(),
	}
	if action == strategy.Buy {
		pos.StopLoss = price * (1 - slPct)
		pos.TakeProfit = price * (1 + tpPct)
	} else {
		pos.StopLoss = price * (1 + slPct)
		pos.TakeProfit = price * (1 - tpPct)
	}

	l.mu.Lock()
	l.positions = append(l.positions, pos)
	l.mu.Unlock()
	return *pos, nil
}

// UpdatePnL recomputes PnL for every position against the current price,
// closed ones included; settlement is frozen at close, the mark is not.
func (l *Ledger) UpdatePnL(price float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, pos := range l.positions {
		pos.PnL = unrealized(pos.Action, pos.EntryPrice, pos.Amount, price)
	}
}

// Manage closes every open position whose stop-loss or take-profit
// triggered at the current price, finalizing its PnL at that price. It
// returns the newly closed positions; a position can never close twice.
func (l *Ledger) Manage(price float64) []Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	var closed []Position
	for _, pos := range l.positions {
		if !pos.Open {
			continue
		}
		if !triggered(pos, price) {
			continue
		}
		pos.PnL = unrealized(pos.Action, pos.EntryPrice, pos.Amount, price)
		pos.Open = false
		pos.ClosedAt = time.Now().UTC()
		closed = append(closed, *pos)
	}
	return closed
}

// Positions returns a point-in-time copy, oldest first.
func (l *Ledger) Positions() []Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Position, len(l.positions))
	for i, pos := range l.positions {
		out[i] = *pos
	}
	return out
}

func (l *Ledger) OpenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, pos := range l.positions {
		if pos.Open {
			count++
		}
	}
	return count
}

// SuccessRate is the percentage of positions with non-negative PnL, or 0
// when nothing has been opened yet.
func (l *Ledger) SuccessRate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.positions) == 0 {
		return 0
	}
	wins := 0
	for _, pos := range l.positions {
		if pos.PnL >= 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(l.positions)) * 100
}

func unrealized(action strategy.Action, entry, amount, price float64) float64 {
	if action == strategy.Buy {
		return (price - entry) * amount
	}
	return (entry - price) * amount
}

func triggered(pos *Position, price float64) bool {
	if pos.Action == strategy.Buy {
		return price <= pos.StopLoss || price >= pos.TakeProfit
	}
	return price >= pos.StopLoss || price <= pos.TakeProfit
}
