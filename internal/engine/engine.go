package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tradeloop/internal/account"
	"tradeloop/internal/config"
	"tradeloop/internal/exchange"
	"tradeloop/internal/indicator"
	"tradeloop/internal/ledger"
	"tradeloop/internal/market"
	"tradeloop/internal/risk"
	"tradeloop/internal/strategy"
)

// Cycle outcome labels written to the audit log and surfaced in status.
const (
	resultFetchFailed         = "fetch_failed"
	resultInsufficientHistory = "insufficient_history"
	resultNoSignal            = "no_signal"
	resultSizingRejected      = "sizing_rejected"
	resultOrderFailed         = "order_failed"
	resultOpenRejected        = "open_rejected"
	resultPositionOpened      = "position_opened"
)

// Status is the point-in-time view served to the control surface.
type Status struct {
	Running        bool                `json:"running"`
	Mode           string              `json:"mode"`
	Symbol         string              `json:"symbol"`
	Balance        float64             `json:"balance"`
	Aggressiveness int                 `json:"aggressiveness"`
	SuccessRate    float64             `json:"success_rate"`
	Positions      []ledger.Position   `json:"positions"`
	LastIndicator  *indicator.Snapshot `json:"last_indicator,omitempty"`
	LastError      string              `json:"last_error,omitempty"`
	LastCycleTime  *time.Time          `json:"last_cycle_time,omitempty"`
}

// Controller drives the poll cycle: fetch, decide, act, settle, report.
// Exactly one loop goroutine runs while the controller is started; the
// controller mutex linearizes cycle mutations against status readers, so a
// reader sees either the pre-cycle or post-cycle state, never a partial
// one.
type Controller struct {
	cfg       config.Config
	fetcher   market.Fetcher
	generator strategy.Generator
	sentiment strategy.SentimentSource
	sizer     risk.Sizer
	executor  exchange.Executor
	ledger    *ledger.Ledger
	account   *account.Account
	cycles    *CycleLogger
	logger    *zap.Logger

	mu        sync.Mutex
	running   bool
	stop      chan struct{}
	done      chan struct{}
	lastSnap  *indicator.Snapshot
	lastErr   string
	lastCycle time.Time
}

func New(cfg config.Config, fetcher market.Fetcher, sentiment strategy.SentimentSource,
	executor exchange.Executor, cycles *CycleLogger, logger *zap.Logger) *Controller {
	if sentiment == nil {
		sentiment = strategy.Neutral{}
	}
	return &Controller{
		cfg:       cfg,
		fetcher:   fetcher,
		generator: strategy.NewGenerator(cfg.Indicators),
		sentiment: sentiment,
		sizer: risk.Sizer{
			MaxTradePercentage: cfg.MaxTradePercentage,
			Aggressiveness:     cfg.Aggressiveness,
		},
		executor: executor,
		ledger:   ledger.New(),
		account:  account.New(cfg.StartingBalance, cfg.Aggressiveness),
		cycles:   cycles,
		logger:   logger,
	}
}

// Start transitions Stopped to Running and spawns the loop. Calling Start
// on a running controller is a no-op; a second loop is never spawned.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	stop := c.stop
	prev := c.done
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	c.logger.Info("run loop started",
		zap.String("symbol", c.cfg.Symbol),
		zap.Duration("interval", c.cfg.Interval))
	go func() {
		// A restart must not overlap the previous loop's in-flight cycle.
		if prev != nil {
			<-prev
		}
		c.runLoop(stop, done)
	}()
}

// Stop requests the loop to exit. Cooperative: an in-flight cycle
// completes, but the interval sleep is interrupted immediately. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stop)
	c.logger.Info("run loop stop requested")
}

func (c *Controller) runLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		default:
		}
		c.cycle(context.Background())
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// cycle executes one fetch-decide-act-settle pass. Every error here is
// isolated to this cycle; only the audit trail and last-error status carry
// it forward.
func (c *Controller) cycle(ctx context.Context) {
	record := CycleRecord{
		Timestamp: time.Now().UTC(),
		Symbol:    c.cfg.Symbol,
	}
	if c.cycles != nil {
		record.RunID = c.cycles.RunID()
	}

	candles, err := c.fetcher.FetchOHLC(ctx, c.cfg.Symbol, c.cfg.Timeframe, c.cfg.HistoryLimit)
	if err != nil {
		c.logger.Warn("market data fetch failed, skipping cycle", zap.Error(err))
		c.skipCycle(record, resultFetchFailed, err)
		return
	}

	snap, err := indicator.Compute(candles, c.cfg.Indicators)
	if err != nil {
		c.logger.Warn("indicator computation failed, skipping cycle",
			zap.Int("candles", len(candles)), zap.Error(err))
		c.skipCycle(record, resultInsufficientHistory, err)
		return
	}
	record.Close = snap.Close
	record.RSI = snap.RSI
	record.MACD = snap.MACD
	record.BBLow = snap.BBLow
	record.BBHigh = snap.BBHigh

	sentiment, err := c.sentiment.Score(ctx, c.cfg.Symbol)
	if err != nil {
		c.logger.Warn("sentiment source failed, assuming neutral", zap.Error(err))
		sentiment = 0
	}
	record.Sentiment = sentiment

	sig := c.generator.Decide(snap, sentiment)
	record.Action = sig.Action
	record.Reason = sig.Reason

	// Mutation phase: ledger, balance and published status change together
	// behind the lock.
	c.mu.Lock()
	defer c.mu.Unlock()

	result := resultNoSignal
	cycleErr := ""
	if sig.Action != strategy.None {
		result, cycleErr = c.act(ctx, sig, snap, &record)
	}

	c.ledger.UpdatePnL(snap.Close)
	closed := c.ledger.Manage(snap.Close)
	for _, pos := range closed {
		settlement := pos.Settlement()
		c.account.Credit(settlement)
		c.logger.Info("position closed",
			zap.String("position_id", pos.ID),
			zap.String("action", string(pos.Action)),
			zap.Float64("entry_price", pos.EntryPrice),
			zap.Float64("close_price", snap.Close),
			zap.Float64("pnl", pos.PnL),
			zap.Float64("settlement", settlement))
	}
	record.Closed = len(closed)
	record.Result = result
	record.Error = cycleErr
	record.Balance = c.account.Balance()

	c.lastSnap = &snap
	c.lastErr = cycleErr
	c.lastCycle = record.Timestamp

	if c.cycles != nil {
		c.cycles.Append(record)
	}
	c.logger.Info("cycle complete",
		zap.Float64("close", snap.Close),
		zap.Float64("rsi", snap.RSI),
		zap.String("action", string(sig.Action)),
		zap.String("result", result),
		zap.Int("closed", len(closed)),
		zap.Float64("balance", record.Balance))
}

// act sizes and submits the order, then records the position. An order
// failure leaves the ledger untouched.
func (c *Controller) act(ctx context.Context, sig strategy.Signal, snap indicator.Snapshot, record *CycleRecord) (string, string) {
	amount, err := c.sizer.Amount(c.account.Balance(), snap.Close)
	if err != nil {
		c.logger.Warn("sizing rejected, treating signal as none",
			zap.String("action", string(sig.Action)), zap.Error(err))
		return resultSizingRejected, err.Error()
	}
	record.Amount = amount

	if err := c.executor.SubmitMarketOrder(ctx, c.cfg.Symbol, sig.Action, amount); err != nil {
		c.logger.Error("order submission failed, position not recorded", zap.Error(err))
		return resultOrderFailed, err.Error()
	}

	pos, err := c.ledger.Open(sig.Action, snap.Close, amount, sig.Reason,
		c.cfg.Risk.StopLossPercentage, c.cfg.Risk.TakeProfitPercentage)
	if err != nil {
		c.logger.Error("ledger rejected position", zap.Error(err))
		return resultOpenRejected, err.Error()
	}

	c.logger.Info("position opened",
		zap.String("position_id", pos.ID),
		zap.String("action", string(pos.Action)),
		zap.Float64("entry_price", pos.EntryPrice),
		zap.Float64("amount", pos.Amount),
		zap.Float64("stop_loss", pos.StopLoss),
		zap.Float64("take_profit", pos.TakeProfit),
		zap.String("reason", pos.Reason))
	return resultPositionOpened, ""
}

func (c *Controller) skipCycle(record CycleRecord, result string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record.Result = result
	record.Error = err.Error()
	record.Balance = c.account.Balance()
	c.lastErr = err.Error()
	c.lastCycle = record.Timestamp
	if c.cycles != nil {
		c.cycles.Append(record)
	}
}

// Status reports a consistent snapshot; it never observes a cycle halfway.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status{
		Running:        c.running,
		Mode:           string(c.cfg.Mode),
		Symbol:         c.cfg.Symbol,
		Balance:        c.account.Balance(),
		Aggressiveness: c.account.Aggressiveness(),
		SuccessRate:    c.ledger.SuccessRate(),
		Positions:      c.ledger.Positions(),
		LastIndicator:  c.lastSnap,
		LastError:      c.lastErr,
	}
	if !c.lastCycle.IsZero() {
		t := c.lastCycle
		status.LastCycleTime = &t
	}
	return status
}
