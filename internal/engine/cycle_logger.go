package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"tradeloop/internal/strategy"
)

// CycleRecord is one ndjson row per completed (or skipped) cycle: the
// indicator row the bot saw, what it decided, and where the balance ended.
type CycleRecord struct {
	RunID     string          `json:"run_id"`
	Timestamp time.Time       `json:"timestamp"`
	Symbol    string          `json:"symbol"`
	Close     float64         `json:"close,omitempty"`
	RSI       float64         `json:"rsi,omitempty"`
	MACD      float64         `json:"macd,omitempty"`
	BBLow     float64         `json:"bb_low,omitempty"`
	BBHigh    float64         `json:"bb_high,omitempty"`
	Sentiment float64         `json:"sentiment,omitempty"`
	Action    strategy.Action `json:"action,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Amount    float64         `json:"amount,omitempty"`
	Result    string          `json:"result"`
	Error     string          `json:"error,omitempty"`
	Closed    int             `json:"closed_positions,omitempty"`
	Balance   float64         `json:"balance"`
}

type CycleLogger struct {
	runID  string
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

func NewCycleLogger(path string, runID string) (*CycleLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &CycleLogger{
		runID:  runID,
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (c *CycleLogger) RunID() string {
	return c.runID
}

func (c *CycleLogger) Append(record CycleRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, err := json.Marshal(record)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal cycle record: %v\n", err)
		return
	}
	if _, err := c.writer.Write(append(payload, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write cycle record: %v\n", err)
		return
	}
	if err := c.writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush cycle log: %v\n", err)
	}
}

func (c *CycleLogger) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writer.Flush(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}
