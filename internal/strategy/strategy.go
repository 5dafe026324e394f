package strategy

import (
	"tradeloop/internal/config"
	"tradeloop/internal/indicator"
)

type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
	None Action = "none"
)

// Signal is the outcome of one evaluation: what to do and why.
type Signal struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// Generator turns an indicator snapshot plus a sentiment score into a
// signal. Pure and deterministic: identical inputs always produce the same
// signal.
type Generator struct {
	RSI       config.RSIConfig
	Bollinger config.BollingerConfig
}

func NewGenerator(ind config.IndicatorConfig) Generator {
	return Generator{
		RSI:       ind.RSI,
		Bollinger: ind.BollingerBands,
	}
}

// Decide evaluates the rules in fixed precedence. Strongly negative
// sentiment vetoes every indicator signal; strongly positive sentiment is
// only annotated on the reason.
func (g Generator) Decide(snap indicator.Snapshot, sentiment float64) Signal {
	if sentiment < -0.5 {
		return Signal{Action: None, Reason: "negative news sentiment"}
	}

	switch {
	case snap.RSI < g.RSI.Oversold && snap.Close <= snap.BBLow:
		return Signal{Action: Buy, Reason: withSentimentNote("RSI oversold and price near lower Bollinger band", sentiment)}
	case snap.RSI > g.RSI.Overbought && snap.Close >= snap.BBHigh:
		return Signal{Action: Sell, Reason: withSentimentNote("RSI overbought and price near upper Bollinger band", sentiment)}
	default:
		return Signal{Action: None}
	}
}

func withSentimentNote(reason string, sentiment float64) string {
	if sentiment > 0.5 {
		return reason + "; positive news sentiment"
	}
	return reason
}
