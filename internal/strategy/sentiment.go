package strategy

import "context"

// SentimentSource scores news sentiment for a symbol in [-1,1]. The engine
// falls back to a neutral score when the source errors, so a flaky provider
// can never veto trading by accident.
type SentimentSource interface {
	Score(ctx context.Context, symbol string) (float64, error)
}

// Neutral is the default SentimentSource: always 0.
type Neutral struct{}

func (Neutral) Score(ctx context.Context, symbol string) (float64, error) {
	return 0, nil
}
