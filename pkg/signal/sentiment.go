package signal

import (
	"context"
	"strings"
)

// SentimentSource scores a free-text description plus an auxiliary news code
// into a directional signal. The production scorer is an external service;
// this interface is the injection point so the pipeline and tests can swap in
// deterministic implementations.
type SentimentSource interface {
	Signal(ctx context.Context, text string, newsCode int) (Signal, error)
}

// newsCodeText maps auxiliary news codes to canned snippets appended to the
// description before scoring.
var newsCodeText = map[int]string{
	0:   "",
	50:  "positive news sentiment detected",
	100: "strong positive news sentiment",
}

// LexiconSentiment is a small keyword scorer used when no external sentiment
// service is configured.
type LexiconSentiment struct{}

var (
	positiveWords = []string{"beat", "growth", "positive", "record", "strong", "surge", "upgrade"}
	negativeWords = []string{"downgrade", "drop", "loss", "miss", "negative", "weak", "plunge"}
)

func (LexiconSentiment) Signal(_ context.Context, text string, newsCode int) (Signal, error) {
	combined := strings.ToLower(strings.TrimSpace(text + " " + newsCodeText[newsCode]))
	if combined == "" {
		return SignalNeutral, nil
	}

	var score int
	for _, w := range positiveWords {
		if strings.Contains(combined, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(combined, w) {
			score--
		}
	}

	switch {
	case score > 0:
		return SignalBuy, nil
	case score < 0:
		return SignalSell, nil
	default:
		return SignalNeutral, nil
	}
}
