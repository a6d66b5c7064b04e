package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/engine"
)

// Sink publishes one decision event somewhere. Implementations must not
// block the dispatch path indefinitely.
type Sink interface {
	Publish(ctx context.Context, ev *DecisionEvent) error
}

// Reporter fans decision outcomes out to every configured sink. A sink
// failure is logged and never propagates back into the trading path.
type Reporter struct {
	sinks []Sink
	log   *zap.SugaredLogger
}

func NewReporter(log *zap.SugaredLogger, sinks ...Sink) *Reporter {
	return &Reporter{sinks: sinks, log: log}
}

// OnDecision implements engine.DecisionReporter.
func (r *Reporter) OnDecision(ctx context.Context, d *engine.Decision, status engine.DecisionStatus, submitErr error) {
	ev := NewDecisionEvent(EventID(uuid.New().String(), status), d, status, submitErr, time.Now().UTC())
	for _, s := range r.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			r.log.Warnw("decision event publish failed", "event_id", ev.EventID, "err", err)
		}
	}
}
