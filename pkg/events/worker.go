package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const fetchBatch = 10

// Worker drains the JetStream decision subject into the SQL store. It runs
// in its own process so a slow database never backs up the trading path.
type Worker struct {
	repo EventRepo
	log  *zap.SugaredLogger
}

func NewWorker(repo EventRepo, log *zap.SugaredLogger) *Worker {
	return &Worker{repo: repo, log: log}
}

func (w *Worker) Run(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	sub, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		msgs, err := sub.Fetch(fetchBatch, nats.Context(ctx))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			w.log.Warnw("fetch decision events", "err", err)
			continue
		}

		for _, msg := range msgs {
			var ev DecisionEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				// Poison message; ack it away so it never loops.
				w.log.Warnw("unmarshal decision event", "err", err)
				_ = msg.Ack()
				continue
			}
			if err := w.repo.Create(ctx, &ev); err != nil {
				w.log.Warnw("store decision event", "event_id", ev.EventID, "err", err)
				continue // redelivered later
			}
			_ = msg.Ack()
		}
	}
}
