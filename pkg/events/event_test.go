package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/engine"
)

func TestNewDecisionEvent(t *testing.T) {
	d := &engine.Decision{
		Symbol: "AAPL", Exchange: "NASDAQ", Quantity: "30",
		Side: "B", Price: "101.00", Type: "MARKET",
	}
	ts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	ev := NewDecisionEvent("abc-Submitted", d, engine.DecisionSubmitted, nil, ts)
	if ev.Symbol != "AAPL" || ev.Side != "B" || ev.Price != "101.00" || ev.Status != "Submitted" {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Reason != "" {
		t.Errorf("expected empty reason, got %q", ev.Reason)
	}

	ev = NewDecisionEvent("abc-Failed", d, engine.DecisionFailed, errors.New("sink down"), ts)
	if ev.Status != "Failed" || ev.Reason != "sink down" {
		t.Errorf("unexpected failure event %+v", ev)
	}
}

type captureSink struct {
	events []*DecisionEvent
	err    error
}

func (s *captureSink) Publish(_ context.Context, ev *DecisionEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func TestReporterFansOut(t *testing.T) {
	a, b := &captureSink{}, &captureSink{err: errors.New("broker down")}
	r := NewReporter(zap.NewNop().Sugar(), a, b)

	d := &engine.Decision{Symbol: "AAPL", Side: "S", Price: "100.00", Quantity: "50", Type: "MARKET"}
	r.OnDecision(context.Background(), d, engine.DecisionDropped, nil)

	if len(a.events) != 1 || a.events[0].Status != "Dropped" {
		t.Errorf("sink a: expected one Dropped event, got %+v", a.events)
	}
	// The failing sink still got its call and did not abort the fan-out.
	if len(b.events) != 1 {
		t.Errorf("sink b: expected one event despite error, got %d", len(b.events))
	}
}
