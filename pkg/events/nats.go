package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

const (
	StreamName     = "DECISIONS"
	SubjectEvents  = "DECISIONS.events"
	subjectPattern = "DECISIONS.*"
)

type NatsConfig struct {
	URL     string `yaml:"url"`
	Durable string `yaml:"durable"`
}

// NatsSink publishes decision events to a JetStream stream for durable
// consumption by the audit worker.
type NatsSink struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

func NewNatsSink(cfg *NatsConfig) (*NatsSink, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	// Idempotent; the stream survives restarts.
	if _, err := js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectPattern},
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("add stream %s: %w", StreamName, err)
	}

	return &NatsSink{nc: nc, js: js}, nil
}

func (s *NatsSink) Publish(_ context.Context, ev *DecisionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = s.js.Publish(SubjectEvents, data)
	return err
}

func (s *NatsSink) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
