package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

// Handler receives every valid market update in feed order.
type Handler func(ctx context.Context, u *Update)

type FeedConfig struct {
	Source string       `yaml:"source"` // "tcp" or "kafka"
	TCP    *TCPConfig   `yaml:"tcp"`
	Kafka  *KafkaConfig `yaml:"kafka"`
}

type TCPConfig struct {
	Addr string `yaml:"addr"`
}

// TCPSource consumes newline-delimited JSON updates from a market data feed
// socket, reconnecting with exponential backoff when the peer goes away.
type TCPSource struct {
	cfg     *TCPConfig
	handler Handler
	log     *zap.SugaredLogger
}

func NewTCPSource(cfg *TCPConfig, handler Handler, log *zap.SugaredLogger) *TCPSource {
	return &TCPSource{cfg: cfg, handler: handler, log: log}
}

// Run blocks until ctx is cancelled. A dropped connection triggers a fresh
// dial with exponential backoff; a malformed record is logged and skipped
// without disturbing the stream.
func (s *TCPSource) Run(ctx context.Context) error {
	eb := backoff.NewExponentialBackOff()
	eb.MaxElapsedTime = 0 // keep reconnecting until shutdown
	boff := backoff.WithContext(eb, ctx)

	return backoff.Retry(func() error {
		return s.consume(ctx)
	}, boff)
}

func (s *TCPSource) consume(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		s.log.Warnw("market feed dial failed", "addr", s.cfg.Addr, "err", err)
		return err
	}
	defer conn.Close()
	s.log.Infow("connected to market feed", "addr", s.cfg.Addr)

	go func() {
		// Unblock the read loop on shutdown.
		<-ctx.Done()
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		u, err := ParseUpdate(line)
		if err != nil {
			s.log.Warnw("skipping malformed update", "err", err)
			continue
		}
		s.handler(ctx, u)
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("market feed read: %w", err)
	}
	// Orderly EOF from the peer; reconnect.
	return errors.New("market feed closed by peer")
}
