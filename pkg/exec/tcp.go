// Package exec implements outbound gateways that carry order intents to the
// execution venue.
package exec

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/engine"
)

type TCPConfig struct {
	Addr string `yaml:"addr"`
}

// TCPGateway submits each decision over a short-lived TCP connection as a
// single JSON document and reads one acknowledgement line back. The ack is
// logged, nothing more.
type TCPGateway struct {
	cfg *TCPConfig
	log *zap.SugaredLogger
}

func NewTCPGateway(cfg *TCPConfig, log *zap.SugaredLogger) *TCPGateway {
	return &TCPGateway{cfg: cfg, log: log}
}

func (g *TCPGateway) Start(context.Context) error { return nil }

func (g *TCPGateway) Submit(ctx context.Context, d *engine.Decision) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", g.cfg.Addr)
	if err != nil {
		return fmt.Errorf("dial execution sink: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("send decision: %w", err)
	}

	ack, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && ack == "" {
		return fmt.Errorf("read ack: %w", err)
	}
	g.log.Infow("execution sink acknowledged", "symbol", d.Symbol, "ack", ack)
	return nil
}
