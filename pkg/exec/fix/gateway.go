// Package fixgateway submits order intents to the execution venue over a
// FIX 4.4 session as NewOrderSingle messages.
package fixgateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/pkg/engine"
)

var errSessionNotReady = errors.New("fix session not logged on")

type Config struct {
	ConfigFilepath string `yaml:"config_filepath"`
}

type Gateway struct {
	cfg       *Config
	log       *zap.SugaredLogger
	app       *Application
	initiator *quickfix.Initiator
}

func NewGateway(cfg *Config, log *zap.SugaredLogger) *Gateway {
	return &Gateway{cfg: cfg, log: log}
}

// Start parses the session settings file and brings the initiator up. The
// session logs on in the background; Submit fails cleanly until it has.
func (g *Gateway) Start(ctx context.Context) error {
	raw, err := os.ReadFile(g.cfg.ConfigFilepath)
	if err != nil {
		return fmt.Errorf("read fix settings %s: %w", g.cfg.ConfigFilepath, err)
	}
	settings, err := quickfix.ParseSettings(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse fix settings: %w", err)
	}

	g.app = newApplication(g.log)
	logFactory, err := quickfix.NewFileLogFactory(settings)
	if err != nil {
		return fmt.Errorf("fix log factory: %w", err)
	}

	g.initiator, err = quickfix.NewInitiator(g.app, quickfix.NewMemoryStoreFactory(), settings, logFactory)
	if err != nil {
		return fmt.Errorf("create fix initiator: %w", err)
	}
	if err := g.initiator.Start(); err != nil {
		return fmt.Errorf("start fix initiator: %w", err)
	}

	go func() {
		<-ctx.Done()
		g.initiator.Stop()
	}()
	return nil
}

// Submit maps the decision onto a NewOrderSingle and sends it on the active
// session. Market orders carry no price tag; the decision price stays in the
// logs only.
func (g *Gateway) Submit(_ context.Context, d *engine.Decision) error {
	sessionID := g.app.session()
	if sessionID == nil {
		return errSessionNotReady
	}

	qty, err := decimal.NewFromString(d.Quantity)
	if err != nil {
		return fmt.Errorf("parse decision quantity %q: %w", d.Quantity, err)
	}

	side := enum.Side_BUY
	if d.Side == "S" {
		side = enum.Side_SELL
	}

	clOrdID := uuid.New().String()
	msg := newordersingle.New(
		field.NewClOrdID(clOrdID),
		field.NewSide(side),
		field.NewTransactTime(time.Now().UTC()),
		field.NewOrdType(enum.OrdType_MARKET),
	)
	msg.SetSymbol(d.Symbol)
	msg.SetSecurityExchange(d.Exchange)
	msg.SetOrderQty(qty, 0)
	msg.SetTimeInForce(enum.TimeInForce_IMMEDIATE_OR_CANCEL)

	if err := quickfix.SendToTarget(msg, *sessionID); err != nil {
		return fmt.Errorf("send new order single: %w", err)
	}

	g.log.Infow("new order single sent",
		"cl_ord_id", clOrdID,
		"symbol", d.Symbol,
		"side", d.Side,
		"qty", d.Quantity,
		"decision_price", d.Price,
	)
	return nil
}
