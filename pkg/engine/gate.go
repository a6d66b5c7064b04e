package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Gate admits at most one decision to the execution gateway at a time. The
// admission check never blocks: a decision arriving while another is in
// flight is dropped outright, not queued or merged. Skipping an opportunity
// beats risking two concurrent orders for the same decision cycle.
type Gate struct {
	gateway  ExecutionGateway
	reporter DecisionReporter
	log      *zap.SugaredLogger

	inflight sync.Mutex
}

func NewGate(gateway ExecutionGateway, reporter DecisionReporter, log *zap.SugaredLogger) *Gate {
	return &Gate{gateway: gateway, reporter: reporter, log: log}
}

// Dispatch attempts to submit d. It reports whether the gate admitted the
// decision; a submit failure is returned but the token is released either
// way once the attempt completes.
func (g *Gate) Dispatch(ctx context.Context, d *Decision) (bool, error) {
	if !g.inflight.TryLock() {
		g.log.Infow("order already in flight, dropping decision",
			"symbol", d.Symbol, "side", d.Side, "price", d.Price)
		g.report(ctx, d, DecisionDropped, nil)
		return false, nil
	}
	defer g.inflight.Unlock()

	if err := g.gateway.Submit(ctx, d); err != nil {
		g.log.Errorw("order submission failed",
			"symbol", d.Symbol, "side", d.Side, "price", d.Price, "err", err)
		g.report(ctx, d, DecisionFailed, err)
		return true, err
	}

	g.log.Infow("order submitted",
		"symbol", d.Symbol, "side", d.Side, "price", d.Price,
		"qty", d.Quantity, "exchange", d.Exchange)
	g.report(ctx, d, DecisionSubmitted, nil)
	return true, nil
}

func (g *Gate) report(ctx context.Context, d *Decision, status DecisionStatus, err error) {
	if g.reporter != nil {
		g.reporter.OnDecision(ctx, d, status, err)
	}
}
