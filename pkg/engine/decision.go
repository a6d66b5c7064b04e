package engine

import "context"

// Decision is a fully specified order intent in the wire shape the execution
// sink accepts. It is transient: built, possibly dispatched, then dropped.
type Decision struct {
	Symbol   string `json:"Symbol"`
	Exchange string `json:"Exchange"`
	Quantity string `json:"Quantity"`
	Side     string `json:"Side"`  // "B" or "S"
	Price    string `json:"Price"` // always two decimal digits
	Type     string `json:"Type"`  // always "MARKET"
}

type DecisionStatus string

const (
	DecisionSubmitted DecisionStatus = "Submitted"
	DecisionDropped   DecisionStatus = "Dropped"
	DecisionFailed    DecisionStatus = "Failed"
)

// ExecutionGateway submits decisions to the external execution venue.
type ExecutionGateway interface {
	Start(ctx context.Context) error
	Submit(ctx context.Context, d *Decision) error
}

// DecisionReporter observes the outcome of every decision that reached the
// dispatch gate. submitErr is set only for DecisionFailed.
type DecisionReporter interface {
	OnDecision(ctx context.Context, d *Decision, status DecisionStatus, submitErr error)
}
