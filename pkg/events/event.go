// Package events records the outcome of every decision cycle: live fan-out to
// Redis and NATS JetStream, and durable storage behind the worker.
package events

import (
	"fmt"
	"time"

	"github.com/quangdm/votebook-dev/pkg/engine"
)

// DecisionEvent is the audit record for one decision that reached the
// dispatch gate. The book itself is never persisted; this trail is the only
// durable output of the system.
type DecisionEvent struct {
	EventID   string    `json:"event_id" gorm:"column:event_id;primaryKey"`
	Symbol    string    `json:"symbol" gorm:"column:symbol"`
	Exchange  string    `json:"exchange" gorm:"column:exchange"`
	Side      string    `json:"side" gorm:"column:side"`
	Price     string    `json:"price" gorm:"column:price"`
	Quantity  string    `json:"quantity" gorm:"column:quantity"`
	Status    string    `json:"status" gorm:"column:status"`
	Reason    string    `json:"reason,omitempty" gorm:"column:reason"`
	Timestamp time.Time `json:"timestamp" gorm:"column:ts"`
}

func (DecisionEvent) TableName() string { return "decision_events" }

// NewDecisionEvent builds the audit record for a decision outcome. submitErr
// is recorded as the reason for failed submissions.
func NewDecisionEvent(eventID string, d *engine.Decision, status engine.DecisionStatus, submitErr error, ts time.Time) *DecisionEvent {
	ev := &DecisionEvent{
		EventID:   eventID,
		Symbol:    d.Symbol,
		Exchange:  d.Exchange,
		Side:      d.Side,
		Price:     d.Price,
		Quantity:  d.Quantity,
		Status:    string(status),
		Timestamp: ts,
	}
	if submitErr != nil {
		ev.Reason = submitErr.Error()
	}
	return ev
}

// EventID derives a stable id for deduplication on the consumer side.
func EventID(base string, status engine.DecisionStatus) string {
	return fmt.Sprintf("%s-%s", base, status)
}
