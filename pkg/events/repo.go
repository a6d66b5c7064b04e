package events

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepo stores decision events. Backed by Postgres in production.
type EventRepo interface {
	Create(ctx context.Context, ev *DecisionEvent) error
	BulkCreate(ctx context.Context, evs []*DecisionEvent) error
}

type eventSQLRepo struct {
	db *gorm.DB
}

func NewEventSQLRepo(db *gorm.DB) EventRepo {
	return &eventSQLRepo{db: db}
}

// Create inserts one event; replayed events are deduplicated on event_id.
func (r *eventSQLRepo) Create(ctx context.Context, ev *DecisionEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ev).Error
}

func (r *eventSQLRepo) BulkCreate(ctx context.Context, evs []*DecisionEvent) error {
	if len(evs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(evs).Error
}
