package domain

import (
	"context"
)

// Condition is a filter a repository can evaluate either in memory or as a
// SQL WHERE fragment. It is satisfied by *filters.Node; a nil Condition
// matches every event.
type Condition interface {
	Matches(event *Event) bool
	SQL() (where string, args []any)
}

type EventRepository interface {
	Create(ctx context.Context, event *NewEvent) (*Event, error)
	CreateBatch(ctx context.Context, events []NewEvent) (int, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, cond Condition) ([]Event, error)
	Count(ctx context.Context) (int, error)
}

type EventService interface {
	ListEvents(ctx context.Context, filters *FilterState) ([]Event, error)
	ListDisplayEvents(ctx context.Context, filters *FilterState) ([]DisplayEvent, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	CreateEvent(ctx context.Context, event *NewEvent) (*Event, error)
}
