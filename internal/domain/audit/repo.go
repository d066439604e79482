package audit

import (
	"context"

	"github.com/google/uuid"
)

// Recorder is the write side of the trail. Domain services depend on this
// interface only; the trail offers no update or delete.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// Filter narrows an audit query. Zero values mean "any".
type Filter struct {
	ActorID    uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
}

type Repository interface {
	Recorder
	List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error)
}
