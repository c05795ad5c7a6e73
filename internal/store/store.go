package store

import (
	"context"

	"eventtracker/internal/domain"
	"github.com/google/uuid"
)

// EventStore is the storage capability for events. It is deliberately narrow
// so a persistent implementation can replace the in-memory one without
// touching any handler.
//
// All implementations share these conventions:
//
//   - Insert assigns a fresh identifier, stores the draft, and returns the
//     stored event. It fails only on an underlying resource fault, returned
//     as a wrapped error.
//   - Get returns (nil, nil) when no event with that id was ever inserted;
//     a non-nil error always means a storage fault, never "not found".
//   - List returns every stored event matching the query, as an empty (never
//     nil) slice when nothing matches. It observes every Insert that returned
//     before the call began; an Insert still in flight may or may not be
//     observed. Result order is unspecified.
type EventStore interface {
	Insert(ctx context.Context, draft domain.NewEvent) (*domain.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	List(ctx context.Context, q domain.EventQuery) ([]domain.Event, error)
}
