package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("document not found")

// Document is a schemaless record body. Values are JSON-normalized scalars
// (string, float64, bool, nil) plus nested maps/slices, so every backend
// yields identical shapes to callers.
type Document map[string]any

// Record pairs a store-assigned id with its document body.
type Record struct {
	ID   string
	Data Document
}

// Store defines the generic document store consumed by the link and tracker
// repositories. Implementations must make AtomicIncrementAndTimestamp a
// single server-side operation: concurrent calls on the same document never
// lose increments.
type Store interface {
	// Insert writes a new document and returns its assigned id.
	Insert(ctx context.Context, collection string, doc Document) (string, error)

	// Get retrieves a single document by id. Returns ErrNotFound on a miss.
	Get(ctx context.Context, collection, id string) (Record, error)

	// QueryEquals returns all documents whose field equals value, in the
	// store's arbitrary order.
	QueryEquals(ctx context.Context, collection, field string, value any) ([]Record, error)

	// AtomicIncrementAndTimestamp increments counterField by one and sets
	// timestampField to the current server time as one indivisible operation.
	AtomicIncrementAndTimestamp(ctx context.Context, collection, id, counterField, timestampField string) error

	// Update merges fields into an existing document. Returns ErrNotFound
	// if the id does not exist.
	Update(ctx context.Context, collection, id string, fields Document) error

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error
}
