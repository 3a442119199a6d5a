package queue

import (
	"context"
	"errors"

	"github.com/infoshield/infoshield/internal/model"
)

var (
	// ErrNotFound indicates no review record exists for the given id
	ErrNotFound = errors.New("review record not found")

	// ErrAlreadyResolved indicates the record was resolved before;
	// PENDING -> RESOLVED happens exactly once.
	ErrAlreadyResolved = errors.New("review record already resolved")
)

// ReviewQueue is the durable human-review hand-off. Enqueue must be
// durable before it returns: once a caller holds a review id, the case is
// handed off even if the process dies. Records are append-only; resolve
// is the only mutation and never deletes.
type ReviewQueue interface {
	// Enqueue durably appends a record and returns its assigned id.
	// A cancelled context before the commit point means nothing was
	// persisted; there are no partial records.
	Enqueue(ctx context.Context, record model.ReviewRecord) (string, error)

	// List returns records filtered by status; an empty status returns all
	List(status model.ReviewStatus) ([]model.ReviewRecord, error)

	// Resolve transitions a PENDING record to RESOLVED with notes.
	// Fails with ErrNotFound for unknown ids and ErrAlreadyResolved for
	// records already resolved; neither failure changes the queue.
	Resolve(id, notes string) (model.ReviewRecord, error)
}
