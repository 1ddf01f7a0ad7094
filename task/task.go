package task

import (
	"context"

	"github.com/kbukum/taskflow/storage"
	"github.com/kbukum/taskflow/target"
)

// Task is the unit of work in a pipeline.
//
// Output may return nil for pure wrapper tasks that exist only to aggregate
// dependencies; such a task is complete exactly when all its dependencies
// are complete, and its Run body is never invoked.
type Task interface {
	// Identity returns the kind plus fully-bound parameter values.
	Identity() Identity
	// Requires declares the dependencies that must be complete first.
	Requires() Deps
	// Run performs the task's side effect. The final observable artifact
	// must be produced via a single atomic target commit, or via an
	// operation that is itself idempotent.
	Run(ctx context.Context) error
	// Output returns the primary product, or nil for wrapper tasks.
	Output() target.Target
}

// Completable is the capability interface for tasks whose "done" signal lives
// somewhere other than their output target, e.g. a record in an external
// index. The scheduler only ever consults this interface; it never branches
// on concrete types. Implementations fail soft: an unreachable system of
// record reads as "not complete".
type Completable interface {
	Complete(ctx context.Context) bool
}

// CompletionChecker is an injected predicate answering whether the artifact
// for an identity is already present in an external system of record.
type CompletionChecker interface {
	IsComplete(ctx context.Context, id Identity) bool
}

// StoreChecker checks completion against a storage backend: an identity is
// complete when an object exists under its derived key. Mirrors the pattern
// of deferring completion to an index rather than a filesystem target.
type StoreChecker struct {
	Store storage.Storage
	// KeyFunc derives the object key for an identity. When nil the
	// identity's own key joined under its kind is used.
	KeyFunc func(Identity) string
}

// IsComplete reports whether the object for id exists. Any storage error
// reads as "not complete".
func (c *StoreChecker) IsComplete(ctx context.Context, id Identity) bool {
	if c.Store == nil {
		return false
	}
	key := id.Kind + "/" + id.Key()
	if c.KeyFunc != nil {
		key = c.KeyFunc(id)
	}
	ok, err := c.Store.Exists(ctx, key)
	return err == nil && ok
}
