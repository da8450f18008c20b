package ratelimit

import "context"

// Store persists per-identity daily usage counters, keyed by
// (identity hash, calendar date). Stale rows from prior days are never
// cleaned up automatically - reset is a read-time policy, so a row whose
// date is not today is simply never read.
type Store interface {
	// Increment atomically bumps the counter for (hash, date), creating
	// the row with count 1 when absent. Atomicity is the store's job:
	// concurrent increments for the same key must not lose updates.
	Increment(ctx context.Context, hash, date string) error

	// Get returns the counter for (hash, date); 0 when absent.
	Get(ctx context.Context, hash, date string) (int, error)

	// DeleteAll purges every quota row (administrative action).
	DeleteAll(ctx context.Context) error
}
