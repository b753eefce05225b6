// Package store provides the durable collaborator behind a skill table:
// load a record by key, or save one back. Two implementations are provided
// — an in-memory map for tests and DSN-less runs, and a Postgres-backed one
// for production use.
package store

import "context"

// Record is the durable shape of a skill record, independent of the
// in-memory skill.Record type so this package never imports skill.
type Record struct {
	Mu, Sigma, Gamma float64
}

// Store is the durable persistence contract a skill table's missing policy
// and flush step depend on.
type Store interface {
	// Load fetches the record for key. ok is false when the key has never
	// been saved.
	Load(ctx context.Context, key string) (rec Record, ok bool, err error)
	// Save upserts the record for key.
	Save(ctx context.Context, key string, rec Record) error
}
