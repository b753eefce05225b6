package skill

import (
	"context"
	"sort"
	"sync"

	"github.com/openingrank/trueskill/internal/store"
)

// MissingFunc constructs a record for a key the table has never seen,
// optionally consulting a durable store.
type MissingFunc func(ctx context.Context, key string) (Record, error)

// Table is a keyed, lazily-initialized collection of skill records backed
// by a durable Store. It is single-writer: the rating driver is the only
// intended caller of its mutating methods.
type Table struct {
	store   store.Store
	missing MissingFunc

	mu   sync.Mutex
	data map[string]Record
}

// NewTable builds a table over store s (nil is fine — Flush then persists
// nothing)
// using missing to seed unseen keys.
func NewTable(s store.Store, missing MissingFunc) *Table {
	return &Table{store: s, missing: missing, data: make(map[string]Record)}
}

// Get returns the record for key, constructing and caching one via the
// missing policy on first touch.
func (t *Table) Get(ctx context.Context, key string) (Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getLocked(ctx, key)
}

func (t *Table) getLocked(ctx context.Context, key string) (Record, error) {
	if rec, ok := t.data[key]; ok {
		return rec, nil
	}
	rec, err := t.missing(ctx, key)
	if err != nil {
		return Record{}, err
	}
	t.data[key] = rec
	return rec, nil
}

// SetMu mutates key's mean, recomputing floor/ceil.
func (t *Table) SetMu(ctx context.Context, key string, mu float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, err := t.getLocked(ctx, key)
	if err != nil {
		return err
	}
	rec.Mu = mu
	rec.refreshBounds()
	t.data[key] = rec
	return nil
}

// SetSigma mutates key's standard deviation, recomputing floor/ceil.
func (t *Table) SetSigma(ctx context.Context, key string, sigma float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, err := t.getLocked(ctx, key)
	if err != nil {
		return err
	}
	rec.Sigma = sigma
	rec.refreshBounds()
	t.data[key] = rec
	return nil
}

// InflateUncertainty moves every matching record's sigma back toward
// initialSigma by strength (in [0,1]): sigma <- sigma*(1-strength) +
// initialSigma*strength. strength 0 is a no-op.
func (t *Table) InflateUncertainty(initialSigma, strength float64, predicate func(key string) bool) {
	if strength == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, rec := range t.data {
		if predicate != nil && !predicate(key) {
			continue
		}
		rec.Sigma = rec.Sigma*(1-strength) + initialSigma*strength
		rec.refreshBounds()
		t.data[key] = rec
	}
}

// Flush persists every in-memory record to the durable store.
func (t *Table) Flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.store == nil {
		return nil
	}
	for key, rec := range t.data {
		if err := t.store.Save(ctx, key, store.Record{Mu: rec.Mu, Sigma: rec.Sigma, Gamma: rec.Gamma}); err != nil {
			return err
		}
	}
	return nil
}

// Entry is one (key, record) pair as returned by Ordered.
type Entry struct {
	Key    string
	Record Record
}

// Ordered returns every in-memory record sorted by descending Mu. It is a
// snapshot, not a live view: later mutations to the table do not affect a
// slice already returned.
func (t *Table) Ordered() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, 0, len(t.data))
	for key, rec := range t.data {
		out = append(out, Entry{Key: key, Record: rec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Record.Mu > out[j].Record.Mu })
	return out
}
