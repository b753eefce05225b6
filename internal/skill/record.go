// Package skill implements the durable-backed skill table: lazy-initialize
// lookups, mutation with floor/ceil bookkeeping, global uncertainty
// inflation, and flush-to-store.
package skill

// Record is one participant's skill estimate. Gamma is the per-game
// additive uncertainty inflation applied when this record is loaded into a
// match's factor graph; Floor and Ceil are the derived 3-sigma band and
// must be kept in step with Mu/Sigma.
type Record struct {
	Mu, Sigma, Gamma float64
	Floor, Ceil      float64
}

// NewRecord builds a Record with Floor/Ceil derived from Mu/Sigma.
func NewRecord(mu, sigma, gamma float64) Record {
	r := Record{Mu: mu, Sigma: sigma, Gamma: gamma}
	r.refreshBounds()
	return r
}

func (r *Record) refreshBounds() {
	r.Floor = r.Mu - 3*r.Sigma
	r.Ceil = r.Mu + 3*r.Sigma
}
