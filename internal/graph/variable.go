// Package graph implements the factor-graph nodes (variables and the four
// factor kinds) that the rating update procedure wires together and
// message-passes over for a single match.
package graph

import "github.com/openingrank/trueskill/internal/gaussian"

// Variable is a node holding a marginal Gaussian and the messages currently
// flowing into it from each attached factor. Messages are stored inline,
// indexed by attachment order, rather than keyed by factor identity — the
// arena that builds a match's graph knows every variable's incident factors
// up front, so a slot index assigned at Attach time is enough.
type Variable struct {
	Value    gaussian.Gaussian
	messages []gaussian.Gaussian
}

// NewVariable returns a variable with no incident factors and a flat
// marginal.
func NewVariable() *Variable {
	return &Variable{Value: gaussian.Flat}
}

// Attach reserves a new message slot for an incoming factor, initialized to
// the flat Gaussian, and returns its slot index.
func (v *Variable) Attach() int {
	v.messages = append(v.messages, gaussian.Flat)
	return len(v.messages) - 1
}

// GetMessage reads the most recently recorded message on the given slot.
func (v *Variable) GetMessage(slot int) gaussian.Gaussian {
	return v.messages[slot]
}

// UpdateMessage installs a new message on the given slot and folds it into
// the marginal: value <- value / old * new.
func (v *Variable) UpdateMessage(slot int, m gaussian.Gaussian) {
	old := v.messages[slot]
	v.Value = gaussian.Mul(gaussian.Div(v.Value, old), m)
	v.messages[slot] = m
}

// UpdateValue installs a whole new marginal (used by factors that write the
// entire marginal, i.e. Prior and Truncate) and backs out what message on
// the given slot would be consistent with it: messages[slot] <- newVal *
// messages[slot] / value; value <- newVal.
func (v *Variable) UpdateValue(slot int, newVal gaussian.Gaussian) {
	old := v.messages[slot]
	v.messages[slot] = gaussian.Div(gaussian.Mul(newVal, old), v.Value)
	v.Value = newVal
}

// MuSigma is a convenience view of the current marginal.
func (v *Variable) MuSigma() (mu, sigma float64) {
	return v.Value.MuSigma()
}
