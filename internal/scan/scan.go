// Package scan provides the incremental match-record scanner contract the
// rating driver pulls from, plus a newline-delimited-JSON file-backed
// implementation.
package scan

import (
	"context"

	"github.com/openingrank/trueskill/internal/matchlog"
)

// Scanner emits a stream of match records and can persist its own read
// position so a later run resumes where this one left off.
type Scanner interface {
	// Scan starts emitting records (and any terminal error) asynchronously.
	// The match channel closes when the source is exhausted; a single
	// terminal error (if any) is sent on the error channel before it closes.
	Scan(ctx context.Context) (<-chan matchlog.Match, <-chan error)
	// Reset rewinds the scanner to the beginning of its source, discarding
	// any persisted cursor.
	Reset() error
	// Save persists the current read position.
	Save() error
	// StatusMsg is a human-readable progress summary for logging.
	StatusMsg() string
}
