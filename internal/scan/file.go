package scan

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/openingrank/trueskill/internal/matchlog"
)

// rawTurn and rawDeck mirror matchlog's exported shapes for JSON decoding,
// keeping the wire format decoupled from the in-memory type's method set.
type rawTurn struct {
	Buys []string `json:"buys"`
}

type rawDeck struct {
	Name     string    `json:"name"`
	Points   int       `json:"points"`
	Resigned bool      `json:"resigned"`
	Turns    []rawTurn `json:"turns"`
}

type rawMatch struct {
	Decks []rawDeck `json:"decks"`
}

func (r rawMatch) toMatch() matchlog.Match {
	decks := make([]matchlog.Deck, len(r.Decks))
	for i, d := range r.Decks {
		turns := make([]matchlog.Turn, len(d.Turns))
		for j, t := range d.Turns {
			turns[j] = matchlog.Turn{Buys: t.Buys}
		}
		decks[i] = matchlog.Deck{Name: d.Name, Points: d.Points, Resigned: d.Resigned, Turns: turns}
	}
	return matchlog.Match{Decks: decks}
}

// FileScanner reads newline-delimited JSON match records from a file,
// persisting a byte-offset cursor to a sibling "<path>.cursor" file on
// Save(). It is a minimal, self-contained stand-in for a richer upstream
// incremental scanner backed by a database cursor.
type FileScanner struct {
	path       string
	cursorPath string
	offset     int64
	lastRead   int64
}

// NewFileScanner opens path for scanning, resuming from any existing
// "<path>.cursor" sidecar.
func NewFileScanner(path string) (*FileScanner, error) {
	fs := &FileScanner{path: path, cursorPath: path + ".cursor"}
	if err := fs.loadCursor(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileScanner) loadCursor() error {
	data, err := os.ReadFile(fs.cursorPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("scan: reading cursor %s: %w", fs.cursorPath, err)
	}
	var offset int64
	if _, err := fmt.Sscanf(string(data), "%d", &offset); err != nil {
		return fmt.Errorf("scan: parsing cursor %s: %w", fs.cursorPath, err)
	}
	fs.offset = offset
	return nil
}

// Scan opens the source file, seeks to the persisted offset, and emits one
// decoded match per newline-delimited JSON record. fs.lastRead only advances
// once a record has actually been delivered to the caller over out, so a
// subsequent Save() never commits past a match the caller never received.
func (fs *FileScanner) Scan(ctx context.Context) (<-chan matchlog.Match, <-chan error) {
	out := make(chan matchlog.Match)
	errc := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errc)

		f, err := os.Open(fs.path)
		if err != nil {
			errc <- fmt.Errorf("scan: opening %s: %w", fs.path, err)
			return
		}
		defer f.Close()

		if fs.offset > 0 {
			if _, err := f.Seek(fs.offset, io.SeekStart); err != nil {
				errc <- fmt.Errorf("scan: seeking %s: %w", fs.path, err)
				return
			}
		}
		fs.lastRead = fs.offset

		reader := bufio.NewReader(f)
		pos := fs.offset
		for {
			select {
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			default:
			}

			line, err := reader.ReadBytes('\n')
			if len(line) > 0 {
				var raw rawMatch
				if decodeErr := json.Unmarshal(trimNewline(line), &raw); decodeErr != nil {
					errc <- fmt.Errorf("scan: decoding match at offset %d: %w", pos, decodeErr)
					return
				}
				pos += int64(len(line))
				select {
				case out <- raw.toMatch():
					fs.lastRead = pos
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					return
				}
				errc <- fmt.Errorf("scan: reading %s: %w", fs.path, err)
				return
			}
		}
	}()

	return out, errc
}

func trimNewline(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}

// Reset discards the persisted cursor and rewinds to the start of the file.
func (fs *FileScanner) Reset() error {
	fs.offset = 0
	fs.lastRead = 0
	if err := os.Remove(fs.cursorPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("scan: removing cursor %s: %w", fs.cursorPath, err)
	}
	return nil
}

// Save commits the current read position to the sidecar cursor file.
func (fs *FileScanner) Save() error {
	fs.offset = fs.lastRead
	if err := os.WriteFile(fs.cursorPath, []byte(fmt.Sprintf("%d", fs.offset)), 0o644); err != nil {
		return fmt.Errorf("scan: writing cursor %s: %w", fs.cursorPath, err)
	}
	return nil
}

// StatusMsg is a human-readable progress summary for logging.
func (fs *FileScanner) StatusMsg() string {
	return fmt.Sprintf("%s: offset %d", fs.path, fs.offset)
}
