package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeMatches(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "matches.jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

const matchA = `{"decks":[{"name":"a","points":10,"turns":[{"buys":["copper"]},{"buys":["estate"]}]},{"name":"b","points":5,"turns":[{"buys":["silver"]},{"buys":["duchy"]}]}]}`
const matchB = `{"decks":[{"name":"c","points":3,"turns":[{"buys":["copper"]},{"buys":["estate"]}]},{"name":"d","points":8,"turns":[{"buys":["silver"]},{"buys":["duchy"]}]}]}`

func drain(t *testing.T, fs *FileScanner) int {
	t.Helper()
	out, errc := fs.Scan(context.Background())
	count := 0
	for range out {
		count++
	}
	if err := <-errc; err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	return count
}

func TestFileScannerReadsAllRecords(t *testing.T) {
	path := writeMatches(t, matchA, matchB)
	fs, err := NewFileScanner(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := drain(t, fs); got != 2 {
		t.Fatalf("expected 2 matches, got %d", got)
	}
}

func TestFileScannerResumesFromCursor(t *testing.T) {
	path := writeMatches(t, matchA, matchB)
	fs, err := NewFileScanner(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, errc := fs.Scan(context.Background())
	<-out // consume matchA only
	if err := fs.Save(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Drain the rest of this scan's channel so the goroutine exits cleanly.
	for range out {
	}
	if err := <-errc; err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}

	resumed, err := NewFileScanner(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := drain(t, resumed); got != 1 {
		t.Fatalf("expected resume to yield exactly the remaining 1 match, got %d", got)
	}
}

func TestFileScannerReset(t *testing.T) {
	path := writeMatches(t, matchA, matchB)
	fs, err := NewFileScanner(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, errc := fs.Scan(context.Background())
	<-out
	if err := fs.Save(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range out {
	}
	<-errc

	if err := fs.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fresh, err := NewFileScanner(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := drain(t, fresh); got != 2 {
		t.Fatalf("expected reset scanner to read all 2 matches again, got %d", got)
	}
}
