package store

import (
	"context"
	"testing"
)

func TestMemoryLoadMissing(t *testing.T) {
	m := NewMemory()
	_, ok, err := m.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for an unsaved key")
	}
}

func TestMemorySaveThenLoad(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	want := Record{Mu: 30, Sigma: 5, Gamma: 0.1}
	if err := m.Save(ctx, "alice", want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok, err := m.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || got != want {
		t.Fatalf("expected %+v, got %+v (ok=%v)", want, got, ok)
	}
}
