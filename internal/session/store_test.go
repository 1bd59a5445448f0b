package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joseph-ayodele/w7-autofill/internal/llm"
)

func TestStoreIsolatesSessions(t *testing.T) {
	store := NewStore(time.Hour, nil)

	a := store.Get("alice")
	b := store.Get("bob")
	if a == b {
		t.Fatal("distinct IDs must get distinct sessions")
	}
	if store.Get("alice") != a {
		t.Fatal("same ID must return the same session")
	}
	if store.Get("") != store.Get(DefaultID) {
		t.Fatal("empty ID must map to the default session")
	}

	a.SetMapped("Jane Doe", llm.MappedData{"first_name": "Jane"})
	if _, _, ok := b.Mapped(); ok {
		t.Error("mapped data leaked across sessions")
	}
}

func TestUploadClearsDownstreamState(t *testing.T) {
	store := NewStore(time.Hour, nil)
	s := store.Get("op")

	s.SetMapped("Jane Doe", llm.MappedData{"first_name": "Jane"})
	s.SetRoster(nil)
	if _, _, ok := s.Mapped(); ok {
		t.Error("a new upload must clear the previously mapped client")
	}
}

func TestSetOutputReplacesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.pdf")
	second := filepath.Join(dir, "second.pdf")
	for _, p := range []string{first, second} {
		if err := os.WriteFile(p, []byte("%PDF-"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store := NewStore(time.Hour, nil)
	s := store.Get("op")
	s.SetOutput(first)
	s.SetOutput(second)

	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Error("previous output file should have been removed")
	}
	if s.Output() != second {
		t.Errorf("Output = %q, want %q", s.Output(), second)
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "w7.pdf")
	if err := os.WriteFile(out, []byte("%PDF-"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(time.Minute, nil)
	store.Get("idle").SetOutput(out)

	if n := store.Sweep(time.Now()); n != 0 {
		t.Fatalf("fresh session evicted: %d", n)
	}
	if n := store.Sweep(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if store.Len() != 0 {
		t.Errorf("store still holds %d sessions", store.Len())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("evicted session's output file should be deleted")
	}
}
