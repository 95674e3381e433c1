package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/formpath/formpath/pkg/schema"
)

// storeContract exercises the Store behaviors shared by all backends.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Missing snapshot is a miss with a usable empty set.
	answers, found, err := s.Load(ctx, "I-90")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Fatal("Load on empty store reported found")
	}
	if answers == nil {
		t.Fatal("Load must return a usable empty set")
	}

	// Save then load round-trips.
	if err := s.Save(ctx, "I-90", schema.AnswerSet{"family_name": "Okafor"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	answers, found, err = s.Load(ctx, "I-90")
	if err != nil || !found {
		t.Fatalf("Load after Save: found=%v err=%v", found, err)
	}
	if answers.Get("family_name") != "Okafor" {
		t.Errorf("loaded family_name = %q", answers.Get("family_name"))
	}

	// Last write wins: the whole snapshot is replaced.
	if err := s.Save(ctx, "I-90", schema.AnswerSet{"given_name": "Chidi"}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	answers, _, _ = s.Load(ctx, "I-90")
	if answers.Get("family_name") != "" {
		t.Error("old snapshot content survived an overwrite")
	}
	if answers.Get("given_name") != "Chidi" {
		t.Errorf("loaded given_name = %q", answers.Get("given_name"))
	}

	// Snapshots are keyed per document id.
	if _, found, _ := s.Load(ctx, "N-400"); found {
		t.Error("snapshot leaked across document ids")
	}

	// Clear removes, and clearing twice is fine.
	if err := s.Clear(ctx, "I-90"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found, _ := s.Load(ctx, "I-90"); found {
		t.Error("snapshot survived Clear")
	}
	if err := s.Clear(ctx, "I-90"); err != nil {
		t.Errorf("Clear on missing snapshot: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	storeContract(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()
	storeContract(t, s)
}

func TestFileStoreCorruptSnapshotIsMiss(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(filepath.Join(dir, "I-90.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, found, err := s.Load(context.Background(), "I-90")
	if err != nil {
		t.Fatalf("Load on corrupt file: %v", err)
	}
	if found {
		t.Error("corrupt snapshot should read as a miss")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "I-90.json")); !os.IsNotExist(statErr) {
		t.Error("corrupt snapshot file should be removed")
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	original := schema.AnswerSet{"q": "v"}
	if err := s.Save(ctx, "I-131", original); err != nil {
		t.Fatal(err)
	}
	original.Set("q", "mutated")

	loaded, _, _ := s.Load(ctx, "I-131")
	if loaded.Get("q") != "v" {
		t.Error("store shared memory with the caller's answer set")
	}
}

func TestKey(t *testing.T) {
	if got := Key("N-400"); got != "formpath:answers:N-400" {
		t.Errorf("Key = %q", got)
	}
}
