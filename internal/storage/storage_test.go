package storage

import (
	"testing"

	"github.com/google/uuid"
)

func TestCreateAndGet(t *testing.T) {
	store := New("llama3.2:1b")

	sess := store.Create()
	if _, err := uuid.Parse(sess.ID); err != nil {
		t.Fatalf("expected uuid session id, got %q: %v", sess.ID, err)
	}
	if sess.Model() != "llama3.2:1b" {
		t.Errorf("expected default model, got %q", sess.Model())
	}

	got, ok := store.Get(sess.ID)
	if !ok || got != sess {
		t.Fatalf("expected to get the created session back")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := New("m")
	a := store.Create()
	b := store.Create()

	a.SelectModel("other")
	if b.Model() != "m" {
		t.Errorf("model change leaked across sessions: %q", b.Model())
	}
	if a.ID == b.ID {
		t.Error("expected distinct session ids")
	}
}

func TestIDsAndDelete(t *testing.T) {
	store := New("m")
	a := store.Create()
	b := store.Create()

	ids := store.IDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}

	if !store.Delete(a.ID) {
		t.Error("expected delete to report an existing session")
	}
	if store.Delete(a.ID) {
		t.Error("expected second delete to report a missing session")
	}
	if _, ok := store.Get(a.ID); ok {
		t.Error("deleted session still present")
	}
	if ids := store.IDs(); len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("unexpected ids after delete: %v", ids)
	}
}
