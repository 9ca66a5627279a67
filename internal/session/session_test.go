package session

import (
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	id := NewID()
	store.Set(id, Session{UserID: 1, Username: "alice", CSRFToken: "tok"})

	sess, ok := store.Get(id)
	if !ok {
		t.Fatal("expected session to be present")
	}
	if sess.UserID != 1 || sess.Username != "alice" || sess.CSRFToken != "tok" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	if _, ok := store.Get("missing"); ok {
		t.Error("expected no session for unknown id")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)

	id := NewID()
	store.Set(id, Session{UserID: 1})

	if _, ok := store.Get(id); !ok {
		t.Fatal("expected fresh session to be present")
	}

	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(id); ok {
		t.Error("expected expired session to be absent")
	}
}

func TestMemoryStore_ClearIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	id := NewID()
	store.Set(id, Session{UserID: 1})

	store.Clear(id)
	store.Clear(id) // second clear is a no-op

	if _, ok := store.Get(id); ok {
		t.Error("expected cleared session to be absent")
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)

	store.Set(NewID(), Session{UserID: 1})
	store.Set(NewID(), Session{UserID: 2})

	time.Sleep(25 * time.Millisecond)

	live := NewID()
	store.Set(live, Session{UserID: 3})

	if removed := store.Sweep(); removed != 2 {
		t.Errorf("Sweep removed %d, want 2", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Len: got %d, want 1", store.Len())
	}
	if _, ok := store.Get(live); !ok {
		t.Error("expected live session to survive the sweep")
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate session id: %s", id)
		}
		seen[id] = true
	}
}
