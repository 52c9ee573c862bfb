package state

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "state.db"))
	if err := s.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Get("f90_favorites"); err != nil || ok {
		t.Fatalf("empty store Get = (ok=%v, err=%v), want absent", ok, err)
	}

	if err := s.Set("f90_favorites", `["track1"]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := s.Get("f90_favorites")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || v != `["track1"]` {
		t.Errorf("got (%q, %v), want the stored value", v, ok)
	}
}

func TestStore_SetReplaces(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("k", "old"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("k", "new"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("get = (ok=%v, err=%v)", ok, err)
	}
	if v != "new" {
		t.Errorf("value = %q, want the replacement", v)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s := NewStore(path)
	if err := s.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("f90_ratings", `{"track1":4.5}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := NewStore(path)
	if err := s2.Open(); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	v, ok, err := s2.Get("f90_ratings")
	if err != nil || !ok {
		t.Fatalf("get after reopen = (ok=%v, err=%v)", ok, err)
	}
	if v != `{"track1":4.5}` {
		t.Errorf("value = %q, want persisted value", v)
	}
}

func TestStore_ClosedErrors(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state.db"))

	if _, _, err := s.Get("k"); err == nil {
		t.Error("Get before Open must error")
	}
	if err := s.Set("k", "v"); err == nil {
		t.Error("Set before Open must error")
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()

	if _, ok, _ := m.Get("k"); ok {
		t.Error("empty store must report absence")
	}
	if err := m.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := m.Get("k"); !ok || v != "v" {
		t.Errorf("got (%q, %v)", v, ok)
	}
}
