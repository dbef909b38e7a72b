package storage

import (
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set("makeadate_test", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := s.Get("makeadate_test")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Get = %q", data)
	}
}

func TestFileStoreAbsentKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	data, err := s.Get("never_written")
	if err != nil {
		t.Fatalf("Get absent: %v", err)
	}
	if data != nil {
		t.Errorf("Get absent = %q, want nil", data)
	}
}

func TestFileStoreDelete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if data, _ := s.Get("k"); data != nil {
		t.Error("value survived delete")
	}

	// Deleting an absent key is a no-op.
	if err := s.Delete("k"); err != nil {
		t.Errorf("Delete absent: %v", err)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set("k", []byte("old")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("k", []byte("new")); err != nil {
		t.Fatalf("Set again: %v", err)
	}

	data, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("Get = %q, want new", data)
	}
}
