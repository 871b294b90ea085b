package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestFileStoreWriteThenRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	data := []byte("%PDF-1.7 artifact")
	key, err := store.Write(context.Background(), "artifacts/u1/j1/guide.pdf", data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "artifacts/u1/j1/guide.pdf" {
		t.Fatalf("key = %q", key)
	}
	got, err := store.Read(context.Background(), key)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("read bytes differ from written bytes")
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Write(context.Background(), "../outside.pdf", []byte("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
	if _, err := store.Read(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}
