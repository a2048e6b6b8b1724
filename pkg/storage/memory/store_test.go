package memory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/blobkit/blobkit/pkg/storage"
	"github.com/blobkit/blobkit/pkg/storage/memory"
	"github.com/blobkit/blobkit/pkg/storage/storagetest"
)

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Blob {
		return memory.New()
	})
}

func TestStore_URL(t *testing.T) {
	s := memory.New()

	if got := s.URL("a/b.txt"); got != "memory://a/b.txt" {
		t.Errorf("URL = %q, want %q", got, "memory://a/b.txt")
	}
}

func TestStore_NotMovable(t *testing.T) {
	s := memory.New()

	if storage.Movable(s, strings.NewReader("x")) {
		t.Error("memory store should not report move capability")
	}
}

func TestStore_ReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.Upload(ctx, strings.NewReader("immutable"), "id"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	first, err := s.Read(ctx, "id")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	first[0] = 'X'

	second, err := s.Read(ctx, "id")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(second) != "immutable" {
		t.Errorf("stored content mutated through a returned slice: %q", second)
	}
}
