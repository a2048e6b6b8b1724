package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blobkit/blobkit/pkg/storage"
	"github.com/blobkit/blobkit/pkg/storage/memory"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewWithRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewWithRoot failed: %v", err)
	}
	return s
}

func mustUpload(t *testing.T, s *Store, id, content string) {
	t.Helper()

	if err := s.Upload(context.Background(), strings.NewReader(content), id); err != nil {
		t.Fatalf("Upload(%s) failed: %v", id, err)
	}
}

func TestStore_UploadAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustUpload(t, s, "docs/report.pdf", "hello world")

	got, err := s.Read(ctx, "docs/report.pdf")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("Read returned %q, want %q", got, "hello world")
	}

	// Verify the file landed at the resolved path with FileMode applied.
	path := filepath.Join(s.Root(), "docs", "report.pdf")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file not found at %s: %v", path, err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("file mode = %o, want 0644", info.Mode().Perm())
	}
}

func TestStore_UploadRewindsSource(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	src := bytes.NewReader([]byte("reusable"))
	if err := s.Upload(ctx, src, "one"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := s.Upload(ctx, src, "two"); err != nil {
		t.Fatalf("second Upload failed: %v", err)
	}

	got, err := s.Read(ctx, "two")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "reusable" {
		t.Errorf("second upload got %q, source was not rewound", got)
	}
}

func TestStore_ReadNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Read returned error %v, want %v", err, storage.ErrNotFound)
	}
}

func TestStore_DeleteNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Delete(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete returned error %v, want %v", err, storage.ErrNotFound)
	}
}

func TestStore_CleanAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustUpload(t, s, "a/b/c.txt", "data")

	if err := s.Delete(ctx, "a/b/c.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, dir := range []string{"a/b", "a"} {
		if _, err := os.Stat(filepath.Join(s.Root(), dir)); !os.IsNotExist(err) {
			t.Errorf("empty directory %s should be removed", dir)
		}
	}

	// The root itself is never removed.
	if _, err := os.Stat(s.Root()); err != nil {
		t.Errorf("root directory should survive cleanup: %v", err)
	}
}

func TestStore_CleanStopsAtNonEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustUpload(t, s, "a/b/c.txt", "data")
	mustUpload(t, s, "a/keep.txt", "data")

	if err := s.Delete(ctx, "a/b/c.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.Root(), "a", "b")); !os.IsNotExist(err) {
		t.Error("empty directory a/b should be removed")
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "a")); err != nil {
		t.Errorf("non-empty directory a should survive: %v", err)
	}
}

func TestStore_CleanDisabled(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig(t.TempDir())
	cfg.Clean = false
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	mustUpload(t, s, "a/b/c.txt", "data")

	if err := s.Delete(ctx, "a/b/c.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.Root(), "a", "b")); err != nil {
		t.Errorf("with cleanup disabled, empty directories should remain: %v", err)
	}
}

func TestStore_URL(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name   string
		prefix string
		host   string
		id     string
		want   string
	}{
		{"prefix", "uploads", "", "x.jpg", "/uploads/x.jpg"},
		{"prefix and host", "uploads", "//cdn.example", "x.jpg", "//cdn.example/uploads/x.jpg"},
		{"prefix nested id", "uploads", "", "a/b.png", "/uploads/a/b.png"},
		{"no prefix", "", "", "x.jpg", filepath.Join(root, "x.jpg")},
		{"no prefix with host", "", "http://localhost", "x.jpg", "http://localhost" + filepath.Join(root, "x.jpg")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(root)
			cfg.Prefix = tt.prefix
			cfg.Host = tt.host

			s, err := New(cfg)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			if got := s.URL(tt.id); got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestStore_PrefixCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig(root)
	cfg.Prefix = "/uploads"

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	want := filepath.Join(root, "uploads", "x")
	if got := s.Path("x"); got != want {
		t.Errorf("Path(x) = %q, want %q (prefix must stay under root)", got, want)
	}
}

func TestStore_MoveLocalFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tmp := filepath.Join(t.TempDir(), "incoming.bin")
	if err := os.WriteFile(tmp, []byte("payload"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := os.Open(tmp)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	src := storage.FileSource{File: f}
	if !s.CanMove(src) {
		t.Fatal("CanMove should be true for a local file source")
	}

	if err := s.Move(ctx, src, "moved/incoming.bin"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	got, err := s.Read(ctx, "moved/incoming.bin")
	if err != nil {
		t.Fatalf("Read after move failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("moved content = %q, want %q", got, "payload")
	}

	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Error("source file should be gone after move")
	}

	// FileMode is reapplied at the destination.
	info, err := os.Stat(s.Path("moved/incoming.bin"))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("destination mode = %o, want 0644", info.Mode().Perm())
	}
}

func TestStore_MoveFromStore(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	dst := newTestStore(t)

	mustUpload(t, src, "nested/dir/file.txt", "crossing over")

	handle := storage.StoredFile{Backend: src, ID: "nested/dir/file.txt"}
	if !dst.CanMove(handle) {
		t.Fatal("CanMove should be true for content from a compatible local store")
	}

	if err := dst.Move(ctx, handle, "arrived.txt"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	got, err := dst.Read(ctx, "arrived.txt")
	if err != nil {
		t.Fatalf("Read after move failed: %v", err)
	}
	if string(got) != "crossing over" {
		t.Errorf("moved content = %q, want %q", got, "crossing over")
	}

	exists, err := src.Exists(ctx, "nested/dir/file.txt")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("source content should be gone after move")
	}

	// The source store's cleanup ran for the vacated location.
	if _, err := os.Stat(filepath.Join(src.Root(), "nested")); !os.IsNotExist(err) {
		t.Error("vacated directories should be cleaned on the source store")
	}
}

func TestStore_MoveFromStoreCleanDisabled(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig(t.TempDir())
	cfg.Clean = false
	src, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	dst := newTestStore(t)

	mustUpload(t, src, "nested/file.txt", "data")

	if err := dst.Move(ctx, storage.StoredFile{Backend: src, ID: "nested/file.txt"}, "f"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(src.Root(), "nested")); err != nil {
		t.Errorf("source store has cleanup disabled, vacated directory should remain: %v", err)
	}
}

func TestStore_MoveNotMovable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if s.CanMove(strings.NewReader("plain stream")) {
		t.Error("CanMove should be false for a plain stream")
	}
	if err := s.Move(ctx, strings.NewReader("plain stream"), "x"); !errors.Is(err, storage.ErrNotMovable) {
		t.Errorf("Move returned %v, want %v", err, storage.ErrNotMovable)
	}

	// Content from a backend without filesystem paths is not movable.
	mem := memory.New()
	if err := mem.Upload(ctx, strings.NewReader("data"), "id"); err != nil {
		t.Fatalf("memory Upload failed: %v", err)
	}
	handle := storage.StoredFile{Backend: mem, ID: "id"}
	if s.CanMove(handle) {
		t.Error("CanMove should be false for content from a memory store")
	}
	if !storage.Movable(s, storage.StoredFile{Backend: s, ID: "id"}) {
		t.Error("Movable should be true for content from a compatible local store")
	}
}

func TestStore_ClearOlderThan(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustUpload(t, s, "old/stale.txt", "old")
	mustUpload(t, s, "fresh.txt", "new")

	// Backdate the old file past the cutoff.
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(s.Path("old/stale.txt"), past, past); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	if err := s.Clear(ctx, storage.ClearOptions{OlderThan: cutoff}); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if exists, _ := s.Exists(ctx, "old/stale.txt"); exists {
		t.Error("file older than cutoff should be removed")
	}
	if exists, _ := s.Exists(ctx, "fresh.txt"); !exists {
		t.Error("file newer than cutoff should survive")
	}

	// Pruning leaves emptied directories in place, unlike Delete.
	if _, err := os.Stat(filepath.Join(s.Root(), "old")); err != nil {
		t.Errorf("directories emptied by pruning should remain: %v", err)
	}
}

func TestStore_ClearWipe(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustUpload(t, s, "a/b.txt", "data")

	err := s.Clear(ctx, storage.ClearOptions{})
	if !errors.Is(err, storage.ErrUnconfirmed) {
		t.Fatalf("unconfirmed Clear returned %v, want %v", err, storage.ErrUnconfirmed)
	}

	if err := s.Clear(ctx, storage.ClearOptions{Confirm: true}); err != nil {
		t.Fatalf("confirmed Clear failed: %v", err)
	}

	if exists, _ := s.Exists(ctx, "a/b.txt"); exists {
		t.Error("content should be gone after wipe")
	}

	// The root is recreated, empty and usable.
	entries, err := os.ReadDir(s.Root())
	if err != nil {
		t.Fatalf("root should exist after wipe: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("root should be empty after wipe, has %d entries", len(entries))
	}

	mustUpload(t, s, "again.txt", "data")
}

func TestStore_InitIdempotent(t *testing.T) {
	s := newTestStore(t)

	mustUpload(t, s, "keep.txt", "data")

	if err := s.Init(); err != nil {
		t.Fatalf("repeated Init failed: %v", err)
	}

	if exists, _ := s.Exists(context.Background(), "keep.txt"); !exists {
		t.Error("Init must never be destructive")
	}
}

func TestStore_DirMode(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.Prefix = "uploads"
	cfg.DirMode = 0700

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(s.Root(), "uploads"))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("base dir mode = %o, want 0700", info.Mode().Perm())
	}
}

func TestNew_RequiresRoot(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New with empty root should fail")
	}
}
