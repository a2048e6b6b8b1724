package fs

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/blobkit/blobkit/pkg/storage"
)

// URL derives an addressable URL for id.
//
// With a prefix configured the result is Host + "/" + Prefix + "/" + id, a
// URL rooted at the prefix and independent of the filesystem root, so the
// root can move without changing served URLs. Without a prefix the result is
// the absolute resolved path, prefixed with Host if one is set.
func (s *Store) URL(id string) string {
	if s.prefix != "" {
		return s.host + "/" + path.Join(s.prefix, id)
	}
	return s.host + s.Path(id)
}

// Delete removes the file stored under id, then reclaims empty parent
// directories if cleanup is enabled.
// Returns storage.ErrNotFound if id has no content.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := os.Remove(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotFound
		}
		return err
	}

	if s.clean {
		s.Clean(id)
	}

	return nil
}

// Clear bulk-removes stored content.
//
// With OlderThan set, every file whose modification time strictly precedes
// the cutoff is removed; directories emptied by the pruning are left in
// place (only Delete reclaims empty directories). Without OlderThan the
// whole tree is wiped and the root recreated, which requires Confirm and
// fails with storage.ErrUnconfirmed otherwise.
func (s *Store) Clear(ctx context.Context, opts storage.ClearOptions) error {
	if !opts.OlderThan.IsZero() {
		return s.clearOlderThan(ctx, opts.OlderThan)
	}

	if !opts.Confirm {
		return storage.ErrUnconfirmed
	}

	if err := os.RemoveAll(s.base); err != nil {
		return err
	}
	return s.Init()
}

// clearOlderThan prunes old files with an explicit stack-driven traversal so
// very deep trees cannot exhaust the goroutine stack.
func (s *Store) clearOlderThan(ctx context.Context, cutoff time.Time) error {
	stack := []string{s.base}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		for _, entry := range entries {
			p := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				stack = append(stack, p)
				continue
			}

			info, err := entry.Info()
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return err
			}

			if info.ModTime().Before(cutoff) {
				if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
					return err
				}
			}
		}
	}

	return nil
}
