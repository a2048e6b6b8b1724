package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Clean walks upward from id's parent directory toward the store root,
// removing each directory that is currently empty. The walk stops at the
// first non-empty directory and never removes the root itself.
//
// This is a best-effort reclaiming pass, not transactional: a directory
// observed empty may be repopulated by a concurrent writer, in which case
// the removal fails and the walk stops silently. Triggered automatically
// after Delete when cleanup is enabled; exposed so callers can invoke it
// after an externally-managed move.
func (s *Store) Clean(id string) {
	dir := filepath.Dir(s.Path(id))
	for dir != s.base && strings.HasPrefix(dir, s.base+string(os.PathSeparator)) {
		if err := os.Remove(dir); err != nil {
			// Not empty, already gone, or racing another writer. Stop.
			return
		}
		dir = filepath.Dir(dir)
	}
}

// CleanEnabled reports whether cleanup runs automatically after deletions.
func (s *Store) CleanEnabled() bool {
	return s.clean
}
