package storage

import "os"

// LocalFile is implemented by content sources whose bytes live at a directly
// addressable filesystem path, making them candidates for a rename-based move.
type LocalFile interface {
	LocalPath() string
}

// Origin is implemented by content handles that remember which backend and
// identifier they were stored under. Backends use it to relocate content
// produced by a compatible backend instance.
type Origin interface {
	Origin() (Blob, string)
}

// PathResolver is implemented by backends whose content lives at directly
// addressable filesystem paths.
type PathResolver interface {
	// Path returns the absolute filesystem path for id. Pure, no side
	// effects; the path may or may not exist.
	Path(id string) string
}

// Cleaner is implemented by backends that reclaim directories left empty
// after content is removed.
type Cleaner interface {
	// Clean removes directories around id that became empty, best effort.
	Clean(id string)

	// CleanEnabled reports whether the backend runs Clean automatically
	// after deletions and vacating moves.
	CleanEnabled() bool
}

// FileSource adapts an *os.File into a content source that satisfies both
// io.Reader and LocalFile, so an open local file can be moved rather than
// copied.
type FileSource struct {
	*os.File
}

// LocalPath returns the path the file was opened with.
func (f FileSource) LocalPath() string {
	return f.Name()
}

// StoredFile is a handle to content previously written to a backend.
// It satisfies Origin.
type StoredFile struct {
	Backend Blob
	ID      string
}

// Origin returns the backend and identifier the content was stored under.
func (s StoredFile) Origin() (Blob, string) {
	return s.Backend, s.ID
}
