// Package memory provides an in-memory implementation of storage.Blob,
// useful for tests and short-lived cache tiers.
package memory

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/blobkit/blobkit/pkg/storage"
)

type entry struct {
	data    []byte
	modTime time.Time
}

// Store is an in-memory implementation of storage.Blob.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
	}
}

// Upload buffers the full content stream in memory under id. Seekable
// sources are rewound after the copy.
func (s *Store) Upload(ctx context.Context, content io.Reader, id string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}

	if sk, ok := content.(io.Seeker); ok {
		sk.Seek(0, io.SeekStart) //nolint:errcheck
	}

	s.mu.Lock()
	s.entries[id] = entry{data: data, modTime: time.Now()}
	s.mu.Unlock()

	return nil
}

// Open returns a reader over the stored content.
func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	data, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Read returns a copy of the stored content.
func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, storage.ErrNotFound
	}

	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, nil
}

// Download copies the stored content into a temporary file.
func (s *Store) Download(ctx context.Context, id string) (*os.File, error) {
	data, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "blobkit-*")
	if err != nil {
		return nil, err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}

	return tmp, nil
}

// Exists reports whether content is stored under id.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	_, ok := s.entries[id]
	s.mu.RUnlock()
	return ok, nil
}

// Delete removes the content stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// URL returns a memory:// pseudo-URL for id.
func (s *Store) URL(id string) string {
	return "memory://" + id
}

// Clear removes stored content. With OlderThan set only entries written
// strictly before the cutoff are dropped; a full wipe requires Confirm.
func (s *Store) Clear(ctx context.Context, opts storage.ClearOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !opts.OlderThan.IsZero() {
		for id, e := range s.entries {
			if e.modTime.Before(opts.OlderThan) {
				delete(s.entries, id)
			}
		}
		return nil
	}

	if !opts.Confirm {
		return storage.ErrUnconfirmed
	}

	s.entries = make(map[string]entry)
	return nil
}

// Len returns the number of stored entries (for testing).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure Store implements storage.Blob.
var _ storage.Blob = (*Store)(nil)
