package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/blobkit/blobkit/pkg/storage"
)

// Upload copies the content stream to the resolved path, creating missing
// parent directories. Seekable sources are rewound after the copy so callers
// may reuse them. On failure no partial-file cleanup is performed.
func (s *Store) Upload(ctx context.Context, content io.Reader, id string) error {
	p, err := s.ensureParent(id)
	if err != nil {
		return err
	}

	dst, err := os.Create(p)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, content)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	rewind(content)

	return os.Chmod(p, s.fileMode)
}

// Open opens the stored content for reading.
// Returns storage.ErrNotFound if id has no content.
func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Read returns the full stored content.
// Returns storage.ErrNotFound if id has no content.
func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Download copies the stored content into a newly created temporary file and
// returns the handle positioned at the start. The caller owns the file.
func (s *Store) Download(ctx context.Context, id string) (*os.File, error) {
	src, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "blobkit-*"+filepath.Ext(id))
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(tmp, src); err != nil {
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
	_, err := os.Stat(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Move relocates src to id instead of copying it.
//
// A storage.LocalFile source is renamed directly into place. A
// storage.Origin source produced by a backend exposing filesystem paths is
// renamed from that backend's resolved path; the source backend's cleanup
// then runs for the vacated location if that backend has cleanup enabled.
// Rename is atomic when source and destination share a device and degrades
// to copy+delete otherwise. FileMode is reapplied after relocation.
func (s *Store) Move(ctx context.Context, src any, id string) error {
	dst, err := s.ensureParent(id)
	if err != nil {
		return err
	}

	switch src := src.(type) {
	case storage.LocalFile:
		if err := rename(src.LocalPath(), dst); err != nil {
			return err
		}

	case storage.Origin:
		backend, srcID := src.Origin()
		res, ok := backend.(storage.PathResolver)
		if !ok {
			return storage.ErrNotMovable
		}
		if err := rename(res.Path(srcID), dst); err != nil {
			return err
		}
		if c, ok := backend.(storage.Cleaner); ok && c.CleanEnabled() {
			c.Clean(srcID)
		}

	default:
		return storage.ErrNotMovable
	}

	return os.Chmod(dst, s.fileMode)
}

// CanMove reports whether Move would accept src: true for sources exposing a
// local path and for content originating from a backend that resolves
// identifiers to filesystem paths.
func (s *Store) CanMove(src any) bool {
	switch src := src.(type) {
	case storage.LocalFile:
		return true
	case storage.Origin:
		backend, _ := src.Origin()
		_, ok := backend.(storage.PathResolver)
		return ok
	}
	return false
}

// rename moves src to dst, degrading to copy+delete across filesystems.
func rename(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// rewind repositions seekable sources at the start, so the same stream can
// be uploaded to multiple backends. Non-seekable sources are left as-is.
func rewind(r io.Reader) {
	if sk, ok := r.(io.Seeker); ok {
		sk.Seek(0, io.SeekStart) //nolint:errcheck
	}
}
