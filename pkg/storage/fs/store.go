// Package fs provides a local-filesystem-backed implementation of
// storage.Blob.
//
// Content is stored as plain files under a configured root directory.
// Identifier forward-slash segments map to nested subdirectories. The store
// performs no normalization of ".." segments: identifiers are trusted input
// and untrusted values must be sanitized by the orchestration layer before
// they reach this package.
package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/blobkit/blobkit/pkg/storage"
)

// Store is a local-filesystem-backed implementation of storage.Blob.
type Store struct {
	root     string
	prefix   string
	host     string
	base     string
	fileMode os.FileMode
	dirMode  os.FileMode
	clean    bool
}

// Config holds configuration for the filesystem store.
// It is immutable after New.
type Config struct {
	// Root is the top-level directory the store is confined to.
	// Required; should be an absolute path.
	Root string

	// Prefix is an optional subdirectory nested under Root, also reflected
	// in generated URLs. A leading separator is stripped before joining so
	// an absolute-looking prefix cannot escape Root.
	Prefix string

	// Host is an optional prefix for generated URLs (e.g. "//cdn.example").
	Host string

	// FileMode is the permission mode applied to stored files.
	// Default: 0644
	FileMode os.FileMode

	// DirMode is the permission mode for created directories.
	// Default: 0755
	DirMode os.FileMode

	// Clean removes directories left empty after deletions and vacating
	// moves.
	Clean bool
}

// DefaultConfig returns the default configuration, with cleanup enabled.
func DefaultConfig(root string) Config {
	return Config{
		Root:     root,
		FileMode: 0644,
		DirMode:  0755,
		Clean:    true,
	}
}

// New creates a filesystem store and eagerly creates the root (and prefix)
// directory tree, applying DirMode.
func New(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		return nil, errors.New("root directory is required")
	}

	if cfg.FileMode == 0 {
		cfg.FileMode = 0644
	}
	if cfg.DirMode == 0 {
		cfg.DirMode = 0755
	}

	prefix := strings.TrimPrefix(cfg.Prefix, "/")

	s := &Store{
		root:     cfg.Root,
		prefix:   prefix,
		host:     cfg.Host,
		base:     filepath.Join(cfg.Root, filepath.FromSlash(prefix)),
		fileMode: cfg.FileMode,
		dirMode:  cfg.DirMode,
		clean:    cfg.Clean,
	}

	if err := s.Init(); err != nil {
		return nil, err
	}

	return s, nil
}

// NewWithRoot creates a filesystem store with default configuration.
func NewWithRoot(root string) (*Store, error) {
	return New(DefaultConfig(root))
}

// Init creates the store's directory tree and applies DirMode. It is
// idempotent: safe to call repeatedly and never destructive.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.base, s.dirMode); err != nil {
		return err
	}
	// MkdirAll is subject to the umask, chmod so DirMode sticks.
	return os.Chmod(s.base, s.dirMode)
}

// Path returns the absolute filesystem path for id, converting identifier
// separators to the native separator. Pure and deterministic; the path may
// or may not exist.
func (s *Store) Path(id string) string {
	return filepath.Join(s.base, filepath.FromSlash(id))
}

// ensureParent returns the resolved path for id after creating any missing
// parent directories. Used only by write paths.
func (s *Store) ensureParent(id string) (string, error) {
	p := s.Path(id)
	if err := os.MkdirAll(filepath.Dir(p), s.dirMode); err != nil {
		return "", err
	}
	return p, nil
}

// Root returns the configured root directory.
func (s *Store) Root() string {
	return s.root
}

// Ensure Store implements the contract and its optional capabilities.
var (
	_ storage.Blob         = (*Store)(nil)
	_ storage.Mover        = (*Store)(nil)
	_ storage.PathResolver = (*Store)(nil)
	_ storage.Cleaner      = (*Store)(nil)
)
