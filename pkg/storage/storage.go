// Package storage defines the pluggable blob-storage contract consumed by
// upload-orchestration layers.
//
// A Blob backend persists opaque byte streams under caller-supplied string
// identifiers. Identifiers may contain forward-slash segments; how (and
// whether) those map to a hierarchy is a backend concern. Backends never
// inspect content and never store metadata about it.
//
// Optional capabilities (moving content instead of copying it, exposing a
// direct filesystem path, reclaiming empty directories) are modeled as
// separate interfaces so that alternative backends can opt in without any
// type-identity coupling.
package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"time"
)

// Common errors returned by Blob implementations.
var (
	// ErrNotFound is returned when an operation targets an identifier that
	// has no stored content.
	ErrNotFound = errors.New("content not found")

	// ErrUnconfirmed is returned by Clear when a full wipe is requested
	// without the explicit confirmation flag.
	ErrUnconfirmed = errors.New("clear not confirmed")

	// ErrNotMovable is returned by Move when the source cannot be relocated
	// by the destination backend. Callers should check Movable first and
	// fall back to Upload.
	ErrNotMovable = errors.New("source is not movable")
)

// ClearOptions selects one of the two Clear modes.
//
// With OlderThan set, only content last modified strictly before the cutoff
// is removed and Confirm is ignored. With OlderThan zero, Clear wipes the
// whole backend and requires Confirm to be true.
type ClearOptions struct {
	// Confirm acknowledges a destructive full wipe.
	Confirm bool

	// OlderThan, when non-zero, restricts removal to content whose last
	// modification time precedes it.
	OlderThan time.Time
}

// Blob is the storage backend contract.
//
// All operations are synchronous, blocking calls. Implementations provide no
// cross-process coordination: concurrent writers to the same identifier race,
// last completed write wins.
type Blob interface {
	// Upload persists the content stream under id, byte-exact as of read
	// time. If content is an io.Seeker it is rewound to the start after the
	// copy so callers may reuse it. On failure no partial-file cleanup is
	// performed; retry or deletion is the caller's responsibility.
	Upload(ctx context.Context, content io.Reader, id string) error

	// Open returns a reader for the stored content.
	// Returns ErrNotFound if id has no content.
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// Read returns the full stored content.
	// Returns ErrNotFound if id has no content.
	Read(ctx context.Context, id string) ([]byte, error)

	// Download copies the stored content into a fresh temporary file and
	// returns the handle positioned at the start. The caller owns the file
	// and is responsible for removing it.
	Download(ctx context.Context, id string) (*os.File, error)

	// Exists reports whether content is stored under id. It has no side
	// effects and returns an error only for storage access failures.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes the content stored under id.
	// Returns ErrNotFound if id has no content.
	Delete(ctx context.Context, id string) error

	// URL derives an addressable URL (or path) for id. The shape is
	// backend-specific; see the implementation docs.
	URL(id string) string

	// Clear bulk-removes content according to opts.
	// Returns ErrUnconfirmed for a full wipe without confirmation.
	Clear(ctx context.Context, opts ClearOptions) error
}

// Mover is an optional capability for backends that can relocate content
// instead of copying it.
type Mover interface {
	Blob

	// Move relocates src to id. Accepted sources are backend-specific;
	// typically anything implementing LocalFile or Origin. Returns
	// ErrNotMovable for sources the backend cannot relocate.
	Move(ctx context.Context, src any, id string) error

	// CanMove reports whether Move would accept src. No side effects.
	CanMove(src any) bool
}

// Movable reports whether dst can relocate src directly. Orchestration
// layers use it to choose between move (cheap) and upload (safe,
// cross-backend) semantics.
func Movable(dst Blob, src any) bool {
	m, ok := dst.(Mover)
	return ok && m.CanMove(src)
}
