package storage

import (
	"strings"

	"github.com/google/uuid"
)

// NewLocation returns a random identifier suitable for storing new content.
// The result is 32 lowercase hex characters with no separators, so it never
// maps to a nested directory.
func NewLocation() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewLocationIn returns a random identifier nested under the given
// forward-slash directory segments, e.g. NewLocationIn("cache", "images").
func NewLocationIn(segments ...string) string {
	parts := append(append([]string{}, segments...), NewLocation())
	return strings.Join(parts, "/")
}
