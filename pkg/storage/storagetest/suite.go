// Package storagetest provides a conformance test suite for storage.Blob
// implementations.
//
// Every backend (fs, memory, s3) should pass these tests. The suite verifies
// the behavioral contract (byte-exact round trips, rewound sources, the
// exists lifecycle, NotFound and Unconfirmed errors, and time-based clearing)
// and catches regressions when backend code changes.
//
// Usage:
//
//	func TestConformance(t *testing.T) {
//	    storagetest.Run(t, func(t *testing.T) storage.Blob {
//	        s, err := fs.NewWithRoot(t.TempDir())
//	        require.NoError(t, err)
//	        return s
//	    })
//	}
//
// The factory receives *testing.T so it can call t.TempDir and register
// teardown with t.Cleanup.
package storagetest

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blobkit/blobkit/pkg/storage"
)

// Factory creates a fresh, empty backend for a single test.
type Factory func(t *testing.T) storage.Blob

// Run runs the full conformance suite against backends created by factory.
func Run(t *testing.T, factory Factory) {
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, factory) })
	t.Run("RewindsSource", func(t *testing.T) { testRewindsSource(t, factory) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, factory) })
	t.Run("ExistsLifecycle", func(t *testing.T) { testExistsLifecycle(t, factory) })
	t.Run("OpenMissing", func(t *testing.T) { testOpenMissing(t, factory) })
	t.Run("ReadMissing", func(t *testing.T) { testReadMissing(t, factory) })
	t.Run("DeleteMissing", func(t *testing.T) { testDeleteMissing(t, factory) })
	t.Run("Download", func(t *testing.T) { testDownload(t, factory) })
	t.Run("NestedIdentifier", func(t *testing.T) { testNestedIdentifier(t, factory) })
	t.Run("WipeUnconfirmed", func(t *testing.T) { testWipeUnconfirmed(t, factory) })
	t.Run("WipeConfirmed", func(t *testing.T) { testWipeConfirmed(t, factory) })
	t.Run("ClearOlderThan", func(t *testing.T) { testClearOlderThan(t, factory) })
}

func testRoundTrip(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	content := []byte("hello world")
	require.NoError(t, b.Upload(ctx, bytes.NewReader(content), "greeting.txt"))

	got, err := b.Read(ctx, "greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	r, err := b.Open(ctx, "greeting.txt")
	require.NoError(t, err)
	defer r.Close()

	streamed, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, streamed)
}

func testRewindsSource(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	src := bytes.NewReader([]byte("reusable"))
	require.NoError(t, b.Upload(ctx, src, "first"))

	// The source must be rewound so it can be uploaded again.
	require.NoError(t, b.Upload(ctx, src, "second"))

	got, err := b.Read(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, []byte("reusable"), got)
}

func testOverwrite(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("initial")), "doc"))
	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("updated")), "doc"))

	got, err := b.Read(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated"), got)
}

func testExistsLifecycle(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	exists, err := b.Exists(ctx, "thing")
	require.NoError(t, err)
	assert.False(t, exists, "exists before upload")

	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("x")), "thing"))

	exists, err = b.Exists(ctx, "thing")
	require.NoError(t, err)
	assert.True(t, exists, "exists after upload")

	require.NoError(t, b.Delete(ctx, "thing"))

	exists, err = b.Exists(ctx, "thing")
	require.NoError(t, err)
	assert.False(t, exists, "exists after delete")
}

func testOpenMissing(t *testing.T, factory Factory) {
	b := factory(t)

	_, err := b.Open(t.Context(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testReadMissing(t *testing.T, factory Factory) {
	b := factory(t)

	_, err := b.Read(t.Context(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDeleteMissing(t *testing.T, factory Factory) {
	b := factory(t)

	err := b.Delete(t.Context(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDownload(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	content := []byte("download me")
	require.NoError(t, b.Upload(ctx, bytes.NewReader(content), "dl"))

	tmp, err := b.Download(ctx, "dl")
	require.NoError(t, err)
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	got, err := io.ReadAll(tmp)
	require.NoError(t, err)
	assert.Equal(t, content, got, "handle should be positioned at start")

	// The temp file is an independent copy.
	require.NoError(t, b.Delete(ctx, "dl"))
	_, err = tmp.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, err = io.ReadAll(tmp)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func testNestedIdentifier(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	id := "a/b/c.txt"
	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("nested")), id))

	got, err := b.Read(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("nested"), got)

	require.NoError(t, b.Delete(ctx, id))
}

func testWipeUnconfirmed(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("keep")), "keep"))

	err := b.Clear(ctx, storage.ClearOptions{})
	assert.ErrorIs(t, err, storage.ErrUnconfirmed)

	exists, err := b.Exists(ctx, "keep")
	require.NoError(t, err)
	assert.True(t, exists, "unconfirmed clear must not remove content")
}

func testWipeConfirmed(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("a")), "a"))
	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("b")), "dir/b"))

	require.NoError(t, b.Clear(ctx, storage.ClearOptions{Confirm: true}))

	for _, id := range []string{"a", "dir/b"} {
		exists, err := b.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, exists, "id %q should be gone after wipe", id)
	}

	// The backend stays usable after a wipe.
	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("again")), "a"))
}

func testClearOlderThan(t *testing.T, factory Factory) {
	ctx := t.Context()
	b := factory(t)

	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("old")), "old"))

	// Let the filesystem clock advance past the old file's mtime.
	time.Sleep(20 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, b.Upload(ctx, bytes.NewReader([]byte("new")), "new"))

	require.NoError(t, b.Clear(ctx, storage.ClearOptions{OlderThan: cutoff}))

	exists, err := b.Exists(ctx, "old")
	require.NoError(t, err)
	assert.False(t, exists, "content older than cutoff should be removed")

	exists, err = b.Exists(ctx, "new")
	require.NoError(t, err)
	assert.True(t, exists, "content newer than cutoff should survive")
}
