// Package promstore wraps a storage.Blob with Prometheus instrumentation.
//
// The decorator records operation counts, failures, durations, and uploaded
// bytes, labeled by backend name. Move capability checks are forwarded to
// the wrapped backend so instrumentation never changes move semantics. Note
// that wrapping hides the PathResolver capability: handles that should stay
// movable across stores should record the unwrapped backend as their origin
// (see Unwrap).
package promstore

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/blobkit/blobkit/pkg/storage"
)

// Store instruments a wrapped storage.Blob.
type Store struct {
	next storage.Blob
	name string

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	uploadedBytes     prometheus.Counter
}

// New wraps next with Prometheus instrumentation, registering metrics with
// reg. The name label distinguishes multiple instrumented backends (e.g.
// "cache" and "store") sharing one registry.
func New(next storage.Blob, name string, reg prometheus.Registerer) *Store {
	return &Store{
		next: next,
		name: name,
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name:        "blobkit_storage_operations_total",
				Help:        "Total number of storage operations by operation and status",
				ConstLabels: prometheus.Labels{"backend": name},
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "blobkit_storage_operation_duration_seconds",
				Help:        "Duration of storage operations in seconds",
				ConstLabels: prometheus.Labels{"backend": name},
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		uploadedBytes: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name:        "blobkit_storage_uploaded_bytes_total",
				Help:        "Total bytes written through Upload",
				ConstLabels: prometheus.Labels{"backend": name},
			},
		),
	}
}

// observe records one completed operation.
func (s *Store) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.operationsTotal.WithLabelValues(op, status).Inc()
	s.operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// countingReader counts bytes as the wrapped backend consumes them.
type countingReader struct {
	io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.n += int64(n)
	return n, err
}

func (s *Store) Upload(ctx context.Context, content io.Reader, id string) error {
	start := time.Now()

	// Rewinding must see the original reader, so seekable sources pass
	// through unwrapped and are not byte-counted.
	if _, ok := content.(io.Seeker); ok {
		err := s.next.Upload(ctx, content, id)
		s.observe("upload", start, err)
		return err
	}

	cr := &countingReader{Reader: content}
	err := s.next.Upload(ctx, cr, id)
	s.observe("upload", start, err)
	if err == nil {
		s.uploadedBytes.Add(float64(cr.n))
	}
	return err
}

func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	start := time.Now()
	r, err := s.next.Open(ctx, id)
	s.observe("open", start, err)
	return r, err
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()
	data, err := s.next.Read(ctx, id)
	s.observe("read", start, err)
	return data, err
}

func (s *Store) Download(ctx context.Context, id string) (*os.File, error) {
	start := time.Now()
	f, err := s.next.Download(ctx, id)
	s.observe("download", start, err)
	return f, err
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	ok, err := s.next.Exists(ctx, id)
	s.observe("exists", start, err)
	return ok, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe("delete", start, err)
	return err
}

func (s *Store) URL(id string) string {
	return s.next.URL(id)
}

func (s *Store) Clear(ctx context.Context, opts storage.ClearOptions) error {
	start := time.Now()
	err := s.next.Clear(ctx, opts)
	s.observe("clear", start, err)
	return err
}

// Move forwards to the wrapped backend's Mover capability.
// Returns storage.ErrNotMovable if the wrapped backend has none.
func (s *Store) Move(ctx context.Context, src any, id string) error {
	m, ok := s.next.(storage.Mover)
	if !ok {
		return storage.ErrNotMovable
	}
	start := time.Now()
	err := m.Move(ctx, src, id)
	s.observe("move", start, err)
	return err
}

// CanMove reports the wrapped backend's move capability.
func (s *Store) CanMove(src any) bool {
	return storage.Movable(s.next, src)
}

// Unwrap returns the wrapped backend.
func (s *Store) Unwrap() storage.Blob {
	return s.next
}

// Ensure Store implements the contract and forwards the Mover capability.
var (
	_ storage.Blob  = (*Store)(nil)
	_ storage.Mover = (*Store)(nil)
)
