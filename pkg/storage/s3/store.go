// Package s3 provides an S3-backed implementation of storage.Blob.
//
// It exists so orchestration layers can pair a local cache tier with a
// durable S3 store tier behind the same contract. S3 objects have no local
// filesystem path, so this backend is not a storage.Mover: Movable reports
// false for cross-backend transfers and callers fall back to Upload.
package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/blobkit/blobkit/pkg/storage"
)

// Config holds configuration for the S3 store.
type Config struct {
	// Bucket is the S3 bucket name. Required.
	Bucket string

	// Region is the AWS region (optional, uses SDK default if empty).
	Region string

	// Endpoint is the S3 endpoint URL (optional, for S3-compatible services).
	Endpoint string

	// AccessKey and SecretKey are static credentials (optional; the SDK's
	// default credential chain is used when empty).
	AccessKey string
	SecretKey string

	// KeyPrefix is prepended to all identifiers (e.g. "uploads/").
	// Should end with "/" if non-empty.
	KeyPrefix string

	// Host optionally prefixes generated URLs (e.g. a CDN domain). When
	// empty, URL returns an s3:// pseudo-URL.
	Host string

	// ForcePathStyle forces path-style addressing (required for MinIO and
	// Localstack).
	ForcePathStyle bool
}

// Store is an S3-backed implementation of storage.Blob.
type Store struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
	host      string
}

// New creates an S3 store with an existing client.
func New(client *s3.Client, cfg Config) *Store {
	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
		host:      cfg.Host,
	}
}

// NewFromConfig creates an S3 store by building an S3 client from config.
// This is the preferred constructor when you don't have an existing client.
func NewFromConfig(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)

	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return New(s3.NewFromConfig(awsCfg, s3Opts...), cfg), nil
}

// key returns the full S3 object key for an identifier.
func (s *Store) key(id string) string {
	return s.keyPrefix + id
}

// Upload writes the content stream to S3 under id. Seekable sources are
// rewound after the upload so callers may reuse them.
func (s *Store) Upload(ctx context.Context, content io.Reader, id string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
		Body:   content,
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}

	if sk, ok := content.(io.Seeker); ok {
		sk.Seek(0, io.SeekStart) //nolint:errcheck
	}

	return nil
}

// Open returns the object body as a stream.
// Returns storage.ErrNotFound if the object doesn't exist.
func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	return resp.Body, nil
}

// Read returns the full object content.
func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	body, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object body: %w", err)
	}
	return data, nil
}

// Download copies the object into a newly created temporary file and returns
// the handle positioned at the start.
func (s *Store) Download(ctx context.Context, id string) (*os.File, error) {
	body, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "blobkit-*")
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("download s3 object: %w", err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}

	return tmp, nil
}

// Exists reports whether an object is stored under id.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head object: %w", err)
	}
	return true, nil
}

// Delete removes the object stored under id.
// Returns storage.ErrNotFound if the object doesn't exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	// DeleteObject is idempotent; check first so missing ids surface as
	// ErrNotFound per the contract.
	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return storage.ErrNotFound
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}

// URL returns Host + "/" + key when a host is configured, otherwise an
// s3://bucket/key pseudo-URL.
func (s *Store) URL(id string) string {
	if s.host != "" {
		return s.host + "/" + s.key(id)
	}
	return "s3://" + s.bucket + "/" + s.key(id)
}

// Clear bulk-removes objects under the key prefix. With OlderThan set only
// objects whose LastModified strictly precedes the cutoff are removed; a
// full wipe requires Confirm.
func (s *Store) Clear(ctx context.Context, opts storage.ClearOptions) error {
	pruning := !opts.OlderThan.IsZero()
	if !pruning && !opts.Confirm {
		return storage.ErrUnconfirmed
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.keyPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("s3 list objects: %w", err)
		}

		objects := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			if pruning && !olderThan(obj.LastModified, opts.OlderThan) {
				continue
			}
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}

		if len(objects) == 0 {
			continue
		}

		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects},
		})
		if err != nil {
			return fmt.Errorf("s3 delete objects: %w", err)
		}
	}

	return nil
}

func olderThan(lastModified *time.Time, cutoff time.Time) bool {
	return lastModified != nil && lastModified.Before(cutoff)
}

// isNotFoundError checks if an error is an S3 not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "NoSuchKey") ||
		strings.Contains(errStr, "NotFound") ||
		strings.Contains(errStr, "404")
}

// Ensure Store implements storage.Blob.
var _ storage.Blob = (*Store)(nil)
