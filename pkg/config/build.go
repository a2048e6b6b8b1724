package config

import (
	"context"
	"fmt"

	"github.com/blobkit/blobkit/pkg/storage"
	"github.com/blobkit/blobkit/pkg/storage/fs"
	"github.com/blobkit/blobkit/pkg/storage/memory"
	s3store "github.com/blobkit/blobkit/pkg/storage/s3"
)

// Build constructs the named backend declared in the configuration.
func (c *Config) Build(ctx context.Context, name string) (storage.Blob, error) {
	b, ok := c.Backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", name)
	}
	return b.Build(ctx)
}

// Build constructs the backend this configuration declares.
func (b BackendConfig) Build(ctx context.Context) (storage.Blob, error) {
	switch b.Type {
	case "fs":
		fileMode, err := ParseMode(b.FS.FileMode)
		if err != nil {
			return nil, err
		}
		dirMode, err := ParseMode(b.FS.DirMode)
		if err != nil {
			return nil, err
		}

		cfg := fs.DefaultConfig(b.FS.Root)
		cfg.Prefix = b.FS.Prefix
		cfg.Host = b.FS.Host
		if fileMode != 0 {
			cfg.FileMode = fileMode
		}
		if dirMode != 0 {
			cfg.DirMode = dirMode
		}
		if b.FS.Clean != nil {
			cfg.Clean = *b.FS.Clean
		}
		return fs.New(cfg)

	case "s3":
		return s3store.NewFromConfig(ctx, s3store.Config{
			Bucket:         b.S3.Bucket,
			Region:         b.S3.Region,
			Endpoint:       b.S3.Endpoint,
			AccessKey:      b.S3.AccessKey,
			SecretKey:      b.S3.SecretKey,
			KeyPrefix:      b.S3.KeyPrefix,
			Host:           b.S3.Host,
			ForcePathStyle: b.S3.ForcePathStyle,
		})

	case "memory":
		return memory.New(), nil
	}

	return nil, fmt.Errorf("unknown backend type %q", b.Type)
}
