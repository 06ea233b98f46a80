// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package media

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/logging"
)

// Object describes one stored blob.
type Object struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// ImageStorageBackend stores image blobs by key.
type ImageStorageBackend interface {
	// Name identifies the backend in logs ("s3" or "local").
	Name() string
	// Bucket is recorded on each photo row.
	Bucket() string
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Object, error)
	// URL returns the public URL for key.
	URL(key string) string
}

// NewBackend selects the storage backend once at startup. An S3 backend
// without static credentials falls back to local disk.
func NewBackend(ctx context.Context, mc *config.MediaConfig, sc *config.S3Config) (ImageStorageBackend, error) {
	switch mc.Backend {
	case "local":
		return NewLocalBackend(mc.LocalDir, mc.Bucket, mc.PublicBaseURL)
	case "s3":
		if !sc.HasCredentials() {
			logging.Warn().
				Str("dir", mc.LocalDir).
				Msg("S3 credentials not configured, storing images on local disk")
			return NewLocalBackend(mc.LocalDir, mc.Bucket, mc.PublicBaseURL)
		}
		return NewS3Backend(ctx, sc, mc.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", mc.Backend)
	}
}
