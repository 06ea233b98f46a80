// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package media

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/metrics"
)

// StoredImage is the result of one successful ingestion.
type StoredImage struct {
	URL         string
	Path        string
	Bucket      string
	Size        int64
	ContentType string
	// OriginalName is the client file name, kept for logs only.
	OriginalName string
}

// Pipeline validates, processes and stores uploaded images.
type Pipeline struct {
	backend      ImageStorageBackend
	validator    *Validator
	processor    *Processor
	maxBatch     int
	prefix       string
	avatarPrefix string
	now          func() time.Time
}

// NewPipeline creates a Pipeline from media configuration.
func NewPipeline(mc *config.MediaConfig, backend ImageStorageBackend) *Pipeline {
	return &Pipeline{
		backend:      backend,
		validator:    NewValidator(mc.MaxUploadBytes(), mc.AllowedTypes).WithMaxPixels(mc.MaxPixels),
		processor:    NewProcessor(mc.MaxDimension, mc.JPEGQuality),
		maxBatch:     mc.MaxBatchFiles,
		prefix:       mc.Prefix,
		avatarPrefix: mc.AvatarPrefix,
		now:          time.Now,
	}
}

// Backend returns the storage backend.
func (p *Pipeline) Backend() ImageStorageBackend { return p.backend }

// GalleryPrefix is the key prefix for gallery photos.
func (p *Pipeline) GalleryPrefix() string { return p.prefix }

// AvatarPrefix is the key prefix for profile pictures.
func (p *Pipeline) AvatarPrefix() string { return p.avatarPrefix }

// MaxBatch is the largest number of files IngestBatch accepts.
func (p *Pipeline) MaxBatch() int { return p.maxBatch }

// MaxBytes is the per-file size limit.
func (p *Pipeline) MaxBytes() int64 { return p.validator.MaxBytes() }

// Ingest stores one image under prefix.
func (p *Pipeline) Ingest(ctx context.Context, src Source, prefix string) (*StoredImage, error) {
	c, err := p.validator.check(src)
	if err != nil {
		p.record(err, 0)
		return nil, err
	}
	img, err := p.store(ctx, c, prefix)
	p.record(err, sizeOf(img))
	return img, err
}

// IngestBatch validates every file before processing any of them. If a
// later file fails to store, the earlier blobs are rolled back.
func (p *Pipeline) IngestBatch(ctx context.Context, srcs []Source, prefix string) ([]*StoredImage, error) {
	if len(srcs) == 0 {
		return nil, ErrNoFile
	}
	if len(srcs) > p.maxBatch {
		return nil, fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(srcs), p.maxBatch)
	}

	checkedFiles := make([]*checked, 0, len(srcs))
	for _, src := range srcs {
		c, err := p.validator.check(src)
		if err != nil {
			p.record(err, 0)
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
		checkedFiles = append(checkedFiles, c)
	}

	stored := make([]*StoredImage, 0, len(checkedFiles))
	for _, c := range checkedFiles {
		img, err := p.store(ctx, c, prefix)
		p.record(err, sizeOf(img))
		if err != nil {
			p.Rollback(ctx, stored...)
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		stored = append(stored, img)
	}
	return stored, nil
}

func (p *Pipeline) store(ctx context.Context, c *checked, prefix string) (*StoredImage, error) {
	out, err := p.processor.Process(c.data)
	if err != nil {
		return nil, err
	}
	key := p.newKey(prefix)
	if err := p.backend.Put(ctx, key, out, OutputContentType); err != nil {
		return nil, err
	}
	return &StoredImage{
		URL:          p.backend.URL(key),
		Path:         key,
		Bucket:       p.backend.Bucket(),
		Size:         int64(len(out)),
		ContentType:  OutputContentType,
		OriginalName: c.name,
	}, nil
}

func (p *Pipeline) newKey(prefix string) string {
	return fmt.Sprintf("%s%d-%s.jpg", prefix, p.now().UnixMilli(), uuid.NewString())
}

// Rollback deletes blobs whose rows were never written. Failures are left
// for the reconciler.
func (p *Pipeline) Rollback(ctx context.Context, imgs ...*StoredImage) {
	for _, img := range imgs {
		if img == nil {
			continue
		}
		metrics.MediaOrphanBlobs.WithLabelValues("rollback").Inc()
		if err := p.backend.Delete(context.WithoutCancel(ctx), img.Path); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("path", img.Path).Msg("Failed to roll back stored image")
		}
	}
}

// Remove deletes a blob after its row is gone. A failure is logged and
// never reported to the caller.
func (p *Pipeline) Remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := p.backend.Delete(context.WithoutCancel(ctx), path); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("Failed to delete stored image")
	}
}

func (p *Pipeline) record(err error, size int64) {
	switch {
	case err == nil:
		metrics.RecordUpload("stored", size)
	case IsRejection(err):
		metrics.RecordUpload("rejected", 0)
	default:
		metrics.RecordUpload("failed", 0)
	}
}

func sizeOf(img *StoredImage) int64 {
	if img == nil {
		return 0
	}
	return img.Size
}
