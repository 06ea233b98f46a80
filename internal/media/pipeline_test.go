// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package media

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/velora/internal/config"
)

func newTestPipeline(t *testing.T, backend ImageStorageBackend, maxBytes int64) (*Pipeline, *spyScaler) {
	t.Helper()
	spy := &spyScaler{}
	proc := NewProcessor(100, 85)
	proc.scaler = spy
	return &Pipeline{
		backend:      backend,
		validator:    NewValidator(maxBytes, allowedTypes),
		processor:    proc,
		maxBatch:     3,
		prefix:       "uploads/",
		avatarPrefix: "avatars/",
		now:          func() time.Time { return time.UnixMilli(1772359200000) },
	}, spy
}

func TestPipelineIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("stores processed jpeg", func(t *testing.T) {
		backend := newFakeBackend()
		p, spy := newTestPipeline(t, backend, 1<<20)

		img, err := p.Ingest(ctx, FromBytes("belly.png", pngBytes(t, 300, 150)), p.GalleryPrefix())
		require.NoError(t, err)

		assert.Regexp(t, `^uploads/1772359200000-[0-9a-f-]{36}\.jpg$`, img.Path)
		assert.Equal(t, "gallery-photos", img.Bucket)
		assert.Equal(t, OutputContentType, img.ContentType)
		assert.Equal(t, "https://cdn.test/gallery-photos/"+img.Path, img.URL)
		assert.Equal(t, int64(len(backend.blobs[img.Path].data)), img.Size)
		assert.Equal(t, int32(1), spy.calls.Load())
	})

	t.Run("huge canvas rejected before decode", func(t *testing.T) {
		backend := newFakeBackend()
		p, spy := newTestPipeline(t, backend, 1<<20)

		_, err := p.Ingest(ctx, FromBytes("bomb.png", pngWithCanvas(t, 16000, 16000)), p.GalleryPrefix())
		require.ErrorIs(t, err, ErrTooManyPixels)
		assert.Zero(t, spy.calls.Load())
		assert.Empty(t, backend.keys())
	})

	t.Run("oversized upload rejected before resize", func(t *testing.T) {
		backend := newFakeBackend()
		data := pngBytes(t, 300, 150)
		p, spy := newTestPipeline(t, backend, int64(len(data)-1))

		_, err := p.Ingest(ctx, FromBytes("big.png", data), p.GalleryPrefix())
		require.ErrorIs(t, err, ErrFileTooLarge)
		assert.Zero(t, spy.calls.Load())
		assert.Empty(t, backend.keys())
	})

	t.Run("disallowed type rejected before resize", func(t *testing.T) {
		backend := newFakeBackend()
		p, spy := newTestPipeline(t, backend, 1<<20)

		_, err := p.Ingest(ctx, FromBytes("x.png", []byte("GIF89a......")), p.GalleryPrefix())
		require.ErrorIs(t, err, ErrUnsupportedType)
		assert.Zero(t, spy.calls.Load())
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		backend := newFakeBackend()
		backend.putErr = errBoom
		p, _ := newTestPipeline(t, backend, 1<<20)

		_, err := p.Ingest(ctx, FromBytes("a.png", pngBytes(t, 20, 20)), p.AvatarPrefix())
		require.ErrorIs(t, err, errBoom)
		assert.False(t, IsRejection(err))
	})
}

func TestPipelineIngestBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("stores every file", func(t *testing.T) {
		backend := newFakeBackend()
		p, _ := newTestPipeline(t, backend, 1<<20)

		imgs, err := p.IngestBatch(ctx, []Source{
			FromBytes("1.png", pngBytes(t, 20, 20)),
			FromBytes("2.png", pngBytes(t, 30, 30)),
		}, p.GalleryPrefix())
		require.NoError(t, err)
		require.Len(t, imgs, 2)
		assert.NotEqual(t, imgs[0].Path, imgs[1].Path)
		assert.Len(t, backend.keys(), 2)
	})

	t.Run("too many files", func(t *testing.T) {
		p, _ := newTestPipeline(t, newFakeBackend(), 1<<20)
		srcs := make([]Source, 4)
		for i := range srcs {
			srcs[i] = FromBytes(fmt.Sprintf("%d.png", i), pngBytes(t, 10, 10))
		}
		_, err := p.IngestBatch(ctx, srcs, p.GalleryPrefix())
		require.ErrorIs(t, err, ErrTooManyFiles)
	})

	t.Run("empty batch", func(t *testing.T) {
		p, _ := newTestPipeline(t, newFakeBackend(), 1<<20)
		_, err := p.IngestBatch(ctx, nil, p.GalleryPrefix())
		require.ErrorIs(t, err, ErrNoFile)
	})

	t.Run("one invalid file stores nothing", func(t *testing.T) {
		backend := newFakeBackend()
		p, spy := newTestPipeline(t, backend, 1<<20)

		_, err := p.IngestBatch(ctx, []Source{
			FromBytes("1.png", pngBytes(t, 200, 200)),
			FromBytes("notes.txt", []byte("just some text")),
		}, p.GalleryPrefix())
		require.ErrorIs(t, err, ErrUnsupportedType)
		assert.Empty(t, backend.keys())
		assert.Zero(t, spy.calls.Load())
	})

	t.Run("later storage failure rolls back earlier blobs", func(t *testing.T) {
		backend := newFakeBackend()
		backend.putErr = errBoom
		backend.putFailAt = 2
		p, _ := newTestPipeline(t, backend, 1<<20)

		_, err := p.IngestBatch(ctx, []Source{
			FromBytes("1.png", pngBytes(t, 20, 20)),
			FromBytes("2.png", pngBytes(t, 20, 20)),
		}, p.GalleryPrefix())
		require.ErrorIs(t, err, errBoom)
		assert.Empty(t, backend.keys())
		assert.Len(t, backend.deleted, 1)
	})
}

func TestPipelineRollbackAndRemove(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	p, _ := newTestPipeline(t, backend, 1<<20)

	img, err := p.Ingest(ctx, FromBytes("a.png", pngBytes(t, 20, 20)), p.GalleryPrefix())
	require.NoError(t, err)

	p.Rollback(ctx, nil, img)
	assert.Empty(t, backend.keys())

	backend.deleteErr = errBoom
	assert.NotPanics(t, func() { p.Remove(ctx, "uploads/missing.jpg") })
	assert.NotPanics(t, func() { p.Remove(ctx, "") })
}

func TestNewPipelineFromConfig(t *testing.T) {
	mc := &config.MediaConfig{
		Prefix:        "uploads/",
		AvatarPrefix:  "avatars/",
		AllowedTypes:  allowedTypes,
		MaxBatchFiles: 10,
		MaxDimension:  1200,
		JPEGQuality:   85,
	}
	p := NewPipeline(mc, newFakeBackend())
	assert.Equal(t, "uploads/", p.GalleryPrefix())
	assert.Equal(t, "avatars/", p.AvatarPrefix())
	assert.Equal(t, 10, p.MaxBatch())
	assert.Equal(t, "fake", p.Backend().Name())
}
