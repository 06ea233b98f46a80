// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngWithCanvas returns a tiny PNG whose header declares a w x h canvas.
// Only the IHDR chunk is rewritten, so decoding the pixels fails but the
// header reads cleanly.
func pngWithCanvas(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	// signature(8) length(4) "IHDR"(4) data(13) crc(4)
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

// spyScaler counts resize calls.
type spyScaler struct {
	calls atomic.Int32
}

func (s *spyScaler) Scale(dst draw.Image, dr image.Rectangle, src image.Image, sr image.Rectangle, op draw.Op, opts *draw.Options) {
	s.calls.Add(1)
	draw.ApproxBiLinear.Scale(dst, dr, src, sr, op, opts)
}

type storedBlob struct {
	data    []byte
	modTime time.Time
}

// fakeBackend is an in-memory ImageStorageBackend.
type fakeBackend struct {
	mu        sync.Mutex
	blobs     map[string]storedBlob
	putErr    error
	putFailAt int // 1-based Put call that fails; 0 means putErr applies to all
	puts      int
	deleteErr error
	listErr   error
	deleted   []string
	now       func() time.Time
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{blobs: map[string]storedBlob{}, now: time.Now}
}

func (f *fakeBackend) Name() string   { return "fake" }
func (f *fakeBackend) Bucket() string { return "gallery-photos" }

func (f *fakeBackend) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil && (f.putFailAt == 0 || f.putFailAt == f.puts) {
		return f.putErr
	}
	f.blobs[key] = storedBlob{data: data, modTime: f.now()}
	return nil
}

func (f *fakeBackend) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	delete(f.blobs, key)
	return nil
}

func (f *fakeBackend) List(_ context.Context, prefix string) ([]Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Object
	for k, b := range f.blobs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, Object{Key: k, Size: int64(len(b.data)), ModTime: b.modTime})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeBackend) URL(key string) string { return "https://cdn.test/gallery-photos/" + key }

func (f *fakeBackend) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.blobs))
	for k := range f.blobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var errBoom = errors.New("boom")
