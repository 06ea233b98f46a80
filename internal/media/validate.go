// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package media

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"

	"github.com/docker/go-units"
	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

// Source is one uploaded file.
type Source struct {
	Name string
	// Size is the size declared by the client, or 0 when unknown.
	Size int64
	Open func() (io.ReadCloser, error)
}

// FromFileHeader wraps a multipart file part.
func FromFileHeader(fh *multipart.FileHeader) Source {
	return Source{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// FromBytes wraps an in-memory upload.
func FromBytes(name string, data []byte) Source {
	return Source{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// checked is an upload that passed the size and type checks.
type checked struct {
	name        string
	data        []byte
	contentType string
}

// DefaultMaxPixels bounds the decoded canvas of a single upload.
const DefaultMaxPixels = 40_000_000

// Validator enforces the size limit, content-type allow-list and pixel limit.
type Validator struct {
	maxBytes  int64
	maxPixels int64
	allowed   []string
}

// NewValidator creates a Validator with the DefaultMaxPixels limit.
func NewValidator(maxBytes int64, allowed []string) *Validator {
	return &Validator{maxBytes: maxBytes, maxPixels: DefaultMaxPixels, allowed: allowed}
}

// WithMaxPixels sets the largest width*height accepted. Values below 1 keep
// the current limit.
func (v *Validator) WithMaxPixels(n int64) *Validator {
	if n > 0 {
		v.maxPixels = n
	}
	return v
}

// MaxBytes returns the per-file limit.
func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

func (v *Validator) tooLarge(size int64) error {
	return fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge,
		units.BytesSize(float64(size)), units.BytesSize(float64(v.maxBytes)))
}

// check reads at most maxBytes+1 bytes from src, sniffs the result and reads
// the image header. Nothing is decoded past the header.
func (v *Validator) check(src Source) (*checked, error) {
	if src.Open == nil {
		return nil, ErrNoFile
	}
	if src.Size > v.maxBytes {
		return nil, v.tooLarge(src.Size)
	}

	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", src.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, v.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", src.Name, err)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if int64(len(data)) > v.maxBytes {
		return nil, v.tooLarge(int64(len(data)))
	}

	mt := mimetype.Detect(data)
	if !lo.ContainsBy(v.allowed, mt.Is) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > v.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	return &checked{name: src.Name, data: data, contentType: mt.String()}, nil
}
