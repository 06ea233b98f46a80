// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Registered decoders for the allow-listed formats.
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// OutputContentType is the type of every stored image.
const OutputContentType = "image/jpeg"

// Processor decodes, downscales and re-encodes images.
type Processor struct {
	maxDim  int
	quality int
	scaler  draw.Scaler
}

// NewProcessor creates a Processor that fits images in maxDim x maxDim and
// encodes JPEG at the given quality.
func NewProcessor(maxDim, quality int) *Processor {
	return &Processor{maxDim: maxDim, quality: quality, scaler: draw.CatmullRom}
}

// Process returns data re-encoded as JPEG, downscaled if either side
// exceeds the maximum dimension.
func (p *Processor) Process(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	sb := src.Bounds()
	w, h := fitWithin(sb.Dx(), sb.Dy(), p.maxDim)

	// JPEG has no alpha; flatten onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
	} else {
		p.scaler.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales w x h down to fit max x max keeping the aspect ratio.
// Images already inside the box are returned unchanged.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
