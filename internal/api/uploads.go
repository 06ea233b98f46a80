// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/docker/go-units"

	"github.com/tomtom215/velora/internal/media"
	"github.com/tomtom215/velora/internal/validation"
)

const (
	// multipartMemory is kept in memory before parts spill to temp files.
	multipartMemory = 8 << 20
	// multipartOverhead covers form fields and part headers.
	multipartOverhead = 1 << 20
)

// errMediaDisabled is reported when no image pipeline is configured.
var errMediaDisabled = errors.New("media pipeline not configured")

// parseUpload bounds and parses a multipart body expected to hold at most
// files images. It writes the error response itself and reports success.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request, files int) bool {
	if h.media == nil {
		h.respondInternal(w, r, errMediaDisabled)
		return false
	}
	limit := h.media.MaxBytes()*int64(files) + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.respondMediaError(w, r, media.ErrFileTooLarge)
		case errors.Is(err, http.ErrNotMultipart):
			respondError(w, http.StatusBadRequest, MsgNoFile)
		default:
			respondError(w, http.StatusBadRequest, MsgInvalidData)
		}
		return false
	}
	return true
}

// formFiles returns the uploaded files under field as pipeline sources.
func formFiles(r *http.Request, field string) []media.Source {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[field]
	srcs := make([]media.Source, 0, len(headers))
	for _, fh := range headers {
		srcs = append(srcs, media.FromFileHeader(fh))
	}
	return srcs
}

// formFile returns the first upload under field.
func formFile(r *http.Request, field string) (*multipart.FileHeader, bool) {
	if r.MultipartForm == nil {
		return nil, false
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, false
	}
	return headers[0], true
}

// respondMediaError maps pipeline rejections to 400 and anything else to 500.
func (h *Handler) respondMediaError(w http.ResponseWriter, r *http.Request, err error) {
	var message string
	switch {
	case errors.Is(err, media.ErrNoFile):
		message = MsgNoFile
	case errors.Is(err, media.ErrFileTooLarge):
		message = fmt.Sprintf("%s (maksimal %s)", MsgFileTooLarge, units.BytesSize(float64(h.media.MaxBytes())))
	case errors.Is(err, media.ErrUnsupportedType):
		message = MsgUnsupportedType
	case errors.Is(err, media.ErrTooManyFiles):
		message = fmt.Sprintf("%s (maksimal %d file)", MsgTooManyFiles, h.media.MaxBatch())
	case errors.Is(err, media.ErrTooManyPixels):
		message = MsgTooManyPixels
	case errors.Is(err, media.ErrUndecodable):
		message = MsgUndecodable
	default:
		h.respondInternal(w, r, err)
		return
	}
	respondValidation(w, message, validation.NewRequestValidationError(validation.FieldErr("file", err.Error())))
}
