// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/validation"
)

// APIResponse is the envelope shared by every JSON response.
type APIResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    interface{}             `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`

	// Error carries the underlying error text in development only.
	Error string `json:"error,omitempty"`
}

// writeJSON writes body with the given status.
func writeJSON(w http.ResponseWriter, status int, body *APIResponse) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a success envelope. An empty message is omitted.
func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, &APIResponse{Success: true, Message: message, Data: data})
}

// respondError writes a failure envelope without field errors.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &APIResponse{Success: false, Message: message})
}

// respondValidation writes a 400 with every failed field.
func respondValidation(w http.ResponseWriter, message string, verr *validation.RequestValidationError) {
	body := &APIResponse{Success: false, Message: message}
	if verr != nil {
		body.Errors = verr.Errors()
	}
	writeJSON(w, http.StatusBadRequest, body)
}

// respondStoreError maps database sentinels onto the envelope. notFound is
// the message used for database.ErrNotFound.
func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		status  int
		message string
	)
	switch {
	case errors.Is(err, database.ErrNotFound):
		status, message = http.StatusNotFound, notFound
	case errors.Is(err, database.ErrDuplicate):
		status, message = http.StatusBadRequest, MsgDuplicate
	case errors.Is(err, database.ErrNotNull):
		status, message = http.StatusBadRequest, MsgMissingData
	default:
		status, message = http.StatusInternalServerError, MsgInternalError
	}

	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}

	body := &APIResponse{Success: false, Message: message}
	if h.cfg != nil && h.cfg.IsDevelopment() && status != http.StatusNotFound {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

// respondInternal logs err and writes a generic 500.
func (h *Handler) respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")

	body := &APIResponse{Success: false, Message: MsgInternalError}
	if h.cfg != nil && h.cfg.IsDevelopment() {
		body.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}
