// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/validation"
)

func TestRespondSuccess_OmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	respondSuccess(rec, http.StatusOK, "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestRespondValidation_ListsFields(t *testing.T) {
	rec := httptest.NewRecorder()
	respondValidation(rec, MsgInvalidData, validation.NewRequestValidationError(
		validation.FieldErr("email", "Email tidak valid"),
		validation.FieldErr("phone", "Nomor HP tidak valid"),
	))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"success": false,
		"message": "Data tidak valid",
		"errors": [
			{"field": "email", "message": "Email tidak valid"},
			{"field": "phone", "message": "Nomor HP tidak valid"}
		]
	}`, rec.Body.String())
}

func TestRespondStoreError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		environment string
		wantStatus  int
		wantMsg     string
		wantDetail  bool
	}{
		{"not found", database.ErrNotFound, "development", http.StatusNotFound, MsgPhotoNotFound, false},
		{"duplicate", fmt.Errorf("insert: %w", database.ErrDuplicate), "production", http.StatusBadRequest, MsgDuplicate, false},
		{"not null", database.ErrNotNull, "production", http.StatusBadRequest, MsgMissingData, false},
		{"unknown in production", errBoom, "production", http.StatusInternalServerError, MsgInternalError, false},
		{"unknown in development", errBoom, "development", http.StatusInternalServerError, MsgInternalError, true},
		{"duplicate in development", database.ErrDuplicate, "dev", http.StatusBadRequest, MsgDuplicate, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.Environment = tt.environment
			h := NewHandler(HandlerDeps{Config: cfg})

			rec := httptest.NewRecorder()
			h.respondStoreError(rec, httptest.NewRequest(http.MethodGet, "/api/gallery/photos/1", nil), tt.err, MsgPhotoNotFound)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMsg, resp.Message)
			if tt.wantDetail {
				assert.Equal(t, tt.err.Error(), resp.Error)
			} else {
				assert.Empty(t, resp.Error)
			}
		})
	}
}

func TestRespondInternal_DetailOnlyInDevelopment(t *testing.T) {
	for env, want := range map[string]string{"production": "", "development": "boom"} {
		cfg := &config.Config{}
		cfg.Server.Environment = env
		h := NewHandler(HandlerDeps{Config: cfg})

		rec := httptest.NewRecorder()
		h.respondInternal(rec, httptest.NewRequest(http.MethodGet, "/", nil), errBoom)

		assert.Equal(t, http.StatusInternalServerError, rec.Code, env)
		assert.Equal(t, want, decodeEnvelope(t, rec).Error, env)
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  pageParams
	}{
		{"", pageParams{Page: 1, Limit: 10}},
		{"page=3&limit=20", pageParams{Page: 3, Limit: 20}},
		{"page=0&limit=0", pageParams{Page: 1, Limit: 10}},
		{"page=x&limit=y", pageParams{Page: 1, Limit: 10}},
		{"limit=1000", pageParams{Page: 1, Limit: 100}},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		assert.Equal(t, tt.want, parsePage(r, 10, 100), tt.query)
	}

	t.Run("huge page keeps offset in range", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?page=9223372036854775807&limit=50", nil)
		p := parsePage(r, 10, 100)
		assert.Equal(t, 42949672, p.Page)
		assert.Positive(t, p.Offset())
		assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
	})

	t.Run("uncapped limit still bounded", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?page=3&limit=9223372036854775807", nil)
		p := parsePage(r, 10, 0)
		assert.Equal(t, math.MaxInt32, p.Limit)
		assert.Equal(t, 1, p.Page)
		assert.Zero(t, p.Offset())
	})

	p := pageParams{Page: 2, Limit: 10}
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 21, ItemsPerPage: 10}, p.Pagination(21))
	assert.Equal(t, 0, p.Pagination(0).TotalPages)
}
