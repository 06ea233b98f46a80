// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/velora/internal/auth"
)

const testJWTSecret = "velora-test-secret-0123456789abcdef"

func newTestRouter(t *testing.T, env *testEnv) http.Handler {
	t.Helper()
	env.cfg.Security.JWTSecret = testJWTSecret
	tokens, err := auth.NewJWTManager(&env.cfg.Security)
	require.NoError(t, err)

	h := NewHandler(HandlerDeps{
		Config:      env.cfg,
		Accounts:    env.accounts,
		Predictions: env.predictions,
		Photos:      env.photos,
		Timeline:    env.timeline,
		Articles:    env.articles,
		Classifier:  env.classifier,
		Media:       env.media,
		Tokens:      tokens,
		Hasher:      plainHasher{},
		Denylist:    env.denylist,
		DB:          fakePinger{},
		Version:     "test",
	})
	mw := auth.NewMiddleware(tokens, env.accounts, env.denylist)
	return NewRouter(h, mw, env.cfg).SetupChi()
}

func do(t *testing.T, router http.Handler, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_System(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantMsg    string
	}{
		{"root", http.MethodGet, "/", http.StatusOK, "Welcome to Velora API"},
		{"liveness", http.MethodGet, "/health", http.StatusOK, ""},
		{"readiness", http.MethodGet, "/health/ready", http.StatusOK, ""},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound, MsgRouteNotFound},
		{"wrong method", http.MethodPost, "/health", http.StatusMethodNotAllowed, MsgBadMethod},
		{"public api route", http.MethodGet, "/api/journal/categories", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.target, "", nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeEnvelope(t, rec).Message)
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_ReadinessFailure(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Security.JWTSecret = testJWTSecret
	tokens, err := auth.NewJWTManager(&env.cfg.Security)
	require.NoError(t, err)
	h := NewHandler(HandlerDeps{Config: env.cfg, Tokens: tokens, DB: fakePinger{err: errBoom}})
	router := NewRouter(h, auth.NewMiddleware(tokens, env.accounts, nil), env.cfg).SetupChi()

	rec := do(t, router, http.MethodGet, "/health/ready", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var status HealthStatus
	resp := decodeData(t, rec, &status)
	assert.False(t, resp.Success)
	assert.Equal(t, "UNAVAILABLE", status.Status)
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	for _, target := range []string{"/api/auth/me", "/api/users/profile", "/api/diagnosa/stats", "/api/gallery/photos", "/api/timeline/summary", "/api/journal/bookmarks"} {
		rec := do(t, router, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, auth.MsgTokenMissing, decodeEnvelope(t, rec).Message, target)
	}

	rec := do(t, router, http.MethodGet, "/api/users/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.MsgTokenInvalid, decodeEnvelope(t, rec).Message)
}

func TestRouter_RegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(t, env)

	rec := do(t, router, http.MethodPost, "/api/auth/register", "", jsonBody(t, validRegistration()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/auth/login", "",
		strings.NewReader(`{"nama":"siti@example.com","password":"Rahasia123"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login AuthDTO
	decodeData(t, rec, &login)
	require.NotEmpty(t, login.Token)

	rec = do(t, router, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.MsgTokenInvalid, decodeEnvelope(t, rec).Message)
}

func TestRouter_RateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Security.RateLimitReqs = 2
	router := newTestRouter(t, env)

	for i := 0; i < 2; i++ {
		rec := do(t, router, http.MethodGet, "/api/health/parameters", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, router, http.MethodGet, "/api/health/parameters", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, MsgTooMany, decodeEnvelope(t, rec).Message)

	// Probes have their own budget.
	rec = do(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Security.RateLimitReqs = 1
	env.cfg.Security.RateLimitDisabled = true
	router := newTestRouter(t, env)

	for i := 0; i < 3; i++ {
		rec := do(t, router, http.MethodGet, "/api/health/parameters", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
