// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/velora/internal/auth"
	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/models"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// testEnv bundles a Handler with the fakes behind it.
type testEnv struct {
	h           *Handler
	cfg         *config.Config
	accounts    *fakeAccounts
	predictions *fakePredictions
	photos      *fakePhotos
	timeline    *fakeTimeline
	articles    *fakeArticles
	classifier  *fakeClassifier
	media       *fakeMedia
	denylist    *auth.MemoryDenylist
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		cfg:         &config.Config{},
		accounts:    newFakeAccounts(),
		predictions: &fakePredictions{},
		photos:      newFakePhotos(),
		timeline:    newFakeTimeline(),
		articles:    newFakeArticles(),
		classifier:  &fakeClassifier{tier: models.RiskLow},
		media:       newFakeMedia(),
		denylist:    auth.NewMemoryDenylist(16),
	}
	env.cfg.Server.Environment = "production"
	env.cfg.API.MaxPageSize = 50
	env.h = NewHandler(HandlerDeps{
		Config:      env.cfg,
		Accounts:    env.accounts,
		Predictions: env.predictions,
		Photos:      env.photos,
		Timeline:    env.timeline,
		Articles:    env.articles,
		Classifier:  env.classifier,
		Media:       env.media,
		Tokens:      staticTokens{},
		Hasher:      plainHasher{},
		Denylist:    env.denylist,
		DB:          fakePinger{},
		Version:     "test",
	})
	env.h.now = func() time.Time { return fixedNow }
	return env
}

// addAccount stores an active account with password "Rahasia123".
func (env *testEnv) addAccount(id, name, email string) *models.Account {
	a := &models.Account{
		ID:           id,
		FullName:     name,
		Email:        email,
		PasswordHash: "hashed:Rahasia123",
		IsActive:     true,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
	env.accounts.byID[id] = a
	return a
}

// request describes one handler invocation.
type request struct {
	method  string
	target  string
	body    io.Reader
	ctype   string
	account *models.Account
	params  map[string]string
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func (rq request) build() *http.Request {
	target := rq.target
	if target == "" {
		target = "/"
	}
	req := httptest.NewRequest(rq.method, target, rq.body)
	if rq.ctype != "" {
		req.Header.Set("Content-Type", rq.ctype)
	} else if rq.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := req.Context()
	if len(rq.params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range rq.params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	if rq.account != nil {
		ctx = auth.ContextWithAccount(ctx, rq.account)
	}
	return req.WithContext(ctx)
}

// serve runs fn, wrapping account handlers the way the router does.
func serve(fn interface{}, rq request) *httptest.ResponseRecorder {
	var handler http.HandlerFunc
	switch f := fn.(type) {
	case func(http.ResponseWriter, *http.Request, *models.Account):
		handler = withAccount(f)
	case func(http.ResponseWriter, *http.Request):
		handler = f
	default:
		panic("unsupported handler type")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, rq.build())
	return rec
}

// envelope is the decoded response with data left raw.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Error string `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, dst), "data: %s", env.Data)
	return env
}

func (e envelope) fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}

// multipartBody builds a form with the given files under field and extra values.
func multipartBody(t *testing.T, field string, files map[string][]byte, values map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func ptr[T any](v T) *T { return &v }
