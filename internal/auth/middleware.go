// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/models"
)

// Messages returned by Authenticate.
const (
	MsgTokenMissing  = "Token akses tidak ditemukan"
	MsgTokenExpired  = "Token telah kedaluwarsa"
	MsgTokenInvalid  = "Token tidak valid"
	MsgAccountClosed = "Akun tidak aktif"
	MsgServerError   = "Terjadi kesalahan pada server"
)

type contextKey string

const (
	accountContextKey contextKey = "account"
	claimsContextKey  contextKey = "claims"
)

// AccountLookup loads an account by id. It returns database.ErrNotFound for
// unknown ids.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

// TokenVerifier verifies raw bearer tokens.
type TokenVerifier interface {
	VerifyToken(raw string) (*Claims, error)
}

// Middleware authenticates requests carrying a bearer token.
type Middleware struct {
	tokens   TokenVerifier
	accounts AccountLookup
	denylist Denylist
	security *logging.SecurityLogger
}

// NewMiddleware creates the authorization middleware. A nil denylist disables revocation checks.
func NewMiddleware(tokens TokenVerifier, accounts AccountLookup, denylist Denylist) *Middleware {
	if denylist == nil {
		denylist = NoopDenylist{}
	}
	return &Middleware{
		tokens:   tokens,
		accounts: accounts,
		denylist: denylist,
		security: logging.NewSecurityLogger(),
	}
}

// Authenticate rejects the request unless it carries a valid token for an
// active account, and otherwise stores the account and claims in the context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, MsgTokenMissing)
			return
		}

		claims, err := m.tokens.VerifyToken(raw)
		if err != nil {
			m.security.LogTokenRejected(raw, r.RemoteAddr, err.Error())
			if errors.Is(err, ErrTokenExpired) {
				writeAuthError(w, http.StatusUnauthorized, MsgTokenExpired)
				return
			}
			writeAuthError(w, http.StatusUnauthorized, MsgTokenInvalid)
			return
		}

		if m.denylist.IsRevoked(claims.ID) {
			RevokedTokenRejectionsTotal.Inc()
			m.security.LogTokenRejected(raw, r.RemoteAddr, "revoked")
			writeAuthError(w, http.StatusUnauthorized, MsgTokenInvalid)
			return
		}

		acct, err := m.accounts.GetByID(r.Context(), claims.AccountID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			m.security.LogTokenRejected(raw, r.RemoteAddr, "account not found")
			writeAuthError(w, http.StatusUnauthorized, MsgTokenInvalid)
			return
		case err != nil:
			logging.CtxErr(r.Context(), err).Msg("Account lookup failed during authentication")
			writeAuthError(w, http.StatusInternalServerError, MsgServerError)
			return
		}

		if !acct.Usable() {
			m.security.LogTokenRejected(raw, r.RemoteAddr, "account inactive")
			writeAuthError(w, http.StatusUnauthorized, MsgAccountClosed)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, acct)
		ctx = context.WithValue(ctx, claimsContextKey, claims)
		ctx = logging.ContextWithAccountID(ctx, acct.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AccountFromContext returns the authenticated account.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	acct, ok := ctx.Value(accountContextKey).(*models.Account)
	return acct, ok && acct != nil
}

// ClaimsFromContext returns the verified token claims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// ContextWithAccount stores acct as the authenticated account. Used by tests
// of handlers mounted behind Authenticate.
func ContextWithAccount(ctx context.Context, acct *models.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, acct)
}

// ContextWithClaims stores verified claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

type authErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(authErrorBody{Success: false, Message: message}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}
