// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/velora/internal/auth"
	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/models"
)

// defaultResetTokenTTL applies when security.reset_token_ttl is unset.
const defaultResetTokenTTL = 10 * time.Minute

// Register creates an account and signs the caller in.
//
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} APIResponse{data=AuthDTO}
// @Failure 400 {object} APIResponse "Invalid data or email/phone already registered"
// @Failure 429 {object} APIResponse
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.bind(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.ReplaceAll(req.Phone, " ", "")

	taken, err := h.accounts.EmailOrPhoneTaken(r.Context(), email, phone)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if taken {
		respondError(w, http.StatusBadRequest, MsgEmailOrPhoneTaken)
		return
	}

	hash, err := h.hasher.HashCredential(req.Password)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	acct, err := h.accounts.Create(r.Context(), models.NewAccount{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	})
	if errors.Is(err, database.ErrDuplicate) {
		// Lost a race with a concurrent registration.
		respondError(w, http.StatusBadRequest, MsgEmailOrPhoneTaken)
		return
	}
	if err != nil {
		h.respondStoreError(w, r, err, MsgNotFound)
		return
	}

	token, err := h.tokens.IssueToken(acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.security.LogRegistration(acct.ID, acct.Email, clientIP(r))
	respondSuccess(w, http.StatusCreated, MsgRegistered, AuthDTO{User: toUserDTO(acct), Token: token})
}

// Login authenticates by email or full name.
//
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=AuthDTO}
// @Failure 401 {object} APIResponse "Wrong credentials or inactive account"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.bind(w, r, &req) {
		return
	}
	identifier := strings.TrimSpace(req.Nama)

	acct, err := h.accounts.FindForLogin(r.Context(), identifier)
	if errors.Is(err, database.ErrNotFound) {
		h.security.LogLoginFailure(identifier, clientIP(r), r.UserAgent(), "unknown account")
		respondError(w, http.StatusUnauthorized, MsgBadCredentials)
		return
	}
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	if !h.hasher.VerifyCredential(req.Password, acct.PasswordHash) {
		h.security.LogLoginFailure(identifier, clientIP(r), r.UserAgent(), "wrong password")
		respondError(w, http.StatusUnauthorized, MsgBadCredentials)
		return
	}
	if !acct.Usable() {
		h.security.LogLoginFailure(identifier, clientIP(r), r.UserAgent(), "account inactive")
		respondError(w, http.StatusUnauthorized, MsgAccountInactive)
		return
	}

	now := h.now()
	if err := h.accounts.TouchLastLogin(r.Context(), acct.ID, now); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("account_id", acct.ID).Msg("Failed to record last login")
	} else {
		acct.LastLogin = &now
	}

	token, err := h.tokens.IssueToken(acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.security.LogLoginSuccess(acct.ID, clientIP(r), r.UserAgent())
	respondSuccess(w, http.StatusOK, MsgLoggedIn, AuthDTO{User: toUserDTO(acct), Token: token})
}

// Logout revokes the presented token until it would have expired.
//
// @Summary Log out
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	h.revokeCurrentToken(r)
	h.security.LogLogout(acct.ID, clientIP(r))
	respondSuccess(w, http.StatusOK, MsgLoggedOut, nil)
}

func (h *Handler) revokeCurrentToken(r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.ExpiresAt == nil {
		return
	}
	h.denylist.Revoke(claims.ID, claims.ExpiresAt.Time)
}

// ForgotPassword issues a reset token. The response is identical whether or
// not the email is registered.
//
// @Summary Request a password reset
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} APIResponse
// @Router /auth/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	acct, err := h.accounts.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, database.ErrNotFound) || (err == nil && !acct.Usable()) {
		respondSuccess(w, http.StatusOK, MsgResetSent, nil)
		return
	}
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	token, hash, err := h.hasher.NewResetToken()
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	ttl := h.cfg.Security.ResetTokenTTL
	if ttl <= 0 {
		ttl = defaultResetTokenTTL
	}
	if err := h.accounts.SetResetToken(r.Context(), acct.ID, hash, h.now().Add(ttl)); err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.security.LogCredentialChange("password_reset_requested", acct.ID, clientIP(r), true, "")

	var data interface{}
	if h.cfg.IsDevelopment() {
		data = map[string]string{"resetToken": token}
	}
	respondSuccess(w, http.StatusOK, MsgResetSent, data)
}

// VerifyOTP accepts any well-formed code; OTP delivery is not implemented.
//
// @Summary Verify a one-time code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Email and code"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /auth/verify-otp [post]
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !h.bind(w, r, &req) {
		return
	}
	respondSuccess(w, http.StatusOK, MsgOTPVerified, nil)
}

// ResetPassword sets a new password using a reset token.
//
// @Summary Reset password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Token, email and new password"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid or expired token"
// @Router /auth/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.bind(w, r, &req) {
		return
	}

	acct, err := h.accounts.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusBadRequest, MsgResetTokenInvalid)
		return
	}
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !h.resetTokenValid(acct, req.Token) {
		h.security.LogCredentialChange("password_reset", acct.ID, clientIP(r), false, "invalid reset token")
		respondError(w, http.StatusBadRequest, MsgResetTokenInvalid)
		return
	}

	hash, err := h.hasher.HashCredential(req.Password)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if err := h.accounts.UpdatePassword(r.Context(), acct.ID, hash); err != nil {
		h.respondStoreError(w, r, err, MsgUserNotFound)
		return
	}
	h.security.LogCredentialChange("password_reset", acct.ID, clientIP(r), true, "")
	respondSuccess(w, http.StatusOK, MsgPasswordReset, nil)
}

func (h *Handler) resetTokenValid(acct *models.Account, token string) bool {
	if !acct.Usable() || acct.ResetTokenHash == nil || acct.ResetTokenExpiresAt == nil {
		return false
	}
	if !h.now().Before(*acct.ResetTokenExpiresAt) {
		return false
	}
	return h.hasher.VerifyCredential(token, *acct.ResetTokenHash)
}

// Me returns the authenticated account.
//
// @Summary Current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=UserDTO}
// @Failure 401 {object} APIResponse
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	respondSuccess(w, http.StatusOK, "", map[string]UserDTO{"user": toUserDTO(acct)})
}
