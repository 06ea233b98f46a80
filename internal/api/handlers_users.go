// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/media"
	"github.com/tomtom215/velora/internal/models"
)

// Profile returns the account profile.
//
// @Summary Get profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=UserDTO}
// @Router /users/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	respondSuccess(w, http.StatusOK, "", map[string]UserDTO{"user": toUserDTO(acct)})
}

// UpdateProfile changes the full name and/or username.
//
// @Summary Update profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} APIResponse{data=UserDTO}
// @Failure 400 {object} APIResponse "Invalid data or username taken"
// @Router /users/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var req UpdateProfileRequest
	if !h.bind(w, r, &req) {
		return
	}

	upd := models.ProfileUpdate{}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		upd.FullName = &name
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		taken, err := h.accounts.UsernameTaken(r.Context(), username, acct.ID)
		if err != nil {
			h.respondInternal(w, r, err)
			return
		}
		if taken {
			respondError(w, http.StatusBadRequest, MsgUsernameTaken)
			return
		}
		upd.Username = &username
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), acct.ID, upd)
	if errors.Is(err, database.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, MsgUsernameTaken)
		return
	}
	if err != nil {
		h.respondStoreError(w, r, err, MsgUserNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, MsgProfileUpdated, map[string]UserDTO{"user": toUserDTO(updated)})
}

// ChangePassword replaces the password after checking the current one.
//
// @Summary Change password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid data or wrong current password"
// @Router /users/change-password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var req ChangePasswordRequest
	if !h.bind(w, r, &req) {
		return
	}
	if !h.hasher.VerifyCredential(req.CurrentPassword, acct.PasswordHash) {
		h.security.LogCredentialChange("password_change", acct.ID, clientIP(r), false, "wrong current password")
		respondError(w, http.StatusBadRequest, MsgWrongOldPassword)
		return
	}

	hash, err := h.hasher.HashCredential(req.NewPassword)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if err := h.accounts.UpdatePassword(r.Context(), acct.ID, hash); err != nil {
		h.respondStoreError(w, r, err, MsgUserNotFound)
		return
	}
	h.security.LogCredentialChange("password_change", acct.ID, clientIP(r), true, "")
	respondSuccess(w, http.StatusOK, MsgPasswordChanged, nil)
}

// ChangeEmail replaces the login email after checking the password.
//
// @Summary Change email
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangeEmailRequest true "New email and password"
// @Success 200 {object} APIResponse{data=UserDTO}
// @Failure 400 {object} APIResponse "Invalid data, wrong password or email taken"
// @Router /users/change-email [put]
func (h *Handler) ChangeEmail(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var req ChangeEmailRequest
	if !h.bind(w, r, &req) {
		return
	}
	if !h.hasher.VerifyCredential(req.Password, acct.PasswordHash) {
		h.security.LogCredentialChange("email_change", acct.ID, clientIP(r), false, "wrong password")
		respondError(w, http.StatusBadRequest, MsgWrongPassword)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.NewEmail))
	taken, err := h.accounts.EmailTaken(r.Context(), email, acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if taken {
		respondError(w, http.StatusBadRequest, MsgEmailTaken)
		return
	}

	updated, err := h.accounts.UpdateEmail(r.Context(), acct.ID, email)
	if errors.Is(err, database.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, MsgEmailTaken)
		return
	}
	if err != nil {
		h.respondStoreError(w, r, err, MsgUserNotFound)
		return
	}
	h.security.LogCredentialChange("email_change", acct.ID, clientIP(r), true, "")
	respondSuccess(w, http.StatusOK, MsgEmailChanged, map[string]UserDTO{"user": toUserDTO(updated)})
}

// UploadAvatar stores a new profile picture from the multipart field "avatar".
// The previous avatar blob is removed after the account row points at the new one.
//
// @Summary Upload avatar
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Image (JPEG, PNG or WebP)"
// @Success 200 {object} APIResponse{data=UserDTO}
// @Failure 400 {object} APIResponse "Missing, oversized or unsupported file"
// @Router /users/upload-avatar [post]
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	if !h.parseUpload(w, r, 1) {
		return
	}
	fh, ok := formFile(r, "avatar")
	if !ok {
		respondError(w, http.StatusBadRequest, MsgNoFile)
		return
	}

	img, err := h.media.Ingest(r.Context(), media.FromFileHeader(fh), h.media.AvatarPrefix())
	if err != nil {
		h.respondMediaError(w, r, err)
		return
	}

	previous, err := h.accounts.UpdateAvatar(r.Context(), acct.ID, img.URL, img.Path)
	if err != nil {
		h.media.Rollback(r.Context(), img)
		h.respondStoreError(w, r, err, MsgUserNotFound)
		return
	}
	if previous != nil && *previous != img.Path {
		h.media.Remove(r.Context(), *previous)
	}

	updated := *acct
	updated.AvatarURL = &img.URL
	updated.AvatarPath = &img.Path
	logging.Ctx(r.Context()).Info().Str("path", img.Path).Int64("size", img.Size).Msg("Avatar updated")
	respondSuccess(w, http.StatusOK, MsgAvatarUploaded, map[string]interface{}{
		"user":      toUserDTO(&updated),
		"avatarUrl": img.URL,
	})
}

// DeleteAccount soft-deletes the account after checking the password and
// revokes the presented token.
//
// @Summary Delete account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteAccountRequest true "Password confirmation"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Missing or wrong password"
// @Router /users/account [delete]
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var req DeleteAccountRequest
	if err := h.decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, MsgPasswordRequired)
		return
	}
	if !h.hasher.VerifyCredential(req.Password, acct.PasswordHash) {
		respondError(w, http.StatusBadRequest, MsgWrongPassword)
		return
	}

	if err := h.accounts.SoftDelete(r.Context(), acct.ID, h.now()); err != nil {
		h.respondStoreError(w, r, err, MsgUserNotFound)
		return
	}
	h.revokeCurrentToken(r)
	h.security.LogAccountDeleted(acct.ID, clientIP(r))
	respondSuccess(w, http.StatusOK, MsgAccountDeleted, nil)
}
