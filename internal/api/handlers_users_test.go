// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")
	other := env.addAccount("acct-2", "Dewi Lestari", "dewi@example.com")
	other.Username = ptr("dewi")

	rec := serve(env.h.UpdateProfile, request{
		method:  http.MethodPut,
		body:    jsonBody(t, map[string]string{"username": "DEWI"}),
		account: acct,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgUsernameTaken, decodeEnvelope(t, rec).Message)

	rec = serve(env.h.UpdateProfile, request{
		method:  http.MethodPut,
		body:    jsonBody(t, map[string]string{"username": "bad name!"}),
		account: acct,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).fields(), "username")

	rec = serve(env.h.UpdateProfile, request{
		method:  http.MethodPut,
		body:    jsonBody(t, map[string]string{"fullName": " Siti A. ", "username": "siti_a"}),
		account: acct,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data struct {
		User UserDTO `json:"user"`
	}
	resp := decodeData(t, rec, &data)
	assert.Equal(t, MsgProfileUpdated, resp.Message)
	assert.Equal(t, "Siti A.", data.User.FullName)
	assert.Equal(t, ptr("siti_a"), data.User.Username)
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantMsg    string
		wantHash   string
	}{
		{
			name:       "wrong current password",
			body:       map[string]string{"currentPassword": "Salah1234", "newPassword": "BaruSekali9"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    MsgWrongOldPassword,
			wantHash:   "hashed:Rahasia123",
		},
		{
			name:       "weak new password",
			body:       map[string]string{"currentPassword": "Rahasia123", "newPassword": "lemah"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    MsgInvalidData,
			wantHash:   "hashed:Rahasia123",
		},
		{
			name:       "changed",
			body:       map[string]string{"currentPassword": "Rahasia123", "newPassword": "BaruSekali9"},
			wantStatus: http.StatusOK,
			wantMsg:    MsgPasswordChanged,
			wantHash:   "hashed:BaruSekali9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")

			rec := serve(env.h.ChangePassword, request{method: http.MethodPut, body: jsonBody(t, tt.body), account: acct})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeEnvelope(t, rec).Message)
			assert.Equal(t, tt.wantHash, acct.PasswordHash)
		})
	}
}

func TestChangeEmail(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")
	env.addAccount("acct-2", "Dewi Lestari", "dewi@example.com")

	rec := serve(env.h.ChangeEmail, request{
		method:  http.MethodPut,
		body:    jsonBody(t, map[string]string{"newEmail": "Dewi@Example.com", "password": "Rahasia123"}),
		account: acct,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgEmailTaken, decodeEnvelope(t, rec).Message)

	rec = serve(env.h.ChangeEmail, request{
		method:  http.MethodPut,
		body:    jsonBody(t, map[string]string{"newEmail": "baru@example.com", "password": "Salah1234"}),
		account: acct,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgWrongPassword, decodeEnvelope(t, rec).Message)

	rec = serve(env.h.ChangeEmail, request{
		method:  http.MethodPut,
		body:    jsonBody(t, map[string]string{"newEmail": "Baru@Example.com", "password": "Rahasia123"}),
		account: acct,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "baru@example.com", acct.Email)
}

func TestUploadAvatar_ReplacesPrevious(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")
	acct.AvatarPath = ptr("avatars/old.jpg")
	body, ctype := multipartBody(t, "avatar", map[string][]byte{"me.jpg": jpegBytes}, nil)

	rec := serve(env.h.UploadAvatar, request{method: http.MethodPost, body: body, ctype: ctype, account: acct})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		User      UserDTO `json:"user"`
		AvatarURL string  `json:"avatarUrl"`
	}
	resp := decodeData(t, rec, &data)
	assert.Equal(t, MsgAvatarUploaded, resp.Message)
	assert.Equal(t, "https://cdn.example.com/avatars/1.jpg", data.AvatarURL)
	assert.Equal(t, ptr(data.AvatarURL), data.User.AvatarURL)
	assert.Equal(t, []string{"avatars/old.jpg"}, env.media.removed)
}

func TestDeleteAccount(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"no body", "", http.StatusBadRequest, MsgPasswordRequired},
		{"empty password", `{"password":""}`, http.StatusBadRequest, MsgPasswordRequired},
		{"wrong password", `{"password":"Salah1234"}`, http.StatusBadRequest, MsgWrongPassword},
		{"deleted", `{"password":"Rahasia123"}`, http.StatusOK, MsgAccountDeleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")

			rec := serve(env.h.DeleteAccount, request{method: http.MethodDelete, body: strings.NewReader(tt.body), account: acct})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeEnvelope(t, rec).Message)
			if tt.wantStatus == http.StatusOK {
				assert.False(t, acct.IsActive)
				assert.NotNil(t, acct.DeletedAt)
				assert.Nil(t, acct.Phone)
				assert.NotEqual(t, "siti@example.com", acct.Email)
			}
		})
	}
}
