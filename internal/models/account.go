// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package models

import "time"

// Account is a row of the users table.
// PasswordHash and reset token fields never leave the server; see api/dto.go.
type Account struct {
	ID                  string
	FullName            string
	Username            *string
	Email               string
	Phone               *string
	PasswordHash        string
	AvatarURL           *string
	AvatarPath          *string
	IsActive            bool
	DeletedAt           *time.Time
	LastLogin           *time.Time
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Usable reports whether the account may authenticate.
func (a *Account) Usable() bool {
	return a.IsActive && a.DeletedAt == nil
}

// NewAccount holds the fields needed to create an account.
type NewAccount struct {
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
}

// ProfileUpdate carries optional profile changes. Nil means unchanged.
type ProfileUpdate struct {
	FullName *string
	Username *string
}
