// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/velora/internal/models"
)

const accountColumns = `id, full_name, username, email, phone, password_hash, avatar_url, avatar_path,
	is_active, deleted_at, last_login, reset_token_hash, reset_token_expires_at, created_at, updated_at`

// AccountStore persists rows of the users table.
type AccountStore struct {
	db DBTX
}

// NewAccountStore binds an AccountStore to a pool or transaction.
func NewAccountStore(db DBTX) *AccountStore {
	return &AccountStore{db: db}
}

func scanAccount(row scanner) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(
		&a.ID, &a.FullName, &a.Username, &a.Email, &a.Phone, &a.PasswordHash, &a.AvatarURL, &a.AvatarPath,
		&a.IsActive, &a.DeletedAt, &a.LastLogin, &a.ResetTokenHash, &a.ResetTokenExpiresAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	return a, nil
}

// Create inserts a new active account.
func (s *AccountStore) Create(ctx context.Context, in models.NewAccount) (acct *models.Account, err error) {
	defer observe("insert", tableUsers, time.Now(), &err)

	query := `INSERT INTO users (full_name, email, phone, password_hash)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING ` + accountColumns

	return scanAccount(s.db.QueryRowContext(ctx, query, in.FullName, in.Email, in.Phone, in.PasswordHash))
}

// GetByID returns an account regardless of its active state.
func (s *AccountStore) GetByID(ctx context.Context, id string) (acct *models.Account, err error) {
	defer observe("select", tableUsers, time.Now(), &err)

	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1`
	return scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail returns a non-deleted account by email, case-insensitively.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (acct *models.Account, err error) {
	defer observe("select", tableUsers, time.Now(), &err)

	query := `SELECT ` + accountColumns + ` FROM users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL`
	return scanAccount(s.db.QueryRowContext(ctx, query, email))
}

// FindForLogin matches identifier against email or full name.
func (s *AccountStore) FindForLogin(ctx context.Context, identifier string) (acct *models.Account, err error) {
	defer observe("select", tableUsers, time.Now(), &err)

	query := `SELECT ` + accountColumns + ` FROM users
		WHERE (lower(email) = lower($1) OR lower(full_name) = lower($1)) AND deleted_at IS NULL
		ORDER BY created_at
		LIMIT 1`
	return scanAccount(s.db.QueryRowContext(ctx, query, identifier))
}

// EmailOrPhoneTaken reports whether a non-deleted account already uses either value.
func (s *AccountStore) EmailOrPhoneTaken(ctx context.Context, email, phone string) (taken bool, err error) {
	defer observe("select", tableUsers, time.Now(), &err)

	query := `SELECT EXISTS (
		SELECT 1 FROM users WHERE lower(email) = lower($1) OR (phone IS NOT NULL AND phone = $2)
	)`
	if err = s.db.QueryRowContext(ctx, query, email, phone).Scan(&taken); err != nil {
		return false, classify(err)
	}
	return taken, nil
}

// UsernameTaken reports whether another account uses username.
func (s *AccountStore) UsernameTaken(ctx context.Context, username, exceptID string) (taken bool, err error) {
	defer observe("select", tableUsers, time.Now(), &err)

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE lower(username) = lower($1) AND id <> $2)`
	if err = s.db.QueryRowContext(ctx, query, username, exceptID).Scan(&taken); err != nil {
		return false, classify(err)
	}
	return taken, nil
}

// EmailTaken reports whether another account uses email.
func (s *AccountStore) EmailTaken(ctx context.Context, email, exceptID string) (taken bool, err error) {
	defer observe("select", tableUsers, time.Now(), &err)

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) AND id <> $2)`
	if err = s.db.QueryRowContext(ctx, query, email, exceptID).Scan(&taken); err != nil {
		return false, classify(err)
	}
	return taken, nil
}

// TouchLastLogin records a successful login.
func (s *AccountStore) TouchLastLogin(ctx context.Context, id string, at time.Time) (err error) {
	defer observe("update", tableUsers, time.Now(), &err)

	res, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return classify(err)
	}
	return affectedOrNotFound(res)
}

// UpdateProfile applies the non-nil fields of upd.
func (s *AccountStore) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (acct *models.Account, err error) {
	defer observe("update", tableUsers, time.Now(), &err)

	query := `UPDATE users SET
			full_name = COALESCE($2, full_name),
			username = COALESCE($3, username),
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + accountColumns
	return scanAccount(s.db.QueryRowContext(ctx, query, id, upd.FullName, upd.Username))
}

// UpdatePassword replaces the password hash and clears any pending reset token.
func (s *AccountStore) UpdatePassword(ctx context.Context, id, hash string) (err error) {
	defer observe("update", tableUsers, time.Now(), &err)

	query := `UPDATE users SET password_hash = $2, reset_token_hash = NULL, reset_token_expires_at = NULL,
			updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`
	res, err := s.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return classify(err)
	}
	return affectedOrNotFound(res)
}

// UpdateEmail changes the login email.
func (s *AccountStore) UpdateEmail(ctx context.Context, id, email string) (acct *models.Account, err error) {
	defer observe("update", tableUsers, time.Now(), &err)

	query := `UPDATE users SET email = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + accountColumns
	return scanAccount(s.db.QueryRowContext(ctx, query, id, email))
}

// UpdateAvatar points the account at a new stored avatar and returns the
// previous storage path, if any, so the caller can remove the old blob.
func (s *AccountStore) UpdateAvatar(ctx context.Context, id, url, path string) (previous *string, err error) {
	defer observe("update", tableUsers, time.Now(), &err)

	query := `WITH old AS (SELECT avatar_path FROM users WHERE id = $1)
		UPDATE users SET avatar_url = $2, avatar_path = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING (SELECT avatar_path FROM old)`
	if err = s.db.QueryRowContext(ctx, query, id, url, path).Scan(&previous); err != nil {
		return nil, classify(err)
	}
	return previous, nil
}

// SetResetToken stores a hashed password reset token.
func (s *AccountStore) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) (err error) {
	defer observe("update", tableUsers, time.Now(), &err)

	query := `UPDATE users SET reset_token_hash = $2, reset_token_expires_at = $3 WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, id, tokenHash, expires)
	if err != nil {
		return classify(err)
	}
	return affectedOrNotFound(res)
}

// SoftDelete deactivates the account and frees its email and phone for reuse.
func (s *AccountStore) SoftDelete(ctx context.Context, id string, at time.Time) (err error) {
	defer observe("update", tableUsers, time.Now(), &err)

	query := `UPDATE users SET
			is_active = false,
			deleted_at = $2,
			email = $3,
			phone = NULL,
			username = NULL,
			reset_token_hash = NULL,
			reset_token_expires_at = NULL,
			updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`
	res, err := s.db.ExecContext(ctx, query, id, at, DeletedEmail(at))
	if err != nil {
		return classify(err)
	}
	return affectedOrNotFound(res)
}

// DeletedEmail is the placeholder email written on soft delete.
func DeletedEmail(at time.Time) string {
	return fmt.Sprintf("deleted_%d@example.com", at.UnixMilli())
}

// ReferencedAvatarPaths returns the subset of paths still used as avatars.
func (s *AccountStore) ReferencedAvatarPaths(ctx context.Context, paths []string) (refs map[string]bool, err error) {
	defer observe("select", tableUsers, time.Now(), &err)

	return referencedPaths(ctx, s.db, `SELECT avatar_path FROM users WHERE avatar_path = ANY($1)`, paths)
}

// referencedPaths runs a single-column path query and returns the hits as a set.
func referencedPaths(ctx context.Context, db DBTX, query string, paths []string) (map[string]bool, error) {
	refs := make(map[string]bool, len(paths))
	if len(paths) == 0 {
		return refs, nil
	}
	rows, err := db.QueryContext(ctx, query, paths)
	if err != nil {
		return nil, classify(err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, classify(err)
		}
		refs[p] = true
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return refs, nil
}
