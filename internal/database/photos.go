// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package database

import (
	"context"
	"time"

	"github.com/tomtom215/velora/internal/models"
)

const photoColumns = `id, user_id, title, description, pregnancy_week, image_url, file_size, file_type,
	storage_path, storage_bucket, created_at, updated_at`

// PhotoStore persists rows of gallery_photos.
type PhotoStore struct {
	db DBTX
}

// NewPhotoStore binds a PhotoStore to a pool or transaction.
func NewPhotoStore(db DBTX) *PhotoStore {
	return &PhotoStore{db: db}
}

func scanPhoto(row scanner) (*models.Photo, error) {
	p := &models.Photo{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.PregnancyWeek, &p.ImageURL, &p.FileSize, &p.FileType,
		&p.StoragePath, &p.StorageBucket, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func (s *PhotoStore) queryPhotos(ctx context.Context, query string, args ...any) ([]*models.Photo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer closeQuietly(rows)

	photos := []*models.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return photos, nil
}

// Create records an uploaded photo.
func (s *PhotoStore) Create(ctx context.Context, p *models.Photo) (out *models.Photo, err error) {
	defer observe("insert", tablePhotos, time.Now(), &err)

	query := `INSERT INTO gallery_photos
			(user_id, title, description, pregnancy_week, image_url, file_size, file_type, storage_path, storage_bucket)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + photoColumns
	return scanPhoto(s.db.QueryRowContext(ctx, query,
		p.UserID, p.Title, p.Description, p.PregnancyWeek, p.ImageURL, p.FileSize, p.FileType, p.StoragePath, p.StorageBucket,
	))
}

// GetByID returns a photo by id. Ownership is checked by the caller.
func (s *PhotoStore) GetByID(ctx context.Context, id string) (p *models.Photo, err error) {
	defer observe("select", tablePhotos, time.Now(), &err)

	return scanPhoto(s.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM gallery_photos WHERE id = $1`, id))
}

// ListByUser returns one page of an account's photos, newest first, and the total.
func (s *PhotoStore) ListByUser(ctx context.Context, userID string, limit, offset int) (items []*models.Photo, total int, err error) {
	defer observe("select", tablePhotos, time.Now(), &err)

	if err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM gallery_photos WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}
	items, err = s.queryPhotos(ctx, `SELECT `+photoColumns+` FROM gallery_photos
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAllByUser returns every photo of an account ordered by week then date.
func (s *PhotoStore) ListAllByUser(ctx context.Context, userID string) (items []*models.Photo, err error) {
	defer observe("select", tablePhotos, time.Now(), &err)

	return s.queryPhotos(ctx, `SELECT `+photoColumns+` FROM gallery_photos
		WHERE user_id = $1
		ORDER BY pregnancy_week NULLS LAST, created_at`, userID)
}

// Update applies the non-nil fields of upd to a photo owned by userID.
func (s *PhotoStore) Update(ctx context.Context, id, userID string, upd models.PhotoUpdate) (p *models.Photo, err error) {
	defer observe("update", tablePhotos, time.Now(), &err)

	query := `UPDATE gallery_photos SET
			title = COALESCE($3, title),
			description = COALESCE($4, description),
			pregnancy_week = COALESCE($5, pregnancy_week),
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + photoColumns
	return scanPhoto(s.db.QueryRowContext(ctx, query, id, userID, upd.Title, upd.Description, upd.PregnancyWeek))
}

// Delete removes a photo row owned by userID. The blob is left to the caller.
func (s *PhotoStore) Delete(ctx context.Context, id, userID string) (err error) {
	defer observe("delete", tablePhotos, time.Now(), &err)

	res, err := s.db.ExecContext(ctx, `DELETE FROM gallery_photos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return classify(err)
	}
	return affectedOrNotFound(res)
}

// Stats summarizes an account's gallery.
func (s *PhotoStore) Stats(ctx context.Context, userID string) (stats models.PhotoStats, err error) {
	defer observe("select", tablePhotos, time.Now(), &err)

	if err = s.db.QueryRowContext(ctx,
		`SELECT count(*), COALESCE(sum(file_size), 0) FROM gallery_photos WHERE user_id = $1`, userID,
	).Scan(&stats.TotalPhotos, &stats.TotalSize); err != nil {
		return models.PhotoStats{}, classify(err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT pregnancy_week, count(*) FROM gallery_photos
		WHERE user_id = $1 AND pregnancy_week IS NOT NULL
		GROUP BY pregnancy_week
		ORDER BY pregnancy_week`, userID)
	if err != nil {
		return models.PhotoStats{}, classify(err)
	}
	defer closeQuietly(rows)

	stats.PhotosByWeek = []models.WeekCount{}
	for rows.Next() {
		var wc models.WeekCount
		if err = rows.Scan(&wc.Week, &wc.Count); err != nil {
			return models.PhotoStats{}, classify(err)
		}
		stats.PhotosByWeek = append(stats.PhotosByWeek, wc)
	}
	if err = rows.Err(); err != nil {
		return models.PhotoStats{}, classify(err)
	}
	return stats, nil
}

// ReferencedPaths returns the subset of paths still referenced by a photo row.
func (s *PhotoStore) ReferencedPaths(ctx context.Context, paths []string) (refs map[string]bool, err error) {
	defer observe("select", tablePhotos, time.Now(), &err)

	return referencedPaths(ctx, s.db, `SELECT storage_path FROM gallery_photos WHERE storage_path = ANY($1)`, paths)
}
