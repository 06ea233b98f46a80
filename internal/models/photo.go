// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package models

import "time"

// Photo is a row of gallery_photos.
type Photo struct {
	ID            string
	UserID        string
	Title         string
	Description   *string
	PregnancyWeek *int
	ImageURL      string
	FileSize      int64
	FileType      string
	StoragePath   string
	StorageBucket string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PhotoUpdate carries optional metadata changes. Nil means unchanged.
type PhotoUpdate struct {
	Title         *string
	Description   *string
	PregnancyWeek *int
}

// WeekCount is a number of items recorded for one pregnancy week.
type WeekCount struct {
	Week  int
	Count int
}

// PhotoStats summarizes an account's gallery.
type PhotoStats struct {
	TotalPhotos  int
	TotalSize    int64
	PhotosByWeek []WeekCount
}
