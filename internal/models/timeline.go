// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package models

import (
	"math"
	"time"
)

// PregnancyProfile is a row of pregnancy_profiles, one per account.
type PregnancyProfile struct {
	ID                  string
	UserID              string
	DueDate             time.Time
	LastMenstrualPeriod time.Time
	CurrentWeek         int
	CurrentWeight       *float64
	PrePregnancyWeight  *float64
	Height              *float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// GestationalWeek returns the completed weeks between lmp and now,
// counting a partial day as a full one.
func GestationalWeek(lmp, now time.Time) int {
	days := math.Ceil(math.Abs(now.Sub(lmp).Hours()) / 24)
	return int(days) / 7
}

// TimelineEntry is a row of timeline_entries, unique per (user, week).
type TimelineEntry struct {
	ID                  string
	UserID              string
	PregnancyWeek       int
	HealthServices      map[string]bool
	Symptoms            map[string]bool
	HealthServicesNotes *string
	SymptomsNotes       *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
