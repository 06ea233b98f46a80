// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/velora/internal/models"
)

const (
	profileColumns = `id, user_id, due_date, last_menstrual_period, current_week, current_weight,
	pre_pregnancy_weight, height, created_at, updated_at`
	entryColumns = `id, user_id, pregnancy_week, health_services, symptoms, health_services_notes,
	symptoms_notes, created_at, updated_at`
)

// TimelineStore persists pregnancy_profiles and timeline_entries.
type TimelineStore struct {
	db DBTX
}

// NewTimelineStore binds a TimelineStore to a pool or transaction.
func NewTimelineStore(db DBTX) *TimelineStore {
	return &TimelineStore{db: db}
}

func scanProfile(row scanner) (*models.PregnancyProfile, error) {
	p := &models.PregnancyProfile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.DueDate, &p.LastMenstrualPeriod, &p.CurrentWeek, &p.CurrentWeight,
		&p.PrePregnancyWeight, &p.Height, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	return p, nil
}

func scanEntry(row scanner) (*models.TimelineEntry, error) {
	e := &models.TimelineEntry{}
	var services, symptoms []byte
	err := row.Scan(
		&e.ID, &e.UserID, &e.PregnancyWeek, &services, &symptoms, &e.HealthServicesNotes,
		&e.SymptomsNotes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	if e.HealthServices, err = decodeFlags(services); err != nil {
		return nil, err
	}
	if e.Symptoms, err = decodeFlags(symptoms); err != nil {
		return nil, err
	}
	return e, nil
}

func decodeFlags(raw []byte) (map[string]bool, error) {
	flags := map[string]bool{}
	if len(raw) == 0 {
		return flags, nil
	}
	if err := json.Unmarshal(raw, &flags); err != nil {
		return nil, fmt.Errorf("decode jsonb flags: %w", err)
	}
	return flags, nil
}

func encodeFlags(flags map[string]bool) (string, error) {
	if flags == nil {
		return "{}", nil
	}
	b, err := json.Marshal(flags)
	if err != nil {
		return "", fmt.Errorf("encode jsonb flags: %w", err)
	}
	return string(b), nil
}

// GetProfile returns the account's pregnancy profile.
func (s *TimelineStore) GetProfile(ctx context.Context, userID string) (p *models.PregnancyProfile, err error) {
	defer observe("select", tableProfiles, time.Now(), &err)

	return scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM pregnancy_profiles WHERE user_id = $1`, userID))
}

// UpsertProfile creates or replaces the account's pregnancy profile.
func (s *TimelineStore) UpsertProfile(ctx context.Context, p *models.PregnancyProfile) (out *models.PregnancyProfile, err error) {
	defer observe("upsert", tableProfiles, time.Now(), &err)

	query := `INSERT INTO pregnancy_profiles
			(user_id, due_date, last_menstrual_period, current_week, current_weight, pre_pregnancy_weight, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			due_date = EXCLUDED.due_date,
			last_menstrual_period = EXCLUDED.last_menstrual_period,
			current_week = EXCLUDED.current_week,
			current_weight = EXCLUDED.current_weight,
			pre_pregnancy_weight = EXCLUDED.pre_pregnancy_weight,
			height = EXCLUDED.height,
			updated_at = now()
		RETURNING ` + profileColumns
	return scanProfile(s.db.QueryRowContext(ctx, query,
		p.UserID, p.DueDate, p.LastMenstrualPeriod, p.CurrentWeek, p.CurrentWeight, p.PrePregnancyWeight, p.Height,
	))
}

// UpsertEntry creates or replaces the entry for (user, week). Concurrent
// writers for the same week both succeed and the last one wins.
func (s *TimelineStore) UpsertEntry(ctx context.Context, e *models.TimelineEntry) (out *models.TimelineEntry, err error) {
	defer observe("upsert", tableEntries, time.Now(), &err)

	services, err := encodeFlags(e.HealthServices)
	if err != nil {
		return nil, err
	}
	symptoms, err := encodeFlags(e.Symptoms)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO timeline_entries
			(user_id, pregnancy_week, health_services, symptoms, health_services_notes, symptoms_notes)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5, $6)
		ON CONFLICT (user_id, pregnancy_week) DO UPDATE SET
			health_services = EXCLUDED.health_services,
			symptoms = EXCLUDED.symptoms,
			health_services_notes = EXCLUDED.health_services_notes,
			symptoms_notes = EXCLUDED.symptoms_notes,
			updated_at = now()
		RETURNING ` + entryColumns
	return scanEntry(s.db.QueryRowContext(ctx, query,
		e.UserID, e.PregnancyWeek, services, symptoms, e.HealthServicesNotes, e.SymptomsNotes,
	))
}

// ListEntries returns every entry of an account in week order.
func (s *TimelineStore) ListEntries(ctx context.Context, userID string) (entries []*models.TimelineEntry, err error) {
	defer observe("select", tableEntries, time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM timeline_entries WHERE user_id = $1 ORDER BY pregnancy_week`, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer closeQuietly(rows)

	entries = []*models.TimelineEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

// GetEntry returns the entry for one week.
func (s *TimelineStore) GetEntry(ctx context.Context, userID string, week int) (e *models.TimelineEntry, err error) {
	defer observe("select", tableEntries, time.Now(), &err)

	return scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM timeline_entries WHERE user_id = $1 AND pregnancy_week = $2`, userID, week))
}

// DeleteEntry removes the entry for one week.
func (s *TimelineStore) DeleteEntry(ctx context.Context, userID string, week int) (err error) {
	defer observe("delete", tableEntries, time.Now(), &err)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM timeline_entries WHERE user_id = $1 AND pregnancy_week = $2`, userID, week)
	if err != nil {
		return classify(err)
	}
	return affectedOrNotFound(res)
}
