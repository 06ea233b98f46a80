// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/velora/internal/models"
)

func TestGetPregnancyProfile_NullWhenMissing(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")

	rec := serve(env.h.GetPregnancyProfile, request{method: http.MethodGet, account: acct})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"profile":null}`, string(decodeEnvelope(t, rec).Data))
}

func TestSavePregnancyProfile(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")

	rec := serve(env.h.SavePregnancyProfile, request{
		method: http.MethodPost,
		body: jsonBody(t, map[string]interface{}{
			"dueDate":             "2026-10-06",
			"lastMenstrualPeriod": "2025-12-30",
			"currentWeight":       58.5,
			"height":              160,
		}),
		account: acct,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Profile ProfileDTO `json:"profile"`
	}
	resp := decodeData(t, rec, &data)
	assert.Equal(t, MsgProfileSaved, resp.Message)
	assert.Equal(t, "2026-10-06", data.Profile.DueDate)
	assert.Equal(t, "2025-12-30", data.Profile.LastMenstrualPeriod)
	assert.Equal(t, 10, data.Profile.CurrentWeek)
	assert.Equal(t, ptr(58.5), data.Profile.CurrentWeight)
	assert.Nil(t, data.Profile.PrePregnancyWeight)

	rec = serve(env.h.GetPregnancyProfile, request{method: http.MethodGet, account: acct})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &data)
	assert.Equal(t, "profile-acct-1", data.Profile.ID)
}

func TestSavePregnancyProfile_InvalidDates(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")

	rec := serve(env.h.SavePregnancyProfile, request{
		method:  http.MethodPost,
		body:    jsonBody(t, map[string]string{"dueDate": "06/10/2026", "lastMenstrualPeriod": "2025-02-30"}),
		account: acct,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []string{"dueDate", "lastMenstrualPeriod"}, decodeEnvelope(t, rec).fields())
}

func TestSaveTimelineEntry(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")

	rec := serve(env.h.SaveTimelineEntry, request{
		method: http.MethodPost,
		body: jsonBody(t, map[string]interface{}{
			"pregnancyWeek": 12,
			"symptoms":      map[string]bool{"nausea": true},
			"symptomsNotes": "   ",
		}),
		account: acct,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Entry EntryDTO `json:"entry"`
	}
	resp := decodeData(t, rec, &data)
	assert.Equal(t, MsgEntrySaved, resp.Message)
	assert.Equal(t, 12, data.Entry.PregnancyWeek)
	assert.Equal(t, map[string]bool{}, data.Entry.HealthServices)
	assert.Equal(t, map[string]bool{"nausea": true}, data.Entry.Symptoms)
	assert.Nil(t, data.Entry.SymptomsNotes)
}

func TestSaveTimelineEntry_WeekOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")

	for _, week := range []int{0, 43} {
		rec := serve(env.h.SaveTimelineEntry, request{
			method:  http.MethodPost,
			body:    jsonBody(t, map[string]int{"pregnancyWeek": week}),
			account: acct,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "week %d", week)
		assert.Contains(t, decodeEnvelope(t, rec).fields(), "pregnancyWeek")
	}
}

func TestSaveTimelineEntry_ConcurrentSameWeek(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")

	const writers = 8
	bodies := make([]io.Reader, writers)
	for i := range bodies {
		bodies[i] = jsonBody(t, map[string]interface{}{
			"pregnancyWeek":       20,
			"healthServicesNotes": fmt.Sprintf("writer %d", i),
		})
	}

	codes := make([]int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := serve(env.h.SaveTimelineEntry, request{method: http.MethodPost, body: bodies[i], account: acct})
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "writer %d", i)
	}
	entries, err := env.timeline.ListEntries(t.Context(), acct.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 20, entries[0].PregnancyWeek)
}

func TestTimelineEntry_WeekParam(t *testing.T) {
	env := newTestEnv(t)
	acct := env.addAccount("acct-1", "Siti Aminah", "siti@example.com")
	_, err := env.timeline.UpsertEntry(t.Context(), &models.TimelineEntry{UserID: acct.ID, PregnancyWeek: 8})
	require.NoError(t, err)

	tests := []struct {
		name       string
		week       string
		wantStatus int
		wantMsg    string
	}{
		{"not a number", "delapan", http.StatusBadRequest, MsgInvalidWeek},
		{"zero", "0", http.StatusBadRequest, MsgInvalidWeek},
		{"above range", "43", http.StatusBadRequest, MsgInvalidWeek},
		{"no entry", "9", http.StatusNotFound, MsgEntryNotFound},
		{"found", "8", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(env.h.GetTimelineEntry, request{method: http.MethodGet, account: acct, params: map[string]string{"week": tt.week}})
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeEnvelope(t, rec).Message)
		})
	}

	rec := serve(env.h.DeleteTimelineEntry, request{method: http.MethodDelete, account: acct, params: map[string]string{"week": "8"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MsgEntryDeleted, decodeEnvelope(t, rec).Message)

	rec = serve(env.h.DeleteTimelineEntry, request{method: http.MethodDelete, account: acct, params: map[string]string{"week": "8"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummarize(t *testing.T) {
	older := fixedNow.Add(-48 * time.Hour)
	newer := fixedNow.Add(-time.Hour)
	entries := []*models.TimelineEntry{
		{PregnancyWeek: 10, Symptoms: map[string]bool{"nausea": true, "bleeding": true}, UpdatedAt: newer},
		{PregnancyWeek: 11, Symptoms: map[string]bool{"swelling": true, "bleeding": false}, UpdatedAt: older},
		{PregnancyWeek: 12},
	}
	profile := &models.PregnancyProfile{ID: "p-1", CurrentWeek: 12}

	s := summarize(profile, entries)

	assert.Equal(t, 3, s.TotalWeeksTracked)
	assert.Equal(t, 2, s.DangerSymptomsCount)
	require.NotNil(t, s.LastUpdated)
	assert.Equal(t, newer, *s.LastUpdated)
	require.NotNil(t, s.Profile)
	assert.Equal(t, 12, s.Profile.CurrentWeek)

	empty := summarize(nil, nil)
	assert.Nil(t, empty.Profile)
	assert.Nil(t, empty.LastUpdated)
	assert.Zero(t, empty.TotalWeeksTracked)
}

func TestReferenceLists(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(env.h.Symptoms, request{method: http.MethodGet})
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Symptoms []Symptom `json:"symptoms"`
	}
	decodeData(t, rec, &data)
	assert.NotEmpty(t, data.Symptoms)
	for _, s := range data.Symptoms {
		assert.Equal(t, s.IsDanger, dangerSymptoms[s.ID], s.ID)
	}

	rec = serve(env.h.HealthServices, request{method: http.MethodGet})
	assert.Equal(t, http.StatusOK, rec.Code)
}
