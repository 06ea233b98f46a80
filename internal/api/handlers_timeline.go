// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/models"
	"github.com/tomtom215/velora/internal/validation"
)

const (
	minPregnancyWeek = 1
	maxPregnancyWeek = 42
)

// TimelineSummary is the response of GET /api/timeline/summary.
type TimelineSummary struct {
	Profile             *ProfileDTO `json:"profile"`
	TotalWeeksTracked   int         `json:"totalWeeksTracked"`
	DangerSymptomsCount int         `json:"dangerSymptomsCount"`
	LastUpdated         *time.Time  `json:"lastUpdated"`
}

// GetPregnancyProfile returns the profile, or null when none exists yet.
//
// @Summary Get pregnancy profile
// @Tags Timeline
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=ProfileDTO}
// @Router /timeline/profile [get]
func (h *Handler) GetPregnancyProfile(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	profile, err := h.loadProfile(r, acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]*ProfileDTO{"profile": toProfileDTO(profile)})
}

// loadProfile returns nil without error when the account has no profile.
func (h *Handler) loadProfile(r *http.Request, accountID string) (*models.PregnancyProfile, error) {
	profile, err := h.timeline.GetProfile(r.Context(), accountID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return profile, err
}

// SavePregnancyProfile creates or replaces the profile. The current week is
// derived from the last menstrual period on every write.
//
// @Summary Save pregnancy profile
// @Tags Timeline
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile"
// @Success 200 {object} APIResponse{data=ProfileDTO}
// @Failure 400 {object} APIResponse
// @Router /timeline/profile [post]
func (h *Handler) SavePregnancyProfile(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var req ProfileRequest
	if !h.bind(w, r, &req) {
		return
	}
	// Both parse; the isodate tag already checked them.
	due, _ := validation.ParseISODate(req.DueDate)
	lmp, _ := validation.ParseISODate(req.LastMenstrualPeriod)

	saved, err := h.timeline.UpsertProfile(r.Context(), &models.PregnancyProfile{
		UserID:              acct.ID,
		DueDate:             due,
		LastMenstrualPeriod: lmp,
		CurrentWeek:         models.GestationalWeek(lmp, h.now()),
		CurrentWeight:       req.CurrentWeight,
		PrePregnancyWeight:  req.PrePregnancyWeight,
		Height:              req.Height,
	})
	if err != nil {
		h.respondStoreError(w, r, err, MsgProfileNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, MsgProfileSaved, map[string]*ProfileDTO{"profile": toProfileDTO(saved)})
}

// ListTimelineEntries returns every weekly entry, ascending by week.
//
// @Summary List timeline entries
// @Tags Timeline
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]EntryDTO}
// @Router /timeline/entries [get]
func (h *Handler) ListTimelineEntries(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	entries, err := h.timeline.ListEntries(r.Context(), acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string][]EntryDTO{"entries": toEntryDTOs(entries)})
}

// SaveTimelineEntry upserts the entry for one week. Concurrent writes to the
// same week both succeed and the last one wins.
//
// @Summary Save a timeline entry
// @Tags Timeline
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EntryRequest true "Weekly checklist"
// @Success 200 {object} APIResponse{data=EntryDTO}
// @Failure 400 {object} APIResponse
// @Router /timeline/entries [post]
func (h *Handler) SaveTimelineEntry(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var req EntryRequest
	if !h.bind(w, r, &req) {
		return
	}

	saved, err := h.timeline.UpsertEntry(r.Context(), &models.TimelineEntry{
		UserID:              acct.ID,
		PregnancyWeek:       req.PregnancyWeek,
		HealthServices:      nonNilFlags(req.HealthServices),
		Symptoms:            nonNilFlags(req.Symptoms),
		HealthServicesNotes: trimmedOrNil(req.HealthServicesNotes),
		SymptomsNotes:       trimmedOrNil(req.SymptomsNotes),
	})
	if err != nil {
		h.respondStoreError(w, r, err, MsgEntryNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, MsgEntrySaved, map[string]EntryDTO{"entry": toEntryDTO(saved)})
}

// GetTimelineEntry returns the entry for one week.
//
// @Summary Get a timeline entry
// @Tags Timeline
// @Produce json
// @Security BearerAuth
// @Param week path int true "Pregnancy week (1-42)"
// @Success 200 {object} APIResponse{data=EntryDTO}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /timeline/entries/{week} [get]
func (h *Handler) GetTimelineEntry(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	week, ok := weekParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, MsgInvalidWeek)
		return
	}
	entry, err := h.timeline.GetEntry(r.Context(), acct.ID, week)
	if err != nil {
		h.respondStoreError(w, r, err, MsgEntryNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]EntryDTO{"entry": toEntryDTO(entry)})
}

// DeleteTimelineEntry removes the entry for one week.
//
// @Summary Delete a timeline entry
// @Tags Timeline
// @Produce json
// @Security BearerAuth
// @Param week path int true "Pregnancy week (1-42)"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /timeline/entries/{week} [delete]
func (h *Handler) DeleteTimelineEntry(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	week, ok := weekParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, MsgInvalidWeek)
		return
	}
	if err := h.timeline.DeleteEntry(r.Context(), acct.ID, week); err != nil {
		h.respondStoreError(w, r, err, MsgEntryNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, MsgEntryDeleted, nil)
}

// HealthServices returns the static antenatal check list.
//
// @Summary Antenatal health services
// @Tags Timeline
// @Produce json
// @Success 200 {object} APIResponse{data=[]HealthService}
// @Router /timeline/health-services [get]
func (h *Handler) HealthServices(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "", map[string][]HealthService{"healthServices": healthServices})
}

// Symptoms returns the static symptom list.
//
// @Summary Trackable symptoms
// @Tags Timeline
// @Produce json
// @Success 200 {object} APIResponse{data=[]Symptom}
// @Router /timeline/symptoms [get]
func (h *Handler) Symptoms(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "", map[string][]Symptom{"symptoms": symptoms})
}

// TimelineSummary reports tracking progress and danger symptom counts.
//
// @Summary Pregnancy tracking summary
// @Tags Timeline
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=TimelineSummary}
// @Router /timeline/summary [get]
func (h *Handler) TimelineSummary(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	profile, err := h.loadProfile(r, acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	entries, err := h.timeline.ListEntries(r.Context(), acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]TimelineSummary{"summary": summarize(profile, entries)})
}

func summarize(profile *models.PregnancyProfile, entries []*models.TimelineEntry) TimelineSummary {
	s := TimelineSummary{
		Profile:           toProfileDTO(profile),
		TotalWeeksTracked: len(entries),
	}
	for _, e := range entries {
		s.DangerSymptomsCount += lo.CountBy(lo.Keys(e.Symptoms), func(id string) bool {
			return e.Symptoms[id] && dangerSymptoms[id]
		})
	}
	if len(entries) > 0 {
		latest := lo.MaxBy(entries, func(a, b *models.TimelineEntry) bool {
			return a.UpdatedAt.After(b.UpdatedAt)
		}).UpdatedAt
		s.LastUpdated = &latest
	}
	return s
}

// weekParam parses {week} and checks it is a valid pregnancy week.
func weekParam(r *http.Request) (int, bool) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < minPregnancyWeek || week > maxPregnancyWeek {
		return 0, false
	}
	return week, true
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
