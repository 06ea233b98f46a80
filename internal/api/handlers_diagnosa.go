// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/models"
)

// trendWindow is the look-back of the diagnosis trend counters.
const trendWindow = 30 * 24 * time.Hour

// storedDiagnosis is the prediction_result document of a client diagnosis.
type storedDiagnosis struct {
	UserData         DiagnosaUserData `json:"user_data"`
	PredictionResult json.RawMessage  `json:"prediction_result"`
	Timestamp        time.Time        `json:"timestamp"`
}

// DiagnosaTrends summarizes recent activity.
type DiagnosaTrends struct {
	Last30Days        int              `json:"last30Days"`
	DominantRiskLevel models.RiskLevel `json:"dominantRiskLevel"`
}

// DiagnosaStats is the response of GET /api/diagnosa/stats.
type DiagnosaStats struct {
	Total             int                      `json:"total"`
	RiskLevelCounts   map[models.RiskLevel]int `json:"riskLevelCounts"`
	RecentPredictions int                      `json:"recentPredictions"`
	LatestPrediction  *PredictionDTO           `json:"latestPrediction"`
	Trends            DiagnosaTrends           `json:"trends"`
}

// SaveDiagnosis stores a prediction computed by the client.
//
// @Summary Save a client diagnosis
// @Tags Diagnosa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DiagnosaRequest true "Vitals, tier and patient data"
// @Success 201 {object} APIResponse{data=PredictionDTO}
// @Failure 400 {object} APIResponse
// @Router /diagnosa/predict [post]
func (h *Handler) SaveDiagnosis(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var req DiagnosaRequest
	if !h.bind(w, r, &req) {
		return
	}

	result := req.PredictionResult
	if len(result) == 0 {
		result = json.RawMessage("null")
	}
	doc, err := json.Marshal(storedDiagnosis{
		UserData:         req.UserData,
		PredictionResult: result,
		Timestamp:        h.now().UTC(),
	})
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	saved, err := h.predictions.Create(r.Context(), &models.Prediction{
		UserID:      acct.ID,
		Age:         req.Age,
		SystolicBP:  req.SystolicBP,
		DiastolicBP: req.DiastolicBP,
		BloodSugar:  req.BloodSugar,
		BodyTemp:    req.BodyTemp,
		HeartRate:   req.HeartRate,
		RiskLevel:   models.RiskLevel(req.RiskLevel),
		Result:      doc,
	})
	if err != nil {
		h.respondStoreError(w, r, err, MsgPredictionNotFound)
		return
	}
	respondSuccess(w, http.StatusCreated, MsgPredictionSaved, map[string]PredictionDTO{"prediction": toPredictionDTO(saved)})
}

// DiagnosisHistory lists the account's diagnoses, newest first.
//
// @Summary Diagnosis history
// @Tags Diagnosa
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} APIResponse{data=PredictionHistory}
// @Router /diagnosa/history [get]
func (h *Handler) DiagnosisHistory(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	h.PredictionHistory(w, r, acct)
}

// GetDiagnosis returns one diagnosis owned by the account.
//
// @Summary Get a diagnosis
// @Tags Diagnosa
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prediction ID"
// @Success 200 {object} APIResponse{data=PredictionDTO}
// @Failure 404 {object} APIResponse
// @Router /diagnosa/history/{id} [get]
func (h *Handler) GetDiagnosis(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	p, err := h.predictions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err == nil && p.UserID != acct.ID {
		err = database.ErrNotFound
	}
	if err != nil {
		h.respondStoreError(w, r, err, MsgPredictionNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]PredictionDTO{"prediction": toPredictionDTO(p)})
}

// DeleteDiagnosis removes a diagnosis owned by the account.
//
// @Summary Delete a diagnosis
// @Tags Diagnosa
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prediction ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /diagnosa/history/{id} [delete]
func (h *Handler) DeleteDiagnosis(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	id := chi.URLParam(r, "id")
	p, err := h.predictions.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, MsgPredictionNotFound)
		return
	}
	if p.UserID != acct.ID {
		respondError(w, http.StatusForbidden, MsgPredictionNotOwned)
		return
	}
	if err := h.predictions.Delete(r.Context(), id, acct.ID); err != nil {
		h.respondStoreError(w, r, err, MsgPredictionNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, MsgPredictionDeleted, nil)
}

// DiagnosisStats summarizes the account's diagnoses.
//
// @Summary Diagnosis statistics
// @Tags Diagnosa
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=DiagnosaStats}
// @Router /diagnosa/stats [get]
func (h *Handler) DiagnosisStats(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	ctx := r.Context()
	all, err := h.predictions.CountByRisk(ctx, acct.ID, nil)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	since := h.now().Add(-trendWindow)
	recent, err := h.predictions.CountByRisk(ctx, acct.ID, &since)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	var latest *PredictionDTO
	p, err := h.predictions.Latest(ctx, acct.ID)
	switch {
	case err == nil:
		dto := toPredictionDTO(p)
		latest = &dto
	case !errors.Is(err, database.ErrNotFound):
		h.respondInternal(w, r, err)
		return
	}

	dominant := all.Dominant()
	if dominant == "" {
		dominant = models.RiskLow
	}
	respondSuccess(w, http.StatusOK, "", DiagnosaStats{
		Total: all.Total,
		RiskLevelCounts: map[models.RiskLevel]int{
			models.RiskLow:  all.Low,
			models.RiskMid:  all.Mid,
			models.RiskHigh: all.High,
		},
		RecentPredictions: recent.Total,
		LatestPrediction:  latest,
		Trends: DiagnosaTrends{
			Last30Days:        recent.Total,
			DominantRiskLevel: dominant,
		},
	})
}
