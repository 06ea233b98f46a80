// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"net/http"

	"github.com/tomtom215/velora/internal/classifier"
	"github.com/tomtom215/velora/internal/models"
)

// historyDefaultLimit is the page size of prediction histories.
const historyDefaultLimit = 10

// HealthStatistics counts an account's predictions per tier.
type HealthStatistics struct {
	TotalPredictions int `json:"totalPredictions"`
	HighRiskCount    int `json:"highRiskCount"`
	MidRiskCount     int `json:"midRiskCount"`
	LowRiskCount     int `json:"lowRiskCount"`
}

// PredictionHistory is one page of predictions.
type PredictionHistory struct {
	Predictions []PredictionDTO `json:"predictions"`
	Pagination  Pagination      `json:"pagination"`
}

// Predict classifies the submitted vitals. When the remote model is
// unavailable the rule-based fallback answers instead; the caller always
// gets a result for valid input.
//
// @Summary Classify maternal health risk
// @Description Vitals use the model's PascalCase keys. Diastolic must be below systolic.
// @Tags Health
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body classifier.Vitals true "Vital signs"
// @Success 200 {object} APIResponse "Prediction body"
// @Failure 400 {object} APIResponse "Out of range or inverted blood pressure"
// @Router /health/predict [post]
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var v classifier.Vitals
	if err := h.decodeJSON(w, r, &v); err != nil {
		respondError(w, http.StatusBadRequest, MsgInvalidJSON)
		return
	}
	if verr := v.Validate(); verr != nil {
		message := MsgInvalidData
		if classifier.BloodPressureInverted(verr) {
			message = classifier.MsgDiastolicNotBelowSystolic
		}
		respondValidation(w, message, verr)
		return
	}

	res, err := h.classifier.Classify(r.Context(), acct.ID, v)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, MsgPredicted, res.Body)
}

// PredictionHistory lists the account's predictions, newest first.
//
// @Summary Prediction history
// @Tags Health
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} APIResponse{data=PredictionHistory}
// @Router /health/history [get]
func (h *Handler) PredictionHistory(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	def, maxLimit := h.pageLimits(historyDefaultLimit)
	page := parsePage(r, def, maxLimit)

	items, total, err := h.predictions.ListByUser(r.Context(), acct.ID, page.Limit, page.Offset())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", PredictionHistory{
		Predictions: toPredictionDTOs(items),
		Pagination:  page.Pagination(total),
	})
}

// HealthParameters returns the static input presets.
//
// @Summary Health input presets
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthParameters}
// @Router /health/parameters [get]
func (h *Handler) HealthParameters(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "", healthParameters)
}

// HealthStatistics counts the account's predictions per tier.
//
// @Summary Prediction statistics
// @Tags Health
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=HealthStatistics}
// @Router /health/statistics [get]
func (h *Handler) HealthStatistics(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	counts, err := h.predictions.CountByRisk(r.Context(), acct.ID, nil)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", HealthStatistics{
		TotalPredictions: counts.Total,
		HighRiskCount:    counts.High,
		MidRiskCount:     counts.Mid,
		LowRiskCount:     counts.Low,
	})
}
