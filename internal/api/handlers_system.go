// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/velora/internal/logging"
)

// readinessTimeout bounds the database ping of /health/ready.
const readinessTimeout = 2 * time.Second

// ServiceInfo is the response of GET /.
type ServiceInfo struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthStatus is the response of the liveness and readiness probes.
type HealthStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

var endpointGroups = map[string]string{
	"auth":     "/api/auth",
	"users":    "/api/users",
	"health":   "/api/health",
	"diagnosa": "/api/diagnosa",
	"gallery":  "/api/gallery",
	"timeline": "/api/timeline",
	"journal":  "/api/journal",
	"docs":     "/docs/index.html",
}

// Root describes the service and its route groups.
//
// @Summary Service information
// @Tags System
// @Produce json
// @Success 200 {object} APIResponse{data=ServiceInfo}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "Welcome to Velora API", ServiceInfo{
		Name:      "Velora",
		Version:   h.version,
		Endpoints: endpointGroups,
	})
}

// HealthLive reports that the process is serving requests.
//
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "", h.healthStatus("OK", "Velora API Server is running"))
}

// HealthReady reports whether the database is reachable.
//
// @Summary Readiness probe
// @Tags System
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Failure 503 {object} APIResponse{data=HealthStatus}
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, &APIResponse{
			Message: "Database tidak tersedia",
			Data:    h.healthStatus("UNAVAILABLE", "database not configured"),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		logging.CtxErr(r.Context(), err).Msg("Readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, &APIResponse{
			Message: "Database tidak tersedia",
			Data:    h.healthStatus("UNAVAILABLE", "database unreachable"),
		})
		return
	}
	respondSuccess(w, http.StatusOK, "", h.healthStatus("OK", "Database terhubung"))
}

func (h *Handler) healthStatus(status, message string) HealthStatus {
	now := h.now()
	return HealthStatus{
		Status:    status,
		Message:   message,
		Timestamp: now.UTC(),
		Version:   h.version,
		Uptime:    now.Sub(h.startTime).Truncate(time.Second).String(),
	}
}

// NotFound is the envelope for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, MsgRouteNotFound)
}

// MethodNotAllowed is the envelope for known routes with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, MsgBadMethod)
}
