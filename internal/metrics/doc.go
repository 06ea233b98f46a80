// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry through promauto:
//   - postgres_query_duration_seconds, postgres_query_errors_total
//   - api_requests_total, api_request_duration_seconds, api_active_requests
//   - classifier_requests_total and the circuit_breaker_* family
//   - media_uploads_total, media_upload_bytes, media_reconcile_*
package metrics
