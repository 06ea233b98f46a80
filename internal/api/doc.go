// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package api implements the Velora REST API on top of the chi router.

# Route Groups

	/api/auth       registration, login, logout, password reset
	/api/users      profile, credentials, avatar, account deletion
	/api/health     risk classification and prediction history
	/api/diagnosa   client-computed diagnoses
	/api/gallery    pregnancy photo gallery
	/api/timeline   pregnancy profile and weekly checklist
	/api/journal    articles, categories and bookmarks

System routes (/, /health, /health/ready, /metrics, /docs/*) sit outside /api.

# Response Envelope

Every JSON response uses the same envelope:

	{"success": true, "message": "...", "data": {...}}
	{"success": false, "message": "...", "errors": [{"field": "...", "message": "..."}]}

Handlers never build envelopes by hand. They call respondSuccess,
respondError, respondValidation or respondStoreError, which also map
database sentinels onto status codes.

# Ownership

Protected routes read the acting account only from the request context
populated by auth.Middleware. Reading another account's record answers 404;
modifying it answers 403.

# DTOs

Store rows from internal/models are converted to camelCase response structs in
dto.go. Password hashes and reset tokens have no DTO field and cannot leak.
*/
package api
