// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

// Package models defines the persistence row types shared by the database,
// auth and api packages. Rows mirror the snake_case table columns; the
// camelCase wire shapes live in the api package's DTO layer.
package models
