// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

// Package logging provides centralized zerolog-based structured logging for Velora.
//
// The package provides:
//   - JSON output for production and console output for development
//   - Context-aware logging with request, correlation and account IDs
//   - An slog adapter for suture and goose
//   - A security logger that masks emails and tokens
//
// # Quick Start
//
//	import "github.com/tomtom215/velora/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Classifier unavailable, using fallback")
//
// # Configuration
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// Always terminate log chains with .Msg() or .Send(), otherwise nothing is emitted.
package logging
