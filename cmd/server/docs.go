// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

// Package main provides the Velora HTTP server
//
// @title Velora API
// @version 1.0
// @description Maternal health tracking: risk prediction, diagnosis history, pregnancy timeline, photo gallery and articles.
// @description
// @description ## Authentication
// @description
// @description Protected endpoints require `Authorization: Bearer <token>`.
// @description Obtain a token from `/api/auth/register` or `/api/auth/login`.
// @description
// @description ## Rate Limiting
// @description
// @description `/api` routes share a per-IP budget (100 requests per 15 minutes by default).
// @description Login and upload routes have tighter budgets. Exceeding a budget returns 429.
// @description
// @description ## Responses
// @description
// @description ```json
// @description {
// @description   "success": false,
// @description   "message": "Data tidak valid",
// @description   "errors": [{"field": "email", "message": "Email tidak valid"}]
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/velora/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token issued by /api/auth/login, sent in the Authorization header with the Bearer scheme.
//
// @tag.name System
// @tag.description Service information and probes
//
// @tag.name Auth
// @tag.description Registration, login and password recovery
//
// @tag.name Users
// @tag.description Profile and account management
//
// @tag.name Health
// @tag.description Maternal risk prediction
//
// @tag.name Diagnosa
// @tag.description Saved diagnoses
//
// @tag.name Gallery
// @tag.description Pregnancy photo gallery
//
// @tag.name Timeline
// @tag.description Pregnancy profile and weekly entries
//
// @tag.name Journal
// @tag.description Articles and bookmarks
package main
