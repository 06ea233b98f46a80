// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package config provides configuration management for Velora.

Configuration is loaded once at startup by Load and passed down to components
as typed sub-structs. No component reads the environment on its own.

# Configuration Sources

Koanf v2 layers three sources, highest priority last:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/velora/config.yaml)
 3. Environment variables, mapped explicitly in envTransformFunc

# Key Environment Variables

Security:
  - JWT_SECRET: HMAC secret for access tokens (required, 32+ chars)
  - JWT_EXPIRES_IN: token lifetime, Go duration or days ("7d")
  - BCRYPT_COST: bcrypt work factor (default: 12)

Database:
  - DATABASE_URL: Postgres DSN (required)
  - DB_MIGRATE: apply embedded migrations on start (default: true)

Storage:
  - STORAGE_BACKEND: s3 or local (default: s3)
  - S3_ENDPOINT, S3_REGION, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY, S3_PUBLIC_URL
  - UPLOAD_MAX_SIZE: human size, e.g. "10MiB"

Classifier:
  - ML_API_URL: remote maternal health risk model base URL
  - ML_API_TIMEOUT: request timeout (default: 30s)

# Validation

Validate rejects short or placeholder JWT secrets, wildcard CORS in
production, out-of-range rate limits and malformed URLs so that a
misconfigured server fails at startup rather than on first request.
*/
package config
