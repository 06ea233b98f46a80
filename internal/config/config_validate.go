// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-units"
	"golang.org/x/crypto/bcrypt"
)

// Validate checks that required configuration is present and valid.
// It also resolves derived values such as parsed byte limits.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateServer,
		c.validateAPI,
		c.validateSecurity,
		c.validateClassifier,
		c.validateMedia,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	size, err := units.FromHumanSize(c.Server.MaxBodySize)
	if err != nil || size <= 0 {
		return fmt.Errorf("MAX_BODY_SIZE is invalid: %q", c.Server.MaxBodySize)
	}
	c.Server.maxBodyBytes = size
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be >= API_DEFAULT_PAGE_SIZE")
	}
	return nil
}

// validateSecurity validates security configuration.
func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Security.ResetTokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be positive")
	}
	if c.Security.TokenDenylist && c.Security.DenylistCapacity < 1 {
		return fmt.Errorf("TOKEN_DENYLIST_CAPACITY must be at least 1 when the denylist is enabled")
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateJWTSecret rejects empty, short or placeholder secrets.
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("ALLOWED_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: ALLOWED_ORIGINS=https://velora.example.com")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard origin outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = 24 * time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if err := validateHTTPURL(c.Classifier.URL, "ML_API_URL"); err != nil {
		return err
	}
	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("ML_API_TIMEOUT must be positive")
	}
	if c.Classifier.PersistTimeout <= 0 {
		return fmt.Errorf("PREDICTION_PERSIST_TTL must be positive")
	}
	return nil
}

var validStorageBackends = map[string]bool{
	"s3":    true,
	"local": true,
}

func (c *Config) validateMedia() error {
	if !validStorageBackends[c.Media.Backend] {
		return fmt.Errorf("STORAGE_BACKEND must be one of: s3, local")
	}
	if c.Media.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	size, err := units.RAMInBytes(c.Media.MaxUploadSize)
	if err != nil || size <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE is invalid: %q", c.Media.MaxUploadSize)
	}
	c.Media.maxUploadBytes = size
	if len(c.Media.AllowedTypes) == 0 {
		return fmt.Errorf("UPLOAD_ALLOWED_TYPES must list at least one MIME type")
	}
	for _, t := range c.Media.AllowedTypes {
		if !strings.HasPrefix(t, "image/") {
			return fmt.Errorf("UPLOAD_ALLOWED_TYPES entry %q is not an image type", t)
		}
	}
	if c.Media.MaxBatchFiles < 1 {
		return fmt.Errorf("UPLOAD_MAX_FILES must be at least 1")
	}
	if c.Media.MaxDimension < 1 {
		return fmt.Errorf("IMAGE_MAX_DIMENSION must be positive")
	}
	if c.Media.MaxPixels < 1 {
		return fmt.Errorf("IMAGE_MAX_PIXELS must be positive")
	}
	if c.Media.JPEGQuality < 1 || c.Media.JPEGQuality > 100 {
		return fmt.Errorf("IMAGE_JPEG_QUALITY must be between 1 and 100")
	}
	if c.Media.Backend == "local" && c.Media.LocalDir == "" {
		return fmt.Errorf("STORAGE_LOCAL_DIR is required when STORAGE_BACKEND=local")
	}
	if c.Media.ReconcileInterval < 0 || c.Media.ReconcileGrace < 0 {
		return fmt.Errorf("RECONCILE_INTERVAL and RECONCILE_GRACE must not be negative")
	}
	if c.S3.Endpoint != "" {
		if err := validateHTTPURL(c.S3.Endpoint, "S3_ENDPOINT"); err != nil {
			return err
		}
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment reports whether ENVIRONMENT is development or unset.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns catch secrets copied verbatim from example files.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
