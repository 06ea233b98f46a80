// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/velora/config.yaml",
	"/etc/velora/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultClassifierURL is the hosted maternal health risk model.
const DefaultClassifierURL = "https://dayattttt2444-maternal-health-risk.hf.space"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:             "",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			MigrateOnStart:  true,
		},
		Server: ServerConfig{
			Port:        5000,
			Host:        "0.0.0.0",
			Timeout:     60 * time.Second,
			Environment: "development",
			MaxBodySize: "10MB",
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenTTL:          7 * 24 * time.Hour,
			BcryptCost:        12,
			ResetTokenTTL:     10 * time.Minute,
			RateLimitReqs:     100,
			RateLimitWindow:   15 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"http://localhost:3000"},
			TrustedProxies:    []string{},
			TokenDenylist:     true,
			DenylistCapacity:  10000,
		},
		Classifier: ClassifierConfig{
			URL:            DefaultClassifierURL,
			Timeout:        30 * time.Second,
			PersistTimeout: 10 * time.Second,
		},
		Media: MediaConfig{
			Backend:           "s3",
			Bucket:            "gallery-photos",
			Prefix:            "uploads/",
			AvatarPrefix:      "avatars/",
			MaxUploadSize:     "10MiB",
			AllowedTypes:      []string{"image/jpeg", "image/png", "image/webp"},
			MaxBatchFiles:     10,
			MaxDimension:      1200,
			MaxPixels:         40_000_000,
			JPEGQuality:       85,
			LocalDir:          "/data/uploads",
			PublicBaseURL:     "/uploads",
			ReconcileInterval: 6 * time.Hour,
			ReconcileGrace:    time.Hour,
		},
		S3: S3Config{
			Region:       "us-east-1",
			UsePathStyle: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with Koanf v2:
//  1. Defaults from defaultConfig
//  2. Optional YAML config file
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processDayDurations(k); err != nil {
		return nil, fmt.Errorf("failed to process duration fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
	"media.allowed_types",
}

// processSliceFields converts comma-separated env strings into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// dayDurationPaths accept a trailing "d" suffix ("7d") in addition to Go durations.
var dayDurationPaths = []string{
	"security.token_ttl",
}

// processDayDurations rewrites "Nd" values into hours so mapstructure can parse them.
func processDayDurations(k *koanf.Koanf) error {
	for _, path := range dayDurationPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		d, err := parseDayDuration(strVal)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := k.Set(path, d); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// parseDayDuration parses "7d" or any time.ParseDuration input.
func parseDayDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// envTransformFunc maps environment variable names to koanf paths.
// Unknown variables map to "" and are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Database
		"database_url":         "database.url",
		"db_max_open_conns":    "database.max_open_conns",
		"db_max_idle_conns":    "database.max_idle_conns",
		"db_conn_max_lifetime": "database.conn_max_lifetime",
		"db_migrate":           "database.migrate_on_start",

		// Server
		"port":          "server.port",
		"host":          "server.host",
		"http_timeout":  "server.timeout",
		"environment":   "server.environment",
		"node_env":      "server.environment",
		"max_body_size": "server.max_body_size",

		// API
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",

		// Security
		"jwt_secret":              "security.jwt_secret",
		"jwt_expires_in":          "security.token_ttl",
		"bcrypt_cost":             "security.bcrypt_cost",
		"reset_token_ttl":         "security.reset_token_ttl",
		"rate_limit_max_requests": "security.rate_limit_reqs",
		"rate_limit_window":       "security.rate_limit_window",
		"disable_rate_limit":      "security.rate_limit_disabled",
		"allowed_origins":         "security.cors_origins",
		"trusted_proxies":         "security.trusted_proxies",
		"token_denylist":          "security.token_denylist",
		"token_denylist_capacity": "security.denylist_capacity",

		// Classifier
		"ml_api_url":             "classifier.url",
		"ml_api_timeout":         "classifier.timeout",
		"prediction_persist_ttl": "classifier.persist_timeout",

		// Media
		"storage_backend":      "media.backend",
		"storage_bucket":       "media.bucket",
		"storage_local_dir":    "media.local_dir",
		"storage_public_url":   "media.public_base_url",
		"upload_max_size":      "media.max_upload_size",
		"upload_allowed_types": "media.allowed_types",
		"upload_max_files":     "media.max_batch_files",
		"image_max_dimension":  "media.max_dimension",
		"image_max_pixels":     "media.max_pixels",
		"image_jpeg_quality":   "media.jpeg_quality",
		"reconcile_interval":   "media.reconcile_interval",
		"reconcile_grace":      "media.reconcile_grace",

		// S3
		"s3_endpoint":          "s3.endpoint",
		"s3_region":            "s3.region",
		"s3_access_key_id":     "s3.access_key",
		"s3_secret_access_key": "s3.secret_key",
		"s3_force_path_style":  "s3.use_path_style",
		"s3_public_url":        "s3.public_url",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
