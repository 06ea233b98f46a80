// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Security   SecurityConfig   `koanf:"security"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Media      MediaConfig      `koanf:"media"`
	S3         S3Config         `koanf:"s3"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DatabaseConfig configures the Postgres pool.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	MigrateOnStart  bool          `koanf:"migrate_on_start"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, production
	// MaxBodySize caps JSON request bodies. Multipart uploads use Media limits.
	MaxBodySize string `koanf:"max_body_size"`

	maxBodyBytes int64
}

// MaxBodyBytes returns the parsed JSON body limit.
func (s *ServerConfig) MaxBodyBytes() int64 {
	return s.maxBodyBytes
}

// APIConfig holds pagination bounds.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds credential, token and rate limit settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	ResetTokenTTL     time.Duration `koanf:"reset_token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	// TokenDenylist enables in-process revocation of logged-out tokens.
	TokenDenylist    bool `koanf:"token_denylist"`
	DenylistCapacity int  `koanf:"denylist_capacity"`
}

// ClassifierConfig points at the remote risk model.
type ClassifierConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	// PersistTimeout bounds the detached prediction insert.
	PersistTimeout time.Duration `koanf:"persist_timeout"`
}

// MediaConfig configures image ingestion and storage.
type MediaConfig struct {
	Backend       string   `koanf:"backend"` // s3 or local
	Bucket        string   `koanf:"bucket"`
	Prefix        string   `koanf:"prefix"`
	AvatarPrefix  string   `koanf:"avatar_prefix"`
	MaxUploadSize string   `koanf:"max_upload_size"` // human readable, e.g. "10MiB"
	AllowedTypes  []string `koanf:"allowed_types"`
	MaxBatchFiles int      `koanf:"max_batch_files"`
	MaxDimension  int      `koanf:"max_dimension"`
	MaxPixels     int64    `koanf:"max_pixels"` // width*height bound checked before decode
	JPEGQuality   int      `koanf:"jpeg_quality"`
	LocalDir      string   `koanf:"local_dir"`
	// PublicBaseURL is prefixed to object keys for the local backend.
	PublicBaseURL     string        `koanf:"public_base_url"`
	ReconcileInterval time.Duration `koanf:"reconcile_interval"`
	ReconcileGrace    time.Duration `koanf:"reconcile_grace"`

	// maxUploadBytes is parsed from MaxUploadSize by Validate.
	maxUploadBytes int64
}

// MaxUploadBytes returns the parsed per-file upload limit.
func (m *MediaConfig) MaxUploadBytes() int64 {
	return m.maxUploadBytes
}

// S3Config configures the S3-compatible object store.
type S3Config struct {
	Endpoint     string `koanf:"endpoint"`
	Region       string `koanf:"region"`
	AccessKey    string `koanf:"access_key"`
	SecretKey    string `koanf:"secret_key"`
	UsePathStyle bool   `koanf:"use_path_style"`
	// PublicURL is the base used to build object URLs returned to clients.
	PublicURL string `koanf:"public_url"`
}

// HasCredentials reports whether static S3 credentials were supplied.
func (s *S3Config) HasCredentials() bool {
	return s.AccessKey != "" && s.SecretKey != ""
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
