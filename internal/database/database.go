// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/logging"
)

// Table names, also used as metric labels.
const (
	tableUsers       = "users"
	tablePredictions = "health_predictions"
	tablePhotos      = "gallery_photos"
	tableProfiles    = "pregnancy_profiles"
	tableEntries     = "timeline_entries"
	tableArticles    = "articles"
	tableBookmarks   = "article_bookmarks"
)

// DB owns the connection pool and vends the per-table stores.
type DB struct {
	conn *sql.DB

	Accounts    *AccountStore
	Predictions *PredictionStore
	Photos      *PhotoStore
	Timeline    *TimelineStore
	Articles    *ArticleStore
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to Postgres, verifies the connection and applies migrations
// when configured to.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	conn, err := sqlOpen("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.MigrateOnStart {
		if err := Migrate(ctx, conn); err != nil {
			closeQuietly(conn)
			return nil, err
		}
		logging.Info().Msg("Database migrations applied")
	}

	return New(conn), nil
}

// New wraps an existing pool. Tests pass a sqlmock connection.
func New(conn *sql.DB) *DB {
	return &DB{
		conn:        conn,
		Accounts:    NewAccountStore(conn),
		Predictions: NewPredictionStore(conn),
		Photos:      NewPhotoStore(conn),
		Timeline:    NewTimelineStore(conn),
		Articles:    NewArticleStore(conn),
	}
}

// Ping checks connectivity for the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
