// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/velora/internal/metrics"
)

// Postgres SQLSTATE codes the API distinguishes.
const (
	pgUniqueViolation           = "23505"
	pgNotNullViolation          = "23502"
	pgUndefinedTable            = "42P01"
	pgInvalidTextRepresentation = "22P02" // e.g. a path id that is not a uuid
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotNull is returned when a required column is missing.
	ErrNotNull = errors.New("required value missing")
	// ErrUndefinedTable means migrations have not been applied.
	ErrUndefinedTable = errors.New("table does not exist")
)

// classify maps driver errors onto the package sentinels. The original
// error stays in the chain so callers can still inspect *pgconn.PgError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case pgNotNullViolation:
			return fmt.Errorf("%w: %w", ErrNotNull, err)
		case pgUndefinedTable:
			return fmt.Errorf("%w: %w", ErrUndefinedTable, err)
		case pgInvalidTextRepresentation:
			// No row can have an id that does not parse.
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

// ConstraintName returns the violated constraint, or "" if err is not a Postgres error.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// observe records query latency. Use with a named error return:
//
//	defer observe("select", tableUsers, time.Now(), &err)
func observe(operation, table string, start time.Time, errp *error) {
	var err error
	if errp != nil && *errp != nil && !errors.Is(*errp, ErrNotFound) {
		err = *errp
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// closeQuietly closes a resource in paths where the Close error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
