// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package services

import (
	"context"
	"errors"
	"fmt"
)

// Reconciler is satisfied by *media.Reconciler.
type Reconciler interface {
	Run(ctx context.Context) error
}

// ReconcilerService supervises the orphaned-upload sweeper. A scheduler
// failure is returned so suture restarts the job with backoff.
type ReconcilerService struct {
	reconciler Reconciler
	name       string
}

// NewReconcilerService wraps r.
func NewReconcilerService(r Reconciler) *ReconcilerService {
	return &ReconcilerService{reconciler: r, name: "media-reconciler"}
}

// Serve implements suture.Service.
func (s *ReconcilerService) Serve(ctx context.Context) error {
	err := s.reconciler.Run(ctx)
	if err == nil || (ctx.Err() != nil && errors.Is(err, ctx.Err())) {
		return err
	}
	return fmt.Errorf("media reconciler: %w", err)
}

// String implements fmt.Stringer.
func (s *ReconcilerService) String() string {
	return s.name
}
