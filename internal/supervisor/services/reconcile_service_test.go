// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type fakeReconciler struct {
	runs    atomic.Int32
	failFor int32
}

var errScheduler = errors.New("scheduler unavailable")

func (f *fakeReconciler) Run(ctx context.Context) error {
	if f.runs.Add(1) <= f.failFor {
		return errScheduler
	}
	<-ctx.Done()
	return ctx.Err()
}

var _ suture.Service = (*ReconcilerService)(nil)

func TestReconcilerService_Serve(t *testing.T) {
	t.Run("returns cancellation untouched", func(t *testing.T) {
		svc := NewReconcilerService(&fakeReconciler{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	})

	t.Run("wraps scheduler failures", func(t *testing.T) {
		svc := NewReconcilerService(&fakeReconciler{failFor: 1})

		err := svc.Serve(context.Background())
		if !errors.Is(err, errScheduler) {
			t.Fatalf("Serve() = %v, want %v", err, errScheduler)
		}
		if err.Error() != "media reconciler: scheduler unavailable" {
			t.Errorf("Serve() error = %q", err.Error())
		}
	})

	if got := NewReconcilerService(&fakeReconciler{}).String(); got != "media-reconciler" {
		t.Errorf("String() = %q, want media-reconciler", got)
	}
}

func TestReconcilerService_RestartedBySupervisor(t *testing.T) {
	rec := &fakeReconciler{failFor: 2}
	sup := suture.New("test-background", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewReconcilerService(rec))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	deadline := time.After(time.Second)
	for rec.runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("reconciler started %d times, want at least 3", rec.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-errCh
}
