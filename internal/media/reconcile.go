// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/samber/lo"

	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/metrics"
)

// ReferenceFunc reports which of paths are still referenced by a row.
type ReferenceFunc func(ctx context.Context, paths []string) (map[string]bool, error)

// referenceBatch bounds the number of keys sent per ReferenceFunc call.
const referenceBatch = 500

type sweepSource struct {
	prefix string
	refs   ReferenceFunc
}

// SweepResult summarizes one reconciliation pass.
type SweepResult struct {
	Scanned int
	Skipped int
	Deleted int
	Failed  int
}

// Reconciler removes stored blobs that no row references.
type Reconciler struct {
	backend  ImageStorageBackend
	sources  []sweepSource
	grace    time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewReconciler creates a Reconciler. Objects younger than grace are never
// deleted. An interval of zero disables scheduling in Run.
func NewReconciler(backend ImageStorageBackend, grace, interval time.Duration) *Reconciler {
	return &Reconciler{
		backend:  backend,
		grace:    grace,
		interval: interval,
		now:      time.Now,
	}
}

// Watch adds a key prefix and the lookup that tells which keys under it are
// in use.
func (r *Reconciler) Watch(prefix string, refs ReferenceFunc) *Reconciler {
	r.sources = append(r.sources, sweepSource{prefix: prefix, refs: refs})
	return r
}

// Enabled reports whether Run schedules sweeps.
func (r *Reconciler) Enabled() bool {
	return r.interval > 0
}

// Sweep runs one pass over every watched prefix.
func (r *Reconciler) Sweep(ctx context.Context) (SweepResult, error) {
	var total SweepResult
	var errs []error
	for _, src := range r.sources {
		res, err := r.sweepPrefix(ctx, src)
		total.Scanned += res.Scanned
		total.Skipped += res.Skipped
		total.Deleted += res.Deleted
		total.Failed += res.Failed
		if err != nil {
			errs = append(errs, fmt.Errorf("sweep %s: %w", src.prefix, err))
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		metrics.MediaReconcileRuns.WithLabelValues("error").Inc()
	} else {
		metrics.MediaReconcileRuns.WithLabelValues("success").Inc()
	}
	return total, err
}

func (r *Reconciler) sweepPrefix(ctx context.Context, src sweepSource) (SweepResult, error) {
	var res SweepResult
	objects, err := r.backend.List(ctx, src.prefix)
	if err != nil {
		return res, err
	}
	res.Scanned = len(objects)

	cutoff := r.now().Add(-r.grace)
	candidates := lo.Filter(objects, func(o Object, _ int) bool {
		return o.ModTime.Before(cutoff)
	})
	res.Skipped = len(objects) - len(candidates)

	for _, chunk := range lo.Chunk(candidates, referenceBatch) {
		keys := lo.Map(chunk, func(o Object, _ int) string { return o.Key })
		referenced, err := src.refs(ctx, keys)
		if err != nil {
			return res, err
		}
		for _, key := range lo.Reject(keys, func(k string, _ int) bool { return referenced[k] }) {
			if err := r.backend.Delete(ctx, key); err != nil {
				res.Failed++
				metrics.MediaOrphanBlobs.WithLabelValues("delete_failed").Inc()
				logging.Ctx(ctx).Warn().Err(err).Str("path", key).Msg("Failed to delete orphaned image")
				continue
			}
			res.Deleted++
			metrics.MediaOrphanBlobs.WithLabelValues("deleted").Inc()
		}
	}
	return res, nil
}

// Run schedules Sweep every interval until ctx is cancelled. A disabled
// reconciler only waits for cancellation.
func (r *Reconciler) Run(ctx context.Context) error {
	if !r.Enabled() {
		<-ctx.Done()
		return ctx.Err()
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			r.runOnce(ctx)
		}),
		gocron.WithName("media-reconcile"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("schedule reconcile job: %w", err)
	}

	s.Start()
	logging.Info().
		Str("backend", r.backend.Name()).
		Dur("interval", r.interval).
		Dur("grace", r.grace).
		Msg("Media reconciler started")

	<-ctx.Done()
	if err := s.Shutdown(); err != nil {
		logging.Warn().Err(err).Msg("Media reconciler shutdown")
	}
	return ctx.Err()
}

func (r *Reconciler) runOnce(ctx context.Context) {
	start := time.Now()
	res, err := r.Sweep(ctx)
	event := logging.Info()
	if err != nil {
		event = logging.Warn().Err(err)
	}
	event.
		Int("scanned", res.Scanned).
		Int("skipped", res.Skipped).
		Int("deleted", res.Deleted).
		Int("failed", res.Failed).
		Dur("took", time.Since(start)).
		Msg("Media reconcile sweep finished")
}
