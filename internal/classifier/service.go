// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package classifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/metrics"
	"github.com/tomtom215/velora/internal/models"
)

// DefaultPersistTimeout bounds the detached prediction write when unset.
const DefaultPersistTimeout = 10 * time.Second

// Predictor is the remote model.
type Predictor interface {
	Predict(ctx context.Context, v Vitals) (*RemoteResult, error)
}

// PredictionWriter stores prediction records.
type PredictionWriter interface {
	Create(ctx context.Context, p *models.Prediction) (*models.Prediction, error)
}

// Result is the outcome of one classification.
type Result struct {
	RiskLevel models.RiskLevel
	Fallback  bool
	// Body is returned to the caller verbatim and stored as prediction_result.
	Body json.RawMessage
}

// Service classifies vitals and records each prediction.
type Service struct {
	remote         Predictor
	store          PredictionWriter
	persistTimeout time.Duration

	wg sync.WaitGroup
}

// NewService creates a Service. A nil remote always uses the fallback.
func NewService(remote Predictor, store PredictionWriter, persistTimeout time.Duration) *Service {
	if persistTimeout <= 0 {
		persistTimeout = DefaultPersistTimeout
	}
	return &Service{remote: remote, store: store, persistTimeout: persistTimeout}
}

// Classify returns the remote prediction, or the fallback when the remote
// call fails for any reason. The prediction is persisted for accountID in the
// background; a failed write is logged and never affects the result.
func (s *Service) Classify(ctx context.Context, accountID string, v Vitals) (*Result, error) {
	res, err := s.classify(ctx, v)
	if err != nil {
		return nil, err
	}
	s.persist(ctx, accountID, v, res)
	return res, nil
}

func (s *Service) classify(ctx context.Context, v Vitals) (*Result, error) {
	if s.remote != nil {
		start := time.Now()
		remote, err := s.remote.Predict(ctx, v)
		if err == nil {
			metrics.RecordClassification(false, time.Since(start))
			return &Result{RiskLevel: remote.RiskLevel, Body: remote.Body}, nil
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Risk model unavailable, using fallback rules")
	}

	metrics.RecordClassification(true, 0)
	fb := Fallback(v)
	body, err := json.Marshal(fb)
	if err != nil {
		return nil, fmt.Errorf("encode fallback result: %w", err)
	}
	return &Result{RiskLevel: fb.RiskLevel, Fallback: true, Body: body}, nil
}

// persist writes the record on a context detached from the request so a
// client disconnect does not cancel it.
func (s *Service) persist(ctx context.Context, accountID string, v Vitals, res *Result) {
	if s.store == nil {
		return
	}
	rec := &models.Prediction{
		UserID:      accountID,
		Age:         v.Age,
		SystolicBP:  v.SystolicBP,
		DiastolicBP: v.DiastolicBP,
		BloodSugar:  v.BS,
		BodyTemp:    v.BodyTemp,
		HeartRate:   v.HeartRate,
		RiskLevel:   res.RiskLevel,
		Result:      res.Body,
	}
	detached := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		writeCtx, cancel := context.WithTimeout(detached, s.persistTimeout)
		defer cancel()

		if _, err := s.store.Create(writeCtx, rec); err != nil {
			metrics.PredictionPersistFailures.Inc()
			logging.Ctx(detached).Error().Err(err).Str("account_id", accountID).Msg("Failed to save prediction")
		}
	}()
}

// Wait blocks until all background writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}
