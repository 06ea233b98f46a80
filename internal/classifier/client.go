// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/metrics"
	"github.com/tomtom215/velora/internal/models"
)

const breakerName = "risk-model"

// maxResponseBytes caps the model response read into memory.
const maxResponseBytes = 1 << 20

var (
	// ErrUpstreamStatus is returned for non-2xx model responses.
	ErrUpstreamStatus = errors.New("model returned non-success status")
	// ErrUpstreamBody is returned when the model response is not a usable prediction.
	ErrUpstreamBody = errors.New("model returned unusable body")
)

// RemoteResult is a decoded model response.
type RemoteResult struct {
	RiskLevel models.RiskLevel
	// Body is the response object exactly as returned by the model.
	Body json.RawMessage
}

// RemoteClient calls the model service through a circuit breaker.
type RemoteClient struct {
	url  string
	http *http.Client
	cb   *gobreaker.CircuitBreaker[*RemoteResult]
}

// NewRemoteClient builds a client for cfg.URL with cfg.Timeout per call.
func NewRemoteClient(cfg *config.ClassifierConfig) *RemoteClient {
	return NewRemoteClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewRemoteClientWithHTTP is NewRemoteClient with a caller-supplied http.Client.
func NewRemoteClientWithHTTP(cfg *config.ClassifierConfig, hc *http.Client) *RemoteClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*RemoteResult](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit to risk model")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &RemoteClient{
		url:  strings.TrimRight(cfg.URL, "/") + "/predict",
		http: hc,
		cb:   cb,
	}
}

// Predict asks the model to classify v.
func (c *RemoteClient) Predict(ctx context.Context, v Vitals) (*RemoteResult, error) {
	res, err := c.cb.Execute(func() (*RemoteResult, error) {
		return c.call(ctx, v)
	})
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	}
	return res, err
}

// State returns the breaker state for diagnostics.
func (c *RemoteClient) State() gobreaker.State {
	return c.cb.State()
}

func (c *RemoteClient) call(ctx context.Context, v Vitals) (*RemoteResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode vitals: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}
	return decodeRemote(body)
}

// decodeRemote accepts any JSON object carrying a known risk_level.
func decodeRemote(body []byte) (*RemoteResult, error) {
	var probe struct {
		RiskLevel models.RiskLevel `json:"risk_level"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamBody, err)
	}
	if !probe.RiskLevel.Valid() {
		return nil, fmt.Errorf("%w: risk_level %q", ErrUpstreamBody, probe.RiskLevel)
	}
	return &RemoteResult{RiskLevel: probe.RiskLevel, Body: json.RawMessage(body)}, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
