// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/velora/internal/cache"
	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/logging"
)

var (
	// TokensRevokedTotal counts logout and account-deletion revocations.
	TokensRevokedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_tokens_revoked_total",
		Help: "Total number of access tokens revoked before expiry",
	})

	// RevokedTokenRejectionsTotal counts requests presenting a revoked token.
	RevokedTokenRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_revoked_token_rejections_total",
		Help: "Total number of requests rejected because their token was revoked",
	})

	// DenylistEntries tracks the number of remembered revocations.
	DenylistEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "auth_denylist_entries",
		Help: "Number of revoked token ids held by the in-memory denylist",
	})

	// DenylistOverflowTotal counts revocations stored beyond the configured capacity.
	DenylistOverflowTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_denylist_overflow_total",
		Help: "Total number of revocations stored while the denylist was above capacity",
	})
)

// Denylist records revoked token ids until the token would have expired.
type Denylist interface {
	Revoke(jti string, until time.Time)
	IsRevoked(jti string) bool
}

// NewDenylist returns the denylist selected by cfg.
func NewDenylist(cfg *config.SecurityConfig) Denylist {
	if !cfg.TokenDenylist {
		return NoopDenylist{}
	}
	return NewMemoryDenylist(cfg.DenylistCapacity)
}

// MemoryDenylist keeps revoked ids in an expiring LRU until each token expires.
//
// Capacity is a soft limit. Expired ids are swept when it is reached, and an
// unexpired id is never dropped: the list grows instead and every overflowing
// revocation is counted and logged.
type MemoryDenylist struct {
	lru *cache.ExpiringLRU
}

// NewMemoryDenylist creates a denylist sized for capacity ids.
func NewMemoryDenylist(capacity int) *MemoryDenylist {
	return &MemoryDenylist{lru: cache.NewExpiringLRU(capacity).KeepLive()}
}

// Revoke implements Denylist.
func (d *MemoryDenylist) Revoke(jti string, until time.Time) {
	if jti == "" {
		return
	}
	over := d.lru.Add(jti, until)
	st := d.lru.Stats()
	DenylistEntries.Set(float64(st.Size))
	TokensRevokedTotal.Inc()

	if over {
		DenylistOverflowTotal.Inc()
		logging.Warn().
			Int("entries", st.Size).
			Int("capacity", st.Capacity).
			Msg("Token denylist above capacity, raise TOKEN_DENYLIST_CAPACITY")
	}
}

// Stats returns the underlying cache counters.
func (d *MemoryDenylist) Stats() cache.Stats {
	return d.lru.Stats()
}

// IsRevoked implements Denylist.
func (d *MemoryDenylist) IsRevoked(jti string) bool {
	return jti != "" && d.lru.Contains(jti)
}

// NoopDenylist never revokes anything.
type NoopDenylist struct{}

// Revoke implements Denylist.
func (NoopDenylist) Revoke(string, time.Time) {}

// IsRevoked implements Denylist.
func (NoopDenylist) IsRevoked(string) bool { return false }
