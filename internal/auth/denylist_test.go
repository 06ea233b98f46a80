// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/velora/internal/config"
)

func TestNewDenylist(t *testing.T) {
	if _, ok := NewDenylist(&config.SecurityConfig{TokenDenylist: false}).(NoopDenylist); !ok {
		t.Error("expected NoopDenylist when disabled")
	}
	if _, ok := NewDenylist(&config.SecurityConfig{TokenDenylist: true, DenylistCapacity: 10}).(*MemoryDenylist); !ok {
		t.Error("expected MemoryDenylist when enabled")
	}
}

func TestMemoryDenylist(t *testing.T) {
	d := NewMemoryDenylist(10)

	d.Revoke("jti-1", time.Now().Add(time.Hour))
	d.Revoke("", time.Now().Add(time.Hour))
	d.Revoke("jti-old", time.Now().Add(-time.Minute))

	if !d.IsRevoked("jti-1") {
		t.Error("expected jti-1 to be revoked")
	}
	if d.IsRevoked("") {
		t.Error("empty jti must never be revoked")
	}
	if d.IsRevoked("jti-old") {
		t.Error("already expired token need not be remembered")
	}
	if d.IsRevoked("jti-2") {
		t.Error("unexpected revocation")
	}
}

func TestMemoryDenylist_FullListKeepsLiveRevocations(t *testing.T) {
	d := NewMemoryDenylist(3)
	exp := time.Now().Add(7 * 24 * time.Hour)
	overflowBefore := testutil.ToFloat64(DenylistOverflowTotal)

	d.Revoke("victim-jti", exp)
	for i := 0; i < 3; i++ {
		d.Revoke(fmt.Sprintf("jti-%d", i), exp)
	}

	if !d.IsRevoked("victim-jti") {
		t.Fatal("revoked token became valid again once the denylist filled up")
	}
	for i := 0; i < 3; i++ {
		if !d.IsRevoked(fmt.Sprintf("jti-%d", i)) {
			t.Errorf("jti-%d not revoked", i)
		}
	}

	st := d.Stats()
	if st.Size != 4 || st.Evictions != 0 {
		t.Errorf("stats = %+v, want 4 entries and no evictions", st)
	}
	if got := testutil.ToFloat64(DenylistOverflowTotal) - overflowBefore; got != 1 {
		t.Errorf("overflow counter grew by %v, want 1", got)
	}
	if got := testutil.ToFloat64(DenylistEntries); got != 4 {
		t.Errorf("entries gauge = %v, want 4", got)
	}
}

func TestNoopDenylist(t *testing.T) {
	var d Denylist = NoopDenylist{}
	d.Revoke("jti-1", time.Now().Add(time.Hour))
	if d.IsRevoked("jti-1") {
		t.Error("noop denylist must not revoke")
	}
}
