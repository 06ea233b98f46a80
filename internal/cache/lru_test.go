// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// newTestLRU returns a cache whose clock the test advances through the pointer.
func newTestLRU(capacity int) (*ExpiringLRU, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewExpiringLRU(capacity)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestExpiringLRU_AddContains(t *testing.T) {
	c, now := newTestLRU(3)

	c.Add("jti-a", now.Add(time.Hour))
	if !c.Contains("jti-a") {
		t.Error("expected jti-a to be present")
	}
	if c.Contains("jti-b") {
		t.Error("did not expect jti-b")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Size != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestExpiringLRU_PerEntryExpiry(t *testing.T) {
	c, now := newTestLRU(10)

	c.Add("short", now.Add(time.Minute))
	c.Add("long", now.Add(time.Hour))

	*now = now.Add(2 * time.Minute)

	if c.Contains("short") {
		t.Error("expected short to have expired")
	}
	if !c.Contains("long") {
		t.Error("expected long to survive")
	}
	if st := c.Stats(); st.Size != 1 || st.Expired != 1 {
		t.Errorf("expected expired entry removed on access, stats = %+v", st)
	}
}

func TestExpiringLRU_IgnoresAlreadyExpired(t *testing.T) {
	c, now := newTestLRU(10)

	c.Add("stale", now.Add(-time.Second))
	c.Add("edge", *now)

	if size := c.Stats().Size; size != 0 {
		t.Errorf("expected nothing stored, size = %d", size)
	}
}

func TestExpiringLRU_Eviction(t *testing.T) {
	c, now := newTestLRU(3)
	exp := now.Add(time.Hour)

	c.Add("a", exp)
	c.Add("b", exp)
	c.Add("c", exp)
	c.Contains("a")
	c.Add("d", exp)

	if c.Contains("b") {
		t.Error("expected b to be evicted as least recently used")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !c.Contains(k) {
			t.Errorf("expected %s to be present", k)
		}
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Errorf("evictions = %d, want 1", st.Evictions)
	}
}

func TestExpiringLRU_ReAddExtendsExpiry(t *testing.T) {
	c, now := newTestLRU(3)

	c.Add("a", now.Add(time.Minute))
	c.Add("a", now.Add(time.Hour))
	*now = now.Add(10 * time.Minute)

	if !c.Contains("a") {
		t.Error("expected re-added key to use the later expiry")
	}
	if size := c.Stats().Size; size != 1 {
		t.Errorf("size = %d, want 1", size)
	}
}

func TestExpiringLRU_FullCacheSweepsExpiredFirst(t *testing.T) {
	c, now := newTestLRU(3)

	c.Add("victim", now.Add(7*24*time.Hour))
	c.Add("short-1", now.Add(time.Minute))
	c.Add("short-2", now.Add(time.Minute))
	c.Contains("short-1")
	c.Contains("short-2")

	*now = now.Add(5 * time.Minute)
	c.Add("new", now.Add(time.Hour))

	if !c.Contains("victim") {
		t.Error("least recently used live key evicted while expired keys were present")
	}
	st := c.Stats()
	if st.Evictions != 0 || st.Expired != 2 || st.Size != 2 {
		t.Errorf("stats = %+v, want 0 evictions, 2 expired, size 2", st)
	}
}

func TestExpiringLRU_KeepLive(t *testing.T) {
	c, now := newTestLRU(3)
	c.KeepLive()
	exp := now.Add(time.Hour)

	for _, k := range []string{"victim", "a", "b"} {
		if over := c.Add(k, exp); over {
			t.Fatalf("Add(%s) reported overflow below capacity", k)
		}
	}
	if over := c.Add("c", exp); !over {
		t.Error("expected Add beyond capacity to report overflow")
	}

	if !c.Contains("victim") {
		t.Error("KeepLive cache dropped an unexpired key")
	}
	if st := c.Stats(); st.Size != 4 || st.Evictions != 0 {
		t.Errorf("stats = %+v, want size 4 and no evictions", st)
	}

	// Once the keys expire the next Add shrinks back within capacity.
	*now = now.Add(2 * time.Hour)
	if over := c.Add("d", now.Add(time.Hour)); over {
		t.Error("expected expired keys to be swept before reporting overflow")
	}
	if size := c.Stats().Size; size != 1 {
		t.Errorf("size = %d, want 1", size)
	}
}

func TestExpiringLRU_DefaultCapacity(t *testing.T) {
	c := NewExpiringLRU(0)
	if c.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.capacity, DefaultCapacity)
	}
}

func TestExpiringLRU_Concurrent(t *testing.T) {
	c := NewExpiringLRU(100)
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k-%d-%d", g, i)
				c.Add(key, exp)
				c.Contains(key)
			}
		}(g)
	}
	wg.Wait()

	if size := c.Stats().Size; size > 100 {
		t.Errorf("size %d exceeds capacity", size)
	}
}
