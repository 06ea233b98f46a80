// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package cache provides a bounded in-memory LRU whose entries carry their own
expiry time.

It backs the access-token denylist: a revoked token id only needs to be
remembered until the token would have expired anyway, so every entry is added
with that instant and is dropped once it passes. A full cache first sweeps
expired entries. If that frees nothing, the least recently touched entry is
evicted, unless KeepLive was set, in which case the cache grows past its
capacity and Add reports the overflow.

# Usage

	lru := cache.NewExpiringLRU(10000).KeepLive()
	if over := lru.Add(claims.ID, claims.ExpiresAt.Time); over {
	    // capacity is too small for the revocation rate
	}

	if lru.Contains(jti) {
	    // token was revoked
	}

# Thread Safety

All methods are safe for concurrent use. Lookups take the write lock because
expired entries are removed on access.
*/
package cache
