// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package middleware provides infrastructure HTTP middleware shared by every route.

Key Components:

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
  - TrustedRealIP: rewrites RemoteAddr from X-Forwarded-For only for trusted proxies
  - Recoverer: turns a panic into a 500 JSON envelope and logs the stack
  - PrometheusMetrics: request count, latency and in-flight gauges labelled by
    chi route pattern

Typical stack, outermost first:

	r.Use(middleware.RequestID)
	r.Use(middleware.TrustedRealIP(cfg.Security.TrustedProxies))
	r.Use(middleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

Authentication lives in internal/auth and is applied per route group.
*/
package middleware
