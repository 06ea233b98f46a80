// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package classifier assigns a maternal health risk tier to a set of vital signs.

Classification first asks the remote model service (POST {url}/predict). Any
failure of that call, including a timeout, an open circuit, a non-2xx status
or an unusable body, is absorbed and the deterministic threshold rules in
rules.go produce the answer instead. Callers never see the upstream error.

Components:

  - Vitals: the six measurements, range-validated with every violation reported
  - RemoteClient: HTTP client to the model behind a gobreaker circuit breaker
  - Fallback: the threshold chain and the three recommendation templates
  - Service: remote-then-fallback classification plus the detached write of the
    resulting prediction record

Circuit Breaker:

The breaker opens after at least 5 requests in a one-minute window fail at a
rate of 60% or more, and probes again after 30 seconds. While open, requests
go straight to the fallback without waiting for the remote timeout.
*/
package classifier
