// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

/*
Package services adapts Velora components to suture.Service.

HTTPServerService turns http.Server's blocking ListenAndServe into a
context-aware Serve with graceful Shutdown. ReconcilerService supervises the
media reconciler's scheduler loop.

Every wrapper implements fmt.Stringer so suture's event log names it.
*/
package services
