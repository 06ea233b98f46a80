// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/velora/internal/logging"
)

// TrustedRealIP applies chi's RealIP only when the direct peer is one of
// the trusted proxies (IPs or CIDRs). With no proxies configured the
// forwarding headers are ignored, so clients cannot spoof their address
// to escape the per-IP rate limit.
func TrustedRealIP(proxies []string) func(http.Handler) http.Handler {
	prefixes := parseProxies(proxies)
	return func(next http.Handler) http.Handler {
		if len(prefixes) == 0 {
			return next
		}
		realIP := chimiddleware.RealIP(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if peerTrusted(r.RemoteAddr, prefixes) {
				realIP.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseProxies(proxies []string) []netip.Prefix {
	var out []netip.Prefix
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			addr, err := netip.ParseAddr(p)
			if err != nil {
				logging.Warn().Str("proxy", p).Msg("Ignoring invalid trusted proxy")
				continue
			}
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(p)
		if err != nil {
			logging.Warn().Str("proxy", p).Msg("Ignoring invalid trusted proxy")
			continue
		}
		out = append(out, prefix.Masked())
	}
	return out
}

func peerTrusted(remoteAddr string, prefixes []netip.Prefix) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
