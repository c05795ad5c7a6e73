// Package ratelimit provides per-client request rate limiting for the HTTP
// API. Two implementations are available: a local in-process token bucket
// and a Redis-backed sliding window for multi-instance deployments. Both
// are keyed by client IP.
package ratelimit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Middleware returns HTTP middleware that enforces the limiter per client
// IP. Rejected requests get a 429 with a Retry-After hint; the limited
// counter is incremented for each rejection.
func Middleware(limiter Limiter, retryAfter time.Duration, limited prometheus.Counter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(r.Context(), key) {
				limited.Inc()
				logger.Debug("rate limited", "client", key, "path", r.URL.Path)

				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address from the request. RemoteAddr is
// usually host:port, but upstream middleware may have rewritten it to a
// bare IP from a forwarding header.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = strings.TrimPrefix(r.RemoteAddr, "[")
		ip = strings.TrimSuffix(ip, "]")
	}
	return ip
}
