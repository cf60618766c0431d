// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitPrefix namespaces the Valkey counters.
const rateLimitPrefix = "ratelimit:"

// RateLimiter limits requests per client IP with fixed window counters
// kept in Valkey, so every server instance shares the same budget.
type RateLimiter struct {
	client     *redis.Client
	limit      int64
	window     time.Duration
	trustProxy bool
}

// NewRateLimiter creates a rate limiter that allows limit requests per
// window. A nil client or a limit below 1 disables limiting. trustProxy
// keys clients by the proxy headers; leave it off unless every request
// passes through a proxy that sets them.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, trustProxy bool) *RateLimiter {
	return &RateLimiter{client: client, limit: int64(limit), window: window, trustProxy: trustProxy}
}

// enabled reports whether the limiter does anything.
func (rl *RateLimiter) enabled() bool {
	return rl != nil && rl.client != nil && rl.limit > 0 && rl.window > 0
}

// allow counts one request for key in the current window and reports
// whether it is within the limit, plus the time left in the window.
// Valkey errors let the request through.
func (rl *RateLimiter) allow(ctx context.Context, key string, now time.Time) (bool, time.Duration) {
	start := now.Truncate(rl.window)
	counter := fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, start.Unix())

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, counter)
	pipe.Expire(ctx, counter, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("rate limit check failed", "key", key, "error", err)
		return true, 0
	}
	return incr.Val() <= rl.limit, start.Add(rl.window).Sub(now)
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := rl.allow(r.Context(), clientIP(r, rl.trustProxy), time.Now())
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the address requests are counted under. Without a
// trusted proxy only RemoteAddr counts, since clients can send any
// header. Behind one, X-Real-IP wins, then the rightmost X-Forwarded-For
// entry, which is the one the proxy appended.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.LastIndexByte(xff, ','); idx != -1 {
				xff = xff[idx+1:]
			}
			if ip := strings.TrimSpace(xff); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
