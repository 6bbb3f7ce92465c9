package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/typerank/typerank-server/internal/errors"
)

// submitRateLimit throttles attempt submissions per user, or per client IP for guests.
// Rejected requests get 429 RATE_LIMITED with a Retry-After header.
func (s *Server) submitRateLimit(ctx huma.Context, next func(huma.Context)) {
	if s.submitLimiter == nil {
		next(ctx)
		return
	}

	key := "ip:" + clientIP(ctx)
	if userID := optionalUserID(ctx.Context()); userID != "" {
		key = "user:" + userID
	}

	allowed, retryAfter := s.submitLimiter.Allow(key)
	if allowed {
		next(ctx)
		return
	}

	s.logger.Warn("rate limit exceeded",
		"key", key,
		"path", ctx.URL().Path,
		"retry_after", retryAfter,
	)

	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	ctx.SetHeader("Retry-After", strconv.Itoa(seconds))

	err := domainerrors.RateLimited("too many attempt submissions, try again later")
	_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, err.Message, err) //nolint:errcheck // response already committed
}

// clientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
