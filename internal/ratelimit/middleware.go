package ratelimit

import (
	"strconv"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/metrics"

	"github.com/gin-gonic/gin"
)

// RejectMessage is the body text sent with a 429.
const RejectMessage = apperrors.RateLimitMessage

// Middleware rejects a client once it exceeds limitPerMinute within scope.
// Windows are keyed by scope and client IP, so every route mounted under one
// scope (a capability and its aliases) draws from the same budget. route only
// labels metrics and logs.
func Middleware(l Limiter, scope, route string, limitPerMinute int, log logger.Logger) gin.HandlerFunc {
	errs := apperrors.NewErrorHandler(log)

	return func(c *gin.Context) {
		if limitPerMinute <= 0 {
			c.Next()
			return
		}

		d := l.CheckAndRecord(c.Request.Context(), scope+"|"+c.ClientIP(), limitPerMinute)
		if !d.Allowed {
			metrics.RateLimited.WithLabelValues(route).Inc()
			c.Header("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())))
			errs.Respond(c, apperrors.NewRateLimitedError(route, d.RetryAfter), "", "")
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Next()
	}
}
