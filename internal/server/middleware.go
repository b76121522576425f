package server

import (
	"net/http"
	"strconv"
	"time"

	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/metrics"
	"bharat-seva/internal/common/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
)

// requestID tags every request with an id, reusing the caller's when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// recovery turns a panic into a generic 500 without leaking the value.
func recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", map[string]interface{}{
					"panic":     r,
					"path":      c.Request.URL.Path,
					"requestId": c.GetString(requestIDKey),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  "INTERNAL_ERROR",
				})
			}
		}()
		c.Next()
	}
}

func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
			"clientIp":  c.ClientIP(),
			"requestId": c.GetString(requestIDKey),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields)
		default:
			log.Info("request", fields)
		}
	}
}

// instrument records Prometheus and OpenTelemetry request metrics and opens a
// span per request. Unmatched paths share one label.
func instrument(obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := obs.StartSpan(c.Request.Context(), c.Request.Method+" "+route,
			attribute.String("http.route", route),
			attribute.String("request.id", c.GetString(requestIDKey)),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		metrics.RequestsInFlight.WithLabelValues(route).Inc()
		defer metrics.RequestsInFlight.WithLabelValues(route).Dec()

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		obs.RecordRequest(c.Request.Context(), route, status)
		obs.RecordRequestDuration(c.Request.Context(), route, elapsed)
	}
}

// bodyLimit caps request bodies; reads past the limit fail inside the handler.
func bodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
