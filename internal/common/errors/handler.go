// internal/common/errors/handler.go
package errors

import (
	"github.com/gin-gonic/gin"
)

// ErrorHandler writes failures at the HTTP boundary with standardized logging.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Respond aborts the request with the response shape for err. summary is the
// short capability-specific "error" text used for server-side failures.
// Details and raw model output are logged but never written to the client.
func (h *ErrorHandler) Respond(c *gin.Context, err error, language, summary string) {
	stdErr := Normalize(err)
	status := GetHTTPStatus(stdErr.Code)

	h.logError(c, stdErr, status)

	switch {
	case stdErr.Code == ErrCodeRateLimited:
		body := gin.H{"error": stdErr.Message}
		if v, ok := stdErr.Metadata["retryAfter"]; ok {
			body["retryAfter"] = v
		}
		c.AbortWithStatusJSON(status, body)
	case IsClientError(stdErr.Code):
		c.AbortWithStatusJSON(status, gin.H{"error": stdErr.Message})
	default:
		if summary == "" {
			summary = "Something went wrong"
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":   summary,
			"message": RetryLaterMessage(language),
			"code":    string(stdErr.Code),
		})
	}
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"route":         c.FullPath(),
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
	}
	if requestID, ok := c.Get("requestId"); ok {
		fields["requestId"] = requestID
	}

	if IsClientError(stdErr.Code) {
		h.logger.Warn("Request rejected", fields)
		return
	}
	h.logger.Error("Request failed", fields)
}
