// Package errors provides the error taxonomy shared by every request handler.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeImageTooLarge     ErrorCode = "IMAGE_TOO_LARGE"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
	ErrCodeProviderTransient ErrorCode = "PROVIDER_TRANSIENT"
	ErrCodeProviderFatal     ErrorCode = "PROVIDER_FATAL"
	ErrCodeParse             ErrorCode = "PARSE_ERROR"
	ErrCodeStorage           ErrorCode = "STORAGE_ERROR"
	ErrCodeMessaging         ErrorCode = "MESSAGING_ERROR"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Coder is implemented by errors from lower layers that know their taxonomy code.
type Coder interface {
	ErrorCode() ErrorCode
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a client error; Message is returned to the caller as-is.
func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewImageTooLargeError rejects an image whose estimated decoded size exceeds limit.
func NewImageTooLargeError(estimated, limit int) *StandardError {
	return &StandardError{
		Code:      ErrCodeImageTooLarge,
		Message:   "Image too large. Please use a clearer, closer photo.",
		Details:   fmt.Sprintf("estimated %d bytes, limit %d", estimated, limit),
		Retryable: false,
		Metadata:  map[string]interface{}{"estimatedBytes": estimated, "limitBytes": limit},
		Timestamp: time.Now().UTC(),
	}
}

// RateLimitMessage is the text sent with every 429.
const RateLimitMessage = "Thodi der mein dobara koshish karein."

// NewRateLimitedError rejects a client that used up its window on route.
func NewRateLimitedError(route string, retryAfter time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   RateLimitMessage,
		Details:   fmt.Sprintf("route %s", route),
		Retryable: true,
		Metadata:  map[string]interface{}{"retryAfter": int(retryAfter.Seconds())},
		Timestamp: time.Now().UTC(),
	}
}

func NewProviderTransientError(err error) *StandardError {
	return wrap(ErrCodeProviderTransient, "Model provider temporarily unavailable", true, err)
}

// NewProviderFatalError marks a model failure that no other backend will fix,
// including a fallback chain that ran out of backends.
func NewProviderFatalError(err error) *StandardError {
	return wrap(ErrCodeProviderFatal, "Model provider call failed", false, err)
}

func NewStorageError(err error) *StandardError {
	return wrap(ErrCodeStorage, "Object storage operation failed", true, err)
}

func NewMessagingError(err error) *StandardError {
	return wrap(ErrCodeMessaging, "Message delivery failed", true, err)
}

func NewInternalError(err error) *StandardError {
	return wrap(ErrCodeInternal, "Unexpected error", false, err)
}

func wrap(code ErrorCode, message string, retryable bool, err error) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		se.Details = err.Error()
	}
	return se
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps internal error codes to response status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeImageTooLarge:     http.StatusBadRequest,
	ErrCodeRateLimited:       http.StatusTooManyRequests,
	ErrCodeProviderTransient: http.StatusInternalServerError,
	ErrCodeProviderFatal:     http.StatusInternalServerError,
	ErrCodeParse:             http.StatusInternalServerError,
	ErrCodeStorage:           http.StatusInternalServerError,
	ErrCodeMessaging:         http.StatusInternalServerError,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for code, 500 when unmapped.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the code is the caller's fault.
func IsClientError(code ErrorCode) bool {
	return GetHTTPStatus(code) < http.StatusInternalServerError
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "IMAGE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "RATE"):
		return "RATE_LIMIT"
	case strings.Contains(codeStr, "PROVIDER") || strings.Contains(codeStr, "PARSE"):
		return "AI"
	case strings.Contains(codeStr, "STORAGE"):
		return "STORAGE"
	case strings.Contains(codeStr, "MESSAGING"):
		return "MESSAGING"
	default:
		return "SYSTEM"
	}
}

// ==========================
// 4. Localized Messages
// ==========================

var retryLaterMessages = map[string]string{
	"hi": "Abhi jawab nahi mil raha. Thodi der mein dobara koshish karein.",
	"en": "We could not get an answer right now. Please try again in a little while.",
	"ta": "Ippodhu badhil kidaikkavillai. Konjam neram kazhithu meendum muyarchikkavum.",
}

// RetryLaterMessage returns the user-facing "try again shortly" text. Unknown
// languages get Hindi.
func RetryLaterMessage(language string) string {
	if msg, ok := retryLaterMessages[strings.ToLower(language)]; ok {
		return msg
	}
	return retryLaterMessages["hi"]
}

// ==========================
// 5. Normalization
// ==========================

// Normalize converts any error into a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var coder Coder
	if stderrors.As(err, &coder) {
		code := coder.ErrorCode()
		return wrap(code, defaultMessage(code), code == ErrCodeProviderTransient, err)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewProviderTransientError(err)
	}

	return NewInternalError(err)
}

func defaultMessage(code ErrorCode) string {
	switch code {
	case ErrCodeProviderTransient:
		return "Model provider temporarily unavailable"
	case ErrCodeProviderFatal:
		return "Model provider call failed"
	case ErrCodeParse:
		return "Model output could not be parsed"
	case ErrCodeStorage:
		return "Object storage operation failed"
	case ErrCodeMessaging:
		return "Message delivery failed"
	case ErrCodeValidation:
		return "Invalid request"
	}
	return "Unexpected error"
}
