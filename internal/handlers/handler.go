// Package handlers holds what every capability handler shares. Each
// capability lives in its own subpackage.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/validation"
	"bharat-seva/internal/model"
	"bharat-seva/internal/normalize"

	"github.com/gin-gonic/gin"
)

// Invoker runs a model request through a fallback chain.
type Invoker interface {
	InvokeWithFallback(ctx context.Context, chain string, req model.Request) (*model.Result, error)
}

// Normalizer turns raw model output into a typed result.
type Normalizer interface {
	Normalize(raw, kind string, out interface{}) error
}

// DecodeJSON reads the request body into v. The generic decoding of the same
// body is returned for schema checks.
func DecodeJSON(c *gin.Context, v interface{}) (interface{}, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, apperrors.NewValidationError("Could not read request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.NewValidationError("Request body must be valid JSON")
	}
	if _, ok := doc.(map[string]interface{}); !ok {
		return nil, apperrors.NewValidationError("Request body must be a JSON object")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return nil, apperrors.NewValidationError("Invalid request body")
	}

	return doc, nil
}

// CheckSchema validates doc against schema and reports the first violation.
func CheckSchema(doc interface{}, schema map[string]interface{}) error {
	result, err := validation.ValidateInput(doc, schema)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return apperrors.NewValidationError("Invalid request: " + strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

// LogModelFailure records why a model call or its parse failed. Raw model
// output only ever reaches the server log.
func LogModelFailure(log logger.Logger, err error, result *model.Result) {
	fields := map[string]interface{}{}
	if result != nil {
		fields["backend"] = result.BackendID
		fields["attempts"] = result.Attempts
	}

	var pe *normalize.ParseError
	if errors.As(err, &pe) {
		fields["kind"] = pe.Kind
		fields["reason"] = pe.Reason
		fields["raw"] = pe.Raw
		log.Warn("model reply could not be parsed", fields)
		return
	}

	log.WithError(err).Warn("model call failed", fields)
}

// OrDefault returns def when v is blank.
func OrDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
