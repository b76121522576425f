// Package model invokes hosted language models through interchangeable
// backends and ordered fallback chains.
package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "bharat-seva/internal/common/errors"
)

// Chain names selected by callers.
const (
	ChainPlanning = "planning"
	ChainChat     = "chat"
	ChainVision   = "vision"
	ChainLegacy   = "legacy"
)

var (
	ErrNoBackends   = errors.New("NO_BACKENDS")
	ErrUnknownChain = errors.New("UNKNOWN_CHAIN")
	ErrEmptyReply   = errors.New("EMPTY_REPLY")
)

// Image is an inline picture sent alongside the prompt.
type Image struct {
	Data   []byte
	Format string // jpeg | png | webp | gif
}

// MIMEType returns the media type for Format.
func (i *Image) MIMEType() string {
	return "image/" + i.Format
}

// Inference bounds the generation.
type Inference struct {
	MaxTokens   int
	Temperature float32
}

var (
	// PlanningInference favours consistent structured output.
	PlanningInference = Inference{MaxTokens: 1500, Temperature: 0.3}
	// VisionInference is used for reading photographed documents.
	VisionInference = Inference{MaxTokens: 800, Temperature: 0.1}
)

// Request is one prompt, with an optional image, to be sent to a backend.
type Request struct {
	Prompt    string
	Image     *Image
	Inference Inference
}

// Backend performs exactly one outbound model call per Generate.
type Backend interface {
	ID() string
	Generate(ctx context.Context, req Request) (string, error)
}

// ProviderError is a failed provider call.
type ProviderError struct {
	Backend    string
	StatusCode int
	Code       string
	Transient  bool
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend %s: %s: %v", e.Backend, e.Code, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) ErrorCode() apperrors.ErrorCode {
	if e.Transient {
		return apperrors.ErrCodeProviderTransient
	}
	return apperrors.ErrCodeProviderFatal
}

// IsTransient reports whether a failure indicates the provider is busy, so
// the same request may succeed on another backend.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var se *apperrors.StandardError
	if errors.As(err, &se) && se.Code == apperrors.ErrCodeProviderFatal {
		return false
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Transient {
			return true
		}
		return transientStatus(pe.StatusCode)
	}

	return errors.Is(err, context.DeadlineExceeded)
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}
