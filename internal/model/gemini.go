package model

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"
)

// GeminiModels is the subset of genai.Models used for generation.
type GeminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend calls a Gemini model through the Google Gen AI SDK.
type GeminiBackend struct {
	id      string
	modelID string
	models  GeminiModels
}

func NewGeminiBackend(id, modelID string, models GeminiModels) *GeminiBackend {
	return &GeminiBackend{id: id, modelID: modelID, models: models}
}

// NewGeminiClient creates a Gemini API client using apiKey.
func NewGeminiClient(ctx context.Context, apiKey string, httpClient *http.Client) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
}

func (g *GeminiBackend) ID() string { return g.id }

func buildGeminiContents(req Request) []*genai.Content {
	var parts []*genai.Part
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType()))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func (g *GeminiBackend) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Inference.Temperature),
		MaxOutputTokens: int32(req.Inference.MaxTokens),
	}

	resp, err := g.models.GenerateContent(ctx, g.modelID, buildGeminiContents(req), cfg)
	if err != nil {
		return "", g.classify(err)
	}

	text := resp.Text()
	if text == "" {
		return "", &ProviderError{Backend: g.id, Err: ErrEmptyReply}
	}
	return text, nil
}

func (g *GeminiBackend) classify(err error) error {
	pe := &ProviderError{Backend: g.id, Err: err}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr):
		apiErr = *apiErrPtr
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			pe.Transient = true
		}
		return pe
	}

	pe.StatusCode = apiErr.Code
	pe.Code = apiErr.Status
	pe.Transient = transientStatus(apiErr.Code) ||
		apiErr.Status == "RESOURCE_EXHAUSTED" ||
		apiErr.Status == "UNAVAILABLE"

	return pe
}
