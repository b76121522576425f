package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	awsclient "bharat-seva/internal/common/aws"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
)

var bedrockTransientCodes = map[string]bool{
	"ThrottlingException":         true,
	"ServiceUnavailableException": true,
	"ModelNotReadyException":      true,
}

// BedrockBackend calls an Amazon Nova model through InvokeModel.
type BedrockBackend struct {
	id      string
	modelID string
	client  awsclient.BedrockService
}

func NewBedrockBackend(id, modelID string, client awsclient.BedrockService) *BedrockBackend {
	return &BedrockBackend{id: id, modelID: modelID, client: client}
}

func (b *BedrockBackend) ID() string { return b.id }

type novaImageSource struct {
	Bytes []byte `json:"bytes"`
}

type novaImage struct {
	Format string          `json:"format"`
	Source novaImageSource `json:"source"`
}

type novaContent struct {
	Image *novaImage `json:"image,omitempty"`
	Text  string     `json:"text,omitempty"`
}

type novaMessage struct {
	Role    string        `json:"role"`
	Content []novaContent `json:"content"`
}

type novaInferenceConfig struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float32 `json:"temperature"`
}

type novaRequest struct {
	Messages        []novaMessage       `json:"messages"`
	InferenceConfig novaInferenceConfig `json:"inferenceConfig"`
}

type novaResponse struct {
	Output struct {
		Message struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

// buildNovaBody renders the Nova messages body. The image part, when present,
// precedes the text part.
func buildNovaBody(req Request) ([]byte, error) {
	var content []novaContent
	if req.Image != nil {
		content = append(content, novaContent{Image: &novaImage{
			Format: req.Image.Format,
			Source: novaImageSource{Bytes: req.Image.Data},
		}})
	}
	content = append(content, novaContent{Text: req.Prompt})

	return json.Marshal(novaRequest{
		Messages: []novaMessage{{Role: "user", Content: content}},
		InferenceConfig: novaInferenceConfig{
			MaxTokens:   req.Inference.MaxTokens,
			Temperature: req.Inference.Temperature,
		},
	})
}

func (b *BedrockBackend) Generate(ctx context.Context, req Request) (string, error) {
	body, err := buildNovaBody(req)
	if err != nil {
		return "", &ProviderError{Backend: b.id, Err: fmt.Errorf("encode request: %w", err)}
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     awssdk.String(b.modelID),
		ContentType: awssdk.String("application/json"),
		Accept:      awssdk.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", b.classify(err)
	}

	var resp novaResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", &ProviderError{Backend: b.id, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(resp.Output.Message.Content) == 0 {
		return "", &ProviderError{Backend: b.id, Err: ErrEmptyReply}
	}

	return resp.Output.Message.Content[0].Text, nil
}

func (b *BedrockBackend) classify(err error) error {
	pe := &ProviderError{Backend: b.id, Err: err}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		pe.Code = apiErr.ErrorCode()
		pe.Transient = bedrockTransientCodes[pe.Code]
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		pe.StatusCode = respErr.HTTPStatusCode()
		if transientStatus(pe.StatusCode) {
			pe.Transient = true
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		pe.Transient = true
	}

	return pe
}
