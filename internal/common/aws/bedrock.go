// internal/common/aws/bedrock.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockService is the subset of the Bedrock runtime used for inference.
type BedrockService interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

func NewBedrockClient(cfg awssdk.Config) *bedrockruntime.Client {
	return bedrockruntime.NewFromConfig(cfg)
}
