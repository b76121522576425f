package model

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	awsclient "bharat-seva/internal/common/aws"
	"bharat-seva/internal/common/config"
	"bharat-seva/internal/common/logger"
)

// Providers understood by NewBackendsFromConfig.
const (
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
)

// NewBackendsFromConfig builds one backend per configured entry. Gemini
// backends are skipped when no API key is configured; the chains referencing
// them shrink accordingly.
func NewBackendsFromConfig(ctx context.Context, cfg *config.Config, httpClient *http.Client, log logger.Logger) ([]Backend, error) {
	ids := make([]string, 0, len(cfg.Model.Backends))
	for id := range cfg.Model.Backends {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var (
		backends []Backend
		bedrock  awsclient.BedrockService
		gemini   GeminiModels
	)

	for _, id := range ids {
		bc := cfg.Model.Backends[id]

		switch bc.Provider {
		case ProviderBedrock:
			if bedrock == nil {
				awsCfg, err := awsclient.LoadConfig(ctx, cfg.AWS.Region)
				if err != nil {
					return nil, fmt.Errorf("load aws config: %w", err)
				}
				bedrock = awsclient.NewBedrockClient(awsCfg)
			}
			backends = append(backends, NewBedrockBackend(id, bc.ModelID, bedrock))

		case ProviderGemini:
			if cfg.Gemini.APIKey == "" {
				log.Warn("GEMINI_API_KEY not set, skipping backend", map[string]interface{}{"backend": id})
				continue
			}
			if gemini == nil {
				client, err := NewGeminiClient(ctx, cfg.Gemini.APIKey, httpClient)
				if err != nil {
					return nil, fmt.Errorf("create gemini client: %w", err)
				}
				gemini = client.Models
			}
			backends = append(backends, NewGeminiBackend(id, bc.ModelID, gemini))

		default:
			return nil, fmt.Errorf("backend %s: unknown provider %q", id, bc.Provider)
		}

		log.Info("model backend registered", map[string]interface{}{
			"backend":  id,
			"provider": bc.Provider,
			"modelId":  bc.ModelID,
		})
	}

	return backends, nil
}
