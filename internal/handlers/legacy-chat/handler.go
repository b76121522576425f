package legacychat

import (
	"context"
	"net/http"
	"strings"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/handlers"
	"bharat-seva/internal/model"
	"bharat-seva/internal/models"
	"bharat-seva/internal/normalize"
	"bharat-seva/internal/prompts"

	"github.com/gin-gonic/gin"
)

const (
	CapabilityID = "legacy-chat"
	errSummary   = "Something went wrong"
)

// Handler serves the original single-shot /api/chat contract.
type Handler struct {
	config     *Config
	invoker    handlers.Invoker
	normalizer handlers.Normalizer
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, invoker handlers.Invoker, normalizer handlers.Normalizer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"capability": CapabilityID})
	return &Handler{
		config:     config,
		invoker:    invoker,
		normalizer: normalizer,
		errors:     apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(c *gin.Context) {
	var input Input
	doc, err := handlers.DecodeJSON(c, &input)
	if err == nil {
		err = input.validate()
	}
	if err == nil {
		err = handlers.CheckSchema(doc, h.config.InputSchema)
	}
	if err != nil {
		h.errors.Respond(c, err, "en", errSummary)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errors.Respond(c, err, "en", errSummary)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (in *Input) validate() error {
	if strings.TrimSpace(in.Query) == "" {
		return apperrors.NewValidationError("Query is required")
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	h.logger.Debug("legacy query received", map[string]interface{}{
		"query":    input.Query,
		"language": handlers.OrDefault(input.Language, prompts.DefaultLegacyLanguage),
	})

	result, err := h.invoker.InvokeWithFallback(ctx, h.config.Chain, model.Request{
		Prompt:    prompts.BuildLegacyChatPrompt(input.Query, input.Language),
		Inference: model.PlanningInference,
	})
	if err != nil {
		handlers.LogModelFailure(h.logger, err, nil)
		return nil, err
	}

	var plan models.LegacyPlan
	if err := h.normalizer.Normalize(result.Text, normalize.KindLegacyPlan, &plan); err != nil {
		handlers.LogModelFailure(h.logger, err, result)
		return nil, err
	}

	return &plan, nil
}
