package contextchat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

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
	CapabilityID = "context-chat"
	errSummary   = "Could not get response"
)

var chatInference = model.Inference{MaxTokens: 400, Temperature: 0.5}

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
		err = h.validate(&input)
	}
	if err == nil {
		err = handlers.CheckSchema(doc, h.config.InputSchema)
	}
	if err != nil {
		h.errors.Respond(c, err, input.lang(), errSummary)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errors.Respond(c, err, input.lang(), errSummary)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (in *Input) lang() string {
	return handlers.OrDefault(in.Language, prompts.DefaultLanguage)
}

func (h *Handler) validate(in *Input) error {
	q := in.question()
	if strings.TrimSpace(q) == "" {
		return apperrors.NewValidationError("Message is required")
	}
	if utf8.RuneCountInString(q) > h.config.MaxMessageLength {
		return apperrors.NewValidationError(fmt.Sprintf("Message must be at most %d characters", h.config.MaxMessageLength))
	}
	return nil
}

// Execute answers a follow-up question in the context of the user's current
// plan step.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.validate(input); err != nil {
		return nil, err
	}

	turns := make([]prompts.Turn, 0, len(input.Context))
	for _, t := range input.Context {
		turns = append(turns, prompts.Turn{Role: t.Role, Text: t.Text})
	}

	prompt := prompts.BuildChatPrompt(prompts.ChatInput{
		Message:         input.question(),
		Language:        input.lang(),
		PlanTitle:       input.ActionPlanTitle,
		StepTitle:       input.CurrentStep.Title,
		StepDescription: input.CurrentStep.Description,
		Context:         turns,
	})

	result, err := h.invoker.InvokeWithFallback(ctx, h.config.Chain, model.Request{
		Prompt:    prompt,
		Inference: chatInference,
	})
	if err != nil {
		handlers.LogModelFailure(h.logger, err, nil)
		return nil, err
	}

	var answer models.ChatAnswer
	if err := h.normalizer.Normalize(result.Text, normalize.KindChatAnswer, &answer); err != nil {
		handlers.LogModelFailure(h.logger, err, result)
		return nil, err
	}

	h.logger.Info("chat answered", map[string]interface{}{
		"backend":      result.BackendID,
		"contextTurns": len(turns),
		"replyLength":  len(answer.Answer),
	})

	return &answer, nil
}
