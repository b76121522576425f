package processquery

import (
	"context"
	"net/http"
	"strconv"
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
	CapabilityID = "process-query"
	errSummary   = "Could not process query"
)

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

func (in *Input) validate() error {
	if strings.TrimSpace(in.Transcript) == "" {
		return apperrors.NewValidationError("Transcript is required")
	}
	return nil
}

// Execute turns a transcript into an action plan.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	req := model.Request{
		Prompt:    prompts.BuildQueryPrompt(input.promptInput()),
		Inference: model.PlanningInference,
	}

	result, err := h.invoker.InvokeWithFallback(ctx, h.config.Chain, req)
	if err != nil {
		handlers.LogModelFailure(h.logger, err, nil)
		return nil, err
	}

	var plan models.ActionPlan
	if err := h.normalizer.Normalize(result.Text, normalize.KindActionPlan, &plan); err != nil {
		handlers.LogModelFailure(h.logger, err, result)
		return nil, err
	}

	h.shape(&plan, input.lang())

	h.logger.Info("action plan ready", map[string]interface{}{
		"backend": result.BackendID,
		"intent":  string(plan.Intent),
		"steps":   len(plan.Steps),
	})

	return &plan, nil
}

// shape caps the step count, fills missing ids and statuses, and echoes the
// requested language.
func (h *Handler) shape(plan *models.ActionPlan, language string) {
	if len(plan.Steps) > h.config.MaxSteps {
		plan.Steps = plan.Steps[:h.config.MaxSteps]
	}
	if plan.Steps == nil {
		plan.Steps = []models.Step{}
	}

	for i := range plan.Steps {
		step := &plan.Steps[i]
		if step.ID == "" {
			step.ID = models.StepID(strconv.Itoa(i + 1))
		}
		if step.Status == "" {
			step.Status = models.StepStatusPending
		}
	}

	plan.Language = language
}
