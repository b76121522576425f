package sendwhatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/messaging"
	"bharat-seva/internal/common/validation"
	"bharat-seva/internal/handlers"

	"github.com/gin-gonic/gin"
)

const (
	CapabilityID = "send-whatsapp"
	errSummary   = "Could not send message"
)

type Handler struct {
	config    *Config
	messenger messaging.Messenger
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, messenger messaging.Messenger, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"capability": CapabilityID})
	return &Handler{
		config:    config,
		messenger: messenger,
		errors:    apperrors.NewErrorHandler(l),
		logger:    l,
	}
}

func (h *Handler) Handle(c *gin.Context) {
	var input Input
	doc, err := handlers.DecodeJSON(c, &input)
	if err == nil {
		_, err = h.validate(&input)
	}
	if err == nil {
		err = handlers.CheckSchema(doc, h.config.InputSchema)
	}
	if err != nil {
		h.errors.Respond(c, err, input.Language, errSummary)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errors.Respond(c, err, input.Language, errSummary)
		return
	}

	c.JSON(http.StatusOK, output)
}

// validate returns the E.164 form of the phone number.
func (h *Handler) validate(in *Input) (string, error) {
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return "", apperrors.NewValidationError("Phone number is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return "", apperrors.NewValidationError("Message is required")
	}
	if utf8.RuneCountInString(in.Message) > h.config.MaxMessageLength {
		return "", apperrors.NewValidationError(fmt.Sprintf("Message must be at most %d characters", h.config.MaxMessageLength))
	}

	phone, err := validation.NormalizePhone(in.PhoneNumber, h.config.DefaultCountryCode)
	if err != nil {
		return "", apperrors.NewValidationError("Phone number is invalid")
	}
	return phone, nil
}

// Execute relays the message once to the configured messenger.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	phone, err := h.validate(input)
	if err != nil {
		return nil, err
	}

	receipt, err := h.messenger.Send(ctx, phone, input.Message)
	if err != nil {
		return nil, err
	}

	return &Output{Success: true, SID: receipt.ID, Channel: receipt.Channel}, nil
}
