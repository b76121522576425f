package scandocument

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/validation"
	"bharat-seva/internal/handlers"
	"bharat-seva/internal/model"
	"bharat-seva/internal/models"
	"bharat-seva/internal/normalize"
	"bharat-seva/internal/prompts"

	"github.com/gin-gonic/gin"
)

const (
	CapabilityID = "scan-document"
	errSummary   = "Could not read document"

	unknownDocument = "different document"
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
	if err == nil && input.ImageBase64 == "" {
		err = apperrors.NewValidationError("Image is required")
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

// Execute checks the photo is the expected document and extracts its fields.
// The size guard runs before any model call.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ImageBase64 == "" {
		return nil, apperrors.NewValidationError("Image is required")
	}

	data, format, err := validation.DecodeImage(input.ImageBase64, h.config.MaxImageBytes)
	if err != nil {
		if errors.Is(err, validation.ErrInvalidImage) {
			return nil, apperrors.NewValidationError("Image could not be decoded")
		}
		return nil, err
	}

	docType := prompts.ResolveDocumentType(input.ExpectedDocumentType)

	result, err := h.invoker.InvokeWithFallback(ctx, h.config.Chain, model.Request{
		Prompt:    prompts.BuildScanPrompt(docType),
		Image:     &model.Image{Data: data, Format: format},
		Inference: model.VisionInference,
	})
	if err != nil {
		handlers.LogModelFailure(h.logger, err, nil)
		return nil, err
	}

	var scan models.ScanResult
	if err := h.normalizer.Normalize(result.Text, normalize.KindDocumentScan, &scan); err != nil {
		handlers.LogModelFailure(h.logger, err, result)
		return nil, err
	}

	output := shape(&scan, docType, input.lang())

	h.logger.Info("document scanned", map[string]interface{}{
		"backend":   result.BackendID,
		"expected":  docType,
		"detected":  output.DocumentTypeDetected,
		"accepted":  output.IsCorrectDocument,
		"imageSize": len(data),
	})

	return output, nil
}

func shape(scan *models.ScanResult, expected, language string) *Output {
	detected := strings.ToLower(strings.TrimSpace(scan.DocumentType))

	mismatch := detected == prompts.WrongDocument ||
		(expected != prompts.DocTypeGeneric && detected != expected)

	if mismatch {
		seen := scan.DocumentType
		if detected == prompts.WrongDocument {
			seen = ""
			if scan.DetectedAs != nil {
				seen = strings.TrimSpace(*scan.DetectedAs)
			}
		}
		if seen == "" {
			seen = unknownDocument
		}
		msg := prompts.RejectionMessage(language, seen)
		return &Output{
			IsCorrectDocument:    false,
			DocumentTypeDetected: seen,
			ExtractedFields:      map[string]interface{}{},
			RejectionMessage:     &msg,
		}
	}

	fields := scan.Extracted
	if expected == prompts.DocTypeGeneric {
		fields = scan.Fields
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}

	return &Output{
		IsCorrectDocument:    true,
		DocumentTypeDetected: scan.DocumentType,
		ExtractedFields:      fields,
	}
}
