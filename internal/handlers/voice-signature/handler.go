package voicesignature

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CapabilityID = "voice-signature"
	FormField    = "audio"
	errSummary   = "Could not save voice signature"
)

type Handler struct {
	config *Config
	store  ObjectStore
	errors *apperrors.ErrorHandler
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, store ObjectStore, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"capability": CapabilityID})
	return &Handler{
		config: config,
		store:  store,
		errors: apperrors.NewErrorHandler(l),
		logger: l,
		now:    time.Now,
	}
}

func (h *Handler) Handle(c *gin.Context) {
	language := c.PostForm("language")

	input, err := h.readUpload(c)
	if err != nil {
		h.errors.Respond(c, err, language, errSummary)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errors.Respond(c, err, language, errSummary)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (h *Handler) readUpload(c *gin.Context) (*Input, error) {
	fh, err := c.FormFile(FormField)
	if err != nil {
		return nil, apperrors.NewValidationError("Audio file is required")
	}
	if fh.Size > h.config.MaxUploadBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Audio file must be at most %d MB", h.config.MaxUploadBytes>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.config.MaxUploadBytes+1))
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("read upload: %w", err))
	}

	return &Input{Audio: data}, nil
}

// Execute stores the clip and returns a time-limited link to it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.Audio) == 0 {
		return nil, apperrors.NewValidationError("Audio file is required")
	}
	if int64(len(input.Audio)) > h.config.MaxUploadBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Audio file must be at most %d MB", h.config.MaxUploadBytes>>20))
	}

	key := h.config.KeyPrefix + uuid.NewString() + ".wav"

	if err := h.store.Put(ctx, key, h.config.ContentType, input.Audio); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	url, err := h.store.PresignGet(ctx, key, h.config.LinkTTL)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	expiresAt := h.now().Add(h.config.LinkTTL).UTC()

	h.logger.Info("voice signature stored", map[string]interface{}{
		"fileKey":   key,
		"sizeBytes": len(input.Audio),
		"expiresAt": expiresAt.Format(time.RFC3339),
	})

	return &Output{
		PresignedURL: url,
		QRCodeData:   url,
		FileKey:      key,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	}, nil
}
