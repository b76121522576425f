package voicesignature

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"bharat-seva/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockObjectStore struct {
	PutFunc        func(ctx context.Context, key, contentType string, body []byte) error
	PresignGetFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
}

func (m *MockObjectStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	return m.PutFunc(ctx, key, contentType, body)
}

func (m *MockObjectStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return m.PresignGetFunc(ctx, key, ttl)
}

func upload(t *testing.T, h *Handler, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, "signature.wav")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("language", "en"))
	require.NoError(t, mw.Close())

	r := gin.New()
	r.POST("/api/upload-voice-signature", h.Handle)

	req := httptest.NewRequest(http.MethodPost, "/api/upload-voice-signature", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var keyPattern = regexp.MustCompile(`^signatures/[0-9a-f-]{36}\.wav$`)

func TestVoiceSignature_Success(t *testing.T) {
	var putKey, putType string
	var putBody []byte
	store := &MockObjectStore{
		PutFunc: func(ctx context.Context, key, contentType string, body []byte) error {
			putKey, putType, putBody = key, contentType, body
			return nil
		},
		PresignGetFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
			assert.Equal(t, putKey, key)
			assert.Equal(t, 7*24*time.Hour, ttl)
			return "https://bucket.s3.amazonaws.com/" + key + "?sig=1", nil
		},
	}
	h := NewHandler(DefaultConfig(), store, logger.NewTestLogger(t))
	fixed := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	w := upload(t, h, FormField, []byte("RIFF....WAVE"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out Output
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Regexp(t, keyPattern, out.FileKey)
	assert.Equal(t, putKey, out.FileKey)
	assert.Equal(t, "audio/wav", putType)
	assert.Equal(t, []byte("RIFF....WAVE"), putBody)
	assert.Equal(t, out.PresignedURL, out.QRCodeData)
	assert.Equal(t, "2026-10-25T10:00:00Z", out.ExpiresAt)
}

func TestVoiceSignature_Failures(t *testing.T) {
	okPresign := func(ctx context.Context, key string, ttl time.Duration) (string, error) { return "u", nil }

	tests := []struct {
		name       string
		field      string
		data       []byte
		put        func(ctx context.Context, key, contentType string, body []byte) error
		presign    func(ctx context.Context, key string, ttl time.Duration) (string, error)
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing file",
			field:      "",
			wantStatus: http.StatusBadRequest,
			wantError:  "Audio file is required",
		},
		{
			name:       "empty file",
			field:      FormField,
			data:       []byte{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Audio file is required",
		},
		{
			name:       "too large",
			field:      FormField,
			data:       bytes.Repeat([]byte{1}, 10*1024*1024+1),
			wantStatus: http.StatusBadRequest,
			wantError:  "Audio file must be at most 10 MB",
		},
		{
			name:  "put fails",
			field: FormField,
			data:  []byte("RIFF"),
			put: func(ctx context.Context, key, contentType string, body []byte) error {
				return errors.New("AccessDenied")
			},
			presign:    okPresign,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Could not save voice signature",
		},
		{
			name:  "presign fails",
			field: FormField,
			data:  []byte("RIFF"),
			put:   func(ctx context.Context, key, contentType string, body []byte) error { return nil },
			presign: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
				return "", errors.New("no credentials")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Could not save voice signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			store := &MockObjectStore{
				PutFunc: func(ctx context.Context, key, contentType string, body []byte) error {
					calls++
					return tt.put(ctx, key, contentType, body)
				},
				PresignGetFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
					return tt.presign(ctx, key, ttl)
				},
			}
			h := NewHandler(DefaultConfig(), store, logger.NewTestLogger(t))

			w := upload(t, h, tt.field, tt.data)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp["error"])
			if tt.put == nil {
				assert.Equal(t, 0, calls)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "STORAGE_ERROR", resp["code"])
				assert.NotContains(t, w.Body.String(), "AccessDenied")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.LinkTTL = 8 * 24 * time.Hour
	assert.Error(t, cfg.Validate())
}
