package sendwhatsapp

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/messaging"
	"bharat-seva/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) Send(ctx context.Context, to, body string) (*messaging.Receipt, error) {
	args := m.Called(ctx, to, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.Receipt), args.Error(1)
}

func (m *MockMessenger) Channel() string { return "whatsapp" }

func serve(t *testing.T, m *MockMessenger, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := DefaultConfig()
	capability, _ := registry.Default().Lookup(CapabilityID)
	cfg.InputSchema = capability.InputSchema

	h := NewHandler(cfg, m, logger.NewTestLogger(t))
	r := gin.New()
	r.POST("/api/send-whatsapp", h.Handle)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/send-whatsapp", bytes.NewBufferString(body)))
	return w
}

func TestSendWhatsApp_Success(t *testing.T) {
	m := &MockMessenger{}
	m.On("Send", mock.Anything, "+919876543210", "Step 1: visit CSC").
		Return(&messaging.Receipt{ID: "SM42", Channel: "whatsapp"}, nil).Once()

	w := serve(t, m, `{"phoneNumber":"98765 43210","message":"Step 1: visit CSC"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"sid":"SM42","channel":"whatsapp"}`, w.Body.String())
	m.AssertExpectations(t)
}

func TestSendWhatsApp_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing phone", `{"message":"hi"}`, "Phone number is required"},
		{"missing message", `{"phoneNumber":"9876543210"}`, "Message is required"},
		{"bad phone", `{"phoneNumber":"12345","message":"hi"}`, "Phone number is invalid"},
		{"long message", `{"phoneNumber":"9876543210","message":"` + strings.Repeat("x", 1601) + `"}`, "Message must be at most 1600 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockMessenger{}

			w := serve(t, m, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.wantErr+`"}`, w.Body.String())
			m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSendWhatsApp_ProviderFailure(t *testing.T) {
	m := &MockMessenger{}
	m.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewMessagingError(errors.New("21408 permission denied"))).Once()

	w := serve(t, m, `{"phoneNumber":"+919876543210","message":"hello","language":"en"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{
		"error": "Could not send message",
		"message": "We could not get an answer right now. Please try again in a little while.",
		"code": "MESSAGING_ERROR"
	}`, w.Body.String())
	m.AssertNumberOfCalls(t, "Send", 1)
}
