package validation

import (
	"encoding/base64"
	"strings"
	"testing"

	apperrors "bharat-seva/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"ten digits", "9876543210", "+919876543210", false},
		{"spaced", "98765 43210", "+919876543210", false},
		{"trunk zero", "09876543210", "+919876543210", false},
		{"country code without plus", "919876543210", "+919876543210", false},
		{"already e164", "+14155550123", "+14155550123", false},
		{"international prefix", "00447911123456", "+447911123456", false},
		{"whatsapp prefix", "whatsapp:+919876543210", "+919876543210", false},
		{"dashes and parens", "(987) 654-3210", "+919876543210", false},
		{"too short", "12345", "", true},
		{"letters", "98765abcde", "", true},
		{"empty", "", "", true},
		{"plus zero", "+0123456789", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input, "+91")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
	webpHeader = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
)

func TestDecodeImage(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantFormat string
	}{
		{"png", base64.StdEncoding.EncodeToString(pngHeader), "png"},
		{"jpeg", base64.StdEncoding.EncodeToString(jpegHeader), "jpeg"},
		{"gif", base64.StdEncoding.EncodeToString(gifHeader), "gif"},
		{"webp", base64.StdEncoding.EncodeToString(webpHeader), "webp"},
		{"data url", "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader), "png"},
		{"unknown defaults to jpeg", base64.StdEncoding.EncodeToString([]byte("hello world")), "jpeg"},
		{"unpadded", base64.RawStdEncoding.EncodeToString(pngHeader), "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, format, err := DecodeImage(tt.input, MaxImageBytes)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.Equal(t, tt.wantFormat, format)
		})
	}
}

func TestDecodeImage_Rejections(t *testing.T) {
	t.Run("too large is rejected before decoding", func(t *testing.T) {
		oversize := strings.Repeat("!", MaxImageBytes*4/3+8)

		_, _, err := DecodeImage(oversize, MaxImageBytes)

		std := apperrors.Normalize(err)
		assert.Equal(t, apperrors.ErrCodeImageTooLarge, std.Code)
		assert.Equal(t, "Image too large. Please use a clearer, closer photo.", std.Message)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, _, err := DecodeImage("not base64 at all!!", MaxImageBytes)
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := DecodeImage("data:image/png;base64,", MaxImageBytes)
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}

func TestValidateInput(t *testing.T) {
	schema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"phoneNumber", "message"},
		"properties": map[string]interface{}{
			"phoneNumber": map[string]interface{}{"type": "string"},
			"message":     map[string]interface{}{"type": "string", "maxLength": 5},
		},
	}

	result, err := ValidateInput(map[string]interface{}{"phoneNumber": "1", "message": "hi"}, schema)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidateInput(map[string]interface{}{"message": "too long"}, schema)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("phoneNumber"))
	assert.True(t, result.HasErrors("message"))
	assert.Len(t, result.GetErrorMessages(), 2)

	result, err = ValidateInput("anything", nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}
