package validation

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	apperrors "bharat-seva/internal/common/errors"
)

// MaxImageBytes bounds the decoded size of an inline image.
const MaxImageBytes = 4 * 1024 * 1024

var ErrInvalidImage = errors.New("INVALID_IMAGE")

var sniffedFormats = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// EstimateDecodedSize is the decoded size of a base64 payload of n characters.
func EstimateDecodedSize(n int) int {
	return n * 3 / 4
}

// StripDataURL removes a "data:<mime>;base64," prefix.
func StripDataURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

// DecodeImage decodes a base64 image, rejecting oversize payloads before
// decoding. The format is sniffed from the bytes and falls back to jpeg.
func DecodeImage(encoded string, maxBytes int) ([]byte, string, error) {
	payload := StripDataURL(encoded)

	if estimated := EstimateDecodedSize(len(payload)); estimated > maxBytes {
		return nil, "", apperrors.NewImageTooLargeError(estimated, maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil || len(data) == 0 {
		return nil, "", ErrInvalidImage
	}

	return data, SniffImageFormat(data), nil
}

// SniffImageFormat returns jpeg, png, webp or gif.
func SniffImageFormat(data []byte) string {
	if f, ok := sniffedFormats[http.DetectContentType(data)]; ok {
		return f
	}
	return "jpeg"
}
