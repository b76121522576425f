package voicesignature

import (
	"context"
	"time"
)

// ObjectStore is the storage used for recorded signatures.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Input struct {
	Audio []byte
}

type Output struct {
	PresignedURL string `json:"presignedUrl"`
	QRCodeData   string `json:"qrCodeData"`
	FileKey      string `json:"fileKey"`
	ExpiresAt    string `json:"expiresAt"`
}
