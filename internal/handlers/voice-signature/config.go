package voicesignature

import (
	"fmt"
	"time"
)

// MaxPresignTTL is the longest validity SigV4 allows for a presigned URL.
const MaxPresignTTL = 7 * 24 * time.Hour

type Config struct {
	Enabled        bool          `mapstructure:"enabled"`
	Timeout        time.Duration `mapstructure:"timeout"`
	KeyPrefix      string        `mapstructure:"key_prefix"`
	ContentType    string        `mapstructure:"content_type"`
	LinkTTL        time.Duration `mapstructure:"link_ttl"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		Timeout:        30 * time.Second,
		KeyPrefix:      "signatures/",
		ContentType:    "audio/wav",
		LinkTTL:        MaxPresignTTL,
		MaxUploadBytes: 10 * 1024 * 1024,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.LinkTTL <= 0 || c.LinkTTL > MaxPresignTTL {
		return fmt.Errorf("link_ttl must be between 0 and %s", MaxPresignTTL)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	return nil
}
