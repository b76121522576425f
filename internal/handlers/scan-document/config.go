package scandocument

import (
	"fmt"
	"time"

	"bharat-seva/internal/common/validation"
	"bharat-seva/internal/model"
)

type Config struct {
	Enabled       bool                   `mapstructure:"enabled"`
	Timeout       time.Duration          `mapstructure:"timeout"`
	Chain         string                 `mapstructure:"chain"`
	MaxImageBytes int                    `mapstructure:"max_image_bytes"`
	InputSchema   map[string]interface{} `mapstructure:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		Timeout:       30 * time.Second,
		Chain:         model.ChainVision,
		MaxImageBytes: validation.MaxImageBytes,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Chain == "" {
		return fmt.Errorf("chain is required")
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("max_image_bytes must be positive")
	}
	return nil
}
