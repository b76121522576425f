package sendwhatsapp

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Enabled            bool                   `mapstructure:"enabled"`
	Timeout            time.Duration          `mapstructure:"timeout"`
	DefaultCountryCode string                 `mapstructure:"default_country_code"`
	MaxMessageLength   int                    `mapstructure:"max_message_length"`
	InputSchema        map[string]interface{} `mapstructure:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:            true,
		Timeout:            15 * time.Second,
		DefaultCountryCode: "+91",
		MaxMessageLength:   1600,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if !strings.HasPrefix(c.DefaultCountryCode, "+") {
		return fmt.Errorf("default_country_code must start with +")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	return nil
}
