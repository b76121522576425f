package contextchat

import (
	"fmt"
	"time"

	"bharat-seva/internal/model"
)

type Config struct {
	Enabled          bool                   `mapstructure:"enabled"`
	Timeout          time.Duration          `mapstructure:"timeout"`
	Chain            string                 `mapstructure:"chain"`
	MaxMessageLength int                    `mapstructure:"max_message_length"`
	InputSchema      map[string]interface{} `mapstructure:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:          true,
		Timeout:          20 * time.Second,
		Chain:            model.ChainChat,
		MaxMessageLength: 2000,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Chain == "" {
		return fmt.Errorf("chain is required")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	return nil
}
