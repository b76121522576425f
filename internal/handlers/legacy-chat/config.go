package legacychat

import (
	"fmt"
	"time"

	"bharat-seva/internal/model"
)

type Config struct {
	Enabled     bool                   `mapstructure:"enabled"`
	Timeout     time.Duration          `mapstructure:"timeout"`
	Chain       string                 `mapstructure:"chain"`
	InputSchema map[string]interface{} `mapstructure:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Timeout: 30 * time.Second,
		Chain:   model.ChainLegacy,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Chain == "" {
		return fmt.Errorf("chain is required")
	}
	return nil
}
