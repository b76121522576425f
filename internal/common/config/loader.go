// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// config.<env>.yaml is optional
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			// godotenv never overrides variables already set in the process
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values from the plain environment variable names the
// deployment scripts already use. The Bedrock model ids always win over the file.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty := func(dst *string, env string) {
		if *dst == "" {
			if val := os.Getenv(env); val != "" {
				*dst = val
			}
		}
	}

	if cfg.Server.Port == 0 {
		if val := os.Getenv("PORT"); val != "" {
			var port int
			if _, err := fmt.Sscanf(val, "%d", &port); err == nil {
				cfg.Server.Port = port
			}
		}
	}

	setIfEmpty(&cfg.AWS.Region, "AWS_REGION")
	setIfEmpty(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setIfEmpty(&cfg.Storage.Bucket, "VOICE_SIGNATURE_BUCKET")
	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDR")
	setIfEmpty(&cfg.Messaging.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	setIfEmpty(&cfg.Messaging.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	setIfEmpty(&cfg.Messaging.Twilio.WhatsAppFrom, "TWILIO_WHATSAPP_FROM")

	if cfg.Model.Backends == nil {
		cfg.Model.Backends = map[string]BackendConfig{}
	}
	if val := os.Getenv("BEDROCK_MODEL_ID"); val != "" {
		b := cfg.Model.Backends["nova-pro"]
		b.Provider = "bedrock"
		b.ModelID = val
		cfg.Model.Backends["nova-pro"] = b
	}
	if val := os.Getenv("BEDROCK_LITE_MODEL_ID"); val != "" {
		b := cfg.Model.Backends["nova-lite"]
		b.Provider = "bedrock"
		b.ModelID = val
		cfg.Model.Backends["nova-lite"] = b
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "bharat-seva"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 12 << 20
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = "memory"
	}
	if cfg.RateLimit.DefaultPerMin == 0 {
		cfg.RateLimit.DefaultPerMin = 10
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.RateLimit.RedisKeyPrefix == "" {
		cfg.RateLimit.RedisKeyPrefix = "seva:ratelimit:"
	}

	if cfg.Model.Timeout == 0 {
		cfg.Model.Timeout = 12000
	}
	if len(cfg.Model.Chains) == 0 {
		cfg.Model.Chains = map[string][]string{
			"planning": {"nova-pro", "gemini-flash"},
			"vision":   {"nova-pro", "gemini-flash"},
			"chat":     {"nova-lite", "gemini-flash"},
			"legacy":   {"gemini-flash", "nova-lite"},
		}
	}

	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}

	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "bharatseva-voice-signatures"
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "signatures/"
	}
	if cfg.Storage.LinkTTLHours == 0 {
		cfg.Storage.LinkTTLHours = 7 * 24
	}
	if cfg.Storage.MaxUploadMB == 0 {
		cfg.Storage.MaxUploadMB = 10
	}

	if cfg.Messaging.Provider == "" {
		cfg.Messaging.Provider = "twilio"
	}
	if cfg.Messaging.DefaultCountryCode == "" {
		cfg.Messaging.DefaultCountryCode = "+91"
	}
	if cfg.Messaging.Timeout == 0 {
		cfg.Messaging.Timeout = 10000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}

	for key, capability := range cfg.Capabilities {
		if capability.Timeout == 0 {
			capability.Timeout = cfg.Model.Timeout
		}
		cfg.Capabilities[key] = capability
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.RateLimit.Backend {
	case "memory":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required when rate_limit.backend is redis")
		}
	default:
		return fmt.Errorf("rate_limit.backend must be memory or redis, got %q", cfg.RateLimit.Backend)
	}

	for name, backend := range cfg.Model.Backends {
		switch backend.Provider {
		case "bedrock", "gemini":
		default:
			return fmt.Errorf("model.backends.%s.provider must be bedrock or gemini, got %q", name, backend.Provider)
		}
		if backend.ModelID == "" {
			return fmt.Errorf("model.backends.%s.model_id is required", name)
		}
	}

	for chain, ids := range cfg.Model.Chains {
		if len(ids) == 0 {
			return fmt.Errorf("model.chains.%s is empty", chain)
		}
	}

	switch cfg.Messaging.Provider {
	case "twilio", "sns":
	default:
		return fmt.Errorf("messaging.provider must be twilio or sns, got %q", cfg.Messaging.Provider)
	}

	if cfg.Storage.LinkTTL() > 7*24*time.Hour {
		return fmt.Errorf("storage.link_ttl_hours cannot exceed 168 (SigV4 presign limit)")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetCapabilityConfig retrieves capability-specific configuration. Missing
// entries fall back to the supplied registry defaults.
func GetCapabilityConfig(cfg *Config, capability string, defaultLimit int, defaultTimeout time.Duration) CapabilityConfig {
	if c, exists := cfg.Capabilities[capability]; exists {
		if c.RateLimitPerMinute == 0 {
			c.RateLimitPerMinute = defaultLimit
		}
		return c
	}

	return CapabilityConfig{
		Enabled:            true,
		RateLimitPerMinute: defaultLimit,
		Timeout:            int(defaultTimeout / time.Millisecond),
	}
}

// IsCapabilityEnabled checks if a specific capability is enabled
func IsCapabilityEnabled(cfg *Config, capability string) bool {
	if c, exists := cfg.Capabilities[capability]; exists {
		return c.Enabled
	}
	return true
}
