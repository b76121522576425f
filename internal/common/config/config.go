// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig                   `mapstructure:"app"`
	Server        ServerConfig                `mapstructure:"server"`
	RateLimit     RateLimitConfig             `mapstructure:"rate_limit"`
	Database      DatabaseConfig              `mapstructure:"database"`
	Model         ModelConfig                 `mapstructure:"model"`
	AWS           AWSConfig                   `mapstructure:"aws"`
	Gemini        GeminiConfig                `mapstructure:"gemini"`
	Storage       StorageConfig               `mapstructure:"storage"`
	Messaging     MessagingConfig             `mapstructure:"messaging"`
	Capabilities  map[string]CapabilityConfig `mapstructure:"capabilities"`
	Logging       LoggingConfig               `mapstructure:"logging"`
	Observability ObservabilityConfig         `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	MetricsPort     int      `mapstructure:"metrics_port"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	TrustedProxies  []string `mapstructure:"trusted_proxies"`
}

// RateLimitConfig selects the rate window store. Per-route ceilings live in
// Capabilities.
type RateLimitConfig struct {
	Backend        string `mapstructure:"backend"` // memory | redis
	DefaultPerMin  int    `mapstructure:"default_per_minute"`
	WindowSeconds  int    `mapstructure:"window_seconds"`
	RedisKeyPrefix string `mapstructure:"redis_key_prefix"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ModelConfig describes every model backend and the ordered fallback chains
// built from them.
type ModelConfig struct {
	Timeout  int                      `mapstructure:"timeout"` // milliseconds
	Backends map[string]BackendConfig `mapstructure:"backends"`
	Chains   map[string][]string      `mapstructure:"chains"`
}

type BackendConfig struct {
	Provider string `mapstructure:"provider"` // bedrock | gemini
	ModelID  string `mapstructure:"model_id"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type StorageConfig struct {
	Bucket       string `mapstructure:"bucket"`
	KeyPrefix    string `mapstructure:"key_prefix"`
	LinkTTLHours int    `mapstructure:"link_ttl_hours"`
	MaxUploadMB  int    `mapstructure:"max_upload_mb"`
}

// LinkTTL returns the presigned link lifetime.
func (s StorageConfig) LinkTTL() time.Duration {
	return time.Duration(s.LinkTTLHours) * time.Hour
}

type MessagingConfig struct {
	Provider string `mapstructure:"provider"` // twilio | sns
	Twilio   struct {
		AccountSID   string `mapstructure:"account_sid"`
		AuthToken    string `mapstructure:"auth_token"`
		WhatsAppFrom string `mapstructure:"whatsapp_from"`
	} `mapstructure:"twilio"`
	SNS struct {
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sns"`
	DefaultCountryCode string `mapstructure:"default_country_code"`
	Timeout            int    `mapstructure:"timeout"` // milliseconds, per provider HTTP call
}

// CapabilityConfig holds the per-route overrides applicable to every capability.
type CapabilityConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	RateLimitPerMinute int  `mapstructure:"rate_limit_per_minute"`
	Timeout            int  `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
