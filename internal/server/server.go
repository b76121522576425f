// Package server assembles the HTTP surface: middleware, health checks and one
// route per capability in the registry.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bharat-seva/internal/common/config"
	"bharat-seva/internal/common/logger"
	"bharat-seva/internal/common/messaging"
	"bharat-seva/internal/common/observability"
	"bharat-seva/internal/handlers"
	contextchat "bharat-seva/internal/handlers/context-chat"
	legacychat "bharat-seva/internal/handlers/legacy-chat"
	processquery "bharat-seva/internal/handlers/process-query"
	readnotice "bharat-seva/internal/handlers/read-notice"
	scandocument "bharat-seva/internal/handlers/scan-document"
	sendwhatsapp "bharat-seva/internal/handlers/send-whatsapp"
	voicesignature "bharat-seva/internal/handlers/voice-signature"
	"bharat-seva/internal/ratelimit"
	"bharat-seva/pkg/registry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultCapabilityTimeout = 30 * time.Second

// Deps carries everything the routes need. Store and Messenger may be nil, in
// which case the capabilities that need them are not mounted.
type Deps struct {
	Config     *config.Config
	Registry   *registry.CapabilityRegistry
	Invoker    handlers.Invoker
	Normalizer handlers.Normalizer
	Store      voicesignature.ObjectStore
	Messenger  messaging.Messenger
	Limiter    ratelimit.Limiter
	Logger     logger.Logger
	Obs        *observability.Observability
	// Ready reports whether shared dependencies are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

// Server owns the gin engine and the list of mounted capabilities.
type Server struct {
	engine  *gin.Engine
	mounted []string
	logger  logger.Logger
	now     func() time.Time
	ready   func(ctx context.Context) error
}

// New builds the engine. It fails when a capability's handler config does not
// validate or when the registry names a capability no handler serves.
func New(d Deps) (*Server, error) {
	if d.Config == nil || d.Registry == nil {
		return nil, fmt.Errorf("server: config and registry are required")
	}
	if d.Limiter == nil {
		return nil, fmt.Errorf("server: limiter is required")
	}
	if d.Logger == nil {
		d.Logger = logger.NewNoOpLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if err := engine.SetTrustedProxies(d.Config.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("server: trusted proxies: %w", err)
	}

	s := &Server{
		engine: engine,
		logger: d.Logger.With(map[string]interface{}{"component": "server"}),
		now:    time.Now,
		ready:  d.Ready,
	}

	engine.Use(
		requestID(),
		recovery(s.logger),
		accessLog(s.logger),
		instrument(d.Obs),
		cors.New(corsConfig(d.Config.Server.AllowedOrigins)),
		bodyLimit(d.Config.Server.MaxBodyBytes),
	)

	engine.GET("/health", s.health)
	engine.GET("/ready", s.readiness)

	if err := s.mountCapabilities(d); err != nil {
		return nil, err
	}

	return s, nil
}

// Handler exposes the engine for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Mounted lists the capability ids that received routes.
func (s *Server) Mounted() []string {
	return append([]string(nil), s.mounted...)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Retry-After", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readiness(c *gin.Context) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WithError(err).Warn("readiness check failed", nil)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"time":   s.now().UTC().Format(time.RFC3339),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) mountCapabilities(d Deps) error {
	for _, capability := range d.Registry.Capabilities {
		if !config.IsCapabilityEnabled(d.Config, capability.ID) {
			s.logger.Info("capability disabled", map[string]interface{}{"capability": capability.ID})
			continue
		}

		cc := config.GetCapabilityConfig(d.Config, capability.ID,
			capability.RateLimitPerMinute, capability.TimeoutDuration(defaultCapabilityTimeout))
		timeout := config.GetDuration(cc.Timeout)
		if timeout <= 0 {
			timeout = capability.TimeoutDuration(defaultCapabilityTimeout)
		}

		handle, err := buildHandler(d, capability, timeout)
		if err != nil {
			return fmt.Errorf("capability %s: %w", capability.ID, err)
		}
		if handle == nil {
			continue
		}

		for _, route := range capability.Routes() {
			s.engine.Handle(capability.Method, route,
				ratelimit.Middleware(d.Limiter, capability.ID, route, cc.RateLimitPerMinute, d.Logger),
				handle,
			)
		}

		s.mounted = append(s.mounted, capability.ID)
		s.logger.Info("capability mounted", map[string]interface{}{
			"capability": capability.ID,
			"routes":     capability.Routes(),
			"rateLimit":  cc.RateLimitPerMinute,
			"timeout":    timeout.String(),
		})
	}
	return nil
}

// buildHandler returns nil, nil when the capability's dependency is absent.
func buildHandler(d Deps, capability registry.Capability, timeout time.Duration) (gin.HandlerFunc, error) {
	chain := func(def string) string {
		if capability.ModelChain != "" {
			return capability.ModelChain
		}
		return def
	}

	switch capability.ID {
	case processquery.CapabilityID:
		cfg := processquery.DefaultConfig()
		cfg.Timeout = timeout
		cfg.Chain = chain(cfg.Chain)
		cfg.InputSchema = capability.InputSchema
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return processquery.NewHandler(cfg, d.Invoker, d.Normalizer, d.Logger).Handle, nil

	case legacychat.CapabilityID:
		cfg := legacychat.DefaultConfig()
		cfg.Timeout = timeout
		cfg.Chain = chain(cfg.Chain)
		cfg.InputSchema = capability.InputSchema
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return legacychat.NewHandler(cfg, d.Invoker, d.Normalizer, d.Logger).Handle, nil

	case scandocument.CapabilityID:
		cfg := scandocument.DefaultConfig()
		cfg.Timeout = timeout
		cfg.Chain = chain(cfg.Chain)
		cfg.InputSchema = capability.InputSchema
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return scandocument.NewHandler(cfg, d.Invoker, d.Normalizer, d.Logger).Handle, nil

	case readnotice.CapabilityID:
		cfg := readnotice.DefaultConfig()
		cfg.Timeout = timeout
		cfg.Chain = chain(cfg.Chain)
		cfg.InputSchema = capability.InputSchema
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return readnotice.NewHandler(cfg, d.Invoker, d.Normalizer, d.Logger).Handle, nil

	case contextchat.CapabilityID:
		cfg := contextchat.DefaultConfig()
		cfg.Timeout = timeout
		cfg.Chain = chain(cfg.Chain)
		cfg.InputSchema = capability.InputSchema
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return contextchat.NewHandler(cfg, d.Invoker, d.Normalizer, d.Logger).Handle, nil

	case voicesignature.CapabilityID:
		if d.Store == nil {
			d.Logger.Warn("object store not configured, voice signatures disabled", nil)
			return nil, nil
		}
		cfg := voicesignature.DefaultConfig()
		cfg.Timeout = timeout
		if p := d.Config.Storage.KeyPrefix; p != "" {
			cfg.KeyPrefix = p
		}
		if ttl := d.Config.Storage.LinkTTL(); ttl > 0 {
			cfg.LinkTTL = ttl
		}
		if mb := d.Config.Storage.MaxUploadMB; mb > 0 {
			cfg.MaxUploadBytes = int64(mb) * 1024 * 1024
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return voicesignature.NewHandler(cfg, d.Store, d.Logger).Handle, nil

	case sendwhatsapp.CapabilityID:
		if d.Messenger == nil {
			d.Logger.Warn("messenger not configured, send-whatsapp disabled", nil)
			return nil, nil
		}
		cfg := sendwhatsapp.DefaultConfig()
		cfg.Timeout = timeout
		cfg.InputSchema = capability.InputSchema
		if cc := d.Config.Messaging.DefaultCountryCode; cc != "" {
			cfg.DefaultCountryCode = cc
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return sendwhatsapp.NewHandler(cfg, d.Messenger, d.Logger).Handle, nil
	}

	return nil, fmt.Errorf("no handler serves this capability")
}
