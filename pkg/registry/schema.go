// pkg/registry/schema.go
package registry

import "time"

type CapabilityRegistry struct {
	Version      string       `json:"version"`
	LastUpdated  string       `json:"lastUpdated"`
	Capabilities []Capability `json:"capabilities"`
}

// Capability describes one public API operation: where it is mounted, which
// model chain it uses and the shape its normalized output must have.
type Capability struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	Method               string                 `json:"method"`
	Route                string                 `json:"route"`
	Aliases              []string               `json:"aliases,omitempty"`
	ModelChain           string                 `json:"modelChain,omitempty"`
	SchemaKind           string                 `json:"schemaKind,omitempty"`
	ImplementationStatus string                 `json:"implementationStatus"`
	RateLimitPerMinute   int                    `json:"rateLimitPerMinute"`
	Timeout              string                 `json:"timeout"`
	InputSchema          map[string]interface{} `json:"inputSchema,omitempty"`
	OutputSchema         map[string]interface{} `json:"outputSchema,omitempty"`
	ErrorCodes           []string               `json:"errorCodes"`
	Tags                 []string               `json:"tags"`
}

// TimeoutDuration parses Timeout, falling back to def when empty or invalid.
func (c Capability) TimeoutDuration(def time.Duration) time.Duration {
	if c.Timeout == "" {
		return def
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Routes returns the canonical route followed by its aliases.
func (c Capability) Routes() []string {
	return append([]string{c.Route}, c.Aliases...)
}
