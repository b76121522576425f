// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed capabilities.json
var defaultRegistry []byte

func LoadRegistry(path string) (*CapabilityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*CapabilityRegistry, error) {
	var reg CapabilityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

// Default returns the registry compiled into the binary.
func Default() *CapabilityRegistry {
	reg, err := Parse(defaultRegistry)
	if err != nil {
		panic(fmt.Sprintf("embedded capability registry is invalid: %v", err))
	}
	return reg
}

// DefaultBytes returns the raw embedded registry document.
func DefaultBytes() []byte {
	out := make([]byte, len(defaultRegistry))
	copy(out, defaultRegistry)
	return out
}

func (r *CapabilityRegistry) Lookup(id string) (Capability, bool) {
	for _, c := range r.Capabilities {
		if c.ID == id {
			return c, true
		}
	}
	return Capability{}, false
}

// OutputSchemas returns the output schema of every capability that declares a
// schema kind, keyed by that kind.
func (r *CapabilityRegistry) OutputSchemas() map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{})
	for _, c := range r.Capabilities {
		if c.SchemaKind != "" && len(c.OutputSchema) > 0 {
			out[c.SchemaKind] = c.OutputSchema
		}
	}
	return out
}

// Validate checks identifiers, routes and that every schema compiles.
func (r *CapabilityRegistry) Validate() error {
	if len(r.Capabilities) == 0 {
		return fmt.Errorf("registry contains no capabilities")
	}

	ids := make(map[string]bool)
	routes := make(map[string]string)
	for _, c := range r.Capabilities {
		if c.ID == "" {
			return fmt.Errorf("capability missing required field: id")
		}
		if ids[c.ID] {
			return fmt.Errorf("duplicate capability ID: %s", c.ID)
		}
		ids[c.ID] = true

		if c.DisplayName == "" {
			return fmt.Errorf("capability %s missing required field: displayName", c.ID)
		}
		if c.Method == "" {
			return fmt.Errorf("capability %s missing required field: method", c.ID)
		}
		for _, route := range c.Routes() {
			if !strings.HasPrefix(route, "/") {
				return fmt.Errorf("capability %s has invalid route %q", c.ID, route)
			}
			key := c.Method + " " + route
			if owner, taken := routes[key]; taken {
				return fmt.Errorf("route %s registered by both %s and %s", key, owner, c.ID)
			}
			routes[key] = c.ID
		}
		if c.RateLimitPerMinute < 0 {
			return fmt.Errorf("capability %s has negative rateLimitPerMinute", c.ID)
		}

		for name, schema := range map[string]map[string]interface{}{"inputSchema": c.InputSchema, "outputSchema": c.OutputSchema} {
			if len(schema) == 0 {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				return fmt.Errorf("capability %s %s does not compile: %w", c.ID, name, err)
			}
		}
	}

	return nil
}
