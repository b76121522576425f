package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bharat-seva/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefault(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capabilities.json")
	require.NoError(t, os.WriteFile(path, registry.DefaultBytes(), 0644))
	return path
}

func TestUpdateCapability(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		field   string
		value   string
		check   func(t *testing.T, c registry.Capability)
		wantErr string
	}{
		{
			name:  "rate limit",
			field: "rateLimit",
			value: "3",
			check: func(t *testing.T, c registry.Capability) { assert.Equal(t, 3, c.RateLimitPerMinute) },
		},
		{
			name:  "timeout",
			field: "timeout",
			value: "45s",
			check: func(t *testing.T, c registry.Capability) { assert.Equal(t, "45s", c.Timeout) },
		},
		{
			name:  "status",
			field: "status",
			value: "verified",
			check: func(t *testing.T, c registry.Capability) { assert.Equal(t, "verified", c.ImplementationStatus) },
		},
		{name: "bad rate limit", field: "rateLimit", value: "many", wantErr: "invalid rateLimit"},
		{name: "bad timeout", field: "timeout", value: "soon", wantErr: "invalid timeout"},
		{name: "unknown field", field: "retries", value: "2", wantErr: "unknown field"},
		{name: "invalid result", field: "route", value: "api/no-slash", wantErr: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDefault(t)

			err := updateCapability(path, "send-whatsapp", tt.field, tt.value, now)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			reg, err := registry.LoadRegistry(path)
			require.NoError(t, err)
			assert.Equal(t, "2026-10-18T12:00:00Z", reg.LastUpdated)
			c, ok := reg.Lookup("send-whatsapp")
			require.True(t, ok)
			tt.check(t, c)
		})
	}
}

func TestUpdateCapability_NotFound(t *testing.T) {
	err := updateCapability(writeDefault(t), "book-appointment", "status", "planned", time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateRegistry(t *testing.T) {
	n, err := validateRegistry(writeDefault(t))
	require.NoError(t, err)
	assert.Equal(t, len(registry.Default().Capabilities), n)

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"capabilities":[]}`), 0644))
	_, err = validateRegistry(broken)
	assert.Error(t, err)
}

func TestListCapabilities(t *testing.T) {
	var buf bytes.Buffer
	listCapabilities(&buf, registry.Default())

	out := buf.String()
	assert.Contains(t, out, "process-query")
	assert.Contains(t, out, "/api/chat-context")
	assert.Contains(t, out, "planning")
}
