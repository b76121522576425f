// Package normalize turns raw model output into validated, typed results.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/common/metrics"
	"bharat-seva/internal/models"
	"bharat-seva/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

// Result kinds, matching the schemaKind of the capability registry.
const (
	KindActionPlan   = "action_plan"
	KindLegacyPlan   = "legacy_plan"
	KindDocumentScan = "document_scan"
	KindNotice       = "notice"
	KindChatAnswer   = "chat_answer"
)

const maxRawInError = 2000

// ParseError is returned for any model output that cannot be turned into the
// requested result. Raw is for server logs only.
type ParseError struct {
	Kind   string
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Kind, e.Reason)
}

func (e *ParseError) ErrorCode() apperrors.ErrorCode {
	return apperrors.ErrCodeParse
}

type Normalizer struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the given output schemas, keyed by kind.
func New(schemas map[string]map[string]interface{}) (*Normalizer, error) {
	n := &Normalizer{schemas: make(map[string]*gojsonschema.Schema, len(schemas))}
	for kind, doc := range schemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", kind, err)
		}
		n.schemas[kind] = schema
	}
	return n, nil
}

// NewFromRegistry uses the output schemas declared by the capability registry.
func NewFromRegistry(reg *registry.CapabilityRegistry) (*Normalizer, error) {
	return New(reg.OutputSchemas())
}

// Normalize decodes raw into out. For chat_answer, out must be a *string or a
// *models.ChatAnswer; every other kind expects a pointer to its typed struct.
func (n *Normalizer) Normalize(raw, kind string, out interface{}) error {
	err := n.normalize(raw, kind, out)
	if err != nil {
		metrics.NormalizeFailures.WithLabelValues(kind).Inc()
	}
	return err
}

func (n *Normalizer) normalize(raw, kind string, out interface{}) error {
	if kind == KindChatAnswer {
		return normalizeText(raw, out)
	}

	obj, reason := extractObject(raw)
	if reason != "" {
		return fail(kind, reason, raw)
	}

	if schema, ok := n.schemas[kind]; ok {
		result, err := schema.Validate(gojsonschema.NewBytesLoader(obj))
		if err != nil {
			return fail(kind, "schema validation: "+err.Error(), raw)
		}
		if !result.Valid() {
			var msgs []string
			for _, e := range result.Errors() {
				msgs = append(msgs, e.String())
			}
			return fail(kind, "schema: "+strings.Join(msgs, "; "), raw)
		}
	}

	if err := json.Unmarshal(obj, out); err != nil {
		return fail(kind, "decode: "+err.Error(), raw)
	}

	return nil
}

func normalizeText(raw string, out interface{}) error {
	text := stripFences(raw)
	if text == "" {
		return fail(KindChatAnswer, "empty reply", raw)
	}

	switch v := out.(type) {
	case *string:
		*v = text
	case *models.ChatAnswer:
		v.Answer = text
		v.Reply = text
	default:
		return fail(KindChatAnswer, fmt.Sprintf("unsupported target %T", out), raw)
	}
	return nil
}

func fail(kind, reason, raw string) *ParseError {
	if len(raw) > maxRawInError {
		cut := maxRawInError
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}
	return &ParseError{Kind: kind, Reason: reason, Raw: raw}
}
