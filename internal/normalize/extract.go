package normalize

import (
	"bytes"
	"encoding/json"
	"strings"
)

var fenceReplacer = strings.NewReplacer("```json", "", "```JSON", "", "```", "")

func stripFences(raw string) string {
	return strings.TrimSpace(fenceReplacer.Replace(raw))
}

// extractObject returns the JSON object embedded in model output. The span
// from the first '{' to the last '}' is preferred; when that span is not
// valid JSON the first complete value starting at the first '{' is used.
func extractObject(raw string) ([]byte, string) {
	text := stripFences(raw)

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first < 0 || last < first {
		return nil, "no JSON object found"
	}

	span := []byte(text[first : last+1])
	if json.Valid(span) {
		return span, ""
	}

	dec := json.NewDecoder(strings.NewReader(text[first:]))
	var obj json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return nil, "invalid JSON: " + err.Error()
	}

	return bytes.TrimSpace(obj), ""
}
