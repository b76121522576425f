// internal/models/documents.go
package models

import "encoding/json"

// ScanResult is what the model reports for a document photo. Specific
// document prompts return their fields at the top level; those land in
// Extracted. The generic prompt nests them under "fields".
type ScanResult struct {
	DocumentType string
	DetectedAs   *string
	Fields       map[string]interface{}
	Extracted    map[string]interface{}
}

func (r *ScanResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = ScanResult{}
	for key, value := range raw {
		var err error
		switch key {
		case "document_type":
			err = json.Unmarshal(value, &r.DocumentType)
		case "detected_as":
			err = json.Unmarshal(value, &r.DetectedAs)
		case "fields":
			err = json.Unmarshal(value, &r.Fields)
		default:
			var v interface{}
			if err = json.Unmarshal(value, &v); err == nil {
				if r.Extracted == nil {
					r.Extracted = make(map[string]interface{})
				}
				r.Extracted[key] = v
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r ScanResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extracted)+3)
	for k, v := range r.Extracted {
		out[k] = v
	}
	out["document_type"] = r.DocumentType
	if r.DetectedAs != nil {
		out["detected_as"] = *r.DetectedAs
	}
	if r.Fields != nil {
		out["fields"] = r.Fields
	}
	return json.Marshal(out)
}

// NoticeSummary is a plain-language reading of a government notice.
type NoticeSummary struct {
	SimplifiedSummary string  `json:"simplifiedSummary"`
	Sender            *string `json:"sender"`
	ActionRequired    *bool   `json:"actionRequired"`
	ActionType        *string `json:"actionType"`
	Deadline          *string `json:"deadline"`
	Urgency           *string `json:"urgency"`
}

// ChatAnswer carries the reply under both keys read by the clients.
type ChatAnswer struct {
	Answer string `json:"answer"`
	Reply  string `json:"reply"`
}
