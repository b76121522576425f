// internal/models/action_plan.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Intent string

const (
	IntentAction    Intent = "ACTION"
	IntentDiscovery Intent = "DISCOVERY"
	IntentQA        Intent = "QA"
)

const StepStatusPending = "pending"

// ActionPlan is the structured guidance returned for a spoken request.
type ActionPlan struct {
	Intent            Intent             `json:"intent"`
	Language          string             `json:"language,omitempty"`
	AudioSummary      string             `json:"audioSummary,omitempty"`
	SummarySpeech     string             `json:"summary_speech,omitempty"`
	ProblemAnalysis   *ProblemAnalysis   `json:"problemAnalysis,omitempty"`
	Steps             []Step             `json:"steps"`
	RequiredDocuments []RequiredDocument `json:"requiredDocuments,omitempty"`
}

type ProblemAnalysis struct {
	DetectedIssue   string `json:"detectedIssue,omitempty"`
	RootCause       string `json:"rootCause,omitempty"`
	Department      string `json:"department,omitempty"`
	BottleneckLevel string `json:"bottleneckLevel,omitempty"`
	SeverityColor   string `json:"severityColor,omitempty"`
}

type Step struct {
	ID          StepID   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Status      string   `json:"status,omitempty"`
	Breakdown   []string `json:"breakdown,omitempty"`
	FormID      string   `json:"formId,omitempty"`
	OfficeType  string   `json:"officeType,omitempty"`
}

type RequiredDocument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"isRequired"`
	ObtainFrom  string `json:"obtainFrom,omitempty"`
}

// StepID accepts either a JSON number or string. Integer-looking values are
// written back as numbers; an empty ID is written as null.
type StepID string

func (s StepID) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.Atoi(string(s)); err == nil && strconv.Itoa(n) == string(s) {
		return []byte(string(s)), nil
	}
	return json.Marshal(string(s))
}

func (s *StepID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = StepID(str)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("step id: %w", err)
		}
		*s = StepID(n.String())
		return nil
	}
}
