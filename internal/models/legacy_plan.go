// internal/models/legacy_plan.go
package models

// LegacyPlan is the flat plan served to clients still on /api/chat.
type LegacyPlan struct {
	DetectedLanguage  string   `json:"detected_language,omitempty"`
	IntentType        string   `json:"intent_type,omitempty"`
	SummarySpeech     string   `json:"summary_speech,omitempty"`
	Steps             []string `json:"steps"`
	RequiredDocuments []string `json:"required_documents,omitempty"`
	AuthorityOffice   *string  `json:"authority_office,omitempty"`
	AdditionalHelp    *string  `json:"additional_help,omitempty"`
}
