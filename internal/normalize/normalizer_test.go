package normalize

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "bharat-seva/internal/common/errors"
	"bharat-seva/internal/models"
	"bharat-seva/pkg/registry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewFromRegistry(registry.Default())
	require.NoError(t, err)
	return n
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

const planJSON = `{"intent":"ACTION","language":"hi","steps":[{"id":1,"title":"Visit panchayat","type":"location","status":"pending"}]}`

func TestNormalize_ExtractsObject(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name string
		raw  string
	}{
		{"bare", planJSON},
		{"fenced", "```json\n" + planJSON + "\n```"},
		{"prose around", "Here is your plan:\n" + planJSON + "\nHope this helps!"},
		{"trailing brace in prose", planJSON + "\nNote: use {curly} forms"},
		{"two sibling objects", planJSON + "\n" + `{"intent":"QA","steps":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var plan models.ActionPlan
			require.NoError(t, n.Normalize(tt.raw, KindActionPlan, &plan))
			assert.Equal(t, models.IntentAction, plan.Intent)
			require.Len(t, plan.Steps, 1)
			assert.Equal(t, models.StepID("1"), plan.Steps[0].ID)
			assert.Equal(t, "Visit panchayat", plan.Steps[0].Title)
		})
	}
}

func TestNormalize_Failures(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name   string
		raw    string
		kind   string
		reason string
	}{
		{"no object", "Sorry, I cannot help with that.", KindActionPlan, "no JSON object"},
		{"broken json", `{"intent": "ACTION", "steps": [`, KindActionPlan, "no JSON object"},
		{"truncated", `{"intent": "ACTION", "steps": [}`, KindActionPlan, "invalid JSON"},
		{"schema enum", `{"intent":"PLAN","steps":[]}`, KindActionPlan, "schema"},
		{"missing required", `{"intent":"QA"}`, KindActionPlan, "schema"},
		{"notice urgency", `{"simplifiedSummary":"x","urgency":"critical"}`, KindNotice, "schema"},
		{"scan without type", `{"fields":{}}`, KindDocumentScan, "schema"},
		{"empty chat", "```\n```", KindChatAnswer, "empty reply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out interface{}
			var target interface{} = &out
			if tt.kind == KindChatAnswer {
				var s string
				target = &s
			}

			err := n.Normalize(tt.raw, tt.kind, target)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Contains(t, pe.Reason, tt.reason)
			assert.Equal(t, apperrors.ErrCodeParse, apperrors.Normalize(err).Code)
		})
	}
}

func TestNormalize_RawIsTruncated(t *testing.T) {
	n := newTestNormalizer(t)
	raw := strings.Repeat("x", 5000)

	err := n.Normalize(raw, KindNotice, &models.NoticeSummary{})

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Len(t, pe.Raw, maxRawInError)
	assert.NotContains(t, pe.Error(), "xxxx")
}

func TestNormalize_RawTruncationKeepsWholeRunes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		// 3-byte runes, 2000 is not a multiple of 3
		{name: "hindi", raw: strings.Repeat("राशन कार्ड ", 400)},
		{name: "tamil", raw: strings.Repeat("ரேஷன் அட்டை ", 400)},
		{name: "ascii prefix shifts boundary", raw: "a" + strings.Repeat("सूचना", 600)},
	}

	n := newTestNormalizer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Greater(t, len(tt.raw), maxRawInError)

			err := n.Normalize(tt.raw, KindNotice, &models.NoticeSummary{})

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.True(t, utf8.ValidString(pe.Raw))
			assert.LessOrEqual(t, len(pe.Raw), maxRawInError)
			assert.Greater(t, len(pe.Raw), maxRawInError-utf8.UTFMax)
			assert.True(t, strings.HasPrefix(tt.raw, pe.Raw))
		})
	}
}

func TestNormalize_RoundTrip(t *testing.T) {
	n := newTestNormalizer(t)

	t.Run("action plan", func(t *testing.T) {
		want := models.ActionPlan{
			Intent:        models.IntentAction,
			Language:      "ta",
			AudioSummary:  "Three steps to fix your ration card",
			SummarySpeech: "Moonru padigal",
			ProblemAnalysis: &models.ProblemAnalysis{
				DetectedIssue: "ration card name mismatch",
				Department:    "Food & Civil Supplies",
				SeverityColor: "amber",
			},
			Steps: []models.Step{
				{ID: "1", Title: "Collect documents", Type: "checklist", Status: "pending", Breakdown: []string{"Aadhaar", "Old card"}},
				{ID: "step-2", Title: "Fill form", Type: "form", FormID: "Form A"},
				{Title: "Visit office", Type: "location", OfficeType: "Taluk office"},
			},
			RequiredDocuments: []models.RequiredDocument{
				{Name: "Aadhaar", IsRequired: true, ObtainFrom: "UIDAI"},
			},
		}

		raw, err := json.Marshal(want)
		require.NoError(t, err)

		var got models.ActionPlan
		require.NoError(t, n.Normalize(string(raw), KindActionPlan, &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("action plan mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("legacy plan", func(t *testing.T) {
		want := models.LegacyPlan{
			DetectedLanguage:  "English",
			IntentType:        "grievance",
			Steps:             []string{"Go to CSC", "File complaint"},
			RequiredDocuments: []string{"ID proof"},
			AuthorityOffice:   strPtr("Block office"),
		}

		raw, err := json.Marshal(want)
		require.NoError(t, err)

		var got models.LegacyPlan
		require.NoError(t, n.Normalize(string(raw), KindLegacyPlan, &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("legacy plan mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("notice", func(t *testing.T) {
		want := models.NoticeSummary{
			SimplifiedSummary: "Pay property tax by month end",
			Sender:            strPtr("Municipal Corporation"),
			ActionRequired:    boolPtr(true),
			ActionType:        strPtr("payment"),
			Deadline:          strPtr("2026-11-30"),
			Urgency:           strPtr("high"),
		}

		raw, err := json.Marshal(want)
		require.NoError(t, err)

		var got models.NoticeSummary
		require.NoError(t, n.Normalize(string(raw), KindNotice, &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("notice mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("document scan", func(t *testing.T) {
		want := models.ScanResult{
			DocumentType: "aadhaar",
			Extracted: map[string]interface{}{
				"name":           "Ravi Kumar",
				"aadhaar_number": "XXXX XXXX 1234",
			},
		}

		raw, err := json.Marshal(want)
		require.NoError(t, err)

		var got models.ScanResult
		require.NoError(t, n.Normalize(string(raw), KindDocumentScan, &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("scan mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestNormalize_ChatAnswer(t *testing.T) {
	n := newTestNormalizer(t)

	var answer models.ChatAnswer
	require.NoError(t, n.Normalize("```\n  Bring your Aadhaar card.  \n```", KindChatAnswer, &answer))
	assert.Equal(t, "Bring your Aadhaar card.", answer.Answer)
	assert.Equal(t, answer.Answer, answer.Reply)

	var text string
	require.NoError(t, n.Normalize("Haan, zaroor.", KindChatAnswer, &text))
	assert.Equal(t, "Haan, zaroor.", text)
}

func TestNormalize_StepIDForms(t *testing.T) {
	n := newTestNormalizer(t)

	var plan models.ActionPlan
	raw := `{"intent":"QA","steps":[{"id":"a","title":"x"},{"id":null,"title":"y"},{"id":7,"title":"z"}]}`
	require.NoError(t, n.Normalize(raw, KindActionPlan, &plan))

	ids := []models.StepID{plan.Steps[0].ID, plan.Steps[1].ID, plan.Steps[2].ID}
	assert.Equal(t, []models.StepID{"a", "", "7"}, ids)
}
