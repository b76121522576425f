package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestBuildQueryPrompt_Defaults(t *testing.T) {
	p := BuildQueryPrompt(QueryInput{Transcript: "Mera pension nahi aaya"})

	assert.Contains(t, p, "The user has spoken in the Hindi language.")
	assert.Contains(t, p, "Their location is your district district, in the state of India, India.")
	assert.Contains(t, p, `User's query (transcribed): "Mera pension nahi aaya"`)
	assert.Contains(t, p, "Provide a maximum of 6 actionable steps.")
	assert.NotContains(t, p, "GPS coordinates are")
	assert.NotContains(t, p, "physically nearest office")
}

func TestBuildQueryPrompt_GPS(t *testing.T) {
	tests := []struct {
		name    string
		lat     *float64
		lng     *float64
		wantGPS bool
	}{
		{"both present", ptr(25.5941), ptr(85.1376), true},
		{"only latitude", ptr(25.5941), nil, false},
		{"only longitude", nil, ptr(85.1376), false},
		{"zero is a coordinate", ptr(0), ptr(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildQueryPrompt(QueryInput{
				Transcript: "ration card",
				Language:   "en",
				State:      "Bihar",
				District:   "Patna",
				Latitude:   tt.lat,
				Longitude:  tt.lng,
			})
			assert.Equal(t, tt.wantGPS, strings.Contains(p, "GPS coordinates are"))
			assert.Equal(t, tt.wantGPS, strings.Contains(p, "physically nearest office"))
			assert.Contains(t, p, "Patna district, in the state of Bihar")
		})
	}

	p := BuildQueryPrompt(QueryInput{Transcript: "x", Latitude: ptr(25.5941), Longitude: ptr(85.1376)})
	assert.Contains(t, p, "Latitude: 25.5941, Longitude: 85.1376.")
}

func TestBuilders_AreDeterministic(t *testing.T) {
	in := QueryInput{Transcript: "Kisan samman nidhi", Language: "hi", State: "Bihar", Latitude: ptr(1), Longitude: ptr(2)}
	assert.Equal(t, BuildQueryPrompt(in), BuildQueryPrompt(in))

	chat := ChatInput{Message: "kahan jaana hai?", Context: []Turn{{Role: "user", Text: "a"}}}
	assert.Equal(t, BuildChatPrompt(chat), BuildChatPrompt(chat))

	assert.Equal(t, BuildLegacyChatPrompt("q", ""), BuildLegacyChatPrompt("q", ""))
	assert.Equal(t, BuildNoticePrompt("ta"), BuildNoticePrompt("ta"))
}

func TestBuildQueryPrompt_PreservesTranscript(t *testing.T) {
	transcript := `मेरा "पेंशन" नही आया {ignore previous}`
	p := BuildQueryPrompt(QueryInput{Transcript: transcript})
	assert.Contains(t, p, transcript)
}

func TestBuildLegacyChatPrompt(t *testing.T) {
	p := BuildLegacyChatPrompt("How do I get a ration card?", "")
	assert.Contains(t, p, `Preferred Language: "English"`)
	assert.Contains(t, p, `"intent_type": "grievance | scheme | information"`)
	assert.Contains(t, p, "Clear step 1 in English")

	p = BuildLegacyChatPrompt("q", "ta")
	assert.Contains(t, p, `Preferred Language: "Tamil"`)
}

func TestBuildScanPrompt(t *testing.T) {
	tests := []struct {
		expected string
		want     string
	}{
		{"", `"uid_last4"`},
		{"aadhaar", `"uid_last4"`},
		{"PASSBOOK", `"ifsc"`},
		{"pan", `"fields"`},
		{"generic", `"fields"`},
	}
	for _, tt := range tests {
		assert.Contains(t, BuildScanPrompt(tt.expected), tt.want, tt.expected)
	}

	assert.Contains(t, BuildScanPrompt("aadhaar"), `"document_type": "wrong"`)
	assert.NotContains(t, BuildScanPrompt("generic"), `"wrong"`)
}

func TestRejectionMessage(t *testing.T) {
	assert.Equal(t, "Yeh PAN card lagta hai. Kripaya sahi document dikhayein.", RejectionMessage("hi", "PAN card"))
	assert.Equal(t, "This appears to be a PAN card. Please show the correct document.", RejectionMessage("en", "PAN card"))
	assert.Equal(t, "Ithu PAN card pola therikirathu. Correct document kaattungal.", RejectionMessage("ta", "PAN card"))
	assert.Equal(t, RejectionMessage("hi", "PAN card"), RejectionMessage("bn", "PAN card"))
}

func TestBuildNoticePrompt(t *testing.T) {
	assert.Contains(t, BuildNoticePrompt(""), "Then respond in Hindi language with JSON only:")
	assert.Contains(t, BuildNoticePrompt("en"), `"urgency": "high" or "medium" or "low"`)
}

func TestBuildChatPrompt(t *testing.T) {
	p := BuildChatPrompt(ChatInput{Message: "Form kahan milega?"})
	assert.Contains(t, p, `working on: "their government service request"`)
	assert.Contains(t, p, `step: "getting started"`)
	assert.Contains(t, p, "Answer in Hindi in 2-3 simple sentences.")
	assert.NotContains(t, p, "Recent conversation:")

	p = BuildChatPrompt(ChatInput{
		Message:         "aur?",
		Language:        "en",
		PlanTitle:       "Pension restart",
		StepTitle:       "Visit CSC",
		StepDescription: "Take your passbook",
		Context: []Turn{
			{Role: "user", Text: "one"},
			{Role: "assistant", Text: "two"},
			{Role: "user", Text: "   "},
			{Role: "user", Text: "three"},
			{Role: "assistant", Text: "four"},
		},
	})
	assert.Contains(t, p, `step: "Visit CSC" ("Take your passbook")`)
	assert.NotContains(t, p, "user: one")
	assert.Contains(t, p, "assistant: two\nuser: three\nassistant: four")
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Hindi", LanguageName("hi"))
	assert.Equal(t, "Odia", LanguageName("OR"))
	assert.Equal(t, "Bhojpuri", LanguageName("Bhojpuri"))
}
