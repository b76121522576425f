// Package prompts builds the model prompts for every capability. Builders are
// pure: identical input always yields byte-identical output.
package prompts

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultState    = "India"
	DefaultDistrict = "your district"
	DefaultLanguage = "hi"

	// MaxSteps caps the action plan length requested from the model and
	// enforced on its reply.
	MaxSteps = 6
)

// QueryInput carries everything the action-plan prompt embeds.
type QueryInput struct {
	Transcript string
	Language   string
	State      string
	District   string
	Latitude   *float64
	Longitude  *float64
}

func (in QueryInput) hasGPS() bool {
	return in.Latitude != nil && in.Longitude != nil
}

// BuildQueryPrompt renders the action-plan prompt for a voice transcript.
func BuildQueryPrompt(in QueryInput) string {
	language := LanguageName(orDefault(in.Language, DefaultLanguage))
	state := orDefault(in.State, DefaultState)
	district := orDefault(in.District, DefaultDistrict)

	var parts []string

	parts = append(parts, "You are Bharat Seva, a highly capable civic assistant for rural Indian citizens.")
	parts = append(parts, "Your job is to understand their problems and guide them to government schemes or resolutions.")
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("The user has spoken in the %s language.", language))
	parts = append(parts, fmt.Sprintf("Their location is %s district, in the state of %s, India.", district, state))
	if in.hasGPS() {
		parts = append(parts, fmt.Sprintf("Their exact GPS coordinates are Latitude: %s, Longitude: %s.",
			formatCoord(*in.Latitude), formatCoord(*in.Longitude)))
	}
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("User's query (transcribed): \"%s\"", in.Transcript))
	parts = append(parts, "")

	parts = append(parts, "Task instructions:")
	parts = append(parts, "1. Carefully analyze the user's intent. Do they want information (DISCOVERY), need to take an action like applying for a scheme (ACTION), or are they just asking a general question (QA)?")
	parts = append(parts, "2. Generate a structured, step-by-step action plan to solve their specific problem.")
	step3 := "3. Think about what specific Indian government schemes, forms, or local offices (like the Panchayat, CSC, or Tehsil) apply to this situation and location."
	if in.hasGPS() {
		step3 += " You MUST find the exact physically nearest office/center based on their GPS coordinates and explicitly state its location/name."
	}
	parts = append(parts, step3)
	parts = append(parts, "4. Keep all descriptions extremely simple, as this is for a rural user with potentially low literacy. Explain things clearly without bureaucratic jargon.")
	parts = append(parts, fmt.Sprintf("5. Provide a maximum of %d actionable steps.", MaxSteps))
	parts = append(parts, "6. If any step requires visiting a website or using an online portal, you MUST include the actual exact government URL (e.g., https://voters.eci.gov.in) clearly inside the 'breakdown' array for that step.")
	parts = append(parts, fmt.Sprintf("7. The entire response must be in the %s language.", language))
	parts = append(parts, "")
	parts = append(parts, "You MUST respond with **valid JSON only**. Do not include any explanation text before or after the JSON.")
	parts = append(parts, "")
	parts = append(parts, "JSON schema to follow exactly:")
	parts = append(parts, actionPlanSchema(language))

	return strings.Join(parts, "\n")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func actionPlanSchema(language string) string {
	return `{
  "intent": "ACTION" | "DISCOVERY" | "QA",
  "language": "` + language + `",
  "audioSummary": "One sentence summary of the problem and how many steps to solve it",
  "summary_speech": "The exact same summary but optimized for text-to-speech reading in the requested language",
  "problemAnalysis": {
    "detectedIssue": "short phrase describing the core issue",
    "rootCause": "one simple sentence explaining why they are facing this issue",
    "department": "relevant government department name",
    "bottleneckLevel": "where exactly the process might get stuck (e.g., local level, document missing)",
    "severityColor": "red" | "amber" | "green"
  },
  "steps": [
    {
      "id": 1,
      "title": "short title of step",
      "description": "one sentence, plain language explanation of what to do",
      "type": "info" | "checklist" | "form" | "location",
      "status": "pending",
      "breakdown": ["item 1 to check", "item 2 to check"],
      "formId": "relevant form name/number (only if type is form)",
      "officeType": "relevant office (only if type is location)"
    }
  ],
  "requiredDocuments": [
    {
      "name": "document name (e.g., Aadhaar, Ration Card)",
      "description": "what this document is for",
      "isRequired": true,
      "obtainFrom": "where they can get this document if they don't have it"
    }
  ]
}`
}
