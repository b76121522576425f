package prompts

import (
	"fmt"
	"strings"
)

// BuildNoticePrompt renders the prompt that explains a photographed letter.
func BuildNoticePrompt(language string) string {
	lang := LanguageName(orDefault(language, DefaultLanguage))

	var parts []string

	parts = append(parts, "This is a photo of a government letter or notice received by a rural Indian citizen.")
	parts = append(parts, "")
	parts = append(parts, "Read all text in the image carefully.")
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("Then respond in %s language with JSON only:", lang))
	parts = append(parts, `{
  "simplifiedSummary": "2-3 sentences in very simple language explaining what this letter says",
  "sender": "who sent this letter",
  "actionRequired": true or false,
  "actionType": "brief label like BANK_KYC or TAX_NOTICE or SCHEME_APPROVED",
  "deadline": "deadline mentioned if any, else null",
  "urgency": "high" or "medium" or "low"
}`)
	parts = append(parts, "")
	parts = append(parts, "Use the simplest words possible. Write as if explaining to someone who has never read a government letter.")

	return strings.Join(parts, "\n")
}
