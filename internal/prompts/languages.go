package prompts

import "strings"

var languageNames = map[string]string{
	"hi": "Hindi",
	"en": "English",
	"ta": "Tamil",
	"te": "Telugu",
	"bn": "Bengali",
	"mr": "Marathi",
	"kn": "Kannada",
	"ml": "Malayalam",
	"gu": "Gujarati",
	"pa": "Punjabi",
	"ur": "Urdu",
	"or": "Odia",
}

// LanguageName maps an ISO 639-1 code to its English name. Unknown codes and
// names that are already spelled out are returned unchanged.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
