package prompts

import (
	"fmt"
	"strings"
)

const (
	DocTypeAadhaar  = "aadhaar"
	DocTypePassbook = "passbook"
	DocTypeGeneric  = "generic"

	// WrongDocument is the document_type the model reports for a mismatch.
	WrongDocument = "wrong"
)

var documentPrompts = map[string]string{
	DocTypeAadhaar: `Extract these fields from this Aadhaar card image.
Return JSON only: { "name": "", "dob": "", "address": "", "uid_last4": "", "document_type": "aadhaar" }
If this is NOT an Aadhaar card, return: { "document_type": "wrong", "detected_as": "what you see" }`,

	DocTypePassbook: `Extract these fields from this bank passbook image.
Return JSON only: { "name": "", "account_number": "", "ifsc": "", "bank_name": "", "document_type": "passbook" }
If this is NOT a bank passbook, return: { "document_type": "wrong", "detected_as": "what you see" }`,

	DocTypeGeneric: `Identify this document and extract key fields.
Return JSON only: { "document_type": "detected type", "fields": { "key": "value" } }`,
}

// ResolveDocumentType maps a requested type onto a known prompt; unknown
// types are scanned generically.
func ResolveDocumentType(expected string) string {
	t := strings.ToLower(strings.TrimSpace(expected))
	if t == "" {
		return DocTypeAadhaar
	}
	if _, ok := documentPrompts[t]; ok {
		return t
	}
	return DocTypeGeneric
}

// BuildScanPrompt returns the extraction prompt for the expected document type.
func BuildScanPrompt(expectedType string) string {
	return documentPrompts[ResolveDocumentType(expectedType)]
}

var rejectionMessages = map[string]string{
	"hi": "Yeh %s lagta hai. Kripaya sahi document dikhayein.",
	"en": "This appears to be a %s. Please show the correct document.",
	"ta": "Ithu %s pola therikirathu. Correct document kaattungal.",
}

// RejectionMessage tells the user which document was seen instead. Languages
// without a translation fall back to Hindi.
func RejectionMessage(language, detectedAs string) string {
	tmpl, ok := rejectionMessages[strings.ToLower(language)]
	if !ok {
		tmpl = rejectionMessages["hi"]
	}
	return fmt.Sprintf(tmpl, detectedAs)
}
