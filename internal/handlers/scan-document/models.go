package scandocument

type Input struct {
	ImageBase64          string `json:"imageBase64"`
	ExpectedDocumentType string `json:"expectedDocumentType"`
	Language             string `json:"language"`
}

type Output struct {
	IsCorrectDocument    bool                   `json:"isCorrectDocument"`
	DocumentTypeDetected string                 `json:"documentTypeDetected"`
	ExtractedFields      map[string]interface{} `json:"extractedFields"`
	RejectionMessage     *string                `json:"rejectionMessage"`
}
