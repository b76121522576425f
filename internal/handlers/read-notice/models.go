package readnotice

import "bharat-seva/internal/models"

type Input struct {
	ImageBase64 string `json:"imageBase64"`
	Language    string `json:"language"`
}

type Output = models.NoticeSummary
