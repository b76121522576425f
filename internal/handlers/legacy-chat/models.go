package legacychat

import "bharat-seva/internal/models"

type Input struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

type Output = models.LegacyPlan
