package processquery

import (
	"bharat-seva/internal/models"
	"bharat-seva/internal/prompts"
)

type UserContext struct {
	State     string   `json:"state"`
	District  string   `json:"district"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Input struct {
	Transcript  string       `json:"transcript"`
	Language    string       `json:"language"`
	UserContext *UserContext `json:"userContext"`
}

type Output = models.ActionPlan

func (in *Input) lang() string {
	if in.Language == "" {
		return prompts.DefaultLanguage
	}
	return in.Language
}

func (in *Input) promptInput() prompts.QueryInput {
	q := prompts.QueryInput{
		Transcript: in.Transcript,
		Language:   in.lang(),
	}
	if uc := in.UserContext; uc != nil {
		q.State = uc.State
		q.District = uc.District
		q.Latitude = uc.Latitude
		q.Longitude = uc.Longitude
	}
	return q
}
