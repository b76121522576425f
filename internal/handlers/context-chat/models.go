package contextchat

import (
	"bytes"
	"encoding/json"

	"bharat-seva/internal/models"
)

type Input struct {
	Message         string      `json:"message"`
	Query           string      `json:"query"`
	Language        string      `json:"language"`
	ActionPlanTitle string      `json:"actionPlanTitle"`
	CurrentStep     CurrentStep `json:"currentStep"`
	Context         []Turn      `json:"context"`
}

// CurrentStep is sent either as {title, description} or as the bare step text.
type CurrentStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *CurrentStep) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = CurrentStep{}
		return nil
	}
	if data[0] == '"' {
		var title string
		if err := json.Unmarshal(data, &title); err != nil {
			return err
		}
		*s = CurrentStep{Title: title}
		return nil
	}

	type plain CurrentStep
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = CurrentStep(p)
	return nil
}

type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type Output = models.ChatAnswer

// question returns message, or the query alias used by older clients.
func (in *Input) question() string {
	if in.Message != "" {
		return in.Message
	}
	return in.Query
}
