package prompts

import (
	"fmt"
	"strings"
)

const (
	DefaultPlanTitle = "their government service request"
	DefaultStepTitle = "getting started"

	// MaxContextTurns bounds how much prior conversation is replayed.
	MaxContextTurns = 3
)

// Turn is one prior message supplied by the client.
type Turn struct {
	Role string
	Text string
}

// ChatInput carries the follow-up question and where the user is in their plan.
type ChatInput struct {
	Message         string
	Language        string
	PlanTitle       string
	StepTitle       string
	StepDescription string
	Context         []Turn
}

// BuildChatPrompt renders the contextual follow-up prompt. Only the last
// MaxContextTurns turns of Context are included.
func BuildChatPrompt(in ChatInput) string {
	lang := LanguageName(orDefault(in.Language, DefaultLanguage))

	var parts []string

	parts = append(parts, "You are a helpful assistant for Bharat Seva, an Indian government scheme helper.")
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("The user is currently working on: \"%s\"", orDefault(in.PlanTitle, DefaultPlanTitle)))

	step := fmt.Sprintf("They are on this step: \"%s\"", orDefault(in.StepTitle, DefaultStepTitle))
	if strings.TrimSpace(in.StepDescription) != "" {
		step += fmt.Sprintf(" (\"%s\")", in.StepDescription)
	}
	parts = append(parts, step)

	if turns := lastTurns(in.Context, MaxContextTurns); len(turns) > 0 {
		parts = append(parts, "")
		parts = append(parts, "Recent conversation:")
		for _, t := range turns {
			parts = append(parts, fmt.Sprintf("%s: %s", orDefault(t.Role, "user"), t.Text))
		}
	}

	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("User's question: \"%s\"", in.Message))
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("Answer in %s in 2-3 simple sentences.", lang))
	parts = append(parts, "Use the simplest words possible.")
	parts = append(parts, "If you don't know something specific, say so honestly.")
	parts = append(parts, "Do not make up scheme details.")
	parts = append(parts, "")
	parts = append(parts, "Respond with plain text only. No JSON, no markdown.")

	return strings.Join(parts, "\n")
}

func lastTurns(turns []Turn, n int) []Turn {
	var kept []Turn
	for _, t := range turns {
		if strings.TrimSpace(t.Text) != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return kept
}
