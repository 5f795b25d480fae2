package prompts

import (
	"context"
	_ "embed"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"

	"github.com/property-assistant/server/internal/agent/model"
)

//go:embed template/chat_prompt.txt
var chatSystemPrompt string

// perTurnOverhead approximates the role and framing tokens each message costs.
const perTurnOverhead = 4

// HistoryLimits bounds the history replayed on each chat call. Zero disables a limit.
type HistoryLimits struct {
	MaxTurns  int
	MaxTokens int
}

// BuildChat builds the chat prompt: the fixed system instruction, the bounded
// replayable history in order, then the new user turn.
func BuildChat(ctx context.Context, snapshot []model.Turn, userText string, limits HistoryLimits) (*Prompt, error) {
	text, err := checkInput("message", userText)
	if err != nil {
		return nil, err
	}

	system, err := renderSystem(ctx, TaskChat, chatSystemPrompt, map[string]any{
		"PropertyTypes": propertyTypeNames(),
	})
	if err != nil {
		return nil, err
	}

	history := replayable(snapshot)
	history = trimTail(history, limits.MaxTurns)
	history = trimTokens(history, limits.MaxTokens)

	msgs := make([]*schema.Message, 0, len(history))
	for _, t := range history {
		msgs = append(msgs, t.Message())
	}

	return &Prompt{
		Task:    TaskChat,
		System:  system,
		History: msgs,
		User:    schema.UserMessage(text),
	}, nil
}

// replayable drops turns the model must not see again: error placeholders,
// system turns and empty content.
func replayable(turns []model.Turn) []model.Turn {
	out := make([]model.Turn, 0, len(turns))
	for _, t := range turns {
		if t.IsError || t.Role == model.RoleSystem || t.Content == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func trimTail(turns []model.Turn, maxTurns int) []model.Turn {
	if maxTurns <= 0 || len(turns) <= maxTurns {
		return turns
	}
	return turns[len(turns)-maxTurns:]
}

// trimTokens evicts the oldest turns until the estimate fits maxTokens.
func trimTokens(turns []model.Turn, maxTokens int) []model.Turn {
	if maxTokens <= 0 {
		return turns
	}
	total := 0
	for _, t := range turns {
		total += EstimateTokens(t.Content)
	}
	start := 0
	for start < len(turns) && total > maxTokens {
		total -= EstimateTokens(turns[start].Content)
		start++
	}
	return turns[start:]
}

// EstimateTokens is a rough count of roughly four characters per token plus framing.
func EstimateTokens(content string) int {
	return utf8.RuneCountInString(content)/4 + perTurnOverhead
}
