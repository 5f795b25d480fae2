package prompts

import (
	"context"
	_ "embed"

	"github.com/cloudwego/eino/schema"
)

// FilterPromptVersion identifies the filter extraction instruction. Bump it
// whenever template/filter_prompt.txt changes.
const FilterPromptVersion = "filter-v2"

//go:embed template/filter_prompt.txt
var filterSystemPrompt string

// BuildFilterExtraction builds the prompt that turns free text into search
// filters. The user text goes into its own user message inside
// <search_request> tags.
func BuildFilterExtraction(ctx context.Context, userText string) (*Prompt, error) {
	text, err := checkInput("search query", userText)
	if err != nil {
		return nil, err
	}

	system, err := renderSystem(ctx, TaskFilterExtraction, filterSystemPrompt, map[string]any{
		"PropertyTypes": propertyTypeNames(),
	})
	if err != nil {
		return nil, err
	}

	return &Prompt{
		Task:    TaskFilterExtraction,
		Version: FilterPromptVersion,
		System:  system,
		User:    schema.UserMessage(fence("search_request", text)),
	}, nil
}
