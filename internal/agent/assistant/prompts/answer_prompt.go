package prompts

import (
	"context"
	_ "embed"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/property-assistant/server/internal/agent/model"
)

//go:embed template/answer_prompt.txt
var answerSystemPrompt string

// BuildPropertyQA builds the prompt for a question about one listing. The
// listing goes into a context message, the question into its own user message.
func BuildPropertyQA(ctx context.Context, property model.Property, question string) (*Prompt, error) {
	q, err := checkInput("question", question)
	if err != nil {
		return nil, err
	}

	system, err := renderSystem(ctx, TaskPropertyQA, answerSystemPrompt, map[string]any{})
	if err != nil {
		return nil, err
	}

	return &Prompt{
		Task:    TaskPropertyQA,
		System:  system,
		Context: schema.UserMessage(fence("property", RenderProperty(property))),
		User:    schema.UserMessage(neutralize(q)),
	}, nil
}

// RenderProperty renders the public attributes of p in a fixed order. Internal
// fields are never read here.
func RenderProperty(p model.Property) string {
	pr := message.NewPrinter(language.English)

	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = "N/A"
	}

	var b strings.Builder
	b.WriteString("Property Details:\n")
	b.WriteString("- Address: " + formatAddress(p) + "\n")
	b.WriteString("- Price: " + pr.Sprintf("$%d", p.Price) + "\n")
	b.WriteString("- Bedrooms: " + strconv.Itoa(p.Bedrooms) + "\n")
	b.WriteString("- Bathrooms: " + strconv.FormatFloat(p.Bathrooms, 'f', -1, 64) + "\n")
	b.WriteString("- Square Feet: " + pr.Sprintf("%d", p.Sqft) + "\n")
	b.WriteString("- Property Type: " + string(p.PropertyType) + "\n")
	b.WriteString("- Description: " + desc)
	return b.String()
}

// formatAddress completes a street address with city, state and zip unless
// the address already carries them.
func formatAddress(p model.Property) string {
	addr := strings.TrimSpace(p.Address)
	lower := strings.ToLower(addr)
	parts := make([]string, 0, 3)
	if addr != "" {
		parts = append(parts, addr)
	}
	if city := strings.TrimSpace(p.City); city != "" && !strings.Contains(lower, strings.ToLower(city)) {
		parts = append(parts, city)
	}
	zip := strings.TrimSpace(p.ZipCode)
	if zip == "" || !strings.Contains(lower, zip) {
		if tail := strings.TrimSpace(strings.TrimSpace(p.State) + " " + zip); tail != "" {
			parts = append(parts, tail)
		}
	}
	return strings.Join(parts, ", ")
}
