package prompts

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/property-assistant/server/internal/agent/assistant/observers"
	"github.com/property-assistant/server/internal/agent/model"
	errx "github.com/property-assistant/server/internal/core/error"
)

// MaxInputRunes caps any single piece of caller text.
const MaxInputRunes = 2000

// Task names, also used as callback run names.
const (
	TaskFilterExtraction = "filter_extraction"
	TaskPropertyQA       = "property_qa"
	TaskChat             = "chat"
)

// Prompt is the message structure for one model call. User supplied text never
// lands in System.
type Prompt struct {
	Task    string
	Version string
	System  *schema.Message
	Context *schema.Message
	History []*schema.Message
	User    *schema.Message
}

// Messages returns the ordered list sent upstream: system, context, history, user.
func (p *Prompt) Messages() []*schema.Message {
	msgs := make([]*schema.Message, 0, len(p.History)+3)
	if p.System != nil {
		msgs = append(msgs, p.System)
	}
	if p.Context != nil {
		msgs = append(msgs, p.Context)
	}
	msgs = append(msgs, p.History...)
	if p.User != nil {
		msgs = append(msgs, p.User)
	}
	return msgs
}

// renderSystem formats a system template through the eino prompt component so
// prompt callbacks fire.
func renderSystem(ctx context.Context, name, tpl string, vars map[string]any) (*schema.Message, error) {
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      name,
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	}, observers.NewPromptCallbacks())

	t := prompt.FromMessages(schema.GoTemplate, schema.SystemMessage(tpl))
	msgs, err := t.Format(ctx, vars)
	if err != nil {
		return nil, errx.New(errx.KindInternal, err, 500, fmt.Sprintf("%s prompt render", name))
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, errx.New(errx.KindInternal, nil, 500, fmt.Sprintf("%s prompt render: empty result", name))
	}
	return msgs[0], nil
}

// checkInput trims text and rejects empty or oversize input.
func checkInput(field, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errx.InvalidInput(fmt.Sprintf("%s is empty", field))
	}
	if n := utf8.RuneCountInString(text); n > MaxInputRunes {
		return "", errx.InvalidInput(fmt.Sprintf("%s is too long (%d > %d characters)", field, n, MaxInputRunes))
	}
	return text, nil
}

var delimiterLike = regexp.MustCompile(`(?i)<\s*/?\s*(search_request|property|system|instructions?)\b[^>]*>`)

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// neutralize escapes anything that looks like one of the fence tags so the
// user cannot close the fence early or open a fake instruction block.
func neutralize(text string) string {
	return delimiterLike.ReplaceAllStringFunc(text, angleEscaper.Replace)
}

// fence wraps data in a tag pair after neutralizing look-alike tags inside it.
func fence(tag, text string) string {
	var b strings.Builder
	b.WriteString("<" + tag + ">\n")
	b.WriteString(neutralize(text))
	b.WriteString("\n</" + tag + ">")
	return b.String()
}

func propertyTypeNames() []string {
	out := make([]string, 0, len(model.PropertyTypes))
	for _, t := range model.PropertyTypes {
		out = append(out, string(t))
	}
	return out
}
