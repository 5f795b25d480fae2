package observers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"

	"github.com/property-assistant/server/internal/core"
	logx "github.com/property-assistant/server/pkg/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logx.Init(logx.LoggerOpts{Environment: core.Production, Level: "debug", Output: &buf})
	t.Cleanup(logx.Disable)
	return &buf
}

func TestModelCallbacks_LogUsage(t *testing.T) {
	buf := captureLogs(t)

	ctx := einocb.InitCallbacks(context.Background(), &einocb.RunInfo{
		Name:      "llama-3.1-70b-versatile",
		Type:      "ChatModel",
		Component: components.ComponentOfChatModel,
	}, NewModelCallbacks())

	ctx = einocb.OnStart(ctx, &model.CallbackInput{
		Messages: []*schema.Message{
			schema.SystemMessage("be brief"),
			schema.UserMessage(strings.Repeat("a", 300)),
		},
		Config: &model.Config{Model: "llama-3.1-70b-versatile", MaxTokens: 500, Temperature: 0.3},
	})
	einocb.OnEnd(ctx, &model.CallbackOutput{
		Message:    schema.AssistantMessage("ok", nil),
		TokenUsage: &model.TokenUsage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15},
	})
	einocb.OnError(ctx, errors.New("rate limited"))

	out := buf.String()
	assert.Contains(t, out, `"message":"model call start"`)
	assert.Contains(t, out, `"messages":2`)
	assert.Contains(t, out, `"max_tokens":500`)
	assert.Contains(t, out, `"model":"llama-3.1-70b-versatile"`)
	assert.NotContains(t, out, strings.Repeat("a", 241), "user text is truncated")
	assert.Contains(t, out, `"message":"model call end"`)
	assert.Contains(t, out, `"prompt_tokens":12`)
	assert.Contains(t, out, `"total_tokens":15`)
	assert.Contains(t, out, `"message":"model call failed"`)
	assert.Contains(t, out, "rate limited")
}

func TestPromptCallbacks_DoNotLogVariables(t *testing.T) {
	buf := captureLogs(t)

	ctx := einocb.InitCallbacks(context.Background(), &einocb.RunInfo{
		Name:      "filter_extraction",
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	}, NewPromptCallbacks())

	ctx = einocb.OnStart(ctx, &prompt.CallbackInput{
		Variables: map[string]any{"secret": "my home address"},
	})
	einocb.OnEnd(ctx, &prompt.CallbackOutput{
		Result: []*schema.Message{schema.SystemMessage("12345")},
	})

	out := buf.String()
	assert.Contains(t, out, `"message":"prompt render start"`)
	assert.Contains(t, out, `"variables":1`)
	assert.Contains(t, out, `"rendered_len":5`)
	assert.NotContains(t, out, "my home address")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	long := strings.Repeat("é", maxLoggedContent+10)
	got := []rune(truncate(long))
	assert.Len(t, got, maxLoggedContent+1)
	assert.Equal(t, '…', got[len(got)-1])
}
