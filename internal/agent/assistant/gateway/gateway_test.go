package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/property-assistant/server/internal/agent/model"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
)

func init() {
	logx.Disable()
}

type fakeModel struct {
	calls atomic.Int32
	fn    func(ctx context.Context, call int, opts *einomodel.Options) (*schema.Message, error)
}

func (f *fakeModel) Generate(ctx context.Context, _ []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	n := int(f.calls.Add(1))
	return f.fn(ctx, n, einomodel.GetCommonOptions(&einomodel.Options{}, opts...))
}

func (f *fakeModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func reply(content string, prompt, completion int) *schema.Message {
	return &schema.Message{
		Role:    schema.Assistant,
		Content: content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: "stop",
			Usage:        &schema.TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion},
		},
	}
}

func fastRetry(n int) model.RetryConfig {
	return model.RetryConfig{MaxRetries: n, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

var hello = []*schema.Message{schema.SystemMessage("sys"), schema.UserMessage("hello")}

func TestInvoke_Disabled(t *testing.T) {
	g := Disabled(model.DefaultModel)
	assert.False(t, g.Enabled())

	_, err := g.Invoke(context.Background(), hello, Options{})
	require.Error(t, err)
	assert.True(t, errx.IsKind(err, errx.KindConfig))
	assert.Contains(t, err.Error(), errx.NotConfiguredMessage)
}

func TestInvoke_Success(t *testing.T) {
	var seen *einomodel.Options
	fm := &fakeModel{fn: func(_ context.Context, _ int, o *einomodel.Options) (*schema.Message, error) {
		seen = o
		return reply("hi there", 12, 3), nil
	}}
	g := New(fm, Config{Model: model.DefaultModel, Timeout: time.Second})

	c, err := g.Invoke(context.Background(), hello, Options{Temperature: 0.3, MaxOutputTokens: 500})
	require.NoError(t, err)
	assert.Equal(t, "hi there", c.Text)
	assert.Equal(t, 12, c.PromptTokens)
	assert.Equal(t, 3, c.CompletionTokens)
	assert.Equal(t, 15, c.TotalTokens)
	assert.Equal(t, model.DefaultModel, c.Model)
	assert.Equal(t, 1, c.Attempts)

	require.NotNil(t, seen.Temperature)
	assert.InDelta(t, 0.3, *seen.Temperature, 1e-6)
	require.NotNil(t, seen.MaxTokens)
	assert.Equal(t, 500, *seen.MaxTokens)
	require.NotNil(t, seen.Model)
	assert.Equal(t, model.DefaultModel, *seen.Model)
}

func TestInvoke_MalformedIsNotRetried(t *testing.T) {
	tests := map[string]*schema.Message{
		"nil message":   nil,
		"no usage":      {Role: schema.Assistant, Content: "x"},
		"empty content": reply("  ", 1, 1),
	}
	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			fm := &fakeModel{fn: func(context.Context, int, *einomodel.Options) (*schema.Message, error) { return msg, nil }}
			g := New(fm, Config{Model: "m", Retry: fastRetry(3)})

			_, err := g.Invoke(context.Background(), hello, Options{})
			assert.True(t, errx.IsKind(err, errx.KindMalformedResponse), "got %v", err)
			assert.EqualValues(t, 1, fm.calls.Load())
		})
	}
}

func TestInvoke_Timeout(t *testing.T) {
	fm := &fakeModel{fn: func(ctx context.Context, _ int, _ *einomodel.Options) (*schema.Message, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	g := New(fm, Config{Model: "m", Timeout: 20 * time.Millisecond, Retry: fastRetry(0)})

	_, err := g.Invoke(context.Background(), hello, Options{})
	assert.True(t, errx.IsKind(err, errx.KindTimeout), "got %v", err)
	assert.EqualValues(t, 1, fm.calls.Load())
}

func TestInvoke_RetriesTransientFailures(t *testing.T) {
	fm := &fakeModel{fn: func(_ context.Context, call int, _ *einomodel.Options) (*schema.Message, error) {
		if call < 3 {
			return nil, &openai.APIError{HTTPStatusCode: http.StatusServiceUnavailable, Message: "overloaded"}
		}
		return reply("ok", 1, 1), nil
	}}
	g := New(fm, Config{Model: "m", Retry: fastRetry(2)})

	c, err := g.Invoke(context.Background(), hello, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Attempts)
	assert.EqualValues(t, 3, fm.calls.Load())
}

func TestInvoke_StopsWhenRetriesExhausted(t *testing.T) {
	fm := &fakeModel{fn: func(context.Context, int, *einomodel.Options) (*schema.Message, error) {
		return nil, &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}
	}}
	g := New(fm, Config{Model: "m", Retry: fastRetry(2)})

	_, err := g.Invoke(context.Background(), hello, Options{})
	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errx.KindUpstream, appErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Status)
	assert.EqualValues(t, 3, fm.calls.Load())
}

func TestInvoke_DoesNotRetryClientErrors(t *testing.T) {
	fm := &fakeModel{fn: func(context.Context, int, *einomodel.Options) (*schema.Message, error) {
		return nil, &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}
	}}
	g := New(fm, Config{Model: "m", Retry: fastRetry(5)})

	_, err := g.Invoke(context.Background(), hello, Options{})
	assert.True(t, errx.IsKind(err, errx.KindUpstream))
	assert.EqualValues(t, 1, fm.calls.Load())
}

func TestInvoke_NoRetryWhenDisabled(t *testing.T) {
	fm := &fakeModel{fn: func(context.Context, int, *einomodel.Options) (*schema.Message, error) {
		return nil, errors.New("connection reset")
	}}
	g := New(fm, Config{Model: "m", Retry: fastRetry(0)})

	_, err := g.Invoke(context.Background(), hello, Options{})
	var appErr *errx.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errx.KindUpstream, appErr.Kind)
	assert.Zero(t, appErr.Status)
	assert.EqualValues(t, 1, fm.calls.Load())
}

func TestInvoke_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fm := &fakeModel{fn: func(ctx context.Context, _ int, _ *einomodel.Options) (*schema.Message, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	g := New(fm, Config{Model: "m", Retry: fastRetry(3)})

	_, err := g.Invoke(ctx, hello, Options{})
	assert.True(t, errx.IsKind(err, errx.KindCanceled), "got %v", err)
	assert.EqualValues(t, 1, fm.calls.Load())

	_, err = g.Invoke(ctx, hello, Options{})
	assert.True(t, errx.IsKind(err, errx.KindCanceled))
	assert.EqualValues(t, 1, fm.calls.Load(), "already canceled context never reaches the model")
}

func TestInvoke_RecoversPanics(t *testing.T) {
	fm := &fakeModel{fn: func(context.Context, int, *einomodel.Options) (*schema.Message, error) {
		panic("boom")
	}}
	g := New(fm, Config{Model: "m", Retry: fastRetry(2)})

	_, err := g.Invoke(context.Background(), hello, Options{})
	assert.True(t, errx.IsKind(err, errx.KindInternal))
	assert.EqualValues(t, 1, fm.calls.Load())
}

func TestInvoke_RejectsEmptyMessages(t *testing.T) {
	g := New(&fakeModel{}, Config{Model: "m"})
	_, err := g.Invoke(context.Background(), nil, Options{})
	assert.True(t, errx.IsKind(err, errx.KindInvalidInput))
}

func TestOpenAIChatModel_AgainstHTTPServer(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "llama-3.1-70b-versatile",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"bedrooms\": 3}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 100, "completion_tokens": 8, "total_tokens": 108}
		}`)
	}))
	defer srv.Close()

	chatModel := NewOpenAIChatModel("test-key", srv.URL+"/openai/v1", model.DefaultModel)
	g := New(chatModel, Config{Model: model.DefaultModel, Timeout: 5 * time.Second})

	c, err := g.Invoke(context.Background(), hello, Options{Temperature: 0.3, MaxOutputTokens: 500})
	require.NoError(t, err)
	assert.Equal(t, `{"bedrooms": 3}`, c.Text)
	assert.Equal(t, 100, c.PromptTokens)
	assert.Equal(t, 8, c.CompletionTokens)
	assert.Equal(t, "stop", c.FinishReason)

	assert.Equal(t, model.DefaultModel, got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
}

func TestOpenAIChatModel_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		calls  int32
	}{
		{name: "rate limited json error", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited","type":"rate_limit"}}`, calls: 2},
		{name: "server error without body", status: http.StatusInternalServerError, body: ``, calls: 2},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":{"message":"bad model","type":"invalid_request_error"}}`, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			g := New(NewOpenAIChatModel("k", srv.URL, "m"), Config{Model: "m", Timeout: 5 * time.Second, Retry: fastRetry(1)})
			_, err := g.Invoke(context.Background(), hello, Options{})

			var appErr *errx.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errx.KindUpstream, appErr.Kind)
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.calls, calls.Load())
		})
	}
}

func TestOpenAIChatModel_MissingUsageIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	g := New(NewOpenAIChatModel("k", srv.URL, "m"), Config{Model: "m"})
	_, err := g.Invoke(context.Background(), hello, Options{})
	assert.True(t, errx.IsKind(err, errx.KindMalformedResponse), "got %v", err)
}

func TestOpenAIChatModel_NoChoicesIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[],"usage":{"prompt_tokens":1,"completion_tokens":0,"total_tokens":1}}`)
	}))
	defer srv.Close()

	g := New(NewOpenAIChatModel("k", srv.URL, "m"), Config{Model: "m"})
	_, err := g.Invoke(context.Background(), hello, Options{})
	assert.True(t, errx.IsKind(err, errx.KindMalformedResponse), "got %v", err)
}

func TestNewChatModel(t *testing.T) {
	_, err := NewChatModel(context.Background(), model.ProviderConfig{Provider: model.ProviderGroq})
	assert.True(t, errx.IsKind(err, errx.KindConfig), "missing key")

	_, err = NewChatModel(context.Background(), model.ProviderConfig{Provider: "llamafarm", APIKey: "k"})
	assert.True(t, errx.IsKind(err, errx.KindConfig), "unknown provider")

	cm, err := NewChatModel(context.Background(), model.ProviderConfig{Provider: "GROQ", APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIChatModel{}, cm)
}
