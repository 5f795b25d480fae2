package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/property-assistant/server/internal/agent/assistant/observers"
	"github.com/property-assistant/server/internal/agent/model"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
)

const defaultTimeout = 20 * time.Second

// Options are the generation settings for one call.
type Options struct {
	Temperature     float32
	MaxOutputTokens int
}

// Completion is the normalized result of a successful call.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
	FinishReason     string
	Attempts         int
}

type Config struct {
	Model   string
	Timeout time.Duration
	Retry   model.RetryConfig
}

// Gateway owns the outbound call to the hosted model. It never touches
// conversation state.
type Gateway struct {
	chatModel einomodel.BaseChatModel
	modelName string
	timeout   time.Duration
	retry     model.RetryConfig
	handlers  []callbacks.Handler
}

// New wraps chatModel. A nil chatModel yields a disabled gateway.
func New(chatModel einomodel.BaseChatModel, cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{
		chatModel: chatModel,
		modelName: cfg.Model,
		timeout:   timeout,
		retry:     cfg.Retry,
		handlers:  []callbacks.Handler{observers.NewModelCallbacks()},
	}
}

// Disabled returns a gateway that fails every call with a config error and
// never performs network I/O.
func Disabled(modelName string) *Gateway {
	return New(nil, Config{Model: modelName})
}

func (g *Gateway) Enabled() bool {
	return g.chatModel != nil
}

func (g *Gateway) Model() string {
	return g.modelName
}

// Invoke sends msgs and returns the normalized completion. Timeouts and
// retryable upstream failures are retried with exponential backoff up to
// Retry.MaxRetries times. Every failure is an *errx.AppError.
func (g *Gateway) Invoke(ctx context.Context, msgs []*schema.Message, opts Options) (*Completion, error) {
	if g.chatModel == nil {
		return nil, errx.NotConfigured()
	}
	if len(msgs) == 0 {
		return nil, errx.InvalidInput("no messages to send")
	}
	if err := ctx.Err(); err != nil {
		return nil, classify(ctx, ctx, err)
	}

	var (
		out     *Completion
		attempt int
	)
	op := func() error {
		attempt++
		c, err := g.attempt(ctx, msgs, opts, attempt)
		if err != nil {
			if !errx.Retryable(err) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		out = c
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logx.Warn().
			Err(err).
			Str("component", "gateway").
			Str("model", g.modelName).
			Int("attempt", attempt).
			Str("kind", string(errx.KindOf(err))).
			Dur("backoff", wait).
			Msg("retrying model call")
	}

	if err := backoff.RetryNotify(op, g.backoff(ctx), notify); err != nil {
		var appErr *errx.AppError
		if !errors.As(err, &appErr) {
			// the backoff wait itself was interrupted
			err = classify(ctx, ctx, err)
		}
		logx.Error().
			Err(err).
			Str("component", "gateway").
			Str("model", g.modelName).
			Int("attempts", attempt).
			Str("kind", string(errx.KindOf(err))).
			Msg("model call failed")
		return nil, err
	}
	out.Attempts = attempt
	return out, nil
}

func (g *Gateway) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if g.retry.InitialInterval > 0 {
		b.InitialInterval = g.retry.InitialInterval
	}
	if g.retry.MaxInterval > 0 {
		b.MaxInterval = g.retry.MaxInterval
	}
	// bounded by retry count instead of elapsed time
	b.MaxElapsedTime = 0

	retries := g.retry.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// attempt performs one call under its own deadline.
func (g *Gateway) attempt(parent context.Context, msgs []*schema.Message, opts Options, n int) (c *Completion, err error) {
	ctx, cancel := context.WithTimeout(parent, g.timeout)
	defer cancel()

	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      g.modelName,
		Type:      "ChatModel",
		Component: components.ComponentOfChatModel,
	}, g.handlers...)

	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "gateway").Msgf("panic recovered: %v", r)
			c = nil
			err = errx.New(errx.KindInternal, fmt.Errorf("chat model panic: %v", r), http.StatusInternalServerError, errx.SystemErrorMessage)
		}
	}()

	start := time.Now()
	msg, err := g.chatModel.Generate(ctx, msgs,
		einomodel.WithModel(g.modelName),
		einomodel.WithTemperature(opts.Temperature),
		einomodel.WithMaxTokens(opts.MaxOutputTokens),
	)
	if err != nil {
		return nil, classify(parent, ctx, err)
	}

	c, err = normalize(msg)
	if err != nil {
		return nil, err
	}
	c.Model = g.modelName

	logx.Debug().
		Str("component", "gateway").
		Str("model", g.modelName).
		Int("attempt", n).
		Int("prompt_tokens", c.PromptTokens).
		Int("completion_tokens", c.CompletionTokens).
		Dur("latency", time.Since(start)).
		Msg("model call ok")
	return c, nil
}

// normalize checks the message carries the fields every caller depends on.
func normalize(msg *schema.Message) (*Completion, error) {
	if msg == nil {
		return nil, errx.Malformed("no message in response")
	}
	if msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return nil, errx.Malformed("no usage in response")
	}
	usage := msg.ResponseMeta.Usage
	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 {
		return nil, errx.Malformed("negative usage in response")
	}
	if strings.TrimSpace(msg.Content) == "" {
		return nil, errx.Malformed("no content in response")
	}

	total := usage.TotalTokens
	if total == 0 {
		total = usage.PromptTokens + usage.CompletionTokens
	}
	return &Completion{
		Text:             msg.Content,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      total,
		FinishReason:     msg.ResponseMeta.FinishReason,
	}, nil
}

// classify maps a provider or context error onto the assistant error kinds.
// parent is the caller's context and ctx the per-attempt one.
func classify(parent, ctx context.Context, err error) error {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if perr := parent.Err(); perr != nil {
		if errors.Is(perr, context.DeadlineExceeded) {
			return errx.Timeout(err)
		}
		return errx.Canceled(err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return errx.Timeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errx.Timeout(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return errx.Upstream(err, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return errx.Upstream(err, reqErr.HTTPStatusCode, "")
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return errx.Upstream(err, genaiErr.Code, genaiErr.Message)
	}
	var genaiErrPtr *genai.APIError
	if errors.As(err, &genaiErrPtr) && genaiErrPtr != nil {
		return errx.Upstream(err, genaiErrPtr.Code, genaiErrPtr.Message)
	}

	return errx.Upstream(err, 0, "")
}
