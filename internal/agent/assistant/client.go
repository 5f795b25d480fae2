package assistant

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/property-assistant/server/internal/agent/assistant/conversations"
	"github.com/property-assistant/server/internal/agent/assistant/gateway"
	"github.com/property-assistant/server/internal/agent/assistant/parsers"
	"github.com/property-assistant/server/internal/agent/assistant/prompts"
	"github.com/property-assistant/server/internal/agent/model"
	"github.com/property-assistant/server/internal/agent/repo"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
)

// Client turns free text into search filters or answers. Each Client is an
// independent instance; sessions created from it share only the repository.
type Client struct {
	cfg     Config
	gateway *gateway.Gateway
	pricing model.PricingTable
	repo    model.ConversationRepository
}

// New builds a Client. A missing API key yields a disabled client whose calls
// all fail with a config error. An unpriced model is rejected here.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	pricing := model.DefaultPricing()
	if len(cfg.Pricing.Overrides) > 0 {
		overrides, err := model.ParsePricingOverrides(cfg.Pricing.Overrides)
		if err != nil {
			return nil, err
		}
		pricing = pricing.Merge(overrides)
	}
	if o.pricing != nil {
		pricing = pricing.Merge(o.pricing)
	}

	modelName := strings.TrimSpace(cfg.Provider.Model)
	if modelName == "" {
		modelName = model.DefaultModel
	}
	cfg.Provider.Model = modelName
	if _, err := pricing.Lookup(modelName); err != nil {
		logx.Error().Err(err).Str("model", modelName).Msg("model has no pricing")
		return nil, err
	}

	gwCfg := gateway.Config{Model: modelName, Timeout: cfg.Provider.Timeout, Retry: cfg.Provider.Retry}

	var gw *gateway.Gateway
	switch {
	case o.chatModel != nil:
		gw = gateway.New(o.chatModel, gwCfg)
	case strings.TrimSpace(cfg.Provider.APIKey) == "":
		logx.Warn().Str("provider", cfg.Provider.Provider).Msg("LLM_API_KEY not found - AI features will be disabled")
		gw = gateway.Disabled(modelName)
	default:
		chatModel, err := gateway.NewChatModel(ctx, cfg.Provider)
		if err != nil {
			return nil, err
		}
		gw = gateway.New(chatModel, gwCfg)
	}

	conversationRepo := o.repo
	if conversationRepo == nil {
		conversationRepo = repo.NewMemoryConversationRepository()
	}

	logx.Info().
		Str("provider", cfg.Provider.Provider).
		Str("model", modelName).
		Bool("enabled", gw.Enabled()).
		Int("max_retries", cfg.Provider.Retry.MaxRetries).
		Msg("assistant client ready")

	return &Client{
		cfg:     cfg,
		gateway: gw,
		pricing: pricing,
		repo:    conversationRepo,
	}, nil
}

// Enabled reports whether calls can reach the model.
func (c *Client) Enabled() bool {
	return c.gateway.Enabled()
}

func (c *Client) Model() string {
	return c.gateway.Model()
}

// ParseSearchQuery extracts structured search filters from free text.
func (c *Client) ParseSearchQuery(ctx context.Context, text string) (*model.SearchResult, error) {
	if !c.Enabled() {
		return nil, errx.NotConfigured()
	}
	p, err := prompts.BuildFilterExtraction(ctx, text)
	if err != nil {
		return nil, err
	}

	comp, usage, err := c.complete(ctx, p, c.cfg.Search.Task())
	if err != nil {
		return nil, err
	}

	filters, err := parsers.ParseSearchFilters(comp.Text)
	if err != nil {
		logx.Info().
			Str("task", p.Task).
			Str("prompt_version", p.Version).
			Str("cost_usd", usage.Cost.String()).
			Msg("search query not understood")
		return nil, err
	}
	return &model.SearchResult{Filters: *filters, Usage: usage}, nil
}

// AnswerPropertyQuestion answers a question about one listing.
func (c *Client) AnswerPropertyQuestion(ctx context.Context, property model.Property, question string) (*model.AnswerResult, error) {
	if !c.Enabled() {
		return nil, errx.NotConfigured()
	}
	p, err := prompts.BuildPropertyQA(ctx, property, question)
	if err != nil {
		return nil, err
	}

	comp, usage, err := c.complete(ctx, p, c.cfg.Answer.Task())
	if err != nil {
		return nil, err
	}

	answer, err := parsers.SanitizeAnswer(comp.Text)
	if err != nil {
		return nil, err
	}
	return &model.AnswerResult{Answer: answer, Usage: usage}, nil
}

// NewSession starts a chat session with a fresh id. The session ends when ctx
// is done or Close is called.
func (c *Client) NewSession(ctx context.Context) *Session {
	return c.ResumeSession(ctx, uuid.NewString())
}

// ResumeSession attaches to an existing transcript, e.g. one kept in Redis.
// Usage totals restart at zero.
func (c *Client) ResumeSession(ctx context.Context, id string) *Session {
	lifetime, cancel := context.WithCancel(ctx)

	return &Session{
		id:       id,
		client:   c,
		state:    conversations.NewState(id, c.repo),
		lifetime: lifetime,
		cancel:   cancel,
	}
}

// complete invokes the model and prices the call.
func (c *Client) complete(ctx context.Context, p *prompts.Prompt, task model.TaskConfig) (*gateway.Completion, model.UsageReport, error) {
	comp, err := c.gateway.Invoke(ctx, p.Messages(), gateway.Options{
		Temperature:     task.Temperature,
		MaxOutputTokens: task.MaxTokens,
	})
	if err != nil {
		return nil, model.UsageReport{}, err
	}

	usage, err := c.pricing.EstimateCost(comp.Model, comp.PromptTokens, comp.CompletionTokens)
	if err != nil {
		return nil, model.UsageReport{}, err
	}

	logx.Info().
		Str("task", p.Task).
		Str("model", usage.Model).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Str("cost_usd", usage.Cost.String()).
		Int("attempts", comp.Attempts).
		Msg("model call priced")
	return comp, usage, nil
}
