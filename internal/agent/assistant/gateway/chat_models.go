package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/property-assistant/server/internal/agent/model"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
)

// GroqBaseURL is the OpenAI-compatible endpoint used when LLM_PROVIDER=groq.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// NewChatModel creates the eino chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg model.ProviderConfig) (einomodel.BaseChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errx.NotConfigured()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case model.ProviderGroq, "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAIChatModel(cfg.APIKey, baseURL, cfg.Model), nil

	case model.ProviderOpenAI:
		return NewOpenAIChatModel(cfg.APIKey, cfg.BaseURL, cfg.Model), nil

	case model.ProviderGemini:
		return newGeminiChatModel(ctx, cfg)

	default:
		return nil, errx.Config(fmt.Sprintf("unknown LLM provider %q", cfg.Provider))
	}
}

func newGeminiChatModel(ctx context.Context, cfg model.ProviderConfig) (einomodel.BaseChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	// temperature and max tokens are passed per call
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  cfg.Model,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini chat model")
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}
	return chatModel, nil
}
