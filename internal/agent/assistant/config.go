package assistant

import (
	"time"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/property-assistant/server/internal/agent/model"
)

// Config is everything the assistant needs. Field tags let envconfig fill it
// straight from the environment.
type Config struct {
	Provider     model.ProviderConfig
	Search       model.SearchTaskConfig
	Answer       model.AnswerTaskConfig
	Chat         model.ChatTaskConfig
	Conversation model.ConversationConfig
	Pricing      model.PricingConfig
}

// DefaultConfig mirrors the envconfig defaults for callers that build Config in code.
func DefaultConfig() Config {
	return Config{
		Provider: model.ProviderConfig{
			Provider: model.ProviderGroq,
			Model:    model.DefaultModel,
			Timeout:  20 * time.Second,
			Retry: model.RetryConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     4 * time.Second,
			},
		},
		Search: model.SearchTaskConfig{Temperature: 0.3, MaxTokens: 500},
		Answer: model.AnswerTaskConfig{Temperature: 0.7, MaxTokens: 300},
		Chat:   model.ChatTaskConfig{Temperature: 0.7, MaxTokens: 500},
		Conversation: model.ConversationConfig{
			Store:            model.StoreMemory,
			TTL:              30 * time.Minute,
			MaxTurns:         20,
			MaxHistoryTokens: 3000,
		},
	}
}

type options struct {
	repo      model.ConversationRepository
	chatModel einomodel.BaseChatModel
	pricing   model.PricingTable
}

// Option customizes a Client.
type Option func(*options)

// WithRepository stores session transcripts in repo instead of process memory.
func WithRepository(repo model.ConversationRepository) Option {
	return func(o *options) { o.repo = repo }
}

// WithChatModel uses chatModel instead of building one from the provider config.
func WithChatModel(chatModel einomodel.BaseChatModel) Option {
	return func(o *options) { o.chatModel = chatModel }
}

// WithPricing merges table over the built-in prices.
func WithPricing(table model.PricingTable) Option {
	return func(o *options) { o.pricing = table }
}
