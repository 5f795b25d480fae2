package model

import "time"

// ================ Config ================

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// DefaultModel is the Groq model the listing app ships with; it is always priced.
const DefaultModel = "llama-3.1-70b-versatile"

type ProviderConfig struct {
	Provider string        `envconfig:"LLM_PROVIDER" default:"groq"`
	APIKey   string        `envconfig:"LLM_API_KEY"`
	BaseURL  string        `envconfig:"LLM_BASE_URL"`
	Model    string        `envconfig:"LLM_MODEL" default:"llama-3.1-70b-versatile"`
	Timeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"20s"`
	Retry    RetryConfig
}

// RetryConfig bounds the backoff applied to timeouts and upstream failures.
// MaxRetries of zero disables retrying.
type RetryConfig struct {
	MaxRetries      int           `envconfig:"LLM_MAX_RETRIES" default:"2"`
	InitialInterval time.Duration `envconfig:"LLM_RETRY_INITIAL_INTERVAL" default:"500ms"`
	MaxInterval     time.Duration `envconfig:"LLM_RETRY_MAX_INTERVAL" default:"4s"`
}

// TaskConfig holds generation options for one assistant task.
type TaskConfig struct {
	Temperature float32
	MaxTokens   int
}

type SearchTaskConfig struct {
	Temperature float32 `envconfig:"SEARCH_TEMPERATURE" default:"0.3"`
	MaxTokens   int     `envconfig:"SEARCH_MAX_TOKENS" default:"500"`
}

type AnswerTaskConfig struct {
	Temperature float32 `envconfig:"ANSWER_TEMPERATURE" default:"0.7"`
	MaxTokens   int     `envconfig:"ANSWER_MAX_TOKENS" default:"300"`
}

type ChatTaskConfig struct {
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.7"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"500"`
}

func (c SearchTaskConfig) Task() TaskConfig { return TaskConfig(c) }
func (c AnswerTaskConfig) Task() TaskConfig { return TaskConfig(c) }
func (c ChatTaskConfig) Task() TaskConfig   { return TaskConfig(c) }

// Conversation stores accepted by CONVERSATION_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type ConversationConfig struct {
	Store            string        `envconfig:"CONVERSATION_STORE" default:"memory"`
	TTL              time.Duration `envconfig:"CONVERSATION_TTL" default:"30m"`
	MaxTurns         int           `envconfig:"CONVERSATION_MAX_TURNS" default:"20"`
	MaxHistoryTokens int           `envconfig:"CONVERSATION_MAX_HISTORY_TOKENS" default:"3000"`
}

type PricingConfig struct {
	// Overrides maps a model id to "inputPerToken/outputPerToken", e.g.
	// PRICING_OVERRIDES=llama-3.1-8b-instant:0.00000005/0.00000008
	Overrides map[string]string `envconfig:"PRICING_OVERRIDES"`
}
