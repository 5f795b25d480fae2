package gateway

import (
	"context"

	"github.com/cloudwego/eino/callbacks"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sashabaranov/go-openai"

	errx "github.com/property-assistant/server/internal/core/error"
)

// OpenAIChatModel adapts an OpenAI-compatible chat completion endpoint (Groq,
// OpenAI) to the eino chat model interface.
type OpenAIChatModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIChatModel builds the adapter. An empty baseURL keeps the client default.
func NewOpenAIChatModel(apiKey, baseURL, modelName string) *OpenAIChatModel {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIChatModel{
		client: openai.NewClientWithConfig(cfg),
		model:  modelName,
	}
}

func (m *OpenAIChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (out *schema.Message, err error) {
	options := einomodel.GetCommonOptions(&einomodel.Options{Model: &m.model}, opts...)
	req := m.buildRequest(in, options)
	conf := &einomodel.Config{Model: req.Model, MaxTokens: req.MaxTokens, Temperature: req.Temperature}

	ctx = callbacks.OnStart(ctx, &einomodel.CallbackInput{Messages: in, Config: conf})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errx.Malformed("no choices in response")
	}

	choice := resp.Choices[0]
	out = &schema.Message{
		Role:    schema.Assistant,
		Content: choice.Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(choice.FinishReason),
		},
	}

	var usage *einomodel.TokenUsage
	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 || resp.Usage.TotalTokens > 0 {
		out.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		usage = &einomodel.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	callbacks.OnEnd(ctx, &einomodel.CallbackOutput{Message: out, Config: conf, TokenUsage: usage})
	return out, nil
}

// Stream is not used by the assistant; it yields the full completion as a single chunk.
func (m *OpenAIChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	out, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{out}), nil
}

func (m *OpenAIChatModel) GetType() string {
	return "OpenAICompatible"
}

func (m *OpenAIChatModel) IsCallbacksEnabled() bool {
	return true
}

func (m *OpenAIChatModel) buildRequest(in []*schema.Message, options *einomodel.Options) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(in))
	for _, msg := range in {
		if msg == nil {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    m.model,
		Messages: messages,
	}
	if options.Model != nil && *options.Model != "" {
		req.Model = *options.Model
	}
	if options.Temperature != nil {
		req.Temperature = *options.Temperature
	}
	if options.MaxTokens != nil {
		req.MaxTokens = *options.MaxTokens
	}
	return req
}

var _ einomodel.BaseChatModel = (*OpenAIChatModel)(nil)
