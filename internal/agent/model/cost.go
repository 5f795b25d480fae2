package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errx "github.com/property-assistant/server/internal/core/error"
)

// ModelPricing defines USD cost per token for input/output.
type ModelPricing struct {
	InputPerToken  decimal.Decimal
	OutputPerToken decimal.Decimal
}

// PerMillion builds a ModelPricing from the per-1M-token prices providers publish.
func PerMillion(input, output string) ModelPricing {
	m := decimal.NewFromInt(1_000_000)
	return ModelPricing{
		InputPerToken:  decimal.RequireFromString(input).Div(m),
		OutputPerToken: decimal.RequireFromString(output).Div(m),
	}
}

// PricingTable looks up pricing by exact model id.
type PricingTable map[string]ModelPricing

// DefaultPricing returns a fresh copy of the built-in price table.
func DefaultPricing() PricingTable {
	return PricingTable{
		// Groq LLaMA
		"llama-3.1-70b-versatile": PerMillion("0.59", "0.79"),
		"llama-3.3-70b-versatile": PerMillion("0.59", "0.79"),
		"llama-3.1-8b-instant":    PerMillion("0.05", "0.08"),
		// Gemini, standard text
		"gemini-2.5-flash":      PerMillion("0.30", "2.50"),
		"gemini-2.5-flash-lite": PerMillion("0.10", "0.40"),
	}
}

// Lookup returns pricing for modelID or a config error.
func (t PricingTable) Lookup(modelID string) (ModelPricing, error) {
	p, ok := t[modelID]
	if !ok {
		return ModelPricing{}, errx.Config(fmt.Sprintf("no pricing for model %q", modelID))
	}
	return p, nil
}

// EstimateCost converts token usage to a UsageReport. It never silently prices
// an unknown model at zero.
func (t PricingTable) EstimateCost(modelID string, promptTokens, completionTokens int) (UsageReport, error) {
	if promptTokens < 0 || completionTokens < 0 {
		return UsageReport{}, errx.Config(fmt.Sprintf("negative token count (%d, %d)", promptTokens, completionTokens))
	}
	p, err := t.Lookup(modelID)
	if err != nil {
		return UsageReport{}, err
	}
	in := p.InputPerToken.Mul(decimal.NewFromInt(int64(promptTokens)))
	out := p.OutputPerToken.Mul(decimal.NewFromInt(int64(completionTokens)))
	return UsageReport{
		Model:            modelID,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		InputCost:        in,
		OutputCost:       out,
		Cost:             in.Add(out),
	}, nil
}

// Merge returns a new table with overrides applied on top of t.
func (t PricingTable) Merge(overrides PricingTable) PricingTable {
	merged := make(PricingTable, len(t)+len(overrides))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// ParsePricingOverrides parses "in/out" per-token prices keyed by model id.
func ParsePricingOverrides(raw map[string]string) (PricingTable, error) {
	table := make(PricingTable, len(raw))
	for modelID, price := range raw {
		modelID = strings.TrimSpace(modelID)
		parts := strings.Split(price, "/")
		if modelID == "" || len(parts) != 2 {
			return nil, errx.Config(fmt.Sprintf("invalid pricing override %q=%q", modelID, price))
		}
		in, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, errx.Config(fmt.Sprintf("invalid input price for %q: %v", modelID, err))
		}
		out, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, errx.Config(fmt.Sprintf("invalid output price for %q: %v", modelID, err))
		}
		if in.IsNegative() || out.IsNegative() {
			return nil, errx.Config(fmt.Sprintf("negative price for %q", modelID))
		}
		table[modelID] = ModelPricing{InputPerToken: in, OutputPerToken: out}
	}
	return table, nil
}

// UsageReport is the size and cost of one completed API call.
type UsageReport struct {
	Model            string          `json:"model"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	TotalTokens      int             `json:"total_tokens"`
	InputCost        decimal.Decimal `json:"input_cost"`
	OutputCost       decimal.Decimal `json:"output_cost"`
	Cost             decimal.Decimal `json:"cost"`
}

// Tally accumulates usage over a session. The zero value is ready to use.
type Tally struct {
	Calls  int             `json:"calls"`
	Tokens int             `json:"tokens"`
	Cost   decimal.Decimal `json:"cost"`
}

// Add returns the tally with u folded in.
func (t Tally) Add(u UsageReport) Tally {
	return Tally{
		Calls:  t.Calls + 1,
		Tokens: t.Tokens + u.TotalTokens,
		Cost:   t.Cost.Add(u.Cost),
	}
}
