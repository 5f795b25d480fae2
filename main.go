package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/property-assistant/server/internal/agent/assistant"
	"github.com/property-assistant/server/internal/agent/listings"
	"github.com/property-assistant/server/internal/agent/model"
	"github.com/property-assistant/server/internal/agent/repo"
	"github.com/property-assistant/server/internal/core"
	errx "github.com/property-assistant/server/internal/core/error"
	logx "github.com/property-assistant/server/pkg/logger"
	pkgredis "github.com/property-assistant/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config

	// Assistant configs
	Assistant assistant.Config
}

func main() {
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}
	logx.Init(logx.LoggerOpts{Environment: envCfg.Environment, Level: envCfg.LogLevel})

	var opts []assistant.Option
	if strings.EqualFold(envCfg.Assistant.Conversation.Store, model.StoreRedis) {
		rdb, err := envCfg.Redis.New(ctx)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
		}
		defer rdb.Close()
		logx.Info().Msg("Connected to Redis successfully")
		opts = append(opts, assistant.WithRepository(
			repo.NewRedisConversationRepository(rdb, envCfg.Assistant.Conversation.TTL),
		))
	}

	client, err := assistant.New(ctx, envCfg.Assistant, opts...)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build assistant")
	}

	catalog := listings.Default()

	// ====================================================
	// Natural-language search
	query := "3 bedroom house under 500k in Austin"
	fmt.Printf("\nSearch: %q\n", query)
	if res, err := client.ParseSearchQuery(ctx, query); err != nil {
		fmt.Printf("  error: %s\n", errx.UserMessage(err))
	} else {
		fmt.Printf("  filters: %s\n", describeFilters(res.Filters))
		for _, p := range catalog.Search(res.Filters, listings.SortPriceAsc) {
			fmt.Printf("  #%d %s  $%d  %dbd/%.1fba  %s\n", p.ID, p.Title, p.Price, p.Bedrooms, p.Bathrooms, p.Address)
		}
		fmt.Printf("  cost: $%s (%d tokens)\n", res.Usage.Cost.StringFixed(6), res.Usage.TotalTokens)
	}

	// ====================================================
	// Property Q&A
	if p, err := catalog.Get(1); err == nil {
		question := "Is this a good place for someone who works downtown?"
		fmt.Printf("\nQ&A on #%d: %q\n", p.ID, question)
		if res, err := client.AnswerPropertyQuestion(ctx, p, question); err != nil {
			fmt.Printf("  error: %s\n", errx.UserMessage(err))
		} else {
			fmt.Printf("  %s\n  cost: $%s\n", res.Answer, res.Usage.Cost.StringFixed(6))
		}
	}

	// ====================================================
	// Chat session
	session := client.NewSession(ctx)
	defer session.Close()

	turns := []string{
		"Hi! I'm relocating to Austin with two kids.",
		"What should I look for in a neighborhood?",
		"How much house can I afford on 150k a year?",
	}
	for i, text := range turns {
		fmt.Printf("\nChat %d: %s\n", i+1, text)
		res, err := session.Chat(ctx, text)
		if err != nil {
			fmt.Printf("  error: %s\n", errx.UserMessage(err))
			continue
		}
		fmt.Printf("  %s\n", res.Response)

		// add slight delay between turns for readability
		time.Sleep(500 * time.Millisecond)
	}

	totals := session.Totals()
	fmt.Printf("\nSession %s: %d calls, %d tokens, $%s\n", session.ID(), totals.Calls, totals.Tokens, totals.Cost.StringFixed(6))
}

func describeFilters(f model.SearchFilters) string {
	if f.Empty() {
		return "(none)"
	}
	var parts []string
	if f.PriceMin != nil {
		parts = append(parts, fmt.Sprintf("priceMin=%d", *f.PriceMin))
	}
	if f.PriceMax != nil {
		parts = append(parts, fmt.Sprintf("priceMax=%d", *f.PriceMax))
	}
	if f.Bedrooms != nil {
		parts = append(parts, fmt.Sprintf("bedrooms>=%d", *f.Bedrooms))
	}
	if f.Bathrooms != nil {
		parts = append(parts, fmt.Sprintf("bathrooms>=%g", *f.Bathrooms))
	}
	if f.PropertyType != nil {
		parts = append(parts, "type="+string(*f.PropertyType))
	}
	if f.Location != nil {
		parts = append(parts, fmt.Sprintf("location=%q", *f.Location))
	}
	if f.SqftMin != nil {
		parts = append(parts, fmt.Sprintf("sqftMin=%d", *f.SqftMin))
	}
	if f.SqftMax != nil {
		parts = append(parts, fmt.Sprintf("sqftMax=%d", *f.SqftMax))
	}
	return strings.Join(parts, " ")
}
