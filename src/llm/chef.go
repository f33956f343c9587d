// Package llm answers free-form cooking questions with a chat model.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chefbot/src/errs"
	"chefbot/src/logger"
	"chefbot/src/model"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

// Generator is the part of an eino chat model ChefModel needs
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// NewChatModel builds the configured provider's chat model
func NewChatModel(ctx context.Context, config model.LLMConfig) (Generator, error) {
	switch config.Provider {
	case "ollama":
		cm, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: config.BaseURL,
			Model:   config.Model,
			Timeout: config.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %w", err)
		}
		return cm, nil

	case "openai":
		maxTokens := config.MaxTokens
		temperature := float32(config.Temperature)
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      config.APIKey,
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     config.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %w", err)
		}
		return cm, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// ChefModel answers a customer's question in the chef persona
type ChefModel struct {
	generator Generator
	timeout   time.Duration
	log       zerolog.Logger
}

// NewChefModel wraps generator; timeout bounds one answer, zero means no bound
func NewChefModel(generator Generator, timeout time.Duration) *ChefModel {
	return &ChefModel{
		generator: generator,
		timeout:   timeout,
		log:       logger.With("llm"),
	}
}

// Answer asks the model; name may be empty when the customer never registered one
func (c *ChefModel) Answer(ctx context.Context, question, name string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages, err := createChefTemplate(name != "").Format(ctx, map[string]any{
		"name":     name,
		"question": question,
	})
	if err != nil {
		return "", errs.Wrap(errs.ErrLLM, "llm.Answer", fmt.Errorf("error formatting prompt: %w", err))
	}

	start := time.Now()
	out, err := c.generator.Generate(ctx, messages)
	if err != nil {
		return "", errs.Wrap(errs.ErrLLM, "llm.Answer", err)
	}

	answer := strings.TrimSpace(out.Content)
	if answer == "" {
		return "", errs.Wrap(errs.ErrLLM, "llm.Answer", fmt.Errorf("empty model response"))
	}

	elapsed := time.Since(start)
	event := c.log.Info()
	if elapsed > 10*time.Second {
		event = c.log.Warn()
	}
	event.
		Int("question_length", len(question)).
		Int("answer_length", len(answer)).
		Dur("elapsed", elapsed).
		Msg("Model answered")

	return answer, nil
}
