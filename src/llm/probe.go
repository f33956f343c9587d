package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"chefbot/src/model"

	"github.com/ollama/ollama/api"
)

// OllamaProbe reports whether the Ollama server is up and has the configured model pulled
type OllamaProbe struct {
	client *api.Client
	model  string
}

func NewOllamaProbe(config model.LLMConfig) (*OllamaProbe, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", config.BaseURL, err)
	}
	return &OllamaProbe{
		client: api.NewClient(base, &http.Client{Timeout: 5 * time.Second}),
		model:  config.Model,
	}, nil
}

func (p *OllamaProbe) Ping(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama is not reachable: %w", err)
	}
	if _, err := p.client.Show(ctx, &api.ShowRequest{Model: p.model}); err != nil {
		return fmt.Errorf("model %s is not available: %w", p.model, err)
	}
	return nil
}
