package src

import (
	"chefbot/src/model"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Log      model.LogConfig      `envconfig:"LOG"`
	Server   model.ServerConfig   `envconfig:"SERVER"`
	Line     model.LineConfig     `envconfig:"LINE"`
	LLM      model.LLMConfig      `envconfig:"LLM"`
	Scraper  model.ScraperConfig  `envconfig:"SCRAPER"`
	Store    model.StoreConfig    `envconfig:"STORE"`
	Session  model.SessionConfig  `envconfig:"SESSION"`
	Dialogue model.DialogueConfig `envconfig:"DIALOGUE"`
}

// LoadConfig reads an optional .env file and then the process environment
func LoadConfig(envFiles ...string) (*Config, error) {
	// a missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load(envFiles...)

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Session.RedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}

	return nil
}
