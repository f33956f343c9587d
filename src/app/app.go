package app

import (
	"context"
	"errors"
	"fmt"

	"chefbot/src"
	"chefbot/src/catalog"
	"chefbot/src/conversation"
	"chefbot/src/line"
	"chefbot/src/llm"
	"chefbot/src/logger"
	"chefbot/src/scraper"
	"chefbot/src/storage"
)

// App holds the wired chatbot stack
type App struct {
	Config     *src.Config
	Memo       *storage.MemoStore
	Sessions   storage.DishSessions
	Scraper    *scraper.KruaScraper
	Categories *catalog.CategoryCache
	Dispatcher *conversation.Dispatcher
	Health     map[string]line.Pinger

	closers []func() error
}

// New builds every component from config. Close releases what was opened, also on error.
func New(ctx context.Context, config *src.Config) (*App, error) {
	a := &App{Config: config, Health: map[string]line.Pinger{}}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	log := logger.With("app")
	cfg := a.Config

	memo, err := storage.OpenMemoStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open memo store: %w", err)
	}
	a.Memo = memo
	a.Health["memo"] = memo
	a.closers = append(a.closers, memo.Close)
	log.Info().Str("driver", cfg.Store.Driver).Msg("Memo store ready")

	switch cfg.Session.Backend {
	case "redis":
		redis, err := storage.NewRedisStorage(ctx, cfg.Session.RedisURL, "chefbot:dishes:")
		if err != nil {
			return fmt.Errorf("failed to connect session redis: %w", err)
		}
		a.closers = append(a.closers, redis.Close)
		a.Health["sessions"] = redis
		a.Sessions = storage.NewRedisDishSessions(redis, cfg.Session.TTL)
	default:
		a.Sessions = storage.NewMemoryDishSessions()
	}
	log.Info().Str("backend", cfg.Session.Backend).Msg("Dish sessions ready")

	a.Scraper = scraper.NewKruaScraper(cfg.Scraper)
	a.closers = append(a.closers, a.Scraper.Close)
	a.Categories = catalog.NewCategoryCache(a.Scraper, cfg.Scraper.Timeout)

	generator, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create chat model: %w", err)
	}
	chef := llm.NewChefModel(generator, cfg.LLM.Timeout)
	if cfg.LLM.Provider == "ollama" {
		probe, err := llm.NewOllamaProbe(cfg.LLM)
		if err != nil {
			return err
		}
		a.Health["llm"] = probe
	}
	log.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("Chat model ready")

	dialogue, err := conversation.LoadDialogue(cfg.Dialogue.ConfigPath)
	if err != nil {
		return err
	}

	a.Dispatcher, err = conversation.NewDispatcher(conversation.Deps{
		Memo:       memo,
		Categories: a.Categories,
		Dishes:     a.Scraper,
		Sessions:   a.Sessions,
		Answerer:   chef,
	}, dialogue, cfg.Scraper.Timeout)
	return err
}

// Server wraps the dispatcher in the LINE webhook server
func (a *App) Server() *line.Server {
	return line.NewServer(a.Config.Server, a.Config.Line.ChannelSecret, line.Deps{
		Handler:      a.Dispatcher,
		Replier:      line.NewClient(a.Config.Line),
		Health:       a.Health,
		FallbackText: a.Dispatcher.Dialogue().Messages.SystemError,
	})
}

// Close releases resources in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
