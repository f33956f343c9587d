// Package scraper renders the krua.co recipe pages in a headless browser and extracts categories and dishes.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"chefbot/src/catalog"
	"chefbot/src/errs"
	"chefbot/src/logger"
	"chefbot/src/model"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// renderFunc returns the HTML of url after client-side rendering; waitFor, when set, is a selector that must appear
type renderFunc func(ctx context.Context, url, waitFor string) (string, error)

// KruaScraper fetches categories and dishes. One browser process is shared by all calls.
type KruaScraper struct {
	config model.ScraperConfig
	render renderFunc
	log    zerolog.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewKruaScraper creates a scraper; the browser is launched on first use
func NewKruaScraper(config model.ScraperConfig) *KruaScraper {
	s := &KruaScraper{
		config: config,
		log:    logger.With("scraper"),
	}
	s.render = s.renderPage
	return s
}

// FetchCategories loads the recipe index and reads the category filter
func (s *KruaScraper) FetchCategories(ctx context.Context) (*catalog.Categories, error) {
	start := time.Now()
	page, err := s.render(ctx, s.config.BaseURL, "select."+categorySelectClass)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCategoryFetch, "scraper.FetchCategories", err)
	}

	categories, err := ParseCategories(strings.NewReader(page))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCategoryFetch, "scraper.FetchCategories", err)
	}

	s.log.Info().
		Int("categories", categories.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched recipe categories")
	return categories, nil
}

// FetchDishes loads the first listing page of a category
func (s *KruaScraper) FetchDishes(ctx context.Context, token string) ([]model.Dish, error) {
	start := time.Now()
	target, err := s.dishesURL(token)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDishFetch, "scraper.FetchDishes", err)
	}

	page, err := s.render(ctx, target, "")
	if err != nil {
		return nil, errs.Wrap(errs.ErrDishFetch, "scraper.FetchDishes", err)
	}

	dishes, skipped, err := ParseDishes(strings.NewReader(page))
	if err != nil {
		return nil, errs.Wrap(errs.ErrDishFetch, "scraper.FetchDishes", err)
	}
	if skipped > 0 {
		s.log.Warn().Str("token", token).Int("skipped", skipped).Msg("Dish name or description not found")
	}

	s.log.Info().
		Str("token", token).
		Int("dishes", len(dishes)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched dishes")
	return dishes, nil
}

func (s *KruaScraper) dishesURL(token string) (string, error) {
	u, err := url.Parse(s.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid scraper base URL: %w", err)
	}
	q := u.Query()
	q.Set("filter", token)
	q.Set("page", "1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *KruaScraper) connect(ctx context.Context) (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().
		Headless(s.config.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage")
	if s.config.BrowserBin != "" {
		l = l.Bin(s.config.BrowserBin)
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	s.browser = browser
	s.launcher = l
	s.log.Info().Bool("headless", s.config.Headless).Msg("Browser launched")
	return browser, nil
}

func (s *KruaScraper) renderPage(ctx context.Context, target, waitFor string) (string, error) {
	browser, err := s.connect(ctx)
	if err != nil {
		return "", err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return "", fmt.Errorf("open %s: %w", target, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load: %w", err)
	}

	if waitFor != "" {
		if _, err := page.Element(waitFor); err != nil {
			return "", fmt.Errorf("wait for %s: %w", waitFor, err)
		}
	} else if err := page.WaitStable(time.Second); err != nil {
		return "", fmt.Errorf("wait stable: %w", err)
	}

	return page.HTML()
}

// Close shuts down the browser if it was launched
func (s *KruaScraper) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.launcher.Cleanup()
	s.browser = nil
	s.launcher = nil
	return err
}
