package catalog

import (
	"context"
	"sync"
	"time"

	"chefbot/src/errs"

	"golang.org/x/sync/singleflight"
)

// Source fetches the full category set from the recipe site
type Source interface {
	FetchCategories(ctx context.Context) (*Categories, error)
}

// CategoryCache loads the category set once per process and serves it from memory afterwards.
// A failed load is not cached; the next call fetches again. Nothing ever invalidates a successful load
// except Reset.
type CategoryCache struct {
	source  Source
	timeout time.Duration

	mu     sync.RWMutex
	loaded *Categories

	group singleflight.Group
}

// NewCategoryCache creates a cache in front of source. timeout bounds a single fetch; zero means no bound.
func NewCategoryCache(source Source, timeout time.Duration) *CategoryCache {
	return &CategoryCache{
		source:  source,
		timeout: timeout,
	}
}

// Categories returns the cached set, fetching it on the first call
func (c *CategoryCache) Categories(ctx context.Context) (*Categories, error) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded != nil {
		return loaded, nil
	}

	ch := c.group.DoChan("categories", func() (any, error) {
		c.mu.RLock()
		loaded := c.loaded
		c.mu.RUnlock()
		if loaded != nil {
			return loaded, nil
		}

		// shared by every waiting caller, so one caller's cancellation must not fail the others
		fetchCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
			defer cancel()
		}

		categories, err := c.source.FetchCategories(fetchCtx)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCategoryFetch, "catalog.Categories", err)
		}
		if categories == nil {
			categories = NewCategories()
		}

		c.mu.Lock()
		if c.loaded == nil {
			c.loaded = categories
		}
		loaded = c.loaded
		c.mu.Unlock()

		return loaded, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Categories), nil
	case <-ctx.Done():
		return nil, errs.Wrap(errs.ErrCategoryFetch, "catalog.Categories", ctx.Err())
	}
}

// Loaded reports whether a category set is cached
func (c *CategoryCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded != nil
}

// Reset drops the cached set so the next call fetches again
func (c *CategoryCache) Reset() {
	c.mu.Lock()
	c.loaded = nil
	c.mu.Unlock()
}
