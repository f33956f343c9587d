package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"chefbot/src/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	calls   atomic.Int32
	release chan struct{}
	result  *Categories
	errs    []error
}

func (f *fakeSource) FetchCategories(ctx context.Context) (*Categories, error) {
	n := f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if int(n) <= len(f.errs) && f.errs[n-1] != nil {
		return nil, f.errs[n-1]
	}
	return f.result, nil
}

func sampleCategories() *Categories {
	c := NewCategories()
	c.Add("ข้าว", "c1")
	c.Add("ขนม", "c2")
	return c
}

func TestCategoriesKeepInsertionOrder(t *testing.T) {
	c := NewCategories()
	c.Add("อาหารไทย", "thai")
	c.Add("ขนมหวาน", "dessert")
	c.Add("อาหารไทย", "thai-v2")

	assert.Equal(t, []string{"อาหารไทย", "ขนมหวาน"}, c.Labels())
	assert.Equal(t, 2, c.Len())

	token, ok := c.Token("อาหารไทย")
	assert.True(t, ok)
	assert.Equal(t, "thai-v2", token)

	_, ok = c.Token("ไม่มี")
	assert.False(t, ok)
}

func TestCategoriesNilIsEmpty(t *testing.T) {
	var c *Categories
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Labels())
}

func TestCategoryCacheFetchesOnce(t *testing.T) {
	src := &fakeSource{result: sampleCategories()}
	cache := NewCategoryCache(src, time.Second)

	for i := 0; i < 3; i++ {
		got, err := cache.Categories(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"ข้าว", "ขนม"}, got.Labels())
	}
	assert.EqualValues(t, 1, src.calls.Load())
	assert.True(t, cache.Loaded())
}

func TestCategoryCacheConcurrentFirstCallsShareOneFetch(t *testing.T) {
	src := &fakeSource{result: sampleCategories(), release: make(chan struct{})}
	cache := NewCategoryCache(src, 5*time.Second)

	const callers = 32
	var wg sync.WaitGroup
	results := make([]*Categories, callers)
	errList := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errList[i] = cache.Categories(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.EqualValues(t, 1, src.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errList[i])
		assert.Same(t, results[0], results[i])
	}
}

func TestCategoryCacheDoesNotCacheFailures(t *testing.T) {
	boom := errors.New("chrome crashed")
	src := &fakeSource{result: sampleCategories(), errs: []error{boom}}
	cache := NewCategoryCache(src, time.Second)

	_, err := cache.Categories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrCategoryFetch)
	assert.ErrorIs(t, err, boom)
	assert.False(t, cache.Loaded())

	got, err := cache.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCategoryCacheTimeoutIsFetchError(t *testing.T) {
	src := &fakeSource{result: sampleCategories(), release: make(chan struct{})}
	cache := NewCategoryCache(src, 20*time.Millisecond)

	_, err := cache.Categories(context.Background())
	assert.ErrorIs(t, err, errs.ErrCategoryFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, cache.Loaded())
}

func TestCategoryCacheCallerCancelDoesNotAbortSharedFetch(t *testing.T) {
	src := &fakeSource{result: sampleCategories(), release: make(chan struct{})}
	cache := NewCategoryCache(src, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Categories(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, errs.ErrCategoryFetch)

	close(src.release)
	require.Eventually(t, cache.Loaded, time.Second, time.Millisecond)

	got, err := cache.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestCategoryCacheReset(t *testing.T) {
	src := &fakeSource{result: sampleCategories()}
	cache := NewCategoryCache(src, time.Second)

	_, err := cache.Categories(context.Background())
	require.NoError(t, err)
	cache.Reset()
	assert.False(t, cache.Loaded())

	_, err = cache.Categories(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}
