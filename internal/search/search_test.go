package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/demolux/storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{UID: "1", Title: "Leather Tote", Category: "bags", Description: "<p>Vegetable-tanned <b>leather</b>.</p>"},
		{UID: "2", Title: "Weekend Duffle", Category: "bags", Description: "Waxed canvas with leather handles."},
		{UID: "3", Title: "Cashmere Scarf", Category: "accessories", Description: "Brushed cashmere."},
	}
}

func TestSearchRanksTitleMatchesFirst(t *testing.T) {
	idx := NewIndex(func(context.Context) ([]catalog.Product, error) { return sampleProducts(), nil })

	results, err := idx.Search(context.Background(), "Leather", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].Product.UID)
	assert.Equal(t, "2", results[1].Product.UID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchRequiresEveryTerm(t *testing.T) {
	idx := NewIndex(func(context.Context) ([]catalog.Product, error) { return sampleProducts(), nil })

	results, err := idx.Search(context.Background(), "bags canvas", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Product.UID)

	results, err = idx.Search(context.Background(), "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.False(t, idx.Loaded(), "blank queries must not trigger a load")
}

func TestSearchLimit(t *testing.T) {
	idx := NewIndex(func(context.Context) ([]catalog.Product, error) { return sampleProducts(), nil })
	results, err := idx.Search(context.Background(), "a", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestConcurrentFirstQueriesLoadOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	idx := NewIndex(func(context.Context) ([]catalog.Product, error) {
		calls.Add(1)
		<-release
		return sampleProducts(), nil
	})

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := idx.Search(context.Background(), "scarf", 5)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	_, err := idx.Search(context.Background(), "tote", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, idx.Loaded())
}

func TestCancelledFirstQueryDoesNotAbortSharedLoad(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	loadErr := make(chan error, 1)
	idx := NewIndex(func(ctx context.Context) ([]catalog.Product, error) {
		calls.Add(1)
		close(started)
		<-release
		loadErr <- ctx.Err()
		if _, ok := ctx.Deadline(); !ok {
			return nil, errors.New("load without deadline")
		}
		return sampleProducts(), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := idx.Search(ctx, "scarf", 5)
		firstErr <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	require.NoError(t, <-loadErr, "the load must outlive its first caller")
	require.Eventually(t, idx.Loaded, time.Second, 5*time.Millisecond)

	results, err := idx.Search(context.Background(), "scarf", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFailedLoadIsRetried(t *testing.T) {
	var calls int
	idx := NewIndex(func(context.Context) ([]catalog.Product, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("cms down")
		}
		return sampleProducts(), nil
	})

	_, err := idx.Search(context.Background(), "scarf", 5)
	require.Error(t, err)
	assert.False(t, idx.Loaded())

	results, err := idx.Search(context.Background(), "scarf", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	idx.Reset()
	assert.False(t, idx.Loaded())
}

func TestRefreshSwapsCatalogAndKeepsItOnFailure(t *testing.T) {
	products := sampleProducts()
	var fail bool
	idx := NewIndex(func(context.Context) ([]catalog.Product, error) {
		if fail {
			return nil, errors.New("cms down")
		}
		return products, nil
	})

	n, err := idx.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, idx.Loaded())

	products = append(products, catalog.Product{UID: "4", Title: "Silk Scarf", Category: "accessories"})
	n, err = idx.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	fail = true
	_, err = idx.Refresh(context.Background())
	require.Error(t, err)

	results, err := idx.Search(context.Background(), "scarf", 5)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
