package cachemanager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newStore() *InMemoryCacheManager[string, int] {
	return NewInMemoryCacheManager[string, int]("rt", DefaultExpiration, DefaultCleanupInterval)
}

func TestReadThroughCache_ComputesOnceOnHit(t *testing.T) {
	ctx := context.Background()
	calls := 0
	fn := func(ctx context.Context, input string) (int, error) {
		calls++
		return len(input), nil
	}
	rt := NewReadThroughCache[string, int, string](newStore(), fn, DefaultExpiration, false)

	v, err := rt.Get(ctx, "k", "hello")
	require.NoError(t, err)
	require.Equal(t, 5, v)

	v, err = rt.Get(ctx, "k", "hello")
	require.NoError(t, err)
	require.Equal(t, 5, v)
	require.Equal(t, 1, calls)
	require.Equal(t, Stats{Hits: 1, Misses: 1}, rt.Stats())
}

func TestReadThroughCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	calls := 0
	fn := func(ctx context.Context, input string) (int, error) {
		calls++
		return 0, errors.New("boom")
	}
	store := newStore()
	rt := NewReadThroughCache[string, int, string](store, fn, DefaultExpiration, true)

	_, err := rt.Get(ctx, "k", "x")
	require.Error(t, err)
	_, err = rt.Get(ctx, "k", "x")
	require.Error(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, 0, store.Len())
}

func TestReadThroughCache_SharesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	var calls atomic.Int32
	fn := func(ctx context.Context, input string) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}
	rt := NewReadThroughCache[string, int, string](newStore(), fn, DefaultExpiration, false)

	const callers = 4
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := rt.Get(ctx, "k", "x")
			require.NoError(t, err)
			results[i] = v
		}()
	}

	require.Eventually(t, func() bool {
		return rt.Stats().Shared == callers-1
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, []int{42, 42, 42, 42}, results)
}

func TestReadThroughCache_WaiterHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	fn := func(ctx context.Context, input string) (int, error) {
		close(started)
		<-release
		return 1, nil
	}
	rt := NewReadThroughCache[string, int, string](newStore(), fn, DefaultExpiration, false)

	go func() { _, _ = rt.Get(context.Background(), "k", "x") }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := rt.Get(ctx, "k", "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadThroughCache_AdmitFiltersStores(t *testing.T) {
	ctx := context.Background()
	calls := 0
	fn := func(ctx context.Context, input string) (int, error) {
		calls++
		return len(input), nil
	}
	store := newStore()
	rt := NewReadThroughCache[string, int, string](store, fn, DefaultExpiration, false).
		Admit(func(v int) bool { return v%2 == 0 })

	for range 2 {
		v, err := rt.Get(ctx, "odd", "abc")
		require.NoError(t, err)
		require.Equal(t, 3, v, "rejected values are still returned")
	}
	require.Equal(t, 2, calls)
	require.Equal(t, 0, store.Len())

	for range 2 {
		v, err := rt.Get(ctx, "even", "ab")
		require.NoError(t, err)
		require.Equal(t, 2, v)
	}
	require.Equal(t, 3, calls)
	require.Equal(t, 1, store.Len())
	require.Equal(t, Stats{Hits: 1, Misses: 3}, rt.Stats())
}
