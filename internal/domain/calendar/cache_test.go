package calendar

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type memoryStore struct {
	mu      sync.Mutex
	tables  map[tableKey]*TermTable
	loadErr error
	saveErr error
	saves   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tables: make(map[tableKey]*TermTable)}
}

func (m *memoryStore) LoadTable(_ context.Context, method EphemerisMethod, year int) (*TermTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.tables[tableKey{method, year}], nil
}

func (m *memoryStore) SaveTable(_ context.Context, t *TermTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tables[tableKey{t.Method, t.Year}] = t
	return nil
}

func TestSolarTermCache_ReadThrough(t *testing.T) {
	c := NewSolarTermCache()
	ctx := context.Background()

	a, err := c.Table(ctx, MethodVSOP87, 2024)
	require.NoError(t, err)
	b, err := c.Table(ctx, MethodVSOP87, 2024)
	require.NoError(t, err)
	assert.Same(t, a, b)

	s := c.Stats()
	assert.Equal(t, 1, s.Entries)
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, int64(1), s.Computations)
}

func TestSolarTermCache_KeyedByMethod(t *testing.T) {
	c := NewSolarTermCache()
	ctx := context.Background()

	v, err := c.Table(ctx, MethodVSOP87, 2000)
	require.NoError(t, err)
	l, err := c.Table(ctx, MethodLowPrecision, 2000)
	require.NoError(t, err)
	assert.NotSame(t, v, l)
	assert.Equal(t, MethodLowPrecision, l.Method)
	assert.Equal(t, 2, c.Stats().Entries)

	_, err = c.Table(ctx, EphemerisMethod("de440"), 2000)
	assert.Error(t, err)
}

func TestSolarTermCache_InvalidateAndReset(t *testing.T) {
	c := NewSolarTermCache()
	ctx := context.Background()
	_, _ = c.Table(ctx, MethodVSOP87, 2023)
	_, _ = c.Table(ctx, MethodLowPrecision, 2023)
	_, _ = c.Table(ctx, MethodVSOP87, 2024)

	c.Invalidate(2023)
	assert.Equal(t, 1, c.Stats().Entries)

	c.Reset()
	assert.Equal(t, CacheStats{}, c.Stats())
}

func TestSolarTermCache_Warm(t *testing.T) {
	c := NewSolarTermCache()
	require.NoError(t, c.Warm(context.Background(), MethodLowPrecision, 2023, 2024))
	s := c.Stats()
	assert.Equal(t, 2, s.Entries)
	assert.Equal(t, int64(2), s.Computations)

	assert.Error(t, c.Warm(context.Background(), EphemerisMethod("de440"), 2024))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Warm(ctx, MethodLowPrecision, 2025), context.Canceled)
	assert.Equal(t, 2, c.Stats().Entries)
}

func TestSolarTermCache_ConcurrentMissesComputeOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewSolarTermCache()
	ctx := context.Background()

	const workers = 16
	results := make([]*TermTable, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tt, err := c.Table(ctx, MethodVSOP87, 1988)
			if err == nil {
				results[i] = tt
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, int64(1), c.Stats().Computations)
}

func TestSolarTermCache_StoreTier(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	first := NewSolarTermCache(WithTableStore(store))
	tt, err := first.Table(ctx, MethodVSOP87, 2030)
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)

	second := NewSolarTermCache(WithTableStore(store))
	got, err := second.Table(ctx, MethodVSOP87, 2030)
	require.NoError(t, err)
	assert.Same(t, tt, got)
	s := second.Stats()
	assert.Equal(t, int64(1), s.StoreHits)
	assert.Equal(t, int64(0), s.Computations)
}

func TestSolarTermCache_StoreFailuresAreIgnored(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.loadErr = errors.New("connection refused")
	store.saveErr = errors.New("connection refused")

	c := NewSolarTermCache(WithTableStore(store))
	tt, err := c.Table(ctx, MethodVSOP87, 2031)
	require.NoError(t, err)
	assert.Equal(t, 2031, tt.Year)
	assert.Equal(t, int64(1), c.Stats().Computations)
}

func TestSolarTermCache_RejectsMismatchedStoreEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.tables[tableKey{MethodVSOP87, 2032}] = &TermTable{Method: MethodVSOP87, Year: 1999}

	c := NewSolarTermCache(WithTableStore(store))
	tt, err := c.Table(ctx, MethodVSOP87, 2032)
	require.NoError(t, err)
	assert.Equal(t, 2032, tt.Year)
	assert.Len(t, tt.Terms, SolarTermCount)
}

func TestSolarTermCache_Observer(t *testing.T) {
	var mu sync.Mutex
	var events []CacheEvent
	store := newMemoryStore()
	c := NewSolarTermCache(WithTableStore(store), WithCacheObserver(func(e CacheEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))
	ctx := context.Background()

	_, err := c.Table(ctx, MethodLowPrecision, 1990)
	require.NoError(t, err)
	_, err = c.Table(ctx, MethodLowPrecision, 1990)
	require.NoError(t, err)

	fresh := NewSolarTermCache(WithTableStore(store), WithCacheObserver(func(e CacheEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))
	_, err = fresh.Table(ctx, MethodLowPrecision, 1990)
	require.NoError(t, err)

	assert.Equal(t, []CacheEvent{EventMiss, EventCompute, EventHit, EventMiss, EventStoreHit}, events)
}

//Personal.AI order the ending
