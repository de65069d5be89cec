package calendar

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
)

// TableStore is an optional second cache tier shared between processes.
// LoadTable returns (nil, nil) on a miss.
type TableStore interface {
	LoadTable(ctx context.Context, method EphemerisMethod, year int) (*TermTable, error)
	SaveTable(ctx context.Context, table *TermTable) error
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Entries      int   `json:"entries"`
	Hits         int64 `json:"hits"`
	Misses       int64 `json:"misses"`
	StoreHits    int64 `json:"store_hits"`
	Computations int64 `json:"computations"`
}

// CacheEvent names what happened on one Table call.
type CacheEvent string

const (
	EventHit      CacheEvent = "hit"
	EventMiss     CacheEvent = "miss"
	EventStoreHit CacheEvent = "store_hit"
	EventCompute  CacheEvent = "compute"
)

type tableKey struct {
	method EphemerisMethod
	year   int
}

// SolarTermCache memoizes resolved TermTables per (method, year).  It is a
// read-through cache safe for concurrent use; concurrent misses on one key
// share a single computation.  Returned tables are shared and must not be
// modified.
type SolarTermCache struct {
	mu        sync.RWMutex
	tables    map[tableKey]*TermTable
	resolvers map[EphemerisMethod]*Resolver
	group     singleflight.Group

	store    TableStore
	logger   logging.Logger
	observer func(CacheEvent)

	hits, misses, storeHits, computations atomic.Int64
}

// CacheOption configures a SolarTermCache.
type CacheOption func(*SolarTermCache)

// WithTableStore attaches a shared store consulted on every local miss.
func WithTableStore(s TableStore) CacheOption {
	return func(c *SolarTermCache) { c.store = s }
}

// WithCacheLogger sets the logger used for store failures.
func WithCacheLogger(l logging.Logger) CacheOption {
	return func(c *SolarTermCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCacheObserver registers a callback invoked for every cache event.  It
// runs on the caller's goroutine and must not block.
func WithCacheObserver(fn func(CacheEvent)) CacheOption {
	return func(c *SolarTermCache) { c.observer = fn }
}

// WithResolver registers a resolver, replacing the default for its method.
func WithResolver(r *Resolver) CacheOption {
	return func(c *SolarTermCache) { c.resolvers[r.Method()] = r }
}

// NewSolarTermCache creates an empty cache with resolvers for every
// ephemeris method.
func NewSolarTermCache(opts ...CacheOption) *SolarTermCache {
	c := &SolarTermCache{
		tables: make(map[tableKey]*TermTable),
		resolvers: map[EphemerisMethod]*Resolver{
			MethodVSOP87:       NewResolver(vsop87{}),
			MethodLowPrecision: NewResolver(lowPrecision{}),
		},
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolver returns the resolver for a method.
func (c *SolarTermCache) Resolver(method EphemerisMethod) (*Resolver, error) {
	if method == "" {
		method = MethodVSOP87
	}
	r, ok := c.resolvers[method]
	if !ok {
		_, err := NewEphemeris(method)
		return nil, err
	}
	return r, nil
}

// Table returns the term table of a civil year, computing it on first use.
func (c *SolarTermCache) Table(ctx context.Context, method EphemerisMethod, year int) (*TermTable, error) {
	r, err := c.Resolver(method)
	if err != nil {
		return nil, err
	}
	key := tableKey{method: r.Method(), year: year}

	c.mu.RLock()
	tt, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		c.notify(EventHit)
		return tt, nil
	}
	c.misses.Add(1)
	c.notify(EventMiss)

	v, err, _ := c.group.Do(fmt.Sprintf("%s:%d", key.method, key.year), func() (interface{}, error) {
		c.mu.RLock()
		existing, ok := c.tables[key]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		if t := c.loadFromStore(ctx, key); t != nil {
			c.storeHits.Add(1)
			c.notify(EventStoreHit)
			c.insert(key, t)
			return t, nil
		}

		c.computations.Add(1)
		c.notify(EventCompute)
		t, err := r.Table(year)
		if err != nil {
			return nil, err
		}
		c.insert(key, t)
		c.saveToStore(ctx, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TermTable), nil
}

func (c *SolarTermCache) notify(e CacheEvent) {
	if c.observer != nil {
		c.observer(e)
	}
}

func (c *SolarTermCache) insert(key tableKey, t *TermTable) {
	c.mu.Lock()
	if _, ok := c.tables[key]; !ok {
		c.tables[key] = t
	}
	c.mu.Unlock()
}

func (c *SolarTermCache) loadFromStore(ctx context.Context, key tableKey) *TermTable {
	if c.store == nil {
		return nil
	}
	t, err := c.store.LoadTable(ctx, key.method, key.year)
	if err != nil {
		c.logger.Warn("solar term store load failed",
			logging.String("method", string(key.method)),
			logging.Int("year", key.year),
			logging.Err(err))
		return nil
	}
	if t == nil || t.Method != key.method || t.Year != key.year || len(t.Terms) != SolarTermCount {
		return nil
	}
	return t
}

func (c *SolarTermCache) saveToStore(ctx context.Context, t *TermTable) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveTable(ctx, t); err != nil {
		c.logger.Warn("solar term store save failed",
			logging.String("method", string(t.Method)),
			logging.Int("year", t.Year),
			logging.Err(err))
	}
}

// Warm resolves the tables of years for method ahead of first use and
// returns the first failure.
func (c *SolarTermCache) Warm(ctx context.Context, method EphemerisMethod, years ...int) error {
	for _, y := range years {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := c.Table(ctx, method, y); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate drops every cached table of a year, for all methods.
func (c *SolarTermCache) Invalidate(year int) {
	c.mu.Lock()
	for k := range c.tables {
		if k.year == year {
			delete(c.tables, k)
		}
	}
	c.mu.Unlock()
}

// Reset drops all cached tables and zeroes the counters.
func (c *SolarTermCache) Reset() {
	c.mu.Lock()
	c.tables = make(map[tableKey]*TermTable)
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
	c.storeHits.Store(0)
	c.computations.Store(0)
}

// Stats returns the current counters.
func (c *SolarTermCache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.tables)
	c.mu.RUnlock()
	return CacheStats{
		Entries:      n,
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		StoreHits:    c.storeHits.Load(),
		Computations: c.computations.Load(),
	}
}

//Personal.AI order the ending
