package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// DefaultTableTTL keeps resolved tables for 30 days.  A term table never
// changes for a given method and year; the TTL only bounds memory.
const DefaultTableTTL = 30 * 24 * time.Hour

// SolarTermStore persists TermTables in redis as JSON.  It implements
// calendar.TableStore.
type SolarTermStore struct {
	client *Client
	prefix string
	ttl    time.Duration
}

var _ calendar.TableStore = (*SolarTermStore)(nil)

// StoreOption configures a SolarTermStore.
type StoreOption func(*SolarTermStore)

// WithKeyPrefix namespaces every key.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *SolarTermStore) { s.prefix = prefix }
}

// WithTTL sets the expiry of stored tables; zero keeps them forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *SolarTermStore) { s.ttl = ttl }
}

// NewSolarTermStore returns a store on client.
func NewSolarTermStore(client *Client, opts ...StoreOption) *SolarTermStore {
	s := &SolarTermStore{client: client, prefix: "saju:", ttl: DefaultTableTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the redis key of a table.
func (s *SolarTermStore) Key(method calendar.EphemerisMethod, year int) string {
	return fmt.Sprintf("%ssolarterm:%s:%d", s.prefix, method, year)
}

// LoadTable returns (nil, nil) when the key is absent.
func (s *SolarTermStore) LoadTable(ctx context.Context, method calendar.EphemerisMethod, year int) (*calendar.TermTable, error) {
	data, err := s.client.Get(ctx, s.Key(method, year)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "load solar term table")
	}
	var t calendar.TermTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode solar term table")
	}
	return &t, nil
}

// SaveTable writes a table under its (method, year) key.
func (s *SolarTermStore) SaveTable(ctx context.Context, t *calendar.TermTable) error {
	data, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode solar term table")
	}
	if err := s.client.Set(ctx, s.Key(t.Method, t.Year), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "save solar term table")
	}
	return nil
}

// DeleteYear removes the stored tables of a year for the given methods.
func (s *SolarTermStore) DeleteYear(ctx context.Context, year int, methods ...calendar.EphemerisMethod) (int64, error) {
	if len(methods) == 0 {
		return 0, nil
	}
	keys := make([]string, len(methods))
	for i, m := range methods {
		keys[i] = s.Key(m, year)
	}
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeCacheError, "delete solar term tables")
	}
	return n, nil
}

//Personal.AI order the ending
