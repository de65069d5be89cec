package redis

import (
	"github.com/turtacn/saju-engine/internal/config"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
)

// ConfigFrom maps the application redis section onto client parameters.
func ConfigFrom(rc config.RedisConfig) *RedisConfig {
	return &RedisConfig{
		Mode:         rc.Mode,
		Addr:         rc.Addr,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	}
}

// StoreOptionsFrom returns the store options of a cache section.
func StoreOptionsFrom(cc config.CacheConfig) []StoreOption {
	opts := []StoreOption{WithTTL(cc.TTL)}
	if cc.KeyPrefix != "" {
		opts = append(opts, WithKeyPrefix(cc.KeyPrefix))
	}
	return opts
}

// NewCacheTier connects to redis and returns the client together with the
// solar-term store built on it.  The caller owns the client.
func NewCacheTier(rc config.RedisConfig, cc config.CacheConfig, log logging.Logger) (*Client, *SolarTermStore, error) {
	client, err := NewClient(ConfigFrom(rc), log)
	if err != nil {
		return nil, nil, err
	}
	return client, NewSolarTermStore(client, StoreOptionsFrom(cc)...), nil
}

//Personal.AI order the ending
