// Package config defines the configuration structures of the saju engine.
// No I/O lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/domain/gyeokguk"
	"github.com/turtacn/saju-engine/internal/domain/relation"
	"github.com/turtacn/saju-engine/internal/domain/yongshin"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SlowRequest     time.Duration `mapstructure:"slow_request"`
	// CORSOrigins lists browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string        `mapstructure:"cors_origins"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles API requests per client address.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level        string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format       string   `mapstructure:"format"` // "json" | "console"
	OutputPaths  []string `mapstructure:"output_paths"`
	EnableCaller bool     `mapstructure:"enable_caller"`
}

// TrueSolarTimeConfig toggles the local-clock correction.
type TrueSolarTimeConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	EquationOfTime bool `mapstructure:"equation_of_time"`
}

// EngineConfig holds the chart computation defaults.  Threshold and banhap
// overrides are pointers so "unset" falls through to the school preset.
type EngineConfig struct {
	DayBoundary     string              `mapstructure:"day_boundary"`
	YearBoundary    string              `mapstructure:"year_boundary"`
	MonthBoundary   string              `mapstructure:"month_boundary"`
	TrueSolarTime   TrueSolarTimeConfig `mapstructure:"true_solar_time"`
	Ephemeris       string              `mapstructure:"ephemeris"`
	School          string              `mapstructure:"school"`
	StrongThreshold *float64            `mapstructure:"strong_threshold"`
	WeakThreshold   *float64            `mapstructure:"weak_threshold"`
	Banhap          *bool               `mapstructure:"banhap"`
	Strictness      string              `mapstructure:"strictness"`
	Priority        string              `mapstructure:"priority"`
	// BatchConcurrency bounds ComputeBatch fan-out.
	BatchConcurrency int `mapstructure:"batch_concurrency"`
	// MaxBatchSize caps the number of charts per batch request.
	MaxBatchSize int `mapstructure:"max_batch_size"`
}

// CacheConfig controls the solar-term table cache.
type CacheConfig struct {
	// RedisEnabled adds the shared redis tier behind the in-process cache.
	RedisEnabled bool          `mapstructure:"redis_enabled"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	TTL          time.Duration `mapstructure:"ttl"`
	// WarmYears lists years whose tables are resolved at startup.
	WarmYears []int `mapstructure:"warm_years"`
}

// RedisConfig holds redis connection parameters.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("config: server.rate_limit.requests_per_second must be > 0, got %g", c.Server.RateLimit.RequestsPerSecond)
		}
		if c.Server.RateLimit.Burst < 1 {
			return fmt.Errorf("config: server.rate_limit.burst must be ≥ 1, got %d", c.Server.RateLimit.Burst)
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if err := c.Engine.Validate(); err != nil {
		return err
	}

	if c.Cache.RedisEnabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when cache.redis_enabled is set")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}
	for _, y := range c.Cache.WarmYears {
		if y < calendar.MinSupportedYear || y > calendar.MaxSupportedYear {
			return fmt.Errorf("config: cache.warm_years entry %d outside %d-%d", y, calendar.MinSupportedYear, calendar.MaxSupportedYear)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}
	return nil
}

// Validate checks every enumerated engine option by parsing it.
func (e *EngineConfig) Validate() error {
	if _, err := calendar.ParseDayBoundary(e.DayBoundary); err != nil {
		return fmt.Errorf("config: engine.day_boundary: %w", err)
	}
	if _, err := calendar.ParseYearBoundary(e.YearBoundary); err != nil {
		return fmt.Errorf("config: engine.year_boundary: %w", err)
	}
	if _, err := calendar.ParseMonthBoundary(e.MonthBoundary); err != nil {
		return fmt.Errorf("config: engine.month_boundary: %w", err)
	}
	if _, err := calendar.ParseEphemerisMethod(e.Ephemeris); err != nil {
		return fmt.Errorf("config: engine.ephemeris: %w", err)
	}
	school, err := gyeokguk.ParseSchool(e.School)
	if err != nil {
		return fmt.Errorf("config: engine.school: %w", err)
	}
	th := school.Thresholds()
	if e.StrongThreshold != nil {
		th.Strong = *e.StrongThreshold
	}
	if e.WeakThreshold != nil {
		th.Weak = *e.WeakThreshold
	}
	if err := th.Validate(); err != nil {
		return fmt.Errorf("config: engine thresholds: %w", err)
	}
	if _, err := relation.ParseStrictness(e.Strictness); err != nil {
		return fmt.Errorf("config: engine.strictness: %w", err)
	}
	if _, err := yongshin.ParsePriority(e.Priority); err != nil {
		return fmt.Errorf("config: engine.priority: %w", err)
	}
	if e.BatchConcurrency < 1 {
		return fmt.Errorf("config: engine.batch_concurrency must be ≥ 1, got %d", e.BatchConcurrency)
	}
	if e.MaxBatchSize < 1 {
		return fmt.Errorf("config: engine.max_batch_size must be ≥ 1, got %d", e.MaxBatchSize)
	}
	return nil
}

//Personal.AI order the ending
