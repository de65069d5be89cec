package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort        = 8080
	DefaultServerMode        = "release"
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultMaxBodySize       = 1 << 20
	DefaultSlowRequest       = time.Second
	DefaultRateLimitRPS      = 20.0
	DefaultRateLimitBurst    = 40
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultDayBoundary       = "midnight"
	DefaultYearBoundary      = "lichun"
	DefaultMonthBoundary     = "solar-term"
	DefaultEphemeris         = "vsop87"
	DefaultSchool            = "standard"
	DefaultStrictness        = "lenient"
	DefaultPriority          = "strength-first"
	DefaultBatchConcurrency  = 8
	DefaultMaxBatchSize      = 100
	DefaultCacheKeyPrefix    = "saju:"
	DefaultCacheTTL          = 30 * 24 * time.Hour
	DefaultRedisAddr         = "localhost:6379"
	DefaultMetricsNamespace  = "saju"
	DefaultMetricsPath       = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg.  Explicitly set fields
// are left alone.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.SlowRequest == 0 {
		cfg.Server.SlowRequest = DefaultSlowRequest
	}
	if cfg.Server.RateLimit.RequestsPerSecond == 0 {
		cfg.Server.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = DefaultRateLimitBurst
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	ApplyEngineDefaults(&cfg.Engine)

	// ── Cache / Redis ─────────────────────────────────────────────────────────
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// ApplyEngineDefaults fills the zero-value fields of an engine section.
func ApplyEngineDefaults(e *EngineConfig) {
	if e.DayBoundary == "" {
		e.DayBoundary = DefaultDayBoundary
	}
	if e.YearBoundary == "" {
		e.YearBoundary = DefaultYearBoundary
	}
	if e.MonthBoundary == "" {
		e.MonthBoundary = DefaultMonthBoundary
	}
	if e.Ephemeris == "" {
		e.Ephemeris = DefaultEphemeris
	}
	if e.School == "" {
		e.School = DefaultSchool
	}
	if e.Strictness == "" {
		e.Strictness = DefaultStrictness
	}
	if e.Priority == "" {
		e.Priority = DefaultPriority
	}
	if e.BatchConcurrency == 0 {
		e.BatchConcurrency = DefaultBatchConcurrency
	}
	if e.MaxBatchSize == 0 {
		e.MaxBatchSize = DefaultMaxBatchSize
	}
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// registerKeys makes every key known to v so SAJU_* variables resolve even
// when no config file mentions the key.  Override fields without a default
// are bound explicitly.
func registerKeys(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max_body_size", d.Server.MaxBodySize)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.slow_request", d.Server.SlowRequest)
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.requests_per_second", d.Server.RateLimit.RequestsPerSecond)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.enable_caller", false)

	v.SetDefault("engine.day_boundary", d.Engine.DayBoundary)
	v.SetDefault("engine.year_boundary", d.Engine.YearBoundary)
	v.SetDefault("engine.month_boundary", d.Engine.MonthBoundary)
	v.SetDefault("engine.true_solar_time.enabled", false)
	v.SetDefault("engine.true_solar_time.equation_of_time", false)
	v.SetDefault("engine.ephemeris", d.Engine.Ephemeris)
	v.SetDefault("engine.school", d.Engine.School)
	v.SetDefault("engine.strictness", d.Engine.Strictness)
	v.SetDefault("engine.priority", d.Engine.Priority)
	v.SetDefault("engine.batch_concurrency", d.Engine.BatchConcurrency)
	v.SetDefault("engine.max_batch_size", d.Engine.MaxBatchSize)
	for _, k := range []string{"engine.strong_threshold", "engine.weak_threshold", "engine.banhap", "log.output_paths", "cache.warm_years", "redis.password", "server.cors_origins"} {
		_ = v.BindEnv(k)
	}

	v.SetDefault("cache.redis_enabled", false)
	v.SetDefault("cache.key_prefix", d.Cache.KeyPrefix)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("redis.mode", "standalone")
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.db", 0)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

//Personal.AI order the ending
