// Command apiserver serves the chart engine over HTTP.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/turtacn/saju-engine/internal/application/chart"
	"github.com/turtacn/saju-engine/internal/config"
	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/infrastructure/database/redis"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/saju-engine/internal/interfaces/http"
	"github.com/turtacn/saju-engine/internal/interfaces/http/handlers"
	"github.com/turtacn/saju-engine/internal/interfaces/http/middleware"
)

const (
	defaultConfigPath = "configs/config.yaml"
	warmTimeout       = time.Minute
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the configuration")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", *envFile, err)
	}

	cfg, watched, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		OutputPaths:  cfg.Log.OutputPaths,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, watched, logger); err != nil {
		logger.Error("API server terminated", logging.Err(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// loadConfig reads path when it exists and falls back to the environment
// otherwise.  The returned path is empty when no file is watched.
func loadConfig(path string) (*config.Config, string, error) {
	if _, err := os.Stat(path); err != nil {
		cfg, envErr := config.LoadFromEnv()
		return cfg, "", envErr
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

func run(cfg *config.Config, configPath string, logger logging.Logger) error {
	logger.Info("starting saju API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode))

	// ── Metrics ───────────────────────────────────────────────────────────────
	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.EngineMetrics
	)
	if cfg.Metrics.Enabled {
		var err error
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return fmt.Errorf("metrics collector: %w", err)
		}
		metrics = prometheus.NewEngineMetrics(collector)
	}

	// ── Solar-term cache ──────────────────────────────────────────────────────
	method, err := calendar.ParseEphemerisMethod(cfg.Engine.Ephemeris)
	if err != nil {
		return err
	}
	cacheOpts := []calendar.CacheOption{
		calendar.WithCacheLogger(logger),
		calendar.WithCacheObserver(chart.CacheObserver(metrics)),
	}
	var checkers []handlers.HealthChecker
	if cfg.Cache.RedisEnabled {
		client, store, err := redis.NewCacheTier(cfg.Redis, cfg.Cache, logger)
		if err != nil {
			logger.Warn("redis unavailable, serving from the in-process cache only", logging.Err(err))
		} else {
			defer func() { _ = client.Close() }()
			cacheOpts = append(cacheOpts, calendar.WithTableStore(store))
			checkers = append(checkers, &redisHealthAdapter{client: client})
		}
	}
	cache := calendar.NewSolarTermCache(cacheOpts...)
	checkers = append(checkers, &termTableHealthAdapter{cache: cache, method: method, now: time.Now})

	if len(cfg.Cache.WarmYears) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		start := time.Now()
		if err := cache.Warm(ctx, method, cfg.Cache.WarmYears...); err != nil {
			logger.Warn("solar-term warm-up incomplete", logging.Err(err))
		} else {
			logging.LogDuration(logger, "solar-term tables warmed", start, 10*time.Second,
				logging.Int("years", len(cfg.Cache.WarmYears)))
		}
		cancel()
	}

	// ── Service ───────────────────────────────────────────────────────────────
	svc, err := chart.NewService(cfg.Engine, calendar.NewBuilder(cache), logger, chart.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("chart service: %w", err)
	}
	if configPath != "" {
		config.Watch(configPath, func(next *config.Config) {
			if err := svc.UpdateDefaults(next.Engine); err != nil {
				logger.Warn("rejected engine defaults from reloaded config", logging.Err(err))
			}
		}, func(err error) {
			logger.Warn("config reload failed", logging.Err(err))
		})
	}

	// ── HTTP ──────────────────────────────────────────────────────────────────
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Server.SlowRequest > 0 {
		logCfg.SlowThreshold = cfg.Server.SlowRequest
	}
	routerCfg := httpserver.RouterConfig{
		ChartHandler:  handlers.NewChartHandler(svc, cfg.Server.MaxBodySize),
		HealthHandler: handlers.NewHealthHandler(version, checkers...),
		Logging:       logCfg,
		CORSOrigins:   cfg.Server.CORSOrigins,
		Logger:        logger,
		Metrics:       metrics,
		MetricsPath:   cfg.Metrics.Path,
	}
	if collector != nil {
		routerCfg.MetricsHandler = collector.Handler()
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter := middleware.NewTokenBucketLimiter(rl.RequestsPerSecond, rl.Burst,
			middleware.WithCleanup(time.Minute, 10*time.Minute))
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	if err := srv.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

//Personal.AI order the ending
