package chart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/saju-engine/internal/config"
	"github.com/turtacn/saju-engine/internal/domain/calendar"
	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/internal/domain/gyeokguk"
	"github.com/turtacn/saju-engine/internal/domain/relation"
	"github.com/turtacn/saju-engine/internal/domain/strength"
	"github.com/turtacn/saju-engine/internal/domain/yongshin"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// Service defines the chart application operations.
type Service interface {
	Compute(ctx context.Context, req *ChartRequest) (*Chart, error)
	ComputeBatch(ctx context.Context, reqs []*ChartRequest) (*BatchResult, error)
	SolarTerms(ctx context.Context, req *SolarTermsRequest) (*SolarTermsResult, error)
	// ResolveOptions previews the options a request patch would produce.
	ResolveOptions(patch map[string]interface{}) (Options, error)
	Defaults() config.EngineConfig
	// UpdateDefaults swaps the engine defaults used by later requests.
	UpdateDefaults(cfg config.EngineConfig) error
}

// Option configures the service.
type Option func(*serviceImpl)

// WithMetrics records pipeline metrics.
func WithMetrics(m *prometheus.EngineMetrics) Option {
	return func(s *serviceImpl) { s.metrics = m }
}

// WithRelationEngine replaces the engine built over the default catalog.
func WithRelationEngine(e *relation.Engine) Option {
	return func(s *serviceImpl) { s.relations = e }
}

// WithYongshinCatalog replaces the embedded seasonal and pattern tables.
func WithYongshinCatalog(c *yongshin.Catalog) Option {
	return func(s *serviceImpl) { s.yongshinCat = c }
}

// slowChart is the single-chart duration logged at Warn.
const slowChart = time.Second

type serviceImpl struct {
	builder     *calendar.Builder
	relations   *relation.Engine
	yongshinCat *yongshin.Catalog
	metrics     *prometheus.EngineMetrics
	logger      logging.Logger

	mu       sync.RWMutex
	defaults config.EngineConfig
}

// NewService creates the chart service.  A nil builder gets a private
// solar-term cache.
func NewService(defaults config.EngineConfig, builder *calendar.Builder, logger logging.Logger, opts ...Option) (Service, error) {
	if builder == nil {
		builder = calendar.NewBuilder(nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		builder: builder,
		logger:  logger.Named("chart"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.relations == nil {
		s.relations = relation.NewEngine(nil)
	}
	if s.yongshinCat == nil {
		s.yongshinCat = yongshin.DefaultCatalog()
	}
	if err := s.UpdateDefaults(defaults); err != nil {
		return nil, err
	}
	return s, nil
}

// CacheObserver maps solar-term cache events onto m.
func CacheObserver(m *prometheus.EngineMetrics) func(calendar.CacheEvent) {
	return func(e calendar.CacheEvent) { prometheus.RecordCacheEvent(m, string(e)) }
}

func (s *serviceImpl) Defaults() config.EngineConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

func (s *serviceImpl) UpdateDefaults(cfg config.EngineConfig) error {
	config.ApplyEngineDefaults(&cfg)
	if _, err := config.ResolveEngine(cfg, nil); err != nil {
		return err
	}
	s.mu.Lock()
	s.defaults = cfg
	s.mu.Unlock()
	s.logger.Info("engine defaults updated",
		logging.String("school", cfg.School),
		logging.String("day_boundary", cfg.DayBoundary),
		logging.String("year_boundary", cfg.YearBoundary),
		logging.String("priority", cfg.Priority))
	return nil
}

func (s *serviceImpl) ResolveOptions(patch map[string]interface{}) (Options, error) {
	_, opts, err := s.resolve(patch)
	return opts, err
}

func (s *serviceImpl) resolve(patch map[string]interface{}) (config.EngineConfig, Options, error) {
	eng, err := config.ResolveEngine(s.Defaults(), patch)
	if err != nil {
		return config.EngineConfig{}, Options{}, err
	}
	opts, err := OptionsFromConfig(eng)
	if err != nil {
		return config.EngineConfig{}, Options{}, err
	}
	return eng, opts, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Compute
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Compute(ctx context.Context, req *ChartRequest) (*Chart, error) {
	start := time.Now()
	chart, err := s.compute(ctx, req)
	prometheus.RecordChart(s.metrics, err == nil, time.Since(start))
	if err != nil {
		code := errors.GetCode(err)
		prometheus.RecordError(s.metrics, "chart", code.String())
		if errors.IsClientError(code) {
			s.logger.WithContext(ctx).Debug("chart request rejected", logging.Err(err))
		} else {
			s.logger.WithContext(ctx).Error("chart computation failed", logging.Err(err))
		}
		return nil, err
	}
	fields := []logging.Field{
		logging.String(logging.KeyChartID, chart.ID),
		logging.String("pillars", chart.Pillars.String()),
		logging.String("pattern", string(chart.Pattern.Pattern)),
		logging.String("yongshin", chart.Yongshin.Final.String()),
		logging.Duration(logging.KeyDuration, time.Since(start)),
	}
	if time.Since(start) >= slowChart {
		s.logger.WithContext(ctx).Warn("slow chart computation", fields...)
	} else {
		s.logger.WithContext(ctx).Debug("chart computed", fields...)
	}
	return chart, nil
}

func (s *serviceImpl) compute(ctx context.Context, req *ChartRequest) (*Chart, error) {
	in, err := validateRequest(req)
	if err != nil {
		return nil, err
	}
	_, opts, err := s.resolve(req.Options)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithContext(ctx)
	log.Debug("building pillars",
		logging.String("local", in.local.String()),
		logging.String("timezone", calendar.FormatOffset(in.offset)),
		logging.Bool("true_solar_time", opts.Policy.TrueSolarTime.Enabled))

	t := time.Now()
	built, err := s.builder.Build(ctx, calendar.BuildInput{
		Local:         in.local,
		OffsetMinutes: in.offset,
		Location:      in.location,
		Policy:        opts.Policy,
	})
	if err != nil {
		return nil, err
	}
	prometheus.RecordStage(s.metrics, prometheus.StagePillars, time.Since(t))
	ps := built.Pillars

	t = time.Now()
	report := s.relations.Evaluate(ps, opts.Relation)
	prometheus.RecordStage(s.metrics, prometheus.StageRelation, time.Since(t))

	var supplied *strength.Assessment
	assessment := strength.Estimate(ps)
	if req.Strength != nil {
		a := *req.Strength
		if a.Source == "" {
			a.Source = strength.SourceExternal
		}
		supplied = &a
		assessment = a
	}

	t = time.Now()
	pattern := gyeokguk.NewDeterminer(opts.Thresholds).Determine(gyeokguk.Input{
		Pillars:   ps,
		Relations: report,
		Strength:  supplied,
	})
	prometheus.RecordStage(s.metrics, prometheus.StagePattern, time.Since(t))

	t = time.Now()
	ys := yongshin.NewDecider(s.yongshinCat, opts.Priority).Decide(yongshin.Input{
		Pillars:  ps,
		Strength: assessment,
		Pattern:  &pattern,
	})
	prometheus.RecordStage(s.metrics, prometheus.StageYongshin, time.Since(t))
	prometheus.RecordAnalysis(s.metrics, string(pattern.Category), string(ys.Agreement))

	return &Chart{
		ID:      req.ID,
		Options: opts,
		Calendar: CalendarInfo{
			Timezone:          in.zone.String(),
			OffsetMinutes:     in.offset,
			Instant:           built.Instant,
			SolarClock:        built.SolarClock,
			CorrectionMinutes: built.CorrectionMinutes,
			SolarLongitude:    built.SolarLongitude,
			MonthOrder:        built.MonthOrder,
			PillarYear:        built.PillarYear,
			YearBoundary:      built.YearBoundary,
		},
		Pillars:   ps,
		Elements:  ganji.DistributionOf(ps),
		Relations: report,
		Strength:  assessment,
		Pattern:   pattern,
		Yongshin:  ys,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Batch
// ─────────────────────────────────────────────────────────────────────────────

// ComputeBatch charts every request with bounded concurrency.  A failing
// entry is reported on its item and does not fail the batch; only context
// cancellation or an invalid batch does.
func (s *serviceImpl) ComputeBatch(ctx context.Context, reqs []*ChartRequest) (*BatchResult, error) {
	defaults := s.Defaults()
	if len(reqs) == 0 {
		return nil, errors.InvalidInput("batch is empty")
	}
	if len(reqs) > defaults.MaxBatchSize {
		return nil, errors.InvalidInput(fmt.Sprintf("batch of %d exceeds the limit of %d", len(reqs), defaults.MaxBatchSize))
	}
	if s.metrics != nil {
		s.metrics.BatchSize.WithLabelValues().Observe(float64(len(reqs)))
	}

	res := &BatchResult{ID: uuid.NewString(), Items: make([]BatchItem, len(reqs))}
	log := s.logger.WithContext(ctx).With(logging.String("batch_id", res.ID))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.BatchConcurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := BatchItem{Index: i}
			chart, err := s.Compute(gctx, req)
			if err != nil {
				item.Error = &ItemError{Code: errors.GetCode(err).String(), Message: err.Error()}
			} else {
				item.Chart = chart
			}
			res.Items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("batch cancelled", logging.Err(err))
		return nil, err
	}

	for _, it := range res.Items {
		if it.Error != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}
	logging.LogDuration(log, "batch computed", start, 5*time.Second,
		logging.Int("size", len(reqs)),
		logging.Int("failed", res.Failed))
	return res, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Solar terms
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) SolarTerms(ctx context.Context, req *SolarTermsRequest) (*SolarTermsResult, error) {
	if req == nil {
		return nil, errors.InvalidInput("request is required")
	}
	if req.Year < calendar.MinSupportedYear || req.Year > calendar.MaxSupportedYear {
		return nil, errors.Newf(errors.ErrCodeYearOutOfRange,
			"year %d outside supported range %d-%d", req.Year, calendar.MinSupportedYear, calendar.MaxSupportedYear)
	}
	method := req.Ephemeris
	if method == "" {
		method = s.Defaults().Ephemeris
	}
	m, err := calendar.ParseEphemerisMethod(method)
	if err != nil {
		return nil, err
	}
	zone := time.UTC
	if req.Timezone != "" {
		if zone, err = ParseZone(req.Timezone); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	table, err := s.builder.Cache().Table(ctx, m, req.Year)
	if err != nil {
		s.logger.WithContext(ctx).Error("solar term table failed", logging.Int(logging.KeyYear, req.Year), logging.Err(err))
		prometheus.RecordError(s.metrics, "solarterm", errors.GetCode(err).String())
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.TermTableDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())
	}

	out := &SolarTermsResult{
		Year:                table.Year,
		Ephemeris:           string(table.Method),
		Timezone:            zone.String(),
		Terms:               make([]TermView, len(table.Terms)),
		PriorWinterSolstice: table.PriorWinterSolstice,
		LunarNewYear:        table.LunarNewYear,
		LunarNewYearDate:    table.LunarNewYear.In(zone).Format("2006-01-02"),
	}
	for i, ti := range table.Terms {
		out.Terms[i] = TermView{
			Name:      ti.Term.String(),
			Longitude: ti.Longitude,
			Jie:       ti.Term.IsJie(),
			Instant:   ti.Instant,
			Local:     ti.Instant.In(zone).Format("2006-01-02T15:04:05-07:00"),
		}
	}
	return out, nil
}

//Personal.AI order the ending
