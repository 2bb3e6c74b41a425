package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Astrolabe/internal/domain/models"
	domrepo "Astrolabe/internal/domain/repository"
	domsvc "Astrolabe/internal/domain/service"
	"Astrolabe/internal/services/arcsolver"
	"Astrolabe/internal/services/houses"
	"Astrolabe/internal/services/timeresolve"
	"Astrolabe/internal/services/wheel"
	"Astrolabe/pkg/angle"
	"Astrolabe/pkg/logger"
	"Astrolabe/pkg/validate"
)

// DefaultSolarArc is the solar arc, in degrees, between the design and natal instants.
const DefaultSolarArc = 88.0

// ChartOptions are the configured pipeline settings a request cannot override.
type ChartOptions struct {
	Bodies         []models.Body
	Flags          models.Flags
	HouseSystem    models.HouseSystem
	FallbackSystem models.HouseSystem
	Convention     models.WheelConvention
	DesignEnabled  bool
	SolarArc       float64
}

// ChartBuilder computes natal and design charts.
type ChartBuilder struct {
	eph      domsvc.Ephemeris
	resolver *timeresolve.Resolver
	solver   *arcsolver.Solver
	metrics  domrepo.Metrics
	log      *logger.Logger
	opts     ChartOptions
	newID    func() string
}

// NewChartBuilder creates a ChartBuilder.
func NewChartBuilder(
	eph domsvc.Ephemeris,
	resolver *timeresolve.Resolver,
	solver *arcsolver.Solver,
	metrics domrepo.Metrics,
	log *logger.Logger,
	opts ChartOptions,
) *ChartBuilder {
	if len(opts.Bodies) == 0 {
		opts.Bodies = models.DefaultBodies
	}
	if opts.Flags == 0 {
		opts.Flags = models.DefaultFlags
	}
	if opts.HouseSystem == "" {
		opts.HouseSystem = houses.DefaultSystem
	}
	if opts.FallbackSystem == "" {
		opts.FallbackSystem = models.WholeSign
	}
	if opts.Convention == "" {
		opts.Convention = models.ConventionStandard
	}
	if opts.SolarArc <= 0 {
		opts.SolarArc = DefaultSolarArc
	}
	return &ChartBuilder{
		eph:      eph,
		resolver: resolver,
		solver:   solver,
		metrics:  metrics,
		log:      log,
		opts:     opts,
		newID:    uuid.NewString,
	}
}

// Options returns the effective pipeline settings.
func (b *ChartBuilder) Options() ChartOptions { return b.opts }

// Build runs the full pipeline for one request.
func (b *ChartBuilder) Build(ctx context.Context, req models.ChartRequest) (*models.Chart, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = b.newID()
	}
	log := b.log.With(logger.String("request_id", req.ID))

	chart, err := b.build(ctx, req, log)

	status := "ok"
	switch {
	case err != nil:
		status = "error"
		log.Debug("chart failed", logger.Error(err), logger.String("code", models.CodeOf(err)))
	case chart.Degraded.Any():
		status = "degraded"
	}
	took := time.Since(start)
	b.metrics.RecordChart(status, took)
	fields := []logger.Field{logger.String("status", status), logger.Duration("took_ms", took)}
	if chart != nil {
		fields = append(fields,
			logger.Bool("design", chart.Design != nil),
			logger.Any("degraded", chart.Degraded),
			logger.Strings("warnings", chart.Warnings),
		)
	}
	log.Debug("chart computed", fields...)
	return chart, err
}

// Resolve validates the time input of req and resolves it to a UTC instant.
func (b *ChartBuilder) Resolve(req models.ChartRequest) (models.Resolution, error) {
	return b.resolver.ResolveFields(req.TimeFields())
}

// DesignInstant solves for the design instant of a natal instant.
func (b *ChartBuilder) DesignInstant(ctx context.Context, natal time.Time) (time.Time, models.SolverReport, error) {
	res, err := b.solver.FindPriorInstant(ctx, natal, b.opts.SolarArc, b.sunLongitude)
	report := models.SolverReport{
		Target:      res.Target,
		Residual:    res.Residual,
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
		Retries:     res.Retries,
		Converged:   res.Converged,
		Degraded:    res.Degraded,
	}
	if err != nil {
		return time.Time{}, report, ephemerisError("design solve", err)
	}
	b.metrics.RecordSolver(res.Iterations, res.Evaluations)
	return res.Instant, report, nil
}

func (b *ChartBuilder) sunLongitude(ctx context.Context, t time.Time) (float64, error) {
	pos, err := b.eph.BodyPosition(ctx, b.JulianDay(t), models.Sun, b.opts.Flags)
	if err != nil {
		return 0, err
	}
	return pos.Longitude, nil
}

// JulianDay converts an instant to the provider's Julian day.
func (b *ChartBuilder) JulianDay(t time.Time) float64 {
	t = t.UTC()
	return b.eph.JulianDay(t.Year(), int(t.Month()), t.Day(), models.Resolution{Instant: t}.FractionalHour())
}

type request struct {
	system     models.HouseSystem
	convention models.WheelConvention
	lat, lon   float64
	debug      bool
}

func (b *ChartBuilder) prepare(ctx context.Context, req *models.ChartRequest) (request, error) {
	if req.HouseSystem == "" {
		req.HouseSystem = string(b.opts.HouseSystem)
	}
	if req.Convention == "" {
		req.Convention = string(b.opts.Convention)
	}
	system, err := houses.ParseSystem(req.HouseSystem)
	if err != nil {
		return request{}, err
	}
	conv, err := wheel.ParseConvention(req.Convention)
	if err != nil {
		return request{}, err
	}
	req.HouseSystem, req.Convention = string(system), string(conv)

	if err := validate.Struct(ctx, req); err != nil {
		return request{}, validationError(err)
	}
	return request{system: system, convention: conv, lat: *req.Latitude, lon: *req.Longitude, debug: req.Debug}, nil
}

func (b *ChartBuilder) build(ctx context.Context, req models.ChartRequest, log *logger.Logger) (*models.Chart, error) {
	r, err := b.prepare(ctx, &req)
	if err != nil {
		return nil, err
	}

	res, err := b.resolver.ResolveFields(req.TimeFields())
	if err != nil {
		return nil, err
	}
	log.Debug("time resolved",
		logger.String("mode", string(res.Mode)),
		logger.Time("instant", res.Instant),
		logger.String("adjustment", string(res.Adjustment)),
	)

	chart := &models.Chart{
		ID:         req.ID,
		Resolution: res,
		Mode:       res.Mode,
		Adjustment: res.Adjustment,
		Settings: models.ChartSettings{
			HouseSystem: r.system,
			Flags:       b.opts.Flags,
			Convention:  r.convention,
		},
	}

	fb := frameBuilder{b: b, chart: chart, log: log, req: r}
	frame, debug, err := fb.frame(ctx, res.Instant, "")
	if err != nil {
		return nil, err
	}
	chart.ChartFrame = frame
	if r.debug {
		chart.Debug = debug
	}

	if req.Design {
		if !b.opts.DesignEnabled {
			chart.Warnings = append(chart.Warnings, "design_disabled")
		} else if err := fb.design(ctx); err != nil {
			return nil, err
		}
	}
	return chart, nil
}

// frameBuilder classifies bodies at one instant and accumulates warnings on chart.
type frameBuilder struct {
	b     *ChartBuilder
	chart *models.Chart
	log   *logger.Logger
	req   request
}

func (fb *frameBuilder) warn(msg string, kind string, fields ...logger.Field) {
	fb.chart.Warnings = append(fb.chart.Warnings, msg)
	fb.b.metrics.RecordDegraded(kind)
	fb.log.Warn(msg, fields...)
}

func (fb *frameBuilder) design(ctx context.Context) error {
	natal := fb.chart.DatetimeUTC
	instant, report, err := fb.b.DesignInstant(ctx, natal)
	if err != nil {
		return err
	}
	if report.Degraded {
		fb.chart.Degraded.SolverBracket = true
		fb.warn("design_solver_degraded", "solver_bracket",
			logger.Float("residual", report.Residual), logger.Int("retries", report.Retries))
	}

	frame, _, err := fb.frame(ctx, instant, "design_")
	if err != nil {
		return fmt.Errorf("design frame: %w", err)
	}
	fb.chart.Design = &models.DesignFrame{
		ChartFrame: frame,
		SolarArc:   fb.b.opts.SolarArc,
		Solver:     report,
	}
	return nil
}

func (fb *frameBuilder) frame(ctx context.Context, instant time.Time, prefix string) (models.ChartFrame, *models.ChartDebug, error) {
	b := fb.b
	jd := b.JulianDay(instant)

	hp, raw, err := fb.houses(ctx, jd, prefix)
	if err != nil {
		return models.ChartFrame{}, nil, err
	}
	debug := &models.ChartDebug{
		JulianDay: jd,
		CuspsLen:  len(raw.Cusps),
		AscMCRaw:  []float64{raw.Ascendant, raw.Midheaven},
	}

	planets := make(map[string]models.Placement, len(b.opts.Bodies))
	for _, body := range b.opts.Bodies {
		pos, err := fb.position(ctx, jd, body)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.ChartFrame{}, nil, ctxErr
			}
			planets[string(body)] = models.Placement{Error: err.Error()}
			fb.chart.Degraded.BodyFailures++
			debug.FailedBodies = append(debug.FailedBodies, string(body))
			fb.warn(prefix+string(body)+"_calc_failed", "body_failure",
				logger.String("body", string(body)), logger.Error(err))
			continue
		}
		planets[string(body)] = fb.place(pos, hp.Cusps, body, prefix)
	}

	return models.ChartFrame{
		DatetimeUTC: instant.UTC(),
		JulianDay:   jd,
		Planets:     planets,
		Houses:      hp,
	}, debug, nil
}

// position derives the south node from the true node; every other body comes from the provider.
func (fb *frameBuilder) position(ctx context.Context, jd float64, body models.Body) (models.Position, error) {
	if body == models.SouthNode {
		pos, err := fb.b.eph.BodyPosition(ctx, jd, models.TrueNode, fb.b.opts.Flags)
		if err != nil {
			return pos, err
		}
		pos.Longitude += 180
		pos.Latitude = -pos.Latitude
		return pos, nil
	}
	return fb.b.eph.BodyPosition(ctx, jd, body, fb.b.opts.Flags)
}

func (fb *frameBuilder) place(pos models.Position, cusps [12]float64, body models.Body, prefix string) models.Placement {
	lon := angle.Normalize(pos.Longitude)
	p := models.Placement{
		Longitude: lon,
		Latitude:  pos.Latitude,
		Speed:     pos.Speed,
		Sign:      angle.SignFromLongitude(lon),
	}
	house, ok := houses.HouseOf(lon, cusps)
	p.House = house
	if !ok {
		p.HouseFallback = true
		fb.chart.Degraded.HouseFallback = true
		fb.warn(prefix+string(body)+"_house_fallback", "house_fallback",
			logger.String("body", string(body)), logger.Float("lon", lon))
	}
	w := wheel.Encode(lon, fb.req.convention)
	p.Wheel = &w
	return p
}

func (fb *frameBuilder) houses(ctx context.Context, jd float64, prefix string) (models.HousePlacement, models.Houses, error) {
	b := fb.b
	system := fb.req.system
	raw, err := b.eph.HouseCusps(ctx, jd, fb.req.lat, fb.req.lon, system)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.HousePlacement{}, raw, ctxErr
		}
		if system == b.opts.FallbackSystem {
			return models.HousePlacement{}, raw, ephemerisError("house cusps", err)
		}
		failed := system
		system = b.opts.FallbackSystem
		raw, err = b.eph.HouseCusps(ctx, jd, fb.req.lat, fb.req.lon, system)
		if err != nil {
			return models.HousePlacement{}, raw, ephemerisError("house cusps fallback", err)
		}
		fb.chart.Degraded.HouseSystemFallback = true
		if prefix == "" {
			// settings report the system the natal houses were computed with
			fb.chart.Settings.HouseSystem = system
		}
		fb.warn(prefix+"houses_system_fallback_to_"+string(system), "house_system_fallback",
			logger.String("requested", string(failed)), logger.String("used", string(system)))
	}

	cusps, err := houses.CuspsTo12(raw.Cusps)
	if err != nil {
		return models.HousePlacement{}, raw, err
	}
	return models.HousePlacement{
		System:    system,
		Ascendant: angle.Normalize(raw.Ascendant),
		Midheaven: angle.Normalize(raw.Midheaven),
		Cusps:     cusps,
	}, raw, nil
}

func ephemerisError(op string, err error) error {
	var ce *models.CoreError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return models.NewCoreError(models.CodeEphemeris, "", op+" failed").WithError(err)
}

func validationError(err error) error {
	ce := models.NewCoreError(models.CodeValidation, "", err.Error()).WithError(err)
	var errs validate.Errors
	if errors.As(err, &errs) && len(errs) > 0 {
		ce.Field = errs[0].Field
		ce.WithParam("errors", []validate.FieldError(errs))
	}
	return ce
}
