package orm

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/arllen133/userdb/orm"

// Metrics holds the OpenTelemetry metric instruments
type Metrics struct {
	QueryCount    metric.Int64Counter
	QueryDuration metric.Float64Histogram
	QueryErrors   metric.Int64Counter
}

// ObservabilityConfig holds logging, tracing, and metrics configuration
type ObservabilityConfig struct {
	Logger             *zap.Logger
	Tracer             trace.Tracer
	Metrics            *Metrics
	SlowQueryThreshold time.Duration
	LogQueries         bool // Log all queries (debug mode)
}

func defaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		Logger:             zap.NewNop(),
		Tracer:             noop.NewTracerProvider().Tracer(instrumentationName),
		SlowQueryThreshold: 200 * time.Millisecond,
	}
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithLogger sets the logger for the session
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.obs.Logger = logger.Named("orm")
		}
	}
}

// WithTracer sets the OpenTelemetry tracer for the session
func WithTracer(tracer trace.Tracer) SessionOption {
	return func(s *Session) {
		if tracer != nil {
			s.obs.Tracer = tracer
		}
	}
}

// WithDefaultTracer uses the global OpenTelemetry tracer
func WithDefaultTracer() SessionOption {
	return WithTracer(otel.Tracer(instrumentationName))
}

// WithMeter sets the OpenTelemetry meter for metrics
func WithMeter(meter metric.Meter) SessionOption {
	return func(s *Session) {
		s.obs.Metrics = initMetrics(meter)
	}
}

// WithDefaultMeter uses the global OpenTelemetry meter
func WithDefaultMeter() SessionOption {
	return WithMeter(otel.Meter(instrumentationName))
}

// WithSlowQueryThreshold sets the slow query threshold for logging
func WithSlowQueryThreshold(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.obs.SlowQueryThreshold = d
		}
	}
}

// WithQueryLogging enables logging of all queries
func WithQueryLogging(enabled bool) SessionOption {
	return func(s *Session) {
		s.obs.LogQueries = enabled
	}
}

func initMetrics(meter metric.Meter) *Metrics {
	queryCount, _ := meter.Int64Counter("userdb.query.count",
		metric.WithDescription("Total number of SQL statements executed"),
		metric.WithUnit("{query}"),
	)

	queryDuration, _ := meter.Float64Histogram("userdb.query.duration",
		metric.WithDescription("Statement execution duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)

	queryErrors, _ := meter.Int64Counter("userdb.query.errors",
		metric.WithDescription("Total number of failed SQL statements"),
		metric.WithUnit("{error}"),
	)

	return &Metrics{
		QueryCount:    queryCount,
		QueryDuration: queryDuration,
		QueryErrors:   queryErrors,
	}
}

// observe runs fn inside a client span and records its duration, outcome and
// log line. sql.ErrNoRows is an outcome, not a failure.
func (s *Session) observe(ctx context.Context, operation, query string, fn func(context.Context) error) error {
	ctx, span := s.obs.Tracer.Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", s.dialect.Name()),
			attribute.String("db.operation", operation),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	var failure error
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		failure = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.recordMetrics(ctx, operation, elapsed, failure != nil)
	s.logQuery(operation, query, elapsed, failure)
	return err
}

func (s *Session) recordMetrics(ctx context.Context, operation string, duration time.Duration, failed bool) {
	if s.obs.Metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.system", s.dialect.Name()),
	)

	s.obs.Metrics.QueryCount.Add(ctx, 1, attrs)
	s.obs.Metrics.QueryDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if failed {
		s.obs.Metrics.QueryErrors.Add(ctx, 1, attrs)
	}
}

func (s *Session) logQuery(operation, query string, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Duration("duration", duration),
	}
	if s.obs.LogQueries {
		fields = append(fields, zap.String("query", query))
	}

	switch {
	case err != nil:
		s.obs.Logger.Warn("query failed", append(fields, zap.Error(err))...)
	case duration > s.obs.SlowQueryThreshold:
		if !s.obs.LogQueries {
			fields = append(fields, zap.String("query", query))
		}
		s.obs.Logger.Warn("slow query", fields...)
	case s.obs.LogQueries:
		s.obs.Logger.Debug("query executed", fields...)
	}
}
