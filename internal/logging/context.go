package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSeries is the standardized structured logging key for series display names.
	FieldSeries = "series"
	// FieldSeriesID is the standardized structured logging key for series identifiers (e.g. tt0903747).
	FieldSeriesID = "series_id"
	// FieldSeason is the standardized structured logging key for season numbers.
	FieldSeason = "season"
	// FieldEpisodeCode is the standardized structured logging key for episode codes (e.g. S01E02).
	FieldEpisodeCode = "episode_code"
	// FieldQuery is the standardized structured logging key for search query strings.
	FieldQuery = "query"
	// FieldURL is the standardized structured logging key for fetched URLs.
	FieldURL = "url"
	// FieldAttempt is the standardized structured logging key for 1-based fetch attempt numbers.
	FieldAttempt = "attempt"
	// FieldCacheKey is the standardized structured logging key for freshness-cache keys.
	FieldCacheKey = "cache_key"
	// FieldCorrelationID is the standardized structured logging key for check-run correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

type contextKey int

const (
	seriesContextKey contextKey = iota
	correlationContextKey
)

// WithSeries stores the series display name in the context for log tagging.
func WithSeries(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, seriesContextKey, name)
}

// SeriesFromContext extracts a series name previously stored with WithSeries.
func SeriesFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(seriesContextKey).(string)
	return name, ok && name != ""
}

// WithCorrelationID stores a check-run correlation ID in the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationContextKey, id)
}

// CorrelationIDFromContext extracts a correlation ID previously stored with WithCorrelationID.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationContextKey).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if name, ok := SeriesFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSeries, name))
	}
	if id, ok := CorrelationIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
