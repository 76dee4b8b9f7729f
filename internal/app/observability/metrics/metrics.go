package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ChatTurnsTotal          metric.Int64Counter
	StreamTokensTotal       metric.Int64Counter
	StreamErrorsTotal       metric.Int64Counter
	StructuredParseDuration metric.Float64Histogram
	SuggestionFallbacks     metric.Int64Counter
	PreferenceChangesTotal  metric.Int64Counter
	ActiveSessionsGauge     metric.Int64UpDownCounter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once from the global MeterProvider.
// Instruments created before the provider is installed are delegated to it
// once it is set.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-travelchat")
		var err error
		m := &AppMetrics{}

		m.ChatTurnsTotal, err = meter.Int64Counter(
			"chat_turns_total",
			metric.WithDescription("Total number of chat turns started"),
			metric.WithUnit("{turn}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_turns_total: %v", err)
		}

		m.StreamTokensTotal, err = meter.Int64Counter(
			"stream_tokens_total",
			metric.WithDescription("Total number of text deltas received from the model"),
			metric.WithUnit("{token}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create stream_tokens_total: %v", err)
		}

		m.StreamErrorsTotal, err = meter.Int64Counter(
			"stream_errors_total",
			metric.WithDescription("Total number of failed model streams"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create stream_errors_total: %v", err)
		}

		m.StructuredParseDuration, err = meter.Float64Histogram(
			"structured_parse_duration_seconds",
			metric.WithDescription("Time spent parsing the accumulated assistant text"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create structured_parse_duration_seconds: %v", err)
		}

		m.SuggestionFallbacks, err = meter.Int64Counter(
			"suggestion_fallbacks_total",
			metric.WithDescription("Suggestion requests answered with the static fallback list"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggestion_fallbacks_total: %v", err)
		}

		m.PreferenceChangesTotal, err = meter.Int64Counter(
			"preference_changes_total",
			metric.WithDescription("Preference changes detected in user messages"),
			metric.WithUnit("{change}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create preference_changes_total: %v", err)
		}

		m.ActiveSessionsGauge, err = meter.Int64UpDownCounter(
			"active_sessions",
			metric.WithDescription("Chat sessions currently held in memory"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create active_sessions: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, creating them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
