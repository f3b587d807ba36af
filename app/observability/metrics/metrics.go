package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ComparisonsTotal            metric.Int64Counter
	ComparisonDurationSeconds   metric.Float64Histogram
	GapCorrectionsTotal         metric.Int64Counter
	ReferenceLoadFailuresTotal  metric.Int64Counter
	ReferenceLoadDurationSecond metric.Float64Histogram
	DbQueryDurationSeconds      metric.Float64Histogram
	DbQueryErrorsTotal          metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the instruments once, against the global MeterProvider.
// Call it after the provider is installed; instruments created before that go nowhere.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("itinerary-compare")
		var err error
		m := &AppMetrics{}

		m.ComparisonsTotal, err = meter.Int64Counter(
			"comparisons_total",
			metric.WithDescription("Total number of itinerary comparisons served"),
			metric.WithUnit("{comparison}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create comparisons_total: %v", err)
		}

		m.ComparisonDurationSeconds, err = meter.Float64Histogram(
			"comparison_duration_seconds",
			metric.WithDescription("Duration of itinerary comparisons in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create comparison_duration_seconds: %v", err)
		}

		m.GapCorrectionsTotal, err = meter.Int64Counter(
			"gap_corrections_total",
			metric.WithDescription("Shared hours adjusted by gap enforcement"),
			metric.WithUnit("{slot}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gap_corrections_total: %v", err)
		}

		m.ReferenceLoadFailuresTotal, err = meter.Int64Counter(
			"reference_load_failures_total",
			metric.WithDescription("Optional reference tables that failed to load and were treated as absent"),
			metric.WithUnit("{table}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create reference_load_failures_total: %v", err)
		}

		m.ReferenceLoadDurationSecond, err = meter.Float64Histogram(
			"reference_load_duration_seconds",
			metric.WithDescription("Duration of a full reference data load in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create reference_load_duration_seconds: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, initializing them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
