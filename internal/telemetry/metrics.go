package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/saajha/bloodlink"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Session metrics
	SessionTransitionsTotal metric.Int64Counter
	HydrationDuration       metric.Float64Histogram

	// Routing metrics
	RouteDecisionsTotal metric.Int64Counter

	// API client metrics
	APIRequestsTotal       metric.Int64Counter
	APIRequestErrorsTotal  metric.Int64Counter
	APIRequestDuration     metric.Float64Histogram
	APIRequestRetriesTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.SessionTransitionsTotal, _ = meter.Int64Counter(
		"bloodlink.session.transitions.total",
		metric.WithDescription("Total number of session status transitions"),
		metric.WithUnit("{transition}"),
	)

	m.HydrationDuration, _ = meter.Float64Histogram(
		"bloodlink.session.hydration.duration",
		metric.WithDescription("Duration of the startup identity fetch"),
		metric.WithUnit("ms"),
	)

	m.RouteDecisionsTotal, _ = meter.Int64Counter(
		"bloodlink.route.decisions.total",
		metric.WithDescription("Total number of route guard decisions"),
		metric.WithUnit("{decision}"),
	)

	m.APIRequestsTotal, _ = meter.Int64Counter(
		"bloodlink.api.requests.total",
		metric.WithDescription("Total number of API requests"),
		metric.WithUnit("{request}"),
	)

	m.APIRequestErrorsTotal, _ = meter.Int64Counter(
		"bloodlink.api.requests.errors.total",
		metric.WithDescription("Total number of failed API requests"),
		metric.WithUnit("{error}"),
	)

	m.APIRequestDuration, _ = meter.Float64Histogram(
		"bloodlink.api.requests.duration",
		metric.WithDescription("Duration of API requests including retries"),
		metric.WithUnit("ms"),
	)

	m.APIRequestRetriesTotal, _ = meter.Int64Counter(
		"bloodlink.api.requests.retries.total",
		metric.WithDescription("Total number of retried API requests"),
		metric.WithUnit("{retry}"),
	)

	return m
}
