package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GateOutcomeKey is the gin context key under which feature gates store their decision.
const GateOutcomeKey = "license_gate_outcome"

// outcomeUngated labels requests that never passed through a feature gate.
const outcomeUngated = "ungated"

type gateMetrics struct {
	requestCounter metric.Int64Counter
	durationHisto  metric.Float64Histogram
}

// GateMetricsMiddleware returns a Gin middleware that records every request together with
// the outcome a feature gate stored under GateOutcomeKey ("granted", "denied",
// "unlicensed"). Requests are labelled with method, route pattern and outcome.
func GateMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_gated_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests by feature gate outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_gated_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds by feature gate outcome"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passThrough
	}

	m := &gateMetrics{
		requestCounter: requestCounter,
		durationHisto:  durationHisto,
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		opts := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", routeOf(c.FullPath())),
			attribute.String("outcome", outcomeOf(c)),
		)
		m.requestCounter.Add(c.Request.Context(), 1, opts)
		m.durationHisto.Record(c.Request.Context(), time.Since(start).Seconds(), opts)
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// routeOf returns the matched route pattern, or "unknown" when no route matched, so raw
// paths never become label values.
func routeOf(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

func outcomeOf(c *gin.Context) string {
	if outcome := c.GetString(GateOutcomeKey); outcome != "" {
		return outcome
	}
	return outcomeUngated
}
