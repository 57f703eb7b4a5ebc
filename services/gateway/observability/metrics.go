// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the gateway.
//
// # Description
//
// Metrics cover the generation pipeline end to end:
//   - Request counters (by route and status class)
//   - Quota rejections (by tier)
//   - Token usage (by direction, exact vs estimated)
//   - Upstream latency histograms (by outcome)
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal
// locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

const metricsNamespace = "launchpilot"

const gatewaySubsystem = "gateway"

// GatewayMetrics holds all Prometheus metrics for the generation
// gateway. Initialize once at startup via InitMetrics().
type GatewayMetrics struct {
	// RequestsTotal counts requests by route and response status.
	// Labels: route (generate, usage), status (200, 400, 401, ...)
	RequestsTotal *prometheus.CounterVec

	// QuotaRejectionsTotal counts 429 responses by tier.
	// Labels: tier (free, launcher, pro)
	QuotaRejectionsTotal *prometheus.CounterVec

	// TokensTotal counts tokens recorded for accounting.
	// Labels: direction (input, output), source (exact, estimated)
	TokensTotal *prometheus.CounterVec

	// UpstreamLatencySeconds measures the upstream call duration.
	// Labels: outcome (success, timeout, connection, status, shape)
	UpstreamLatencySeconds *prometheus.HistogramVec

	// UsageWriteFailuresTotal counts fire-and-forget accounting writes
	// that failed. These never fail the request, so the counter is the
	// only place the loss shows up.
	UsageWriteFailuresTotal prometheus.Counter
}

// DefaultMetrics is the singleton instance of GatewayMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *GatewayMetrics

// InitMetrics creates and registers all gateway metrics. Call once at
// startup; a second call panics on duplicate registration.
func InitMetrics() *GatewayMetrics {
	DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	return DefaultMetrics
}

// NewMetrics registers the metric set against the given registerer.
// Tests pass a fresh registry to avoid duplicate-registration panics.
func NewMetrics(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)
	return &GatewayMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "requests_total",
				Help:      "Total requests by route and response status",
			},
			[]string{"route", "status"},
		),

		QuotaRejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "quota_rejections_total",
				Help:      "Total generation requests rejected at the monthly quota",
			},
			[]string{"tier"},
		),

		TokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "tokens_total",
				Help:      "Total tokens recorded by direction and count source",
			},
			[]string{"direction", "source"},
		),

		UpstreamLatencySeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "upstream_latency_seconds",
				Help:      "Upstream model call duration by outcome",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"outcome"},
		),

		UsageWriteFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "usage_write_failures_total",
				Help:      "Total accounting writes that failed and were dropped",
			},
		),
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// RecordRequest records a completed request.
func (m *GatewayMetrics) RecordRequest(route, status string) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
}

// RecordQuotaRejection records a 429 by tier.
func (m *GatewayMetrics) RecordQuotaRejection(tier string) {
	m.QuotaRejectionsTotal.WithLabelValues(tier).Inc()
}

// RecordTokens records token accounting. estimated marks counts
// derived from text length instead of the upstream usage block.
func (m *GatewayMetrics) RecordTokens(inputTokens, outputTokens int, estimated bool) {
	source := "exact"
	if estimated {
		source = "estimated"
	}
	m.TokensTotal.WithLabelValues("input", source).Add(float64(inputTokens))
	m.TokensTotal.WithLabelValues("output", source).Add(float64(outputTokens))
}

// RecordUpstreamLatency records one upstream call.
func (m *GatewayMetrics) RecordUpstreamLatency(outcome string, seconds float64) {
	m.UpstreamLatencySeconds.WithLabelValues(outcome).Observe(seconds)
}

// RecordUsageWriteFailure counts a dropped accounting write.
func (m *GatewayMetrics) RecordUsageWriteFailure() {
	m.UsageWriteFailuresTotal.Inc()
}
