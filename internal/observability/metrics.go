package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonathan/candidate-enrichment/internal/enrichment"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

var (
	// EnrichmentsTotal counts enrichment calls.
	// Labels: result (success, validation_error, computation_error, error)
	EnrichmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidate_enrichment",
			Name:      "enrichments_total",
			Help:      "Total number of enrichment requests by outcome",
		},
		[]string{"result"},
	)

	// EnrichmentDuration tracks how long enrichment takes.
	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "candidate_enrichment",
			Name:      "enrichment_duration_seconds",
			Help:      "Duration of enrichment requests in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	// OverallConfidence tracks the distribution of overall profile confidence.
	OverallConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "candidate_enrichment",
			Name:      "overall_confidence",
			Help:      "Overall confidence of enriched profiles",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	// ProfilesExcluded counts profiles dropped during integration.
	// Labels: reason (warning code)
	ProfilesExcluded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidate_enrichment",
			Name:      "profiles_excluded_total",
			Help:      "Total number of external profiles excluded from merging",
		},
		[]string{"reason"},
	)

	// ConflictsResolved counts field resolutions where sources disagreed.
	// Labels: field, strategy
	ConflictsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidate_enrichment",
			Name:      "conflicts_resolved_total",
			Help:      "Total number of field conflicts resolved",
		},
		[]string{"field", "strategy"},
	)

	// HTTPRequestsTotal counts API requests.
	// Labels: method, route (mux pattern), status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidate_enrichment",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks API latency.
	// Labels: method, route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "candidate_enrichment",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Outcome labels for EnrichmentsTotal.
const (
	OutcomeSuccess          = "success"
	OutcomeValidationError  = "validation_error"
	OutcomeComputationError = "computation_error"
	OutcomeError            = "error"
)

// Outcome classifies an enrichment error for metrics.
func Outcome(err error) string {
	var valErr *enrichment.ValidationError
	var compErr *enrichment.ComputationError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &valErr):
		return OutcomeValidationError
	case errors.As(err, &compErr):
		return OutcomeComputationError
	default:
		return OutcomeError
	}
}

// RecordEnrichment updates metrics for one enrichment call.
func RecordEnrichment(result *types.EnrichedProfileResult, err error, elapsed time.Duration) {
	EnrichmentsTotal.WithLabelValues(Outcome(err)).Inc()
	EnrichmentDuration.Observe(elapsed.Seconds())
	if result == nil {
		return
	}

	OverallConfidence.Observe(result.Profile.OverallConfidence)
	for _, w := range result.Metadata.Warnings {
		if w.Code == types.WarningSourceExcluded || w.Code == types.WarningInvalidProfile {
			ProfilesExcluded.WithLabelValues(w.Code).Inc()
		}
	}
	for _, r := range result.Metadata.ConflictsResolved {
		if r.Conflict {
			ConflictsResolved.WithLabelValues(r.Field, string(r.Strategy)).Inc()
		}
	}
}
