package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	metricPrefix = "mapper_"

	resultSuccess = "success"
	resultError   = "error"

	applicationSuccessful = "successful"
	applicationFailed     = "unsuccessful"
)

var (
	registerOnce sync.Once

	normalizedPoints *prometheus.CounterVec
	manualReviews    prometheus.Counter
	normalizeLatency *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec

	templateApplyTotal   *prometheus.CounterVec
	templateApplyLatency *prometheus.HistogramVec
	templateMatched      *prometheus.CounterVec

	suggestionsTotal *prometheus.CounterVec
	mappingsAccepted *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers mapper metrics and DB-backed gauges.
func Init(db *sql.DB, logger *zap.Logger) {
	registerOnce.Do(func() {
		normalizedPoints = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "normalized_points_total",
				Help: "Total normalized points by confidence level",
			},
			[]string{"level"},
		)
		manualReviews = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "manual_review_points_total",
				Help: "Total normalized points flagged for manual review",
			},
		)
		normalizeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "normalize_batch_latency_seconds",
				Help:    "Batch normalization latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "normalize_cache_lookups_total",
				Help: "Normalization cache lookups by outcome",
			},
			[]string{"outcome"},
		)

		templateApplyTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "template_apply_total",
				Help: "Total template applications by result",
			},
			[]string{"result"},
		)
		templateApplyLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "template_apply_latency_seconds",
				Help:    "Template application latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		templateMatched = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "template_points_total",
				Help: "Template points by match outcome",
			},
			[]string{"outcome"},
		)

		suggestionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "equipment_suggestions_total",
				Help: "Equipment pairing suggestions by kind",
			},
			[]string{"kind"},
		)
		mappingsAccepted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "equipment_mappings_accepted_total",
				Help: "Accepted equipment mappings by type",
			},
			[]string{"type"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			normalizedPoints,
			manualReviews,
			normalizeLatency,
			cacheLookups,
			templateApplyTotal,
			templateApplyLatency,
			templateMatched,
			suggestionsTotal,
			mappingsAccepted,
			exportTotal,
			exportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveNormalized records one normalized point.
func ObserveNormalized(level string, review bool) {
	if level == "" {
		level = "unknown"
	}
	if normalizedPoints != nil {
		normalizedPoints.WithLabelValues(level).Inc()
	}
	if review && manualReviews != nil {
		manualReviews.Inc()
	}
}

// ObserveNormalizeBatch records batch latency and result.
func ObserveNormalizeBatch(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if normalizeLatency != nil {
		normalizeLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncCacheLookup counts a normalization cache hit or miss.
func IncCacheLookup(hit bool) {
	if cacheLookups == nil {
		return
	}
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveTemplateApply records one template application.
func ObserveTemplateApply(successful bool, matched, unmatched int, duration time.Duration) {
	result := applicationFailed
	if successful {
		result = applicationSuccessful
	}
	if templateApplyTotal != nil {
		templateApplyTotal.WithLabelValues(result).Inc()
	}
	if templateApplyLatency != nil {
		templateApplyLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if templateMatched != nil {
		templateMatched.WithLabelValues("matched").Add(float64(matched))
		templateMatched.WithLabelValues("unmatched").Add(float64(unmatched))
	}
}

// AddSuggestions counts produced equipment suggestions.
func AddSuggestions(kind string, count int) {
	if count <= 0 {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	if suggestionsTotal != nil {
		suggestionsTotal.WithLabelValues(kind).Add(float64(count))
	}
}

// IncMappingAccepted counts an accepted equipment mapping.
func IncMappingAccepted(mappingType string) {
	if mappingType == "" {
		mappingType = "unknown"
	}
	if mappingsAccepted != nil {
		mappingsAccepted.WithLabelValues(mappingType).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
