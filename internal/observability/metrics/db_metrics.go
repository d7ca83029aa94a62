package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func registerDBMetrics(db *sql.DB, logger *zap.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "equipment_mappings_unverified",
			Help: "Accepted equipment mappings awaiting verification",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM equipment_mappings WHERE is_verified = FALSE")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "points_pending_review",
			Help: "Stored points below the manual review confidence",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM points WHERE confidence < 0.5")
		},
	))
}

func queryCount(db *sql.DB, logger *zap.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Warn("metrics query failed", zap.Error(err))
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
