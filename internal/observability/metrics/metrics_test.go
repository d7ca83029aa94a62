package metrics

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestObserveBeforeInitIsNoop(t *testing.T) {
	if normalizedPoints != nil {
		t.Skip("metrics already registered")
	}
	ObserveNormalized("high", true)
	ObserveTemplateApply(true, 1, 0, time.Millisecond)
}

func TestInitAndObserve(t *testing.T) {
	Init(nil, zap.NewNop())
	Init(nil, zap.NewNop())

	before := counterValue(t, normalizedPoints.WithLabelValues("high"))
	ObserveNormalized("high", false)
	assert.Equal(t, before+1, counterValue(t, normalizedPoints.WithLabelValues("high")))

	reviews := counterValue(t, manualReviews)
	ObserveNormalized("", true)
	assert.Equal(t, reviews+1, counterValue(t, manualReviews))

	matched := counterValue(t, templateMatched.WithLabelValues("matched"))
	ObserveTemplateApply(true, 3, 1, 5*time.Millisecond)
	assert.Equal(t, matched+3, counterValue(t, templateMatched.WithLabelValues("matched")))

	AddSuggestions("exact", 0)
	AddSuggestions("exact", 2)
	assert.GreaterOrEqual(t, counterValue(t, suggestionsTotal.WithLabelValues("exact")), 2.0)
}

func TestQueryCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))
	assert.Equal(t, 4.0, queryCount(db, zap.NewNop(), "SELECT COUNT(*) FROM equipment_mappings"))

	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(assert.AnError)
	assert.Equal(t, 0.0, queryCount(db, zap.NewNop(), "SELECT COUNT(*) FROM points"))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 0.0, queryCount(nil, nil, "SELECT 1"))
}

func counterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	return metric.GetCounter().GetValue()
}
