package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

var DB = DBMetrics{
	QueryDuration: promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "credit_engine_db_query_duration_seconds",
			Help:    "Histogram of database query latencies.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query_name", "status"},
	),
}

type BusinessMetrics struct {
	DecisionsTotal     *prometheus.CounterVec
	ImportRowsTotal    *prometheus.CounterVec
	ImportDefectsTotal *prometheus.CounterVec
	LoansCreatedTotal  prometheus.Counter
}

var Business = BusinessMetrics{
	DecisionsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_engine_decisions_total",
			Help: "Total number of eligibility decisions by outcome.",
		},
		[]string{"outcome"},
	),
	ImportRowsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_engine_import_rows_total",
			Help: "Total number of bulk-import rows processed by entity and result.",
		},
		[]string{"entity", "result"},
	),
	ImportDefectsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_engine_import_defects_total",
			Help: "Total number of soft field defects null-filled during import.",
		},
		[]string{"field"},
	),
	LoansCreatedTotal: promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credit_engine_loans_created_total",
			Help: "Total number of loans created from approved decisions.",
		},
	),
}

// Decision outcomes recorded against DecisionsTotal.
const (
	OutcomeApproved              = "approved"
	OutcomeRejectedScore         = "rejected_score"
	OutcomeRejectedAffordability = "rejected_affordability"
	OutcomeRejectedUnknown       = "rejected_unknown_customer"
)

func RecordDecision(outcome string) {
	Business.DecisionsTotal.WithLabelValues(outcome).Inc()
}

func RecordImportRow(entity, result string) {
	Business.ImportRowsTotal.WithLabelValues(entity, result).Inc()
}

func RecordImportDefect(field string) {
	Business.ImportDefectsTotal.WithLabelValues(field).Inc()
}

func RecordLoanCreated() {
	Business.LoansCreatedTotal.Inc()
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}
