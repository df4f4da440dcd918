package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	DecisionsTotal      *prometheus.CounterVec
	CreditScore         prometheus.Histogram
	LoansIssuedTotal    prometheus.Counter
	CustomersRegistered prometheus.Counter
	IngestedRowsTotal   *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_approval_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_approval_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		DecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_decisions_total",
				Help: "Total number of eligibility decisions by outcome.",
			},
			[]string{"outcome"},
		),
		CreditScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "credit_score",
				Help:    "Distribution of computed credit scores.",
				Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),
		LoansIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loans_issued_total",
				Help: "Total number of loans successfully issued.",
			},
		),
		CustomersRegistered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customers_registered_total",
				Help: "Total number of customers registered through the API.",
			},
		),
		IngestedRowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingested_rows_total",
				Help: "Rows processed by bulk ingestion by entity and result.",
			},
			[]string{"entity", "result"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

// RecordDecision counts a decision; the score is only observed when scoring ran.
func RecordDecision(outcome string, score int, scored bool) {
	Business.DecisionsTotal.WithLabelValues(outcome).Inc()
	if scored {
		Business.CreditScore.Observe(float64(score))
	}
}

func RecordLoanIssued() {
	Business.LoansIssuedTotal.Inc()
}

func RecordCustomerRegistered() {
	Business.CustomersRegistered.Inc()
}

func RecordIngestedRow(entity, result string) {
	Business.IngestedRowsTotal.WithLabelValues(entity, result).Inc()
}
