// Package metrics holds the prometheus collectors of the trace service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// traceRequests counts trace operations by kind and result code
	traceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_trace_requests_total",
		Help: "Trace operations by kind and result",
	}, []string{"kind", "result"})

	traceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bakery_trace_duration_seconds",
		Help:    "Trace operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"kind"})

	// riskScores tracks the total risk score of every recall assessment
	riskScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bakery_recall_risk_score",
		Help:    "Total risk score of recall assessments",
		Buckets: []float64{20, 40, 60, 80, 100},
	})

	recallsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_recalls_executed_total",
		Help: "Executed recalls by risk level",
	}, []string{"risk_level"})

	lotConsumption = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_lot_consumptions_total",
		Help: "Ingredient lot consumption writes",
	})
)

// Trace kinds.
const (
	KindForward  = "forward"
	KindBackward = "backward"
	KindRecall   = "recall"
)

// ResultOK labels a successful operation.
const ResultOK = "OK"

// ObserveTrace records one trace operation that started at start.
func ObserveTrace(kind, result string, start time.Time) {
	traceRequests.WithLabelValues(kind, result).Inc()
	traceDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func ObserveRiskScore(score int) {
	riskScores.Observe(float64(score))
}

func RecallExecuted(level string) {
	recallsExecuted.WithLabelValues(level).Inc()
}

func LotConsumed() {
	lotConsumption.Inc()
}
