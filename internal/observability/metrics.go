package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec
	gradingsTotal     *prometheus.CounterVec
	gradingSeconds    *prometheus.HistogramVec
	judgeRunsTotal    *prometheus.CounterVec
	judgePollTimeouts prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		gradingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_submissions_total",
			Help: "Submissions graded, labelled by terminal status.",
		}, []string{"status"})

		gradingSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grading_duration_seconds",
			Help:    "Wall-clock time spent grading one submission.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"language"})

		judgeRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "judge_runs_total",
			Help: "Individual judge test-case runs, labelled by verdict.",
		}, []string{"verdict"})

		judgePollTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "judge_poll_timeouts_total",
			Help: "Test-case runs whose verdict never arrived within the polling budget.",
		})

		prometheus.MustRegister(
			apiRequestsTotal, apiLatencySeconds, apiErrorsTotal,
			gradingsTotal, gradingSeconds, judgeRunsTotal, judgePollTimeouts,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the request latency histogram.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Gradings exposes the counter for graded submissions.
func Gradings() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingsTotal
}

// GradingDuration exposes the grading latency histogram.
func GradingDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return gradingSeconds
}

// JudgeRuns exposes the per-verdict run counter.
func JudgeRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return judgeRunsTotal
}

// JudgePollTimeouts exposes the polling timeout counter.
func JudgePollTimeouts() prometheus.Counter {
	RegisterMetrics()
	return judgePollTimeouts
}
