// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

var (
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Ranking requests by scoring profile and outcome",
		},
		[]string{"profile", "status"},
	)

	MatchCandidatesEvaluated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_candidates_evaluated",
			Help:    "Candidates considered per ranking request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	MatchShortlistSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_shortlist_size",
			Help:    "Ranked candidates returned per request",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	CandidateCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_cache_requests_total",
			Help: "Candidate cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// JobStarted marks a job active and returns a func that records its
// duration and outcome. An empty errorCode counts as completed.
func JobStarted(taskType string) func(errorCode string) {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()

	return func(errorCode string) {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}

var NotificationsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "shortlist_notifications_total",
		Help: "Shortlist notifications by channel (email, sms) and result",
	},
	[]string{"channel", "result"},
)
