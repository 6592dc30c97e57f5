package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Redemptions
	RedemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Total redemption attempts",
		},
		[]string{"outcome"}, // granted|relogin|rejected
	)

	// Exam generation
	ExamsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exams_generated_total",
			Help: "Total generated exams",
		},
		[]string{"mode"}, // live|fallback|cache
	)

	// Expiry sweeper
	ExpiredDeactivated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expired_users_deactivated_total",
			Help: "Total users deactivated after their access window lapsed",
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RedemptionsTotal)
	prometheus.MustRegister(ExamsGenerated)
	prometheus.MustRegister(ExpiredDeactivated)
	prometheus.MustRegister(WorkerQueueDepth)
}
