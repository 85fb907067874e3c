package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total report emails sent",
		},
	)

	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total failed report emails",
		},
	)

	ReportRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_runs_total",
			Help: "Report runs by final status",
		},
		[]string{"status"},
	)

	ReportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_run_duration_seconds",
			Help:    "Wall time of a report run",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func Init() {
	prometheus.MustRegister(EmailsSent)
	prometheus.MustRegister(EmailFailures)
	prometheus.MustRegister(ReportRuns)
	prometheus.MustRegister(ReportDuration)
}
