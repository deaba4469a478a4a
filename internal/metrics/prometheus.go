// Package metrics records contract validation metrics with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements core.Recorder using Prometheus metrics.
type Recorder struct {
	filesTotal   *prometheus.CounterVec
	fileDuration *prometheus.HistogramVec
	issuesTotal  *prometheus.CounterVec
}

// NewRecorder creates a recorder whose metrics are registered with reg.
// A nil reg leaves the metrics unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		filesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contractcheck_files_total",
				Help: "Total number of contract files checked, by outcome",
			},
			[]string{"status"},
		),
		fileDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contractcheck_file_duration_seconds",
				Help:    "Duration of contract file checks in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		issuesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contractcheck_issues_total",
				Help: "Total number of dataset issues found, by category",
			},
			[]string{"category"},
		),
	}
}

// ObserveFile records one checked contract file.
func (r *Recorder) ObserveFile(status string, duration time.Duration) {
	r.filesTotal.WithLabelValues(status).Inc()
	r.fileDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// ObserveIssues adds count issues to a category.
func (r *Recorder) ObserveIssues(category string, count int) {
	if count <= 0 {
		return
	}
	r.issuesTotal.WithLabelValues(category).Add(float64(count))
}
