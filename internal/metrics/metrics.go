// Package metrics records per-stage write metrics of a seed run in a
// Prometheus registry and can push them to a Pushgateway.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/locvowork/companygen/internal/generator"
)

const namespace = "companygen"

var _ generator.StageObserver = (*Recorder)(nil)

// Recorder implements generator.StageObserver.
type Recorder struct {
	registry *prometheus.Registry
	records  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lastRun  prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Records handed to the sink, by entity.",
		}, []string{"entity"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Failed sink writes, by entity.",
		}, []string{"entity"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_duration_seconds",
			Help:      "Time spent in one sink write, by entity.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"entity"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last successful run finished.",
		}),
	}
	r.registry.MustRegister(r.records, r.failures, r.duration, r.lastRun)
	return r
}

// ObserveStage records one sink write.
func (r *Recorder) ObserveStage(_ context.Context, entity string, records int, elapsed time.Duration, err error) {
	if entity == "" {
		return
	}
	r.duration.WithLabelValues(entity).Observe(elapsed.Seconds())
	if err != nil {
		r.failures.WithLabelValues(entity).Inc()
		return
	}
	r.records.WithLabelValues(entity).Add(float64(records))
}

// MarkSuccess stamps the end of a successful run.
func (r *Recorder) MarkSuccess(at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
}

// Push sends all metrics to the Pushgateway at url under job, grouped by run id.
func (r *Recorder) Push(ctx context.Context, url, job, runID string) error {
	p := push.New(url, job).Gatherer(r.registry)
	if runID != "" {
		p = p.Grouping("run_id", runID)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
