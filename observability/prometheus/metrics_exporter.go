package prometheus

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/KazakovDenis/gofutures/core"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskSubmittedTotal        *prom.CounterVec
	taskCompletedTotal        *prom.CounterVec
	taskDurationSeconds       *prom.HistogramVec
	taskRejectedTotal         *prom.CounterVec
	queueDepth                *prom.GaugeVec
	delegationDurationSeconds *prom.HistogramVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "gofutures"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	submittedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_submitted_total",
		Help:      "Total number of tasks accepted into the run queue.",
	}, []string{"bridge"})
	completedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_completed_total",
		Help:      "Total number of tasks reaching a terminal state.",
	}, []string{"bridge", "state"})
	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"bridge", "state"})
	rejectedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_rejected_total",
		Help:      "Total number of rejected submissions.",
	}, []string{"bridge", "reason"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current run-queue depth.",
	}, []string{"bridge"})
	delegationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "delegation_duration_seconds",
		Help:      "Time a task stayed suspended on a delegated blocking call.",
		Buckets:   buckets,
	}, []string{"bridge"})

	var err error
	if submittedVec, err = registerCollector(reg, submittedVec); err != nil {
		return nil, err
	}
	if completedVec, err = registerCollector(reg, completedVec); err != nil {
		return nil, err
	}
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}
	if delegationVec, err = registerCollector(reg, delegationVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskSubmittedTotal:        submittedVec,
		taskCompletedTotal:        completedVec,
		taskDurationSeconds:       durationVec,
		taskRejectedTotal:         rejectedVec,
		queueDepth:                queueDepthVec,
		delegationDurationSeconds: delegationVec,
	}, nil
}

// RecordTaskSubmitted records a task accepted into the run queue.
func (m *MetricsExporter) RecordTaskSubmitted(bridge string) {
	if m == nil {
		return
	}
	m.taskSubmittedTotal.WithLabelValues(normalizeLabel(bridge, "unknown")).Inc()
}

// RecordTaskCompleted records a task reaching a terminal state.
func (m *MetricsExporter) RecordTaskCompleted(bridge string, state string, duration time.Duration) {
	if m == nil {
		return
	}
	bridgeLabel := normalizeLabel(bridge, "unknown")
	stateLabel := normalizeLabel(state, "unknown")
	m.taskCompletedTotal.WithLabelValues(bridgeLabel, stateLabel).Inc()
	m.taskDurationSeconds.WithLabelValues(bridgeLabel, stateLabel).Observe(duration.Seconds())
}

// RecordTaskRejected records a rejected submission.
func (m *MetricsExporter) RecordTaskRejected(bridge string, reason string) {
	if m == nil {
		return
	}
	m.taskRejectedTotal.WithLabelValues(normalizeLabel(bridge, "unknown"), normalizeLabel(reason, "unknown")).Inc()
}

// RecordQueueDepth records run-queue depth.
func (m *MetricsExporter) RecordQueueDepth(bridge string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(normalizeLabel(bridge, "unknown")).Set(float64(depth))
}

// RecordDelegation records a delegated blocking call.
func (m *MetricsExporter) RecordDelegation(bridge string, duration time.Duration) {
	if m == nil {
		return
	}
	m.delegationDurationSeconds.WithLabelValues(normalizeLabel(bridge, "unknown")).Observe(duration.Seconds())
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
