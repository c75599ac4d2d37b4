package prometheus

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExporter_RecordMethods(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("gofutures", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	exporter.RecordTaskSubmitted("bridge-a")
	exporter.RecordTaskCompleted("bridge-a", "completed", 250*time.Millisecond)
	exporter.RecordTaskRejected("bridge-a", "shutting down")
	exporter.RecordQueueDepth("bridge-a", 7)
	exporter.RecordDelegation("bridge-a", 50*time.Millisecond)

	submitted := testutil.ToFloat64(exporter.taskSubmittedTotal.WithLabelValues("bridge-a"))
	if submitted != 1 {
		t.Fatalf("submitted total = %v, want 1", submitted)
	}

	completed := testutil.ToFloat64(exporter.taskCompletedTotal.WithLabelValues("bridge-a", "completed"))
	if completed != 1 {
		t.Fatalf("completed total = %v, want 1", completed)
	}

	queueDepth := testutil.ToFloat64(exporter.queueDepth.WithLabelValues("bridge-a"))
	if queueDepth != 7 {
		t.Fatalf("queue depth = %v, want 7", queueDepth)
	}

	rejected := testutil.ToFloat64(exporter.taskRejectedTotal.WithLabelValues("bridge-a", "shutting down"))
	if rejected != 1 {
		t.Fatalf("rejected total = %v, want 1", rejected)
	}

	histCount, err := histogramSampleCount(exporter.taskDurationSeconds.WithLabelValues("bridge-a", "completed"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if histCount != 1 {
		t.Fatalf("duration sample count = %d, want 1", histCount)
	}

	delegations, err := histogramSampleCount(exporter.delegationDurationSeconds.WithLabelValues("bridge-a"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if delegations != 1 {
		t.Fatalf("delegation sample count = %d, want 1", delegations)
	}
}

func TestMetricsExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("gofutures", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("first NewMetricsExporter failed: %v", err)
	}
	second, err := NewMetricsExporter("gofutures", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("second NewMetricsExporter failed: %v", err)
	}

	first.RecordTaskSubmitted("bridge-a")
	second.RecordTaskSubmitted("bridge-a")

	got := testutil.ToFloat64(first.taskSubmittedTotal.WithLabelValues("bridge-a"))
	if got != 2 {
		t.Fatalf("shared submitted counter = %v, want 2", got)
	}
}

func histogramSampleCount(observer prom.Observer) (uint64, error) {
	collector, ok := observer.(prom.Collector)
	if !ok {
		return 0, nil
	}

	metricCh := make(chan prom.Metric, 1)
	collector.Collect(metricCh)
	close(metricCh)
	for metric := range metricCh {
		msg := &dto.Metric{}
		if err := metric.Write(msg); err != nil {
			return 0, err
		}
		if msg.Histogram != nil {
			return msg.Histogram.GetSampleCount(), nil
		}
	}
	return 0, nil
}
