package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestTrackerRecordsRunsAndFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	for i := 0; i < 4; i++ {
		if err := metrics.Track("workspace.sweep").End(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	boom := errors.New("boom")
	if err := metrics.Track("workspace.sweep").End(boom); !errors.Is(err, boom) {
		t.Fatalf("expected error passthrough, got %v", err)
	}
	metrics.AddEvicted(3)
	metrics.AddEvicted(0)

	families := gather(t, reg)
	runs := families["shopdesk_jobs_total"]
	if runs == nil {
		t.Fatalf("jobs counter not exported")
	}
	counts := map[string]float64{}
	for _, m := range runs.GetMetric() {
		for _, label := range m.GetLabel() {
			if label.GetName() == "status" {
				counts[label.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	if counts["success"] != 4 || counts["failure"] != 1 {
		t.Fatalf("unexpected run counts: %+v", counts)
	}
	if got := families["shopdesk_jobs_failures_total"].GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := families["shopdesk_workspaces_evicted_total"].GetMetric()[0].GetCounter().GetValue(); got != 3 {
		t.Fatalf("expected 3 evictions, got %v", got)
	}
	hist := families["shopdesk_job_duration_seconds"].GetMetric()[0].GetHistogram()
	if hist.GetSampleCount() != 5 {
		t.Fatalf("expected 5 duration samples, got %d", hist.GetSampleCount())
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var metrics *Metrics
	if err := metrics.Track("workspace.sweep").End(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	metrics.AddEvicted(5)
}
