package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue sums the samples of a counter family with the given label.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	rec.ObserveFile("issues", 120*time.Millisecond)
	rec.ObserveFile("issues", 80*time.Millisecond)
	rec.ObserveFile("fatal", time.Millisecond)
	rec.ObserveIssues("Sample Files", 2)
	rec.ObserveIssues("Sample Files", 1)
	rec.ObserveIssues("Format", 0)

	tests := []struct {
		name, label, value string
		want               float64
	}{
		{"contractcheck_files_total", "status", "issues", 2},
		{"contractcheck_files_total", "status", "fatal", 1},
		{"contractcheck_issues_total", "category", "Sample Files", 3},
		{"contractcheck_issues_total", "category", "Format", 0},
	}
	for _, tt := range tests {
		if got := counterValue(t, reg, tt.name, tt.label, tt.value); got != tt.want {
			t.Errorf("%s{%s=%q} = %v, want %v", tt.name, tt.label, tt.value, got, tt.want)
		}
	}
}

func TestNewRecorder_SeparateRegistries(t *testing.T) {
	// Two recorders on separate registries must not collide.
	NewRecorder(prometheus.NewRegistry())
	NewRecorder(prometheus.NewRegistry())
	NewRecorder(nil)
}
