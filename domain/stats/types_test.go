package stats

import (
	"testing"

	"switchback/domain/core"
)

func TestIsSignificant_Threshold(t *testing.T) {
	tests := []struct {
		p    float64
		want bool
	}{
		{0.0001, true},
		{0.0499, true},
		{0.05, false},
		{0.2, false},
		{1, false},
	}
	for _, tt := range tests {
		if got := IsSignificant(tt.p); got != tt.want {
			t.Errorf("IsSignificant(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestReport_Lookups(t *testing.T) {
	report := Report{
		Results: []ComparisonResult{{Metric: "total_rides", Difference: 9}},
		Samples: []MetricSamples{{Metric: "total_rides", A: []float64{10, 20}, B: []float64{5, 7}}},
	}

	res, ok := report.Result(core.MetricKey("total_rides"))
	if !ok || res.Difference != 9 {
		t.Fatalf("expected total_rides result, got %+v (found=%v)", res, ok)
	}
	if _, ok := report.Result("match_rate"); ok {
		t.Error("expected no match_rate result")
	}
	samples, ok := report.SamplesFor("total_rides")
	if !ok || len(samples.A) != 2 {
		t.Errorf("expected samples for total_rides, got %+v", samples)
	}
}
