package metrics

import (
	"strings"
	"testing"
)

func TestRenderExposesAllSeries(t *testing.T) {
	IncPredictionRequest()
	IncRecommendationRequest()
	ObservePredictionDurationMs(12.5)

	out := Render()
	for _, name := range []string{
		"prediction_requests_total",
		"prediction_failed_total",
		"recommendation_requests_total",
		"model_reload_total",
		"model_reload_failed_total",
		"prediction_duration_ms_bucket",
		"prediction_duration_ms_sum",
		"prediction_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("missing series %q in output:\n%s", name, out)
		}
	}
	if !strings.Contains(out, `prediction_duration_ms_bucket{le="+Inf"}`) {
		t.Fatalf("missing +Inf bucket")
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("count: got %d", snap.count)
	}
	// Per-bucket counts; rendering accumulates them.
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("bucket counts: got %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Fatalf("sum: got %v", snap.sum)
	}
}
