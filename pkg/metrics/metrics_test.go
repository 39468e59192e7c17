package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FramesEncoded.Add(3)
	m.FramesSkipped.WithLabelValues(ReasonMissing).Inc()
	m.RenderDuration.Observe(0.01)

	if got := testutil.ToFloat64(m.FramesEncoded); got != 3 {
		t.Errorf("frames encoded = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.FramesSkipped.WithLabelValues(ReasonMissing)); got != 1 {
		t.Errorf("frames skipped = %v, want 1", got)
	}

	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Error("nothing registered")
	}
}

func TestNewWithoutRegistry(t *testing.T) {
	// twice in a row must not panic on duplicate registration
	New(nil).FramesRendered.Inc()
	New(nil).FramesRendered.Inc()
}
