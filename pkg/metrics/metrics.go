package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1F47E/go-dotreel/pkg/logger"
)

// Skip reasons for FramesSkipped.
const (
	ReasonMissing  = "missing"
	ReasonDecode   = "decode"
	ReasonMismatch = "size_mismatch"
)

type Metrics struct {
	FramesEncoded  prometheus.Counter
	FramesSkipped  *prometheus.CounterVec
	FramesRendered prometheus.Counter
	FramesLate     prometheus.Counter
	RenderDuration prometheus.Histogram
	AudioFailures  prometheus.Counter
}

// New registers the collectors on reg. A nil reg gives unregistered collectors,
// which is what tests and runs without --metrics-addr use.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FramesEncoded: f.NewCounter(prometheus.CounterOpts{
			Name: "dotreel_frames_encoded_total",
			Help: "Frames written to the container",
		}),
		FramesSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dotreel_frames_skipped_total",
			Help: "Frames skipped while encoding",
		}, []string{"reason"}),
		FramesRendered: f.NewCounter(prometheus.CounterOpts{
			Name: "dotreel_frames_rendered_total",
			Help: "Frames drawn to the terminal",
		}),
		FramesLate: f.NewCounter(prometheus.CounterOpts{
			Name: "dotreel_frames_late_total",
			Help: "Frames that finished after their slot",
		}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dotreel_render_duration_seconds",
			Help:    "Time to decode, rasterize and write one frame",
			Buckets: []float64{.001, .002, .004, .008, .016, .032, .064, .128},
		}),
		AudioFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "dotreel_audio_failures_total",
			Help: "Audio sidecar runs that ended in an error",
		}),
	}
}

// Serve exposes reg on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	log := logger.Log.WithField("scope", "metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Infof("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
