// Package metrics exposes Prometheus instrumentation for generation calls and
// training-week updates.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/racecoach/internal/llm"
	"github.com/alexanderramin/racecoach/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "racecoach"

var (
	llmCallsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "llm",
		Name:      "calls_total",
		Help:      "Number of generation backend calls grouped by generation name and outcome.",
	}, []string{"generation", "outcome"})

	llmLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "llm",
		Name:      "call_duration_seconds",
		Help:      "Latency of generation backend calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"task"})

	llmTokensCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "llm",
		Name:      "tokens_total",
		Help:      "Tokens reported by the backend per task.",
	}, []string{"task"})

	weekUpdatesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "update",
		Name:      "weeks_total",
		Help:      "Training-week updates grouped by mode and outcome.",
	}, []string{"mode", "outcome"})

	weekUpdateLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "update",
		Name:      "week_duration_seconds",
		Help:      "End-to-end duration of one athlete's training-week update.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 9),
	}, []string{"mode"})

	lastBatchGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "update",
		Name:      "last_batch_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed batch run.",
	})
)

func init() {
	prometheus.MustRegister(llmCallsCounter, llmLatency, llmTokensCounter,
		weekUpdatesCounter, weekUpdateLatency, lastBatchGauge)
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// LLMObserver records every backend call. It is combined with the log and
// JSONL observers through llm.MultiObserver.
type LLMObserver struct{}

var _ llm.Observer = LLMObserver{}

func (LLMObserver) OnCallComplete(event llm.LLMCallEvent) {
	name := event.Name
	if name == "" {
		name = string(event.Task)
	}
	llmCallsCounter.WithLabelValues(name, outcome(event.Success)).Inc()
	llmLatency.WithLabelValues(string(event.Task)).Observe(event.Duration.Seconds())
	if event.Usage.TotalTokens > 0 {
		llmTokensCounter.WithLabelValues(string(event.Task)).Add(float64(event.Usage.TotalTokens))
	}
}

// RecordWeekUpdate counts one athlete update and its duration.
func RecordWeekUpdate(mode string, success bool, d time.Duration) {
	weekUpdatesCounter.WithLabelValues(mode, outcome(success)).Inc()
	weekUpdateLatency.WithLabelValues(mode).Observe(d.Seconds())
}

// RecordBatch stamps the completion time of a batch run.
func RecordBatch(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastBatchGauge.Set(float64(ts.Unix()))
}

// Serve exposes /metrics on addr until ctx is cancelled. An empty addr is a
// no-op.
func Serve(ctx context.Context, addr string, log *logger.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown error", "error", err)
		}
	}()
}
