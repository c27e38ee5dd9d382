package guildmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GuildHookMetrics records what happens to guild hook calls.
type GuildHookMetrics interface {
	RecordEventReceived(ctx context.Context, hook string)
	RecordEventDropped(ctx context.Context, hook, reason string)
	RecordDispatch(ctx context.Context, hook, status string, duration time.Duration)
	SetQueueDepth(ctx context.Context, depth int)
}

type prometheusMetrics struct {
	received   *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	dispatched *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	queueDepth prometheus.Gauge
}

// NewPrometheusMetrics creates guild hook metrics and registers them on reg.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) (GuildHookMetrics, error) {
	m := &prometheusMetrics{
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guild_hooks",
			Name:      "events_received_total",
			Help:      "Guild events accepted from the event bus.",
		}, []string{"hook"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guild_hooks",
			Name:      "events_dropped_total",
			Help:      "Guild events discarded before reaching a hook.",
		}, []string{"hook", "reason"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guild_hooks",
			Name:      "dispatch_total",
			Help:      "Hook dispatches by hook and status.",
		}, []string{"hook", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "guild_hooks",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent inside bound hooks.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"hook"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "guild_hooks",
			Name:      "queue_depth",
			Help:      "Hook calls waiting to be processed.",
		}),
	}

	for _, c := range []prometheus.Collector{m.received, m.dropped, m.dispatched, m.duration, m.queueDepth} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusMetrics) RecordEventReceived(_ context.Context, hook string) {
	m.received.WithLabelValues(hook).Inc()
}

func (m *prometheusMetrics) RecordEventDropped(_ context.Context, hook, reason string) {
	m.dropped.WithLabelValues(hook, reason).Inc()
}

func (m *prometheusMetrics) RecordDispatch(_ context.Context, hook, status string, duration time.Duration) {
	m.dispatched.WithLabelValues(hook, status).Inc()
	m.duration.WithLabelValues(hook).Observe(duration.Seconds())
}

func (m *prometheusMetrics) SetQueueDepth(_ context.Context, depth int) {
	m.queueDepth.Set(float64(depth))
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordEventReceived(context.Context, string) {}
func (NoOpMetrics) RecordEventDropped(context.Context, string, string) {}
func (NoOpMetrics) RecordDispatch(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) SetQueueDepth(context.Context, int) {}
