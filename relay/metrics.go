package relay

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	routedCount    atomic.Int64
	deliveredCount atomic.Int64
	routeDuration  prometheus.Summary
}

func (m *metrics) observe(delivered int, dur time.Duration) {
	m.routedCount.Add(1)
	m.deliveredCount.Add(int64(delivered))
	if m.routeDuration != nil {
		m.routeDuration.Observe(dur.Seconds())
	}
}

func registerMetrics(reg *prometheus.Registry, r *relay) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "push",
		Subsystem: "relay",
		Name:      "routed_messages",
		Help:      "total count of routed upstream messages",
	}, func() float64 {
		return float64(r.metrics.routedCount.Load())
	}))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "push",
		Subsystem: "relay",
		Name:      "delivered_count",
		Help:      "total count of per-device deliveries",
	}, func() float64 {
		return float64(r.metrics.deliveredCount.Load())
	}))
	r.metrics.routeDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "push",
		Subsystem: "relay",
		Name:      "duration_seconds",
		Objectives: map[float64]float64{
			0.5:  0.5,
			0.85: 0.01,
			0.95: 0.0005,
			0.99: 0.0001,
		},
	})
	reg.MustRegister(r.metrics.routeDuration)
}
