package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	ActiveSessions  prometheus.Gauge
	FramesDelivered prometheus.Counter
	FramesDropped   prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bus_active_sessions",
			Help: "Number of live transport sessions.",
		}),
		FramesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bus_frames_delivered_total",
			Help: "Frames handed to session queues.",
		}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bus_frames_dropped_total",
			Help: "Frames dropped from full session queues (drop-oldest).",
		}),
	}
	registry.MustRegister(m.ActiveSessions, m.FramesDelivered, m.FramesDropped)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
