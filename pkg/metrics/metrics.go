// Package metrics exposes Prometheus collectors fed by router hooks and the dispatcher.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tinderbolt"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	modeEntries      *prometheus.CounterVec
	exchanges        *prometheus.CounterVec
	exchangeDuration *prometheus.HistogramVec
	events           *prometheus.CounterVec
	eventDuration    prometheus.Histogram
}

// New registers the collectors on a fresh registry.
// sessions, if not nil, is sampled on every scrape as the live session count.
func New(sessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		modeEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mode_entries_total",
				Help:      "Number of dialog mode entries",
			},
			[]string{"mode"},
		),
		exchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchanges_total",
				Help:      "Calls to the conversation service",
			},
			[]string{"mode", "kind", "result"},
		),
		exchangeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "exchange_duration_seconds",
				Help:      "Duration of calls to the conversation service",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"mode"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Inbound events by outcome",
			},
			[]string{"outcome"},
		),
		eventDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "event_duration_seconds",
				Help:      "Time to handle one inbound event",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(m.modeEntries, m.exchanges, m.exchangeDuration, m.events, m.eventDuration)
	if sessions != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions",
				Help:      "Sessions held in memory",
			},
			func() float64 { return float64(sessions()) },
		))
	}
	return m
}

// Hooks returns router callbacks that record mode entries and exchanges.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeEnter: func(_ context.Context, e *domain.ModeEvent) {
			m.modeEntries.WithLabelValues(string(e.To)).Inc()
		},
		OnExchange: func(_ context.Context, e *domain.ExchangeEvent) {
			result := "ok"
			if e.Err != nil {
				result = "failed"
			}
			m.exchanges.WithLabelValues(string(e.Mode), e.Kind, result).Inc()
			m.exchangeDuration.WithLabelValues(string(e.Mode)).Observe(e.Duration.Seconds())
		},
	}
}

// ObserveEvent implements dispatch.Observer.
func (m *Metrics) ObserveEvent(outcome string, d time.Duration) {
	m.events.WithLabelValues(outcome).Inc()
	m.eventDuration.Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
