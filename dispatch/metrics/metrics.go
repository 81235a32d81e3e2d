// Package metrics reports [dispatch.Registry] activity to Prometheus.
package metrics

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/saylorsolutions/gevent/dispatch"
)

var _ dispatch.Instrument = (*Collector)(nil)

// Collector is a [dispatch.Instrument] backed by Prometheus metrics.
// Pass it to a registry with [dispatch.WithInstrument].
type Collector struct {
	commits   *prometheus.CounterVec
	failures  *prometheus.CounterVec
	listeners *prometheus.GaugeVec
}

// New creates a [Collector] and registers its metrics with reg.
// If reg is nil, then [prometheus.DefaultRegisterer] is used.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispatch",
				Name:      "commits_total",
				Help:      "Total number of events committed to at least one listener",
			},
			[]string{"namespace", "event"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispatch",
				Name:      "listener_failures_total",
				Help:      "Total number of listeners that failed during a commit",
			},
			[]string{"namespace", "event", "reason"},
		),
		listeners: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "dispatch",
				Name:      "listeners",
				Help:      "Number of listeners currently registered",
			},
			[]string{"namespace", "event"},
		),
	}
	if err := registerAll(reg, c.commits, c.failures, c.listeners); err != nil {
		return nil, err
	}
	return c, nil
}

// registerAll registers every collector, or none of them if any fails.
func registerAll(reg prometheus.Registerer, cols ...prometheus.Collector) error {
	for i, col := range cols {
		if err := reg.Register(col); err != nil {
			for _, registered := range cols[:i] {
				reg.Unregister(registered)
			}
			return fmt.Errorf("register dispatch metrics: %w", err)
		}
	}
	return nil
}

func (c *Collector) Committed(key dispatch.Key, _ int) {
	c.commits.WithLabelValues(key.Namespace, key.Event).Inc()
}

func (c *Collector) ListenerFailed(key dispatch.Key, err error) {
	c.failures.WithLabelValues(key.Namespace, key.Event, dispatch.FailureReason(err)).Inc()
}

// ListenersChanged removes the series for a key once it has no listeners left.
func (c *Collector) ListenersChanged(key dispatch.Key, count int) {
	if count == 0 {
		c.listeners.DeleteLabelValues(key.Namespace, key.Event)
		return
	}
	c.listeners.WithLabelValues(key.Namespace, key.Event).Set(float64(count))
}
