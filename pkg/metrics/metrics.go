// Package metrics provides Prometheus metrics for the remapper.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all remapper metrics
	namespace = "oscremap"
)

var (
	// EventsReceived counts events offered to the engine
	EventsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Total number of events offered to the remap engine",
		},
	)

	// EventsUnrouted counts events no route table handled
	EventsUnrouted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_unrouted_total",
			Help:      "Total number of events no route table handled",
		},
	)

	// EventsDispatched counts outbound events per remote
	EventsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Total number of outbound events per remote",
		},
		[]string{"remote"},
	)

	// DispatchFailures counts outbound events the dispatcher rejected
	DispatchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_failures_total",
			Help:      "Total number of outbound events the dispatcher failed to send",
		},
		[]string{"remote"},
	)

	// ConfigLoads counts configuration loads by result
	ConfigLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_loads_total",
			Help:      "Total number of configuration loads",
		},
		[]string{"result"},
	)

	// RouteTables tracks the number of route tables in the active model
	RouteTables = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "route_tables",
			Help:      "Number of route tables in the active configuration",
		},
	)

	// RouteMappings tracks the number of mappings per remote in the active model
	RouteMappings = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "route_mappings",
			Help:      "Number of mappings per remote in the active configuration",
		},
		[]string{"remote"},
	)
)

// Load results
const (
	ResultOK       = "ok"
	ResultFallback = "fallback"
)

// Collectors returns every remapper collector
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		EventsReceived,
		EventsUnrouted,
		EventsDispatched,
		DispatchFailures,
		ConfigLoads,
		RouteTables,
		RouteMappings,
	}
}

// Register registers every remapper collector with reg
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
