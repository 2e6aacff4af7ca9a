package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LocationsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hushbot",
			Subsystem: "location",
			Name:      "received_total",
			Help:      "Location readings received, by source",
		},
		[]string{"source"},
	)

	TransitionsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hushbot",
			Subsystem: "monitor",
			Name:      "transitions_published_total",
			Help:      "Transition events published by the region monitor",
		},
		[]string{"kind"},
	)

	TransitionsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hushbot",
			Subsystem: "transition",
			Name:      "handled_total",
			Help:      "Transition events handled, by kind",
		},
		[]string{"kind"},
	)

	DNDToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hushbot",
			Subsystem: "dnd",
			Name:      "toggles_total",
			Help:      "DND enable/disable attempts",
		},
		[]string{"action", "result"},
	)

	Subscriptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hushbot",
			Subsystem: "subscription",
			Name:      "operations_total",
			Help:      "Region subscribe/unsubscribe operations",
		},
		[]string{"op", "result"},
	)

	MonitoredRegions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hushbot",
			Subsystem: "monitor",
			Name:      "regions",
			Help:      "Regions currently registered with the monitor",
		},
	)
)

func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
