package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mediafinder"

// Catalog metrics
var (
	CatalogSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_searches_total",
			Help:      "Total number of catalog searches by media kind and outcome (success, empty, error).",
		},
		[]string{"kind", "outcome"},
	)
)

// Delivery metrics
var (
	AssetDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_deliveries_total",
			Help:      "Total number of poster and backdrop deliveries by outcome.",
		},
		[]string{"asset", "status"},
	)

	ExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of social extraction attempts by strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)
)

// Dialogue metrics
var (
	DialogueEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialogue_events_total",
			Help:      "Total number of inbound events by the state they were handled in.",
		},
		[]string{"state"},
	)

	DialogueErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialogue_errors_total",
			Help:      "Total number of errors surfaced to users by error kind.",
		},
		[]string{"kind"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of users with an open conversation.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CatalogSearchesTotal,
		AssetDeliveriesTotal,
		ExtractionsTotal,
		DialogueEventsTotal,
		DialogueErrorsTotal,
		ActiveSessions,
	)
}
