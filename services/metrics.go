package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tableEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tablemate",
		Name:      "table_events_total",
		Help:      "Table session events by kind (opened, joined, released, deleted).",
	}, []string{"event"})

	serviceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tablemate",
		Name:      "service_requests_total",
		Help:      "Service request calls by outcome.",
	}, []string{"outcome"})

	orderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tablemate",
		Name:      "order_transitions_total",
		Help:      "Order lifecycle transitions by target state.",
	}, []string{"state"})

	checkoutTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tablemate",
		Name:      "checkouts_total",
		Help:      "Completed checkouts.",
	})

	billedAmount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tablemate",
		Name:      "billed_amount_total",
		Help:      "Sum of all receipt totals.",
	})
)
