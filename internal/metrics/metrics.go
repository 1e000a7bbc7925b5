// Package metrics registers the prometheus collectors instrumenting the
// matching core. Exposure of the collectors over HTTP belongs to the
// administrative surface and is outside the core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersAccepted counts accepted order placements.
	OrdersAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "marketsim",
		Subsystem: "matching",
		Name:      "orders_accepted_total",
		Help:      "Number of accepted order placement requests",
	})

	// OrdersRejected counts rejected or killed order placements.
	OrdersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "marketsim",
		Subsystem: "matching",
		Name:      "orders_rejected_total",
		Help:      "Number of rejected order placement requests",
	})

	// TradesExecuted counts executed trades.
	TradesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "marketsim",
		Subsystem: "matching",
		Name:      "trades_executed_total",
		Help:      "Number of executed trades",
	})

	// CommandsProcessed counts engine commands by name.
	CommandsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketsim",
		Subsystem: "scheduling",
		Name:      "commands_processed_total",
		Help:      "Number of processed engine commands",
	}, []string{"command"})

	// QueueDepth tracks the number of pending commands per engine queue.
	QueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "marketsim",
		Subsystem: "scheduling",
		Name:      "queue_depth",
		Help:      "Number of commands waiting in an engine queue",
	}, []string{"instrument"})
)
