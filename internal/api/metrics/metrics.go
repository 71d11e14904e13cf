// Package metrics defines and registers all custom Prometheus metrics for the
// lost-and-found API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at init time via promauto; the
// router exposes them on /metrics together with the echoprometheus request
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lostfound"

// ItemsCreatedTotal counts newly posted listings.
// Label:
//   - type: "lost" or "found"
var ItemsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_created_total",
		Help:      "Total number of items posted, by listing type.",
	},
	[]string{"type"},
)

// FanoutDeliveriesTotal counts per-recipient notification outcomes during the
// lost-item fan-out.
// Label:
//   - result: "created" or "failed"
var FanoutDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_deliveries_total",
		Help:      "Total number of fan-out notification deliveries, by result.",
	},
	[]string{"result"},
)

// FanoutDuration measures how long a full fan-out takes, from listing users to
// the last notification write.
var FanoutDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fanout_duration_seconds",
		Help:      "Duration of the lost-item notification fan-out.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// SearchesTotal counts listing requests that carried a text query.
var SearchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of item searches with a text query.",
	},
)
