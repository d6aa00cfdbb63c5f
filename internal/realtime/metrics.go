package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mealvine_realtime_active_connections",
		Help: "Number of live event stream connections across all stores.",
	})
	broadcastEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealvine_realtime_broadcasts_total",
		Help: "Number of events fanned out to store connections.",
	})
	deadSinksPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealvine_realtime_dead_sinks_pruned_total",
		Help: "Connections dropped after a failed push.",
	})
)
