package metrics

import "github.com/prometheus/client_golang/prometheus"

// metrics variables
var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsync_runs_total",
			Help: "Total number of reconciliation runs by final status",
		},
		[]string{"status"},
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netsync_run_duration_seconds",
			Help:    "Duration of a reconciliation run",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 300.0},
		},
	)

	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsync_actions_total",
			Help: "Total number of change actions by entity kind, action type and result",
		},
		[]string{"kind", "type", "result"},
	)

	DevicesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsync_devices_total",
			Help: "Total number of devices processed by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(RunsTotal)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(ActionsTotal)
	prometheus.MustRegister(DevicesTotal)
}
