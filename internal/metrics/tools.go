package metrics

import "github.com/prometheus/client_golang/prometheus"

// MCP tool Prometheus metrics.
var (
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogmcp",
			Name:      "tool_calls_total",
			Help:      "Total number of MCP tool invocations",
		},
		[]string{"tool", "status"},
	)

	ToolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogmcp",
			Name:      "tool_call_duration_seconds",
			Help:      "MCP tool invocation duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"tool"},
	)

	GateDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogmcp",
			Name:      "gate_decisions_total",
			Help:      "Tool gating decisions by gate and outcome",
		},
		[]string{"gate", "decision"},
	)
)

var toolMetricsRegistered bool

// RegisterToolMetrics registers Prometheus tool metrics. Must be called once from main.
func RegisterToolMetrics() {
	if toolMetricsRegistered {
		return
	}
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(ToolCallDuration)
	prometheus.MustRegister(GateDecisionsTotal)
	toolMetricsRegistered = true
}
