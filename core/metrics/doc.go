// Package metrics defines the sinks planner operations are reported to.
// Sinks are built from configuration through a registry; implementations
// such as PromSink and InfluxSink register themselves from infra/metrics.
// NewMetricsSink returns a MultiSink automatically when several sinks are
// configured.
package metrics
