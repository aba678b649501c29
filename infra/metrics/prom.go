package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/planner/core/metrics"
)

// PromSink records planner operations in Prometheus metrics.
type PromSink struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	weeks      *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_operations_total",
		Help: "Planner operations by outcome",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_operation_duration_seconds",
		Help:    "Time spent in a planner operation including its transaction",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	weeks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_assignment_weeks_total",
		Help: "Assignment weeks added or removed",
	}, []string{"change"})

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if weeks, err = register(reg, weeks); err != nil {
		return nil, err
	}
	return &PromSink{operations: operations, duration: duration, weeks: weeks}, nil
}

// register returns the already registered collector when one with the same
// descriptor exists, so several sinks can share the default registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordOperation counts the operation and observes its duration.
func (s *PromSink) RecordOperation(ev coremetrics.OperationEvent) error {
	s.operations.WithLabelValues(ev.Operation, ev.Outcome).Inc()
	s.duration.WithLabelValues(ev.Operation).Observe(ev.Duration.Seconds())
	return nil
}

// RecordAssignmentChange adds ledger volumes.
func (s *PromSink) RecordAssignmentChange(ev coremetrics.AssignmentChangeEvent) error {
	if ev.Added > 0 {
		s.weeks.WithLabelValues("added").Add(float64(ev.Added))
	}
	if ev.Removed > 0 {
		s.weeks.WithLabelValues("removed").Add(float64(ev.Removed))
	}
	return nil
}
