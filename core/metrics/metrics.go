package metrics

import "time"

// OperationEvent describes one completed planner operation.
type OperationEvent struct {
	Operation string
	// Outcome is "ok" or the error kind that ended the operation.
	Outcome  string
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records planner operations for observability purposes.
type MetricsSink interface {
	RecordOperation(ev OperationEvent) error
}

// AssignmentChangeEvent counts assignment rows inserted and deleted by one operation.
type AssignmentChangeEvent struct {
	Operation string
	Added     int
	Removed   int
	Time      time.Time
}

// AssignmentRecorder records assignment ledger volumes.
type AssignmentRecorder interface {
	RecordAssignmentChange(ev AssignmentChangeEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordOperation(OperationEvent) error               { return nil }
func (NopSink) RecordAssignmentChange(AssignmentChangeEvent) error { return nil }
