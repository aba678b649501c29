package metrics

import "io"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordOperation forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordOperation(ev OperationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordOperation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssignmentChange forwards ledger volumes to sinks that support them.
func (m *MultiSink) RecordAssignmentChange(ev AssignmentChangeEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(AssignmentRecorder); ok {
			if err := rec.RecordAssignmentChange(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes the sinks that hold resources.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
