package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/planner/core/metrics"
)

func TestPromSink_RecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, sink.RecordOperation(coremetrics.OperationEvent{Operation: "update_assignments", Outcome: "ok", Duration: 20 * time.Millisecond, Time: now}))
	require.NoError(t, sink.RecordOperation(coremetrics.OperationEvent{Operation: "update_assignments", Outcome: "validation", Duration: time.Millisecond, Time: now}))
	require.NoError(t, sink.RecordOperation(coremetrics.OperationEvent{Operation: "create_period", Outcome: "ok", Time: now}))

	expected := `
# HELP planner_operations_total Planner operations by outcome
# TYPE planner_operations_total counter
planner_operations_total{operation="create_period",outcome="ok"} 1
planner_operations_total{operation="update_assignments",outcome="ok"} 1
planner_operations_total{operation="update_assignments",outcome="validation"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.operations, strings.NewReader(expected)))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.duration))
}

func TestPromSink_RecordAssignmentChange(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordAssignmentChange(coremetrics.AssignmentChangeEvent{Operation: "update_assignments", Added: 3, Removed: 1}))
	require.NoError(t, sink.RecordAssignmentChange(coremetrics.AssignmentChangeEvent{Operation: "clear_assignments", Removed: 2}))

	assert.Equal(t, 3.0, testutil.ToFloat64(sink.weeks.WithLabelValues("added")))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.weeks.WithLabelValues("removed")))
}

func TestPromSink_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, second.RecordOperation(coremetrics.OperationEvent{Operation: "create_skill", Outcome: "ok"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(first.operations.WithLabelValues("create_skill", "ok")))
}
