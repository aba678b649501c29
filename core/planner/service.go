package planner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/metrics"
)

// Operation names reported to metrics sinks.
const (
	OpCreatePeriod            = "create_period"
	OpGetPeriod               = "get_period"
	OpListPeriods             = "list_periods"
	OpDeletePeriod            = "delete_period"
	OpCreateProject           = "create_project"
	OpDeleteProject           = "delete_project"
	OpListProjects            = "list_projects_with_components"
	OpCreateSkill             = "create_skill"
	OpListSkills              = "list_skills"
	OpDeleteSkill             = "delete_skill"
	OpCreateComponent         = "create_component"
	OpGetComponent            = "get_component"
	OpUpdateEstimatedWeeks    = "update_component_estimated_weeks"
	OpDeleteComponent         = "delete_component"
	OpCreateContributor       = "create_contributor"
	OpListContributors        = "list_contributors"
	OpListContributorsBySkill = "list_contributors_by_skill"
	OpDeleteContributor       = "delete_contributor"
	OpAssignContributor       = "assign_contributor"
	OpUpdateAssignments       = "update_assignments"
	OpClearAssignments        = "clear_assignments"
	OpListAssignments         = "list_assignments_by_contributor"
	OpContributorChart        = "contributor_chart"
	OpPeriodUtilization       = "period_utilization"
)

// Service implements the planning operations. Every call runs in its own unit
// of work obtained from the Store.
type Service struct {
	store   Store
	log     logger.Logger
	sink    metrics.MetricsSink
	changes ChangePublisher
	newID   func() string
	now     func() time.Time
}

// NewService creates a Service. log, sink and changes may be nil.
func NewService(store Store, log logger.Logger, sink metrics.MetricsSink, changes ChangePublisher) *Service {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if changes == nil {
		changes = nopPublisher{}
	}
	return &Service{
		store:   store,
		log:     logger.OrNop(log),
		sink:    sink,
		changes: changes,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// do runs fn in a unit of work and records the outcome of op.
func (s *Service) do(ctx context.Context, op string, fn func(tx Tx) error) error {
	start := s.now()
	err := storeError(s.store.WithTx(ctx, fn))
	outcome := Outcome(err)
	if rerr := s.sink.RecordOperation(metrics.OperationEvent{
		Operation: op,
		Outcome:   outcome,
		Duration:  s.now().Sub(start),
		Time:      start,
	}); rerr != nil {
		s.log.Warnf("record %s metrics: %v", op, rerr)
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrStore):
		s.log.Errorf("%s: %v", op, err)
	default:
		s.log.Debugw(op+" rejected", map[string]any{"outcome": outcome, "error": err.Error()})
	}
	return err
}

func (s *Service) publish(kind ChangeKind, entityID, periodID string) {
	s.changes.Publish(Change{Kind: kind, EntityID: entityID, PeriodID: periodID, Time: s.now().UTC()})
}
