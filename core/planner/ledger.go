package planner

import (
	"context"
	"errors"
	"strings"

	"github.com/kilianp07/planner/core/metrics"
	"github.com/kilianp07/planner/core/model"
)

// AssignmentUpdate adds and removes weeks of one component in a single unit of work.
type AssignmentUpdate struct {
	ComponentID   string `json:"component_id"`
	ContributorID string `json:"contributor_id"`
	AddedWeeks    []int  `json:"added_weeks"`
	RemovedWeeks  []int  `json:"removed_weeks"`
}

// AssignmentChanges lists the rows actually inserted and deleted.
type AssignmentChanges struct {
	Added   []model.Assignment `json:"added"`
	Removed []model.Assignment `json:"removed"`
}

// UpdateAssignments applies removals first, then additions. Removing a free
// week is a no-op. Adding an occupied week, including one repeated in
// AddedWeeks, fails and rolls back the whole update.
//
// The contributor must hold the component's skill. Weeks may only be added
// while every row left after the removals belongs to that contributor; the
// ledger decides ownership, and the component pointer follows it once weeks
// are added.
func (s *Service) UpdateAssignments(ctx context.Context, in AssignmentUpdate) (AssignmentChanges, error) {
	componentID := strings.TrimSpace(in.ComponentID)
	contributorID := strings.TrimSpace(in.ContributorID)
	if componentID == "" {
		return AssignmentChanges{}, validationf("component_id is required")
	}
	if contributorID == "" && len(in.AddedWeeks) > 0 {
		return AssignmentChanges{}, validationf("contributor_id is required to add weeks")
	}
	changes := AssignmentChanges{Added: []model.Assignment{}, Removed: []model.Assignment{}}
	var project model.Project
	err := s.do(ctx, OpUpdateAssignments, func(tx Tx) error {
		c, err := tx.GetComponent(ctx, componentID)
		if err != nil {
			return err
		}
		if project, err = tx.GetProject(ctx, c.ProjectID); err != nil {
			return err
		}
		period, err := tx.GetPeriod(ctx, project.PeriodID)
		if err != nil {
			return err
		}
		if err := checkWeeks(period, in.RemovedWeeks); err != nil {
			return err
		}
		if err := checkWeeks(period, in.AddedWeeks); err != nil {
			return err
		}
		if contributorID != "" {
			if _, err := checkEligibility(ctx, tx, c, contributorID); err != nil {
				return err
			}
		}

		for _, week := range in.RemovedWeeks {
			a, ok, err := tx.DeleteAssignment(ctx, c.ID, week)
			if err != nil {
				return err
			}
			if ok {
				changes.Removed = append(changes.Removed, a)
			}
		}
		if len(in.AddedWeeks) > 0 {
			held, err := tx.ListAssignmentsByComponent(ctx, c.ID)
			if err != nil {
				return err
			}
			for _, a := range held {
				if a.ContributorID != contributorID {
					return validationf("week %d of component %q is held by contributor %q, not %q",
						a.Week, c.ID, a.ContributorID, contributorID)
				}
			}
		}
		for _, week := range in.AddedWeeks {
			a := model.Assignment{ComponentID: c.ID, ContributorID: contributorID, Week: week}
			if err := tx.InsertAssignment(ctx, a); err != nil {
				if errors.Is(err, ErrDuplicate) {
					return validationf("week %d of component %q is already assigned", week, c.ID)
				}
				return err
			}
			changes.Added = append(changes.Added, a)
		}

		if len(changes.Added) > 0 && (!c.Assigned() || *c.ContributorID != contributorID) {
			c.ContributorID = &contributorID
			return tx.UpdateComponent(ctx, c)
		}
		return nil
	})
	if err != nil {
		return AssignmentChanges{}, err
	}
	s.recordAssignmentChange(OpUpdateAssignments, len(changes.Added), len(changes.Removed))
	s.publish(ChangeAssignmentsUpdated, componentID, project.PeriodID)
	return changes, nil
}

// ClearAssignments deletes every assignment of a component and returns how
// many were removed. The contributor pointer is kept.
func (s *Service) ClearAssignments(ctx context.Context, componentID string) (int, error) {
	var removed int
	var project model.Project
	err := s.do(ctx, OpClearAssignments, func(tx Tx) error {
		c, err := tx.GetComponent(ctx, componentID)
		if err != nil {
			return err
		}
		if project, err = tx.GetProject(ctx, c.ProjectID); err != nil {
			return err
		}
		removed, err = tx.DeleteAssignmentsByComponent(ctx, c.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.recordAssignmentChange(OpClearAssignments, 0, removed)
	s.publish(ChangeAssignmentsCleared, componentID, project.PeriodID)
	return removed, nil
}

// ListAssignmentsByContributor returns the contributor's assignments, latest week first.
func (s *Service) ListAssignmentsByContributor(ctx context.Context, contributorID string) ([]model.Assignment, error) {
	var out []model.Assignment
	err := s.do(ctx, OpListAssignments, func(tx Tx) error {
		if _, err := tx.GetContributor(ctx, contributorID); err != nil {
			return err
		}
		var err error
		out, err = tx.ListAssignmentsByContributor(ctx, contributorID)
		return err
	})
	return out, err
}

func checkWeeks(period model.Period, weeks []int) error {
	for _, w := range weeks {
		if !period.HasWeek(w) {
			return validationf("week %d is outside period %q (0..%d)", w, period.ID, period.NumWeeks()-1)
		}
	}
	return nil
}

// recordAssignmentChange forwards ledger volumes to sinks that track them.
func (s *Service) recordAssignmentChange(op string, added, removed int) {
	rec, ok := s.sink.(metrics.AssignmentRecorder)
	if !ok || (added == 0 && removed == 0) {
		return
	}
	if err := rec.RecordAssignmentChange(metrics.AssignmentChangeEvent{
		Operation: op,
		Added:     added,
		Removed:   removed,
		Time:      s.now(),
	}); err != nil {
		s.log.Warnf("record %s assignment change: %v", op, err)
	}
}
