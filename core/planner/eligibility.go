package planner

import (
	"context"
	"strings"

	"github.com/kilianp07/planner/core/model"
)

// checkEligibility loads the contributor and verifies it holds the skill the
// component requires.
func checkEligibility(ctx context.Context, tx Tx, c model.Component, contributorID string) (model.Contributor, error) {
	contributor, err := tx.GetContributor(ctx, contributorID)
	if err != nil {
		return model.Contributor{}, err
	}
	if !contributor.HasSkill(c.SkillID) {
		return model.Contributor{}, validationf("contributor %q lacks skill %q required by component %q",
			contributorID, c.SkillID, c.ID)
	}
	return contributor, nil
}

// AssignContributor points a component at a contributor holding its skill and
// moves the existing assignments to that contributor. A nil or empty
// contributorID clears both the assignments and the pointer.
func (s *Service) AssignContributor(ctx context.Context, componentID string, contributorID *string) (model.Component, error) {
	target := ""
	if contributorID != nil {
		target = strings.TrimSpace(*contributorID)
	}
	var c model.Component
	var project model.Project
	var moved, removed int
	err := s.do(ctx, OpAssignContributor, func(tx Tx) error {
		var err error
		if c, err = tx.GetComponent(ctx, componentID); err != nil {
			return err
		}
		if project, err = tx.GetProject(ctx, c.ProjectID); err != nil {
			return err
		}
		if target == "" {
			if removed, err = tx.DeleteAssignmentsByComponent(ctx, c.ID); err != nil {
				return err
			}
			c.ContributorID = nil
			return tx.UpdateComponent(ctx, c)
		}
		if _, err := checkEligibility(ctx, tx, c, target); err != nil {
			return err
		}
		existing, err := tx.ListAssignmentsByComponent(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			if err := tx.ReassignAssignments(ctx, c.ID, target); err != nil {
				return err
			}
			moved = len(existing)
		}
		c.ContributorID = &target
		return tx.UpdateComponent(ctx, c)
	})
	if err != nil {
		return model.Component{}, err
	}
	if removed > 0 {
		s.recordAssignmentChange(OpAssignContributor, 0, removed)
	}
	if moved > 0 {
		s.log.Debugw("assignments moved", map[string]any{"component_id": c.ID, "contributor_id": target, "weeks": moved})
	}
	s.publish(ChangeComponentAssigned, c.ID, project.PeriodID)
	return c, nil
}
