package planner

import (
	"context"
	"strings"

	"github.com/kilianp07/planner/core/model"
)

// ComponentInput holds the fields of a standalone component.
type ComponentInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ProjectID      string `json:"project_id"`
	SkillID        string `json:"skill_id"`
	EstimatedWeeks int    `json:"estimated_weeks"`
}

// CreateComponent adds a component to an existing project.
func (s *Service) CreateComponent(ctx context.Context, in ComponentInput) (model.Component, error) {
	projectID := strings.TrimSpace(in.ProjectID)
	if projectID == "" {
		return model.Component{}, validationf("project_id is required")
	}
	var c model.Component
	var project model.Project
	err := s.do(ctx, OpCreateComponent, func(tx Tx) error {
		var err error
		if project, err = tx.GetProject(ctx, projectID); err != nil {
			return err
		}
		c, err = s.addComponent(ctx, tx, project, ComponentSpec{
			Name:           in.Name,
			Description:    in.Description,
			SkillID:        in.SkillID,
			EstimatedWeeks: in.EstimatedWeeks,
		})
		return err
	})
	if err != nil {
		return model.Component{}, err
	}
	s.publish(ChangeComponentCreated, c.ID, project.PeriodID)
	return c, nil
}

// UpdateComponentEstimatedWeeks changes the effort estimate of a component.
func (s *Service) UpdateComponentEstimatedWeeks(ctx context.Context, id string, weeks int) (model.Component, error) {
	if weeks < 0 {
		return model.Component{}, validationf("estimated_weeks must not be negative, got %d", weeks)
	}
	var c model.Component
	var project model.Project
	err := s.do(ctx, OpUpdateEstimatedWeeks, func(tx Tx) error {
		var err error
		if c, err = tx.GetComponent(ctx, id); err != nil {
			return err
		}
		if project, err = tx.GetProject(ctx, c.ProjectID); err != nil {
			return err
		}
		c.EstimatedWeeks = weeks
		return tx.UpdateComponent(ctx, c)
	})
	if err != nil {
		return model.Component{}, err
	}
	s.publish(ChangeComponentUpdated, c.ID, project.PeriodID)
	return c, nil
}

// DeleteComponent removes a component and its assignments.
func (s *Service) DeleteComponent(ctx context.Context, id string) error {
	var project model.Project
	var removed int
	err := s.do(ctx, OpDeleteComponent, func(tx Tx) error {
		c, err := tx.GetComponent(ctx, id)
		if err != nil {
			return err
		}
		if project, err = tx.GetProject(ctx, c.ProjectID); err != nil {
			return err
		}
		if removed, err = tx.DeleteAssignmentsByComponent(ctx, id); err != nil {
			return err
		}
		return tx.DeleteComponent(ctx, id)
	})
	if err != nil {
		return err
	}
	s.recordAssignmentChange(OpDeleteComponent, 0, removed)
	s.publish(ChangeComponentDeleted, id, project.PeriodID)
	return nil
}

// GetComponentReport renders the week chart of a single component.
func (s *Service) GetComponentReport(ctx context.Context, id string) (ComponentReport, error) {
	var report ComponentReport
	err := s.do(ctx, OpGetComponent, func(tx Tx) error {
		c, err := tx.GetComponent(ctx, id)
		if err != nil {
			return err
		}
		project, err := tx.GetProject(ctx, c.ProjectID)
		if err != nil {
			return err
		}
		period, err := tx.GetPeriod(ctx, project.PeriodID)
		if err != nil {
			return err
		}
		report, err = newReportLookup(tx).componentReport(ctx, period, c)
		return err
	})
	return report, err
}
