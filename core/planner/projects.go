package planner

import (
	"context"
	"sort"
	"strings"

	"github.com/kilianp07/planner/core/model"
)

// ComponentSpec describes a component to create along with its project.
type ComponentSpec struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	SkillID        string `json:"skill_id"`
	EstimatedWeeks int    `json:"estimated_weeks"`
}

// ProjectInput holds the fields of a new project.
type ProjectInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PeriodID    string          `json:"period_id"`
	Components  []ComponentSpec `json:"components"`
}

// CreateProject stores a project in its period and creates the listed components.
// Components without a name are called "<project> <skill>".
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (model.Project, error) {
	p := model.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		PeriodID:    strings.TrimSpace(in.PeriodID),
	}
	if p.Name == "" {
		return model.Project{}, validationf("name is required")
	}
	if p.PeriodID == "" {
		return model.Project{}, validationf("period_id is required")
	}
	p.ID = s.newID()
	err := s.do(ctx, OpCreateProject, func(tx Tx) error {
		if _, err := tx.GetPeriod(ctx, p.PeriodID); err != nil {
			return err
		}
		if err := tx.CreateProject(ctx, p); err != nil {
			return err
		}
		for _, spec := range in.Components {
			if _, err := s.addComponent(ctx, tx, p, spec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Project{}, err
	}
	s.publish(ChangeProjectCreated, p.ID, p.PeriodID)
	return p, nil
}

// addComponent creates a component inside project, deriving its name from
// the project and skill when none is given.
func (s *Service) addComponent(ctx context.Context, tx Tx, project model.Project, spec ComponentSpec) (model.Component, error) {
	skillID := strings.TrimSpace(spec.SkillID)
	if skillID == "" {
		return model.Component{}, validationf("skill_id is required")
	}
	if spec.EstimatedWeeks < 0 {
		return model.Component{}, validationf("estimated_weeks must not be negative, got %d", spec.EstimatedWeeks)
	}
	skill, err := tx.GetSkill(ctx, skillID)
	if err != nil {
		return model.Component{}, err
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = model.DefaultComponentName(project.Name, skill.Name)
	}
	c := model.Component{
		ID:             s.newID(),
		Name:           name,
		Description:    strings.TrimSpace(spec.Description),
		ProjectID:      project.ID,
		SkillID:        skill.ID,
		EstimatedWeeks: spec.EstimatedWeeks,
	}
	if err := tx.CreateComponent(ctx, c); err != nil {
		return model.Component{}, err
	}
	return c, nil
}

// DeleteProject removes a project with its components and their assignments.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	var project model.Project
	err := s.do(ctx, OpDeleteProject, func(tx Tx) error {
		var err error
		if project, err = tx.GetProject(ctx, id); err != nil {
			return err
		}
		return tx.DeleteProject(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ChangeProjectDeleted, id, project.PeriodID)
	return nil
}

// ListProjectsWithComponents renders every project of a period, ordered by
// name, with its component reports ordered by component name.
func (s *Service) ListProjectsWithComponents(ctx context.Context, periodID string) ([]ProjectReport, error) {
	var reports []ProjectReport
	err := s.do(ctx, OpListProjects, func(tx Tx) error {
		period, err := tx.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		projects, err := tx.ListProjectsByPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		sort.SliceStable(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
		reports = make([]ProjectReport, 0, len(projects))
		lookup := newReportLookup(tx)
		for _, p := range projects {
			components, err := tx.ListComponentsByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			componentReports := make([]ComponentReport, 0, len(components))
			for _, c := range components {
				r, err := lookup.componentReport(ctx, period, c)
				if err != nil {
					return err
				}
				componentReports = append(componentReports, r)
			}
			reports = append(reports, BuildProjectReport(p, componentReports))
		}
		return nil
	})
	return reports, err
}
