package sqlstore

import (
	"context"
	"fmt"

	"github.com/kilianp07/planner/core/model"
)

func (t *tx) CreateProject(ctx context.Context, p model.Project) error {
	if _, err := t.exec(ctx,
		`INSERT INTO projects (project_id, name, description, period_id) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.PeriodID); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (t *tx) GetProject(ctx context.Context, id string) (model.Project, error) {
	var p model.Project
	err := t.queryRow(ctx,
		`SELECT project_id, name, description, period_id FROM projects WHERE project_id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.PeriodID)
	if err != nil {
		return model.Project{}, notFound(err, "project", id)
	}
	return p, nil
}

func (t *tx) ListProjectsByPeriod(ctx context.Context, periodID string) ([]model.Project, error) {
	rows, err := t.query(ctx,
		`SELECT project_id, name, description, period_id FROM projects
		 WHERE period_id = ? ORDER BY name, project_id`, periodID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()
	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PeriodID); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes the project with its components and their assignments.
func (t *tx) DeleteProject(ctx context.Context, id string) error {
	stmts := []string{
		`DELETE FROM assignments WHERE component_id IN (
		   SELECT component_id FROM components WHERE project_id = ?)`,
		`DELETE FROM components WHERE project_id = ?`,
		`DELETE FROM projects WHERE project_id = ?`,
	}
	for _, q := range stmts {
		if _, err := t.exec(ctx, q, id); err != nil {
			return fmt.Errorf("delete project %s: %w", id, err)
		}
	}
	return nil
}
