package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/core/planner"
)

const componentColumns = `c.component_id, c.name, c.description, c.project_id, c.skill_id, c.estimated_weeks, c.contributor_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(r rowScanner) (model.Component, error) {
	var c model.Component
	var contributor sql.NullString
	if err := r.Scan(&c.ID, &c.Name, &c.Description, &c.ProjectID, &c.SkillID, &c.EstimatedWeeks, &contributor); err != nil {
		return model.Component{}, err
	}
	c.ContributorID = stringPtr(contributor)
	return c, nil
}

func (t *tx) CreateComponent(ctx context.Context, c model.Component) error {
	if _, err := t.exec(ctx,
		`INSERT INTO components (component_id, name, description, project_id, skill_id, estimated_weeks, contributor_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.ProjectID, c.SkillID, c.EstimatedWeeks, nullString(c.ContributorID)); err != nil {
		return fmt.Errorf("insert component: %w", err)
	}
	return nil
}

func (t *tx) GetComponent(ctx context.Context, id string) (model.Component, error) {
	c, err := scanComponent(t.queryRow(ctx,
		`SELECT `+componentColumns+` FROM components c WHERE c.component_id = ?`, id))
	if err != nil {
		return model.Component{}, notFound(err, "component", id)
	}
	return c, nil
}

func (t *tx) listComponents(ctx context.Context, query string, arg string) ([]model.Component, error) {
	rows, err := t.query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer func() { _ = rows.Close() }()
	components := []model.Component{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func (t *tx) ListComponentsByProject(ctx context.Context, projectID string) ([]model.Component, error) {
	return t.listComponents(ctx,
		`SELECT `+componentColumns+` FROM components c
		 WHERE c.project_id = ? ORDER BY c.name, c.component_id`, projectID)
}

func (t *tx) ListComponentsByPeriod(ctx context.Context, periodID string) ([]model.Component, error) {
	return t.listComponents(ctx,
		`SELECT `+componentColumns+` FROM components c
		 JOIN projects p ON c.project_id = p.project_id
		 WHERE p.period_id = ? ORDER BY c.name, c.component_id`, periodID)
}

func (t *tx) UpdateComponent(ctx context.Context, c model.Component) error {
	res, err := t.exec(ctx,
		`UPDATE components SET name = ?, description = ?, skill_id = ?, estimated_weeks = ?, contributor_id = ?
		 WHERE component_id = ?`,
		c.Name, c.Description, c.SkillID, c.EstimatedWeeks, nullString(c.ContributorID), c.ID)
	if err != nil {
		return fmt.Errorf("update component %s: %w", c.ID, err)
	}
	n, err := affected(res)
	if err != nil {
		return fmt.Errorf("update component %s: %w", c.ID, err)
	}
	if n == 0 {
		return planner.NotFoundError("component", c.ID)
	}
	return nil
}

func (t *tx) ClearContributorFromComponents(ctx context.Context, contributorID string) error {
	if _, err := t.exec(ctx,
		`UPDATE components SET contributor_id = NULL WHERE contributor_id = ?`, contributorID); err != nil {
		return fmt.Errorf("clear contributor %s: %w", contributorID, err)
	}
	return nil
}

// DeleteComponent removes the component and its assignments.
func (t *tx) DeleteComponent(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM assignments WHERE component_id = ?`, id); err != nil {
		return fmt.Errorf("delete component assignments: %w", err)
	}
	if _, err := t.exec(ctx, `DELETE FROM components WHERE component_id = ?`, id); err != nil {
		return fmt.Errorf("delete component %s: %w", id, err)
	}
	return nil
}
