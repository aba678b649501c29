package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/core/planner"
)

func (t *tx) InsertAssignment(ctx context.Context, a model.Assignment) error {
	if _, err := t.exec(ctx,
		`INSERT INTO assignments (component_id, week, contributor_id) VALUES (?, ?, ?)`,
		a.ComponentID, a.Week, a.ContributorID); err != nil {
		return fmt.Errorf("insert assignment %s/%d: %w", a.ComponentID, a.Week, err)
	}
	return nil
}

func (t *tx) DeleteAssignment(ctx context.Context, componentID string, week int) (model.Assignment, bool, error) {
	a := model.Assignment{ComponentID: componentID, Week: week}
	err := t.queryRow(ctx,
		`SELECT contributor_id FROM assignments WHERE component_id = ? AND week = ?`, componentID, week).
		Scan(&a.ContributorID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Assignment{}, false, nil
	}
	if err != nil {
		return model.Assignment{}, false, fmt.Errorf("find assignment %s/%d: %w", componentID, week, err)
	}
	if _, err := t.exec(ctx,
		`DELETE FROM assignments WHERE component_id = ? AND week = ?`, componentID, week); err != nil {
		return model.Assignment{}, false, fmt.Errorf("delete assignment %s/%d: %w", componentID, week, err)
	}
	return a, true, nil
}

func (t *tx) DeleteAssignmentsByComponent(ctx context.Context, componentID string) (int, error) {
	res, err := t.exec(ctx, `DELETE FROM assignments WHERE component_id = ?`, componentID)
	if err != nil {
		return 0, fmt.Errorf("delete assignments of component %s: %w", componentID, err)
	}
	return affected(res)
}

func (t *tx) DeleteAssignmentsByContributor(ctx context.Context, contributorID string) (int, error) {
	res, err := t.exec(ctx, `DELETE FROM assignments WHERE contributor_id = ?`, contributorID)
	if err != nil {
		return 0, fmt.Errorf("delete assignments of contributor %s: %w", contributorID, err)
	}
	return affected(res)
}

func (t *tx) ReassignAssignments(ctx context.Context, componentID, contributorID string) error {
	if _, err := t.exec(ctx,
		`UPDATE assignments SET contributor_id = ? WHERE component_id = ?`, contributorID, componentID); err != nil {
		return fmt.Errorf("reassign assignments of component %s: %w", componentID, err)
	}
	return nil
}

func (t *tx) ListAssignmentsByComponent(ctx context.Context, componentID string) ([]model.Assignment, error) {
	return t.listAssignments(ctx,
		`SELECT component_id, contributor_id, week FROM assignments
		 WHERE component_id = ? ORDER BY week`, componentID)
}

func (t *tx) ListAssignmentsByContributor(ctx context.Context, contributorID string) ([]model.Assignment, error) {
	return t.listAssignments(ctx,
		`SELECT component_id, contributor_id, week FROM assignments
		 WHERE contributor_id = ? ORDER BY week DESC, component_id`, contributorID)
}

func (t *tx) listAssignments(ctx context.Context, query, arg string) ([]model.Assignment, error) {
	rows, err := t.query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ComponentID, &a.ContributorID, &a.Week); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (t *tx) ListChartRows(ctx context.Context, periodID string) ([]planner.ChartRow, error) {
	rows, err := t.query(ctx,
		`SELECT a.contributor_id, a.week, c.name
		 FROM components c
		 JOIN projects p ON c.project_id = p.project_id
		 JOIN assignments a ON a.component_id = c.component_id
		 JOIN contributors ct ON ct.contributor_id = a.contributor_id
		 WHERE p.period_id = ?
		 ORDER BY ct.first_name, ct.last_name, a.week, c.name`, periodID)
	if err != nil {
		return nil, fmt.Errorf("list chart rows: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := []planner.ChartRow{}
	for rows.Next() {
		var r planner.ChartRow
		if err := rows.Scan(&r.ContributorID, &r.Week, &r.ComponentName); err != nil {
			return nil, fmt.Errorf("scan chart row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
