package sqlstore

import (
	"context"
	"fmt"

	"github.com/kilianp07/planner/core/model"
)

func (t *tx) CreatePeriod(ctx context.Context, p model.Period) error {
	if _, err := t.exec(ctx,
		`INSERT INTO periods (period_id, name, start_date, end_date) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.StartDate, p.EndDate); err != nil {
		return fmt.Errorf("insert period: %w", err)
	}
	return nil
}

func (t *tx) GetPeriod(ctx context.Context, id string) (model.Period, error) {
	var p model.Period
	err := t.queryRow(ctx,
		`SELECT period_id, name, start_date, end_date FROM periods WHERE period_id = ?`, id).
		Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate)
	if err != nil {
		return model.Period{}, notFound(err, "period", id)
	}
	return p, nil
}

func (t *tx) ListPeriods(ctx context.Context) ([]model.Period, error) {
	rows, err := t.query(ctx,
		`SELECT period_id, name, start_date, end_date FROM periods ORDER BY start_date, name`)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer func() { _ = rows.Close() }()
	periods := []model.Period{}
	for rows.Next() {
		var p model.Period
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// DeletePeriod removes the period with its projects, components and assignments.
func (t *tx) DeletePeriod(ctx context.Context, id string) error {
	stmts := []string{
		`DELETE FROM assignments WHERE component_id IN (
		   SELECT c.component_id FROM components c
		   JOIN projects p ON c.project_id = p.project_id
		   WHERE p.period_id = ?)`,
		`DELETE FROM components WHERE project_id IN (
		   SELECT project_id FROM projects WHERE period_id = ?)`,
		`DELETE FROM projects WHERE period_id = ?`,
		`DELETE FROM periods WHERE period_id = ?`,
	}
	for _, q := range stmts {
		if _, err := t.exec(ctx, q, id); err != nil {
			return fmt.Errorf("delete period %s: %w", id, err)
		}
	}
	return nil
}
