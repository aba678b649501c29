package sqlstore

import (
	"context"
	"fmt"

	"github.com/kilianp07/planner/core/model"
)

func (t *tx) CreateSkill(ctx context.Context, s model.Skill) error {
	if _, err := t.exec(ctx, `INSERT INTO skills (skill_id, name) VALUES (?, ?)`, s.ID, s.Name); err != nil {
		return fmt.Errorf("insert skill: %w", err)
	}
	return nil
}

func (t *tx) GetSkill(ctx context.Context, id string) (model.Skill, error) {
	var s model.Skill
	err := t.queryRow(ctx, `SELECT skill_id, name FROM skills WHERE skill_id = ?`, id).Scan(&s.ID, &s.Name)
	if err != nil {
		return model.Skill{}, notFound(err, "skill", id)
	}
	return s, nil
}

func (t *tx) ListSkills(ctx context.Context) ([]model.Skill, error) {
	rows, err := t.query(ctx, `SELECT skill_id, name FROM skills ORDER BY name, skill_id`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer func() { _ = rows.Close() }()
	skills := []model.Skill{}
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (t *tx) CountComponentsBySkill(ctx context.Context, skillID string) (int, error) {
	var n int
	if err := t.queryRow(ctx, `SELECT COUNT(*) FROM components WHERE skill_id = ?`, skillID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count components: %w", err)
	}
	return n, nil
}

// DeleteSkill removes the skill and its contributor links.
func (t *tx) DeleteSkill(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM contributor_skills WHERE skill_id = ?`, id); err != nil {
		return fmt.Errorf("delete skill links: %w", err)
	}
	if _, err := t.exec(ctx, `DELETE FROM skills WHERE skill_id = ?`, id); err != nil {
		return fmt.Errorf("delete skill %s: %w", id, err)
	}
	return nil
}
