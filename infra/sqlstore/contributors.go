package sqlstore

import (
	"context"
	"fmt"

	"github.com/kilianp07/planner/core/model"
)

func (t *tx) CreateContributor(ctx context.Context, c model.Contributor) error {
	if _, err := t.exec(ctx,
		`INSERT INTO contributors (contributor_id, first_name, last_name) VALUES (?, ?, ?)`,
		c.ID, c.FirstName, c.LastName); err != nil {
		return fmt.Errorf("insert contributor: %w", err)
	}
	for _, skillID := range c.SkillIDs {
		if _, err := t.exec(ctx,
			`INSERT INTO contributor_skills (contributor_id, skill_id) VALUES (?, ?)`,
			c.ID, skillID); err != nil {
			return fmt.Errorf("link contributor skill %s: %w", skillID, err)
		}
	}
	return nil
}

func (t *tx) GetContributor(ctx context.Context, id string) (model.Contributor, error) {
	var c model.Contributor
	err := t.queryRow(ctx,
		`SELECT contributor_id, first_name, last_name FROM contributors WHERE contributor_id = ?`, id).
		Scan(&c.ID, &c.FirstName, &c.LastName)
	if err != nil {
		return model.Contributor{}, notFound(err, "contributor", id)
	}
	skills, err := t.skillIDsOf(ctx, `WHERE contributor_id = ?`, id)
	if err != nil {
		return model.Contributor{}, err
	}
	c.SkillIDs = skills[id]
	if c.SkillIDs == nil {
		c.SkillIDs = []string{}
	}
	return c, nil
}

func (t *tx) ListContributors(ctx context.Context) ([]model.Contributor, error) {
	return t.listContributors(ctx,
		`SELECT contributor_id, first_name, last_name FROM contributors
		 ORDER BY first_name, last_name, contributor_id`)
}

func (t *tx) ListContributorsBySkill(ctx context.Context, skillID string) ([]model.Contributor, error) {
	return t.listContributors(ctx,
		`SELECT c.contributor_id, c.first_name, c.last_name FROM contributors c
		 JOIN contributor_skills cs ON cs.contributor_id = c.contributor_id
		 WHERE cs.skill_id = ?
		 ORDER BY c.first_name, c.last_name, c.contributor_id`, skillID)
}

func (t *tx) listContributors(ctx context.Context, query string, args ...any) ([]model.Contributor, error) {
	rows, err := t.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contributors: %w", err)
	}
	contributors := []model.Contributor{}
	for rows.Next() {
		var c model.Contributor
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		contributors = append(contributors, c)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Close before the next query; SQLite runs on a single connection.
	_ = rows.Close()

	skills, err := t.skillIDsOf(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range contributors {
		contributors[i].SkillIDs = skills[contributors[i].ID]
		if contributors[i].SkillIDs == nil {
			contributors[i].SkillIDs = []string{}
		}
	}
	return contributors, nil
}

// skillIDsOf groups contributor_skills rows matching where by contributor.
func (t *tx) skillIDsOf(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := t.query(ctx,
		`SELECT contributor_id, skill_id FROM contributor_skills `+where+` ORDER BY contributor_id, skill_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list contributor skills: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make(map[string][]string)
	for rows.Next() {
		var contributorID, skillID string
		if err := rows.Scan(&contributorID, &skillID); err != nil {
			return nil, fmt.Errorf("scan contributor skill: %w", err)
		}
		out[contributorID] = append(out[contributorID], skillID)
	}
	return out, rows.Err()
}

// DeleteContributor removes the contributor and its skill links.
func (t *tx) DeleteContributor(ctx context.Context, id string) error {
	if _, err := t.exec(ctx, `DELETE FROM contributor_skills WHERE contributor_id = ?`, id); err != nil {
		return fmt.Errorf("delete contributor skills: %w", err)
	}
	if _, err := t.exec(ctx, `DELETE FROM contributors WHERE contributor_id = ?`, id); err != nil {
		return fmt.Errorf("delete contributor %s: %w", id, err)
	}
	return nil
}
