package planner

import (
	"context"
	"strings"

	"github.com/kilianp07/planner/core/model"
)

// CreateSkill stores a skill. Names need not be unique.
func (s *Service) CreateSkill(ctx context.Context, name string) (model.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Skill{}, validationf("name is required")
	}
	sk := model.Skill{ID: s.newID(), Name: name}
	if err := s.do(ctx, OpCreateSkill, func(tx Tx) error {
		return tx.CreateSkill(ctx, sk)
	}); err != nil {
		return model.Skill{}, err
	}
	s.publish(ChangeSkillCreated, sk.ID, "")
	return sk, nil
}

// ListSkills returns every skill ordered by name.
func (s *Service) ListSkills(ctx context.Context) ([]model.Skill, error) {
	var skills []model.Skill
	err := s.do(ctx, OpListSkills, func(tx Tx) error {
		var err error
		skills, err = tx.ListSkills(ctx)
		return err
	})
	return skills, err
}

// DeleteSkill removes a skill and its contributor links. It fails with
// ErrConflict while components still require the skill.
func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	err := s.do(ctx, OpDeleteSkill, func(tx Tx) error {
		if _, err := tx.GetSkill(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountComponentsBySkill(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return conflictf("skill %q is required by %d components", id, n)
		}
		return tx.DeleteSkill(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ChangeSkillDeleted, id, "")
	return nil
}
