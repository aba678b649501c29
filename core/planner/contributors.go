package planner

import (
	"context"
	"strings"

	"github.com/kilianp07/planner/core/model"
)

// ContributorInput holds the fields of a new contributor.
type ContributorInput struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	SkillIDs  []string `json:"skill_ids"`
}

// CreateContributor stores a contributor with its skill links. Repeated skill
// ids are collapsed and every skill must exist.
func (s *Service) CreateContributor(ctx context.Context, in ContributorInput) (model.Contributor, error) {
	c := model.Contributor{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		SkillIDs:  uniqueIDs(in.SkillIDs),
	}
	if c.FirstName == "" || c.LastName == "" {
		return model.Contributor{}, validationf("first_name and last_name are required")
	}
	c.ID = s.newID()
	err := s.do(ctx, OpCreateContributor, func(tx Tx) error {
		for _, id := range c.SkillIDs {
			if _, err := tx.GetSkill(ctx, id); err != nil {
				return err
			}
		}
		return tx.CreateContributor(ctx, c)
	})
	if err != nil {
		return model.Contributor{}, err
	}
	s.publish(ChangeContributorCreated, c.ID, "")
	return c, nil
}

// ListContributors returns every contributor with its skill ids.
func (s *Service) ListContributors(ctx context.Context) ([]model.Contributor, error) {
	var out []model.Contributor
	err := s.do(ctx, OpListContributors, func(tx Tx) error {
		var err error
		out, err = tx.ListContributors(ctx)
		return err
	})
	return out, err
}

// ListContributorsBySkill returns the contributors holding skillID.
func (s *Service) ListContributorsBySkill(ctx context.Context, skillID string) ([]model.Contributor, error) {
	var out []model.Contributor
	err := s.do(ctx, OpListContributorsBySkill, func(tx Tx) error {
		if _, err := tx.GetSkill(ctx, skillID); err != nil {
			return err
		}
		var err error
		out, err = tx.ListContributorsBySkill(ctx, skillID)
		return err
	})
	return out, err
}

// DeleteContributor removes a contributor, its assignments and skill links,
// and clears the pointer of every component it was assigned to.
func (s *Service) DeleteContributor(ctx context.Context, id string) error {
	var removed int
	err := s.do(ctx, OpDeleteContributor, func(tx Tx) error {
		if _, err := tx.GetContributor(ctx, id); err != nil {
			return err
		}
		var err error
		if removed, err = tx.DeleteAssignmentsByContributor(ctx, id); err != nil {
			return err
		}
		if err := tx.ClearContributorFromComponents(ctx, id); err != nil {
			return err
		}
		return tx.DeleteContributor(ctx, id)
	})
	if err != nil {
		return err
	}
	s.recordAssignmentChange(OpDeleteContributor, 0, removed)
	s.publish(ChangeContributorDeleted, id, "")
	return nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
