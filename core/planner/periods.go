package planner

import (
	"context"
	"errors"
	"strings"

	"github.com/kilianp07/planner/core/model"
)

// PeriodInput holds the fields of a new period. Dates are normalized to Mondays.
type PeriodInput struct {
	Name      string     `json:"name"`
	StartDate model.Date `json:"start_date"`
	EndDate   model.Date `json:"end_date"`
}

// CreatePeriod stores a Monday-aligned period. The name must be unique.
func (s *Service) CreatePeriod(ctx context.Context, in PeriodInput) (model.Period, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Period{}, validationf("name is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return model.Period{}, validationf("start_date and end_date are required")
	}
	p := model.NewPeriod(s.newID(), name, in.StartDate, in.EndDate)
	if !p.Valid() {
		return model.Period{}, validationf("period %s..%s spans %d weeks once aligned on Mondays, need at least 1",
			p.StartDate, p.EndDate, p.NumWeeks())
	}
	err := s.do(ctx, OpCreatePeriod, func(tx Tx) error {
		if err := tx.CreatePeriod(ctx, p); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return conflictf("period name %q already exists", name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.Period{}, err
	}
	s.publish(ChangePeriodCreated, p.ID, p.ID)
	return p, nil
}

// GetPeriod returns one period.
func (s *Service) GetPeriod(ctx context.Context, id string) (model.Period, error) {
	var p model.Period
	err := s.do(ctx, OpGetPeriod, func(tx Tx) error {
		var err error
		p, err = tx.GetPeriod(ctx, id)
		return err
	})
	return p, err
}

// ListPeriods returns all periods ordered by start date then name.
func (s *Service) ListPeriods(ctx context.Context) ([]model.Period, error) {
	var periods []model.Period
	err := s.do(ctx, OpListPeriods, func(tx Tx) error {
		var err error
		periods, err = tx.ListPeriods(ctx)
		return err
	})
	return periods, err
}

// DeletePeriod removes a period with its projects, components and assignments.
func (s *Service) DeletePeriod(ctx context.Context, id string) error {
	err := s.do(ctx, OpDeletePeriod, func(tx Tx) error {
		if _, err := tx.GetPeriod(ctx, id); err != nil {
			return err
		}
		return tx.DeletePeriod(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ChangePeriodDeleted, id, id)
	return nil
}
