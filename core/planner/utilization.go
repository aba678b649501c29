package planner

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/planner/core/model"
)

// ContributorLoad summarizes the weeks one contributor works in a period.
type ContributorLoad struct {
	ContributorID string `json:"contributor_id"`
	Name          string `json:"name"`
	// Assignments counts (component, week) pairs.
	Assignments int `json:"assignments"`
	// BusyWeeks counts weeks with at least one component.
	BusyWeeks int `json:"busy_weeks"`
	// OverbookedWeeks counts weeks with more than one component.
	OverbookedWeeks int `json:"overbooked_weeks"`
}

// Utilization is the assignment load of a period.
type Utilization struct {
	PeriodID       string            `json:"period_id"`
	NumWeeks       int               `json:"num_weeks"`
	WeeklyLoad     []float64         `json:"weekly_load"`
	MeanLoad       float64           `json:"mean_load"`
	StdDevLoad     float64           `json:"stddev_load"`
	PeakWeek       int               `json:"peak_week"`
	EstimatedWeeks int               `json:"estimated_weeks"`
	AssignedWeeks  int               `json:"assigned_weeks"`
	Contributors   []ContributorLoad `json:"contributors"`
}

// BuildUtilization computes weekly assignment totals from a contributor
// chart. PeakWeek is -1 when nothing is assigned.
func BuildUtilization(period model.Period, chart ContributorChart, components []model.Component) Utilization {
	n := period.NumWeeks()
	if n < 0 {
		n = 0
	}
	u := Utilization{
		PeriodID:     period.ID,
		NumWeeks:     n,
		WeeklyLoad:   make([]float64, n),
		PeakWeek:     -1,
		Contributors: make([]ContributorLoad, 0, len(chart)),
	}
	for id, entry := range chart {
		load := ContributorLoad{ContributorID: id, Name: entry.Name}
		for week, names := range entry.Assignments {
			if week >= n || len(names) == 0 {
				continue
			}
			u.WeeklyLoad[week] += float64(len(names))
			load.Assignments += len(names)
			load.BusyWeeks++
			if len(names) > 1 {
				load.OverbookedWeeks++
			}
		}
		u.AssignedWeeks += load.Assignments
		u.Contributors = append(u.Contributors, load)
	}
	sort.Slice(u.Contributors, func(i, j int) bool {
		a, b := u.Contributors[i], u.Contributors[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ContributorID < b.ContributorID
	})
	for _, c := range components {
		u.EstimatedWeeks += c.EstimatedWeeks
	}
	switch n {
	case 0:
		return u
	case 1:
		u.MeanLoad = u.WeeklyLoad[0]
	default:
		u.MeanLoad, u.StdDevLoad = stat.MeanStdDev(u.WeeklyLoad, nil)
	}
	if floats.Sum(u.WeeklyLoad) > 0 {
		u.PeakWeek = floats.MaxIdx(u.WeeklyLoad)
	}
	return u
}

// PeriodUtilization reports the weekly load of a period.
func (s *Service) PeriodUtilization(ctx context.Context, periodID string) (Utilization, error) {
	var u Utilization
	err := s.do(ctx, OpPeriodUtilization, func(tx Tx) error {
		period, err := tx.GetPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		contributors, err := tx.ListContributors(ctx)
		if err != nil {
			return err
		}
		rows, err := tx.ListChartRows(ctx, periodID)
		if err != nil {
			return err
		}
		components, err := tx.ListComponentsByPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		u = BuildUtilization(period, BuildContributorChart(period, contributors, rows), components)
		return nil
	})
	return u, err
}
