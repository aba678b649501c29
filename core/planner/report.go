package planner

import (
	"context"
	"sort"

	"github.com/kilianp07/planner/core/model"
)

// ComponentReport is the week chart of one component.
type ComponentReport struct {
	ComponentID     string  `json:"component_id"`
	ComponentName   string  `json:"component_name"`
	EstimatedWeeks  int     `json:"estimated_weeks"`
	AssignedWeeks   int     `json:"assigned_weeks"`
	Skill           string  `json:"skill"`
	SkillID         string  `json:"skill_id"`
	Assignments     []bool  `json:"assignments"`
	ContributorID   *string `json:"contributor_id"`
	ContributorName *string `json:"contributor_name"`
}

// ProjectReport lists the component reports of a project by component name.
type ProjectReport struct {
	ProjectID   string            `json:"project_id"`
	ProjectName string            `json:"project_name"`
	Components  []ComponentReport `json:"components"`
}

// ContributorWeeks holds, for each week of a period, the component names a
// contributor works on.
type ContributorWeeks struct {
	Name        string     `json:"name"`
	Assignments [][]string `json:"assignments"`
}

// ContributorChart is keyed by contributor id.
type ContributorChart map[string]ContributorWeeks

// BuildComponentReport marks the weeks of period covered by assignments.
// Weeks outside the period are ignored. contributor may be nil.
func BuildComponentReport(period model.Period, c model.Component, skill model.Skill, assignments []model.Assignment, contributor *model.Contributor) ComponentReport {
	n := period.NumWeeks()
	if n < 0 {
		n = 0
	}
	r := ComponentReport{
		ComponentID:    c.ID,
		ComponentName:  c.Name,
		EstimatedWeeks: c.EstimatedWeeks,
		Skill:          skill.Name,
		SkillID:        c.SkillID,
		Assignments:    make([]bool, n),
	}
	for _, a := range assignments {
		if a.Week < 0 || a.Week >= n || r.Assignments[a.Week] {
			continue
		}
		r.Assignments[a.Week] = true
		r.AssignedWeeks++
	}
	if contributor != nil {
		id := contributor.ID
		name := contributor.FullName()
		r.ContributorID = &id
		r.ContributorName = &name
	}
	return r
}

// BuildProjectReport sorts the component reports by name.
func BuildProjectReport(p model.Project, components []ComponentReport) ProjectReport {
	sorted := make([]ComponentReport, len(components))
	copy(sorted, components)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ComponentName < sorted[j].ComponentName })
	return ProjectReport{ProjectID: p.ID, ProjectName: p.Name, Components: sorted}
}

// BuildContributorChart seeds an empty week list for every contributor and
// appends the component name of each row into its week bucket.
func BuildContributorChart(period model.Period, contributors []model.Contributor, rows []ChartRow) ContributorChart {
	n := period.NumWeeks()
	if n < 0 {
		n = 0
	}
	chart := make(ContributorChart, len(contributors))
	for _, c := range contributors {
		weeks := make([][]string, n)
		for i := range weeks {
			weeks[i] = []string{}
		}
		chart[c.ID] = ContributorWeeks{Name: c.FullName(), Assignments: weeks}
	}
	for _, row := range rows {
		entry, ok := chart[row.ContributorID]
		if !ok || row.Week < 0 || row.Week >= n {
			continue
		}
		entry.Assignments[row.Week] = append(entry.Assignments[row.Week], row.ComponentName)
	}
	return chart
}

// GetContributorChart builds the contributor chart of a period.
func (s *Service) GetContributorChart(ctx context.Context, periodID string) (ContributorChart, error) {
	_, chart, err := s.GetPeriodChart(ctx, periodID)
	return chart, err
}

// GetPeriodChart returns the period together with its contributor chart, both
// read in the same unit of work.
func (s *Service) GetPeriodChart(ctx context.Context, periodID string) (model.Period, ContributorChart, error) {
	var (
		period model.Period
		chart  ContributorChart
	)
	err := s.do(ctx, OpContributorChart, func(tx Tx) error {
		var err error
		period, err = tx.GetPeriod(ctx, periodID)
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
		chart = BuildContributorChart(period, contributors, rows)
		return nil
	})
	return period, chart, err
}

// reportLookup caches skills and contributors while rendering several reports
// inside one unit of work.
type reportLookup struct {
	tx           Tx
	skills       map[string]model.Skill
	contributors map[string]model.Contributor
}

func newReportLookup(tx Tx) *reportLookup {
	return &reportLookup{
		tx:           tx,
		skills:       make(map[string]model.Skill),
		contributors: make(map[string]model.Contributor),
	}
}

func (l *reportLookup) skill(ctx context.Context, id string) (model.Skill, error) {
	if sk, ok := l.skills[id]; ok {
		return sk, nil
	}
	sk, err := l.tx.GetSkill(ctx, id)
	if err != nil {
		return model.Skill{}, err
	}
	l.skills[id] = sk
	return sk, nil
}

func (l *reportLookup) contributor(ctx context.Context, id string) (model.Contributor, error) {
	if c, ok := l.contributors[id]; ok {
		return c, nil
	}
	c, err := l.tx.GetContributor(ctx, id)
	if err != nil {
		return model.Contributor{}, err
	}
	l.contributors[id] = c
	return c, nil
}

func (l *reportLookup) componentReport(ctx context.Context, period model.Period, c model.Component) (ComponentReport, error) {
	skill, err := l.skill(ctx, c.SkillID)
	if err != nil {
		return ComponentReport{}, err
	}
	assignments, err := l.tx.ListAssignmentsByComponent(ctx, c.ID)
	if err != nil {
		return ComponentReport{}, err
	}
	var contributor *model.Contributor
	if c.Assigned() {
		found, err := l.contributor(ctx, *c.ContributorID)
		if err != nil {
			return ComponentReport{}, err
		}
		contributor = &found
	}
	return BuildComponentReport(period, c, skill, assignments, contributor), nil
}
