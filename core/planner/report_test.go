package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/planner/core/model"
)

func q1(t *testing.T) model.Period {
	t.Helper()
	start, err := model.ParseDate("2025-01-06")
	require.NoError(t, err)
	end, err := model.ParseDate("2025-02-17")
	require.NoError(t, err)
	return model.NewPeriod("per-1", "Q1", start, end)
}

func TestBuildComponentReport(t *testing.T) {
	period := q1(t)
	c := model.Component{ID: "cmp-1", Name: "API", SkillID: "sk-1", EstimatedWeeks: 3}
	assignments := []model.Assignment{
		{ComponentID: "cmp-1", ContributorID: "ctb-1", Week: 0},
		{ComponentID: "cmp-1", ContributorID: "ctb-1", Week: 2},
		{ComponentID: "cmp-1", ContributorID: "ctb-1", Week: 4},
	}
	ada := model.Contributor{ID: "ctb-1", FirstName: "Ada", LastName: "Lovelace"}

	r := BuildComponentReport(period, c, model.Skill{ID: "sk-1", Name: "Go"}, assignments, &ada)
	assert.Equal(t, []bool{true, false, true, false, true, false}, r.Assignments)
	assert.Equal(t, 3, r.AssignedWeeks)
	assert.Equal(t, "Go", r.Skill)
	assert.Equal(t, 3, r.EstimatedWeeks)
	require.NotNil(t, r.ContributorName)
	assert.Equal(t, "Ada Lovelace", *r.ContributorName)
	require.NotNil(t, r.ContributorID)
	assert.Equal(t, "ctb-1", *r.ContributorID)
}

func TestBuildComponentReport_CountMatchesChart(t *testing.T) {
	period := q1(t)
	c := model.Component{ID: "cmp-1", Name: "API"}
	// Out of range and repeated weeks must not break the count.
	assignments := []model.Assignment{{Week: 1}, {Week: 1}, {Week: 9}, {Week: -1}, {Week: 5}}
	r := BuildComponentReport(period, c, model.Skill{}, assignments, nil)

	count := 0
	for _, v := range r.Assignments {
		if v {
			count++
		}
	}
	assert.Equal(t, count, r.AssignedWeeks)
	assert.Equal(t, 2, r.AssignedWeeks)
	assert.Nil(t, r.ContributorID)
	assert.Nil(t, r.ContributorName)
}

func TestBuildProjectReport_SortsByName(t *testing.T) {
	p := model.Project{ID: "prj-1", Name: "Apollo"}
	in := []ComponentReport{{ComponentName: "b"}, {ComponentName: "a"}, {ComponentName: "c"}}
	r := BuildProjectReport(p, in)
	assert.Equal(t, "Apollo", r.ProjectName)
	assert.Equal(t, []string{"a", "b", "c"},
		[]string{r.Components[0].ComponentName, r.Components[1].ComponentName, r.Components[2].ComponentName})
	assert.Equal(t, "b", in[0].ComponentName, "input must not be reordered")
}

func TestBuildContributorChart(t *testing.T) {
	period := q1(t)
	contributors := []model.Contributor{
		{ID: "ctb-1", FirstName: "Ada", LastName: "Lovelace"},
		{ID: "ctb-2", FirstName: "Grace", LastName: "Hopper"},
	}
	rows := []ChartRow{
		{ContributorID: "ctb-1", Week: 0, ComponentName: "API"},
		{ContributorID: "ctb-1", Week: 0, ComponentName: "UI"},
		{ContributorID: "ctb-1", Week: 3, ComponentName: "API"},
		{ContributorID: "ghost", Week: 1, ComponentName: "X"},
	}
	chart := BuildContributorChart(period, contributors, rows)

	require.Len(t, chart, 2)
	ada := chart["ctb-1"]
	assert.Equal(t, "Ada Lovelace", ada.Name)
	require.Len(t, ada.Assignments, 6)
	assert.Equal(t, []string{"API", "UI"}, ada.Assignments[0])
	assert.Equal(t, []string{"API"}, ada.Assignments[3])

	grace := chart["ctb-2"]
	require.Len(t, grace.Assignments, 6)
	for _, week := range grace.Assignments {
		assert.NotNil(t, week)
		assert.Empty(t, week)
	}
}

func TestBuildUtilization(t *testing.T) {
	period := q1(t)
	chart := ContributorChart{
		"ctb-1": {Name: "Ada Lovelace", Assignments: [][]string{{"API", "UI"}, {"API"}, {}, {}, {}, {}}},
		"ctb-2": {Name: "Grace Hopper", Assignments: [][]string{{"DB"}, {}, {}, {}, {}, {}}},
	}
	components := []model.Component{{EstimatedWeeks: 3}, {EstimatedWeeks: 2}}

	u := BuildUtilization(period, chart, components)
	assert.Equal(t, 6, u.NumWeeks)
	assert.Equal(t, []float64{3, 1, 0, 0, 0, 0}, u.WeeklyLoad)
	assert.Equal(t, 0, u.PeakWeek)
	assert.InDelta(t, 4.0/6.0, u.MeanLoad, 1e-9)
	assert.Greater(t, u.StdDevLoad, 0.0)
	assert.Equal(t, 5, u.EstimatedWeeks)
	assert.Equal(t, 4, u.AssignedWeeks)
	require.Len(t, u.Contributors, 2)
	assert.Equal(t, ContributorLoad{ContributorID: "ctb-1", Name: "Ada Lovelace", Assignments: 3, BusyWeeks: 2, OverbookedWeeks: 1}, u.Contributors[0])
}

func TestBuildUtilization_Empty(t *testing.T) {
	u := BuildUtilization(q1(t), ContributorChart{}, nil)
	assert.Equal(t, -1, u.PeakWeek)
	assert.Zero(t, u.MeanLoad)
	assert.Zero(t, u.StdDevLoad)
	assert.NotNil(t, u.Contributors)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(NotFoundError("period", "x")))
	assert.Equal(t, "validation", Outcome(validationf("bad")))
	assert.Equal(t, "conflict", Outcome(conflictf("dup")))
	assert.Equal(t, "store", Outcome(storeError(ErrDuplicate)))
	assert.ErrorIs(t, storeError(ErrDuplicate), ErrStore)
	assert.ErrorIs(t, storeError(ErrDuplicate), ErrDuplicate)
}
