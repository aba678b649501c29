package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/core/planner"
	"github.com/kilianp07/planner/infra/sqlstore"
)

const sample = `skills: [Go, Python]
contributors:
  - first_name: Ada
    last_name: Lovelace
    skills: [Go]
  - first_name: Grace
    last_name: Hopper
    skills: [Python, Go]
periods:
  - name: Q1
    start_date: 2025-01-06
    end_date: 2025-02-17
    projects:
      - name: Apollo
        description: moon
        components:
          - skill: Go
            estimated_weeks: 3
            contributor: Ada Lovelace
            weeks: [0, 2, 4]
          - name: Scripts
            skill: Python
            estimated_weeks: 1
            contributor: Grace Hopper
`

func newService(t *testing.T) *planner.Service {
	t.Helper()
	ctx := context.Background()
	store, err := sqlstore.Open(ctx, sqlstore.Config{Driver: sqlstore.DriverSQLite, DSN: filepath.Join(t.TempDir(), "planner.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.Migrate(ctx)
	require.NoError(t, err)
	return planner.NewService(store, nil, nil, nil)
}

func TestLoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Periods, 1)
	assert.Equal(t, "2025-01-06", f.Periods[0].StartDate.String())

	ctx := context.Background()
	svc := newService(t)
	sum, err := Apply(ctx, svc, f, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Skills: 2, Contributors: 2, Periods: 1, Projects: 1, Components: 2, Assignments: 3}, sum)

	periods, err := svc.ListPeriods(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	reports, err := svc.ListProjectsWithComponents(ctx, periods[0].ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Components, 2)
	apollo := reports[0].Components[0]
	assert.Equal(t, "Apollo Go", apollo.ComponentName)
	assert.Equal(t, []bool{true, false, true, false, true, false}, apollo.Assignments)
	scripts := reports[0].Components[1]
	require.NotNil(t, scripts.ContributorName)
	assert.Equal(t, "Grace Hopper", *scripts.ContributorName)
	assert.Zero(t, scripts.AssignedWeeks)
}

func TestApplyReusesSkills(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.CreateSkill(ctx, "Go")
	require.NoError(t, err)

	sum, err := Apply(ctx, svc, File{Skills: []string{"Go", "Rust"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Skills)
	skills, err := svc.ListSkills(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, 2)
}

func TestApplyRejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := Apply(ctx, svc, File{Contributors: []Contributor{{FirstName: "Ada", LastName: "Lovelace", Skills: []string{"Go"}}}}, nil)
	assert.ErrorContains(t, err, `unknown skill "Go"`)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("skils: [Go]\n"))
	assert.Error(t, err)
}

func TestApplyResolvesDatesToWeeks(t *testing.T) {
	f, err := Parse([]byte(`skills: [Go]
contributors:
  - first_name: Ada
    last_name: Lovelace
    skills: [Go]
periods:
  - name: Q1
    start_date: 2025-01-06
    end_date: 2025-02-17
    projects:
      - name: Apollo
        components:
          - skill: Go
            estimated_weeks: 3
            contributor: Ada Lovelace
            weeks: [1]
            dates: [2025-01-15, 2025-01-29]
`))
	require.NoError(t, err)

	ctx := context.Background()
	svc := newService(t)
	sum, err := Apply(ctx, svc, f, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Assignments)

	periods, err := svc.ListPeriods(ctx)
	require.NoError(t, err)
	reports, err := svc.ListProjectsWithComponents(ctx, periods[0].ID)
	require.NoError(t, err)
	require.Len(t, reports[0].Components, 1)
	assert.Equal(t, []bool{false, true, false, true, false, false}, reports[0].Components[0].Assignments)
}

func TestApplyRejectsDatesOutsidePeriod(t *testing.T) {
	f := File{
		Skills:       []string{"Go"},
		Contributors: []Contributor{{FirstName: "Ada", LastName: "Lovelace", Skills: []string{"Go"}}},
		Periods: []Period{{
			Name:      "Q1",
			StartDate: model.NewDate(2025, time.January, 6),
			EndDate:   model.NewDate(2025, time.February, 17),
			Projects: []Project{{
				Name: "Apollo",
				Components: []Component{{
					Skill:          "Go",
					EstimatedWeeks: 1,
					Contributor:    "Ada Lovelace",
					Dates:          []model.Date{model.NewDate(2025, time.March, 3)},
				}},
			}},
		}},
	}
	_, err := Apply(context.Background(), newService(t), f, nil)
	assert.ErrorIs(t, err, planner.ErrValidation)
}
