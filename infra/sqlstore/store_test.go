package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/core/planner"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "planner.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	_, err = s.Migrate(ctx)
	require.NoError(t, err)
	return s
}

func mustDate(t *testing.T, v string) model.Date {
	t.Helper()
	d, err := model.ParseDate(v)
	require.NoError(t, err)
	return d
}

type fixture struct {
	period      model.Period
	project     model.Project
	skill       model.Skill
	component   model.Component
	contributor model.Contributor
}

// seed inserts one row of each entity and returns them.
func seed(t *testing.T, s *Store) fixture {
	t.Helper()
	f := fixture{
		period:      model.NewPeriod("per-1", "Q1", mustDate(t, "2025-01-06"), mustDate(t, "2025-02-17")),
		project:     model.Project{ID: "prj-1", Name: "Apollo", Description: "moon", PeriodID: "per-1"},
		skill:       model.Skill{ID: "sk-1", Name: "Go"},
		component:   model.Component{ID: "cmp-1", Name: "API", ProjectID: "prj-1", SkillID: "sk-1", EstimatedWeeks: 3},
		contributor: model.Contributor{ID: "ctb-1", FirstName: "Ada", LastName: "Lovelace", SkillIDs: []string{"sk-1"}},
	}
	err := s.WithTx(context.Background(), func(tx planner.Tx) error {
		ctx := context.Background()
		if err := tx.CreatePeriod(ctx, f.period); err != nil {
			return err
		}
		if err := tx.CreateProject(ctx, f.project); err != nil {
			return err
		}
		if err := tx.CreateSkill(ctx, f.skill); err != nil {
			return err
		}
		if err := tx.CreateComponent(ctx, f.component); err != nil {
			return err
		}
		return tx.CreateContributor(ctx, f.contributor)
	})
	require.NoError(t, err)
	return f
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "m.db")}, nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	pending, err := s.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, pending)

	applied, err := s.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, applied)

	pending, err = s.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	applied, err = s.Migrate(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestExtractUpMigration(t *testing.T) {
	assert.Equal(t, "\nCREATE TABLE a (id INT);\n",
		extractUpMigration("-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;"))
	assert.Equal(t, "SELECT 1;", extractUpMigration("SELECT 1;"))
}

func TestRebind(t *testing.T) {
	pg := dialect{name: DriverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
	lite := dialect{name: DriverSQLite}
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "p.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("p.db"))
	assert.Equal(t, "file:p.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("file:p.db?mode=rwc"))
	assert.Equal(t, "p.db?_pragma=foreign_keys(0)", sqliteDSN("p.db?_pragma=foreign_keys(0)"))
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DriverSQLite, cfg.Driver)

	assert.Error(t, Config{Driver: "mysql", DSN: "x"}.Validate())
	assert.Error(t, Config{Driver: DriverPostgres}.Validate())
}

func TestWithTxRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx planner.Tx) error {
		require.NoError(t, tx.CreateSkill(ctx, model.Skill{ID: "sk-x", Name: "Rust"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = s.WithTx(ctx, func(tx planner.Tx) error {
			require.NoError(t, tx.CreateSkill(ctx, model.Skill{ID: "sk-y", Name: "Zig"}))
			panic("kaboom")
		})
	})

	err = s.WithTx(ctx, func(tx planner.Tx) error {
		skills, err := tx.ListSkills(ctx)
		require.NoError(t, err)
		assert.Empty(t, skills)
		_, err = tx.GetSkill(ctx, "sk-x")
		return err
	})
	assert.ErrorIs(t, err, planner.ErrNotFound)
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx planner.Tx) error {
		p, err := tx.GetPeriod(ctx, f.period.ID)
		require.NoError(t, err)
		assert.Equal(t, "2025-01-06", p.StartDate.String())
		assert.Equal(t, "2025-02-17", p.EndDate.String())
		assert.Equal(t, 6, p.NumWeeks())

		c, err := tx.GetComponent(ctx, f.component.ID)
		require.NoError(t, err)
		assert.Nil(t, c.ContributorID)
		assert.Equal(t, 3, c.EstimatedWeeks)

		id := f.contributor.ID
		c.ContributorID = &id
		require.NoError(t, tx.UpdateComponent(ctx, c))
		c, err = tx.GetComponent(ctx, f.component.ID)
		require.NoError(t, err)
		require.NotNil(t, c.ContributorID)
		assert.Equal(t, id, *c.ContributorID)

		ctb, err := tx.GetContributor(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"sk-1"}, ctb.SkillIDs)

		bySkill, err := tx.ListContributorsBySkill(ctx, "sk-1")
		require.NoError(t, err)
		require.Len(t, bySkill, 1)
		assert.Equal(t, "Ada Lovelace", bySkill[0].FullName())

		err = tx.UpdateComponent(ctx, model.Component{ID: "missing", SkillID: "sk-1"})
		assert.ErrorIs(t, err, planner.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestConstraintClassification(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx planner.Tx) error {
		return tx.CreatePeriod(ctx, model.NewPeriod("per-2", f.period.Name, f.period.StartDate, f.period.EndDate))
	})
	assert.ErrorIs(t, err, planner.ErrDuplicate)

	err = s.WithTx(ctx, func(tx planner.Tx) error {
		a := model.Assignment{ComponentID: f.component.ID, ContributorID: f.contributor.ID, Week: 1}
		if err := tx.InsertAssignment(ctx, a); err != nil {
			return err
		}
		return tx.InsertAssignment(ctx, a)
	})
	assert.ErrorIs(t, err, planner.ErrDuplicate)

	err = s.WithTx(ctx, func(tx planner.Tx) error {
		return tx.CreateProject(ctx, model.Project{ID: "prj-x", Name: "Orphan", PeriodID: "nope"})
	})
	assert.ErrorIs(t, err, planner.ErrReferenced)
}

func TestAssignments(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx planner.Tx) error {
		for _, w := range []int{0, 2, 4} {
			require.NoError(t, tx.InsertAssignment(ctx, model.Assignment{ComponentID: f.component.ID, ContributorID: f.contributor.ID, Week: w}))
		}
		byContributor, err := tx.ListAssignmentsByContributor(ctx, f.contributor.ID)
		require.NoError(t, err)
		require.Len(t, byContributor, 3)
		assert.Equal(t, []int{4, 2, 0}, []int{byContributor[0].Week, byContributor[1].Week, byContributor[2].Week})

		_, ok, err := tx.DeleteAssignment(ctx, f.component.ID, 3)
		require.NoError(t, err)
		assert.False(t, ok)

		a, ok, err := tx.DeleteAssignment(ctx, f.component.ID, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, f.contributor.ID, a.ContributorID)

		rows, err := tx.ListChartRows(ctx, f.period.ID)
		require.NoError(t, err)
		assert.Equal(t, []planner.ChartRow{
			{ContributorID: f.contributor.ID, Week: 0, ComponentName: "API"},
			{ContributorID: f.contributor.ID, Week: 4, ComponentName: "API"},
		}, rows)

		require.NoError(t, tx.CreateContributor(ctx, model.Contributor{ID: "ctb-2", FirstName: "Grace", LastName: "Hopper", SkillIDs: []string{"sk-1"}}))
		require.NoError(t, tx.ReassignAssignments(ctx, f.component.ID, "ctb-2"))
		moved, err := tx.ListAssignmentsByComponent(ctx, f.component.ID)
		require.NoError(t, err)
		for _, m := range moved {
			assert.Equal(t, "ctb-2", m.ContributorID)
		}

		n, err := tx.DeleteAssignmentsByComponent(ctx, f.component.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	f := seed(t, s)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx planner.Tx) error {
		for _, w := range []int{0, 1, 2} {
			require.NoError(t, tx.InsertAssignment(ctx, model.Assignment{ComponentID: f.component.ID, ContributorID: f.contributor.ID, Week: w}))
		}
		require.NoError(t, tx.DeletePeriod(ctx, f.period.ID))

		_, err := tx.GetProject(ctx, f.project.ID)
		assert.ErrorIs(t, err, planner.ErrNotFound)
		_, err = tx.GetComponent(ctx, f.component.ID)
		assert.ErrorIs(t, err, planner.ErrNotFound)
		left, err := tx.ListAssignmentsByContributor(ctx, f.contributor.ID)
		require.NoError(t, err)
		assert.Empty(t, left)

		require.NoError(t, tx.DeleteContributor(ctx, f.contributor.ID))
		require.NoError(t, tx.DeleteSkill(ctx, f.skill.ID))
		all, err := tx.ListContributors(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		return nil
	})
	require.NoError(t, err)
}
