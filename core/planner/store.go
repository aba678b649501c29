package planner

import (
	"context"

	"github.com/kilianp07/planner/core/model"
)

// Store opens units of work against the relational store.
type Store interface {
	// WithTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back on error or panic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// ChartRow is one (contributor, week, component) triple of a period.
type ChartRow struct {
	ContributorID string
	Week          int
	ComponentName string
}

// Tx exposes the repository operations available inside a unit of work.
// Get methods return an error wrapping ErrNotFound when the row is missing.
// Insert methods return an error wrapping ErrDuplicate on key conflicts.
type Tx interface {
	CreatePeriod(ctx context.Context, p model.Period) error
	GetPeriod(ctx context.Context, id string) (model.Period, error)
	ListPeriods(ctx context.Context) ([]model.Period, error)
	DeletePeriod(ctx context.Context, id string) error

	CreateProject(ctx context.Context, p model.Project) error
	GetProject(ctx context.Context, id string) (model.Project, error)
	ListProjectsByPeriod(ctx context.Context, periodID string) ([]model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateSkill(ctx context.Context, s model.Skill) error
	GetSkill(ctx context.Context, id string) (model.Skill, error)
	ListSkills(ctx context.Context) ([]model.Skill, error)
	CountComponentsBySkill(ctx context.Context, skillID string) (int, error)
	DeleteSkill(ctx context.Context, id string) error

	CreateComponent(ctx context.Context, c model.Component) error
	GetComponent(ctx context.Context, id string) (model.Component, error)
	ListComponentsByProject(ctx context.Context, projectID string) ([]model.Component, error)
	ListComponentsByPeriod(ctx context.Context, periodID string) ([]model.Component, error)
	UpdateComponent(ctx context.Context, c model.Component) error
	ClearContributorFromComponents(ctx context.Context, contributorID string) error
	DeleteComponent(ctx context.Context, id string) error

	// CreateContributor stores the contributor and one link per skill id.
	CreateContributor(ctx context.Context, c model.Contributor) error
	GetContributor(ctx context.Context, id string) (model.Contributor, error)
	ListContributors(ctx context.Context) ([]model.Contributor, error)
	ListContributorsBySkill(ctx context.Context, skillID string) ([]model.Contributor, error)
	DeleteContributor(ctx context.Context, id string) error

	InsertAssignment(ctx context.Context, a model.Assignment) error
	// DeleteAssignment removes the row at (componentID, week) and reports
	// whether one existed.
	DeleteAssignment(ctx context.Context, componentID string, week int) (model.Assignment, bool, error)
	DeleteAssignmentsByComponent(ctx context.Context, componentID string) (int, error)
	DeleteAssignmentsByContributor(ctx context.Context, contributorID string) (int, error)
	ReassignAssignments(ctx context.Context, componentID, contributorID string) error
	// ListAssignmentsByComponent orders by week ascending.
	ListAssignmentsByComponent(ctx context.Context, componentID string) ([]model.Assignment, error)
	// ListAssignmentsByContributor orders by week descending.
	ListAssignmentsByContributor(ctx context.Context, contributorID string) ([]model.Assignment, error)
	// ListChartRows joins components, projects, assignments and contributors of a period.
	ListChartRows(ctx context.Context, periodID string) ([]ChartRow, error)
}
