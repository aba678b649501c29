// Package planner implements the scheduling and skill-matching model.
//
// A Service runs every operation inside one unit of work obtained from a
// Store. Lookups of missing entities fail with ErrNotFound, rejected input
// with ErrValidation, unique field collisions with ErrConflict and anything
// else the store reports with ErrStore. Committed mutations are announced to
// an optional ChangePublisher and recorded by a metrics.MetricsSink.
//
// The report builders (BuildComponentReport, BuildProjectReport,
// BuildContributorChart, BuildUtilization) are pure functions over model
// values so they can be used without a store.
package planner
