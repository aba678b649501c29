package planner

import "time"

// ChangeKind names a committed mutation.
type ChangeKind string

const (
	ChangePeriodCreated      ChangeKind = "period.created"
	ChangePeriodDeleted      ChangeKind = "period.deleted"
	ChangeProjectCreated     ChangeKind = "project.created"
	ChangeProjectDeleted     ChangeKind = "project.deleted"
	ChangeSkillCreated       ChangeKind = "skill.created"
	ChangeSkillDeleted       ChangeKind = "skill.deleted"
	ChangeComponentCreated   ChangeKind = "component.created"
	ChangeComponentUpdated   ChangeKind = "component.updated"
	ChangeComponentDeleted   ChangeKind = "component.deleted"
	ChangeComponentAssigned  ChangeKind = "component.assigned"
	ChangeContributorCreated ChangeKind = "contributor.created"
	ChangeContributorDeleted ChangeKind = "contributor.deleted"
	ChangeAssignmentsUpdated ChangeKind = "assignments.updated"
	ChangeAssignmentsCleared ChangeKind = "assignments.cleared"
)

// Change describes a mutation after its unit of work committed.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	EntityID string     `json:"entity_id"`
	PeriodID string     `json:"period_id,omitempty"`
	Time     time.Time  `json:"time"`
}

// ChangePublisher receives committed changes. Implementations must not block.
type ChangePublisher interface {
	Publish(Change)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Change) {}
