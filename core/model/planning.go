package model

import "strings"

// Project is a body of work scoped to one period.
type Project struct {
	ID          string `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PeriodID    string `json:"period_id"`
}

// Skill is a named capability tag. Names are free text and may repeat.
type Skill struct {
	ID   string `json:"skill_id"`
	Name string `json:"name"`
}

// Component is a schedulable unit of work within a project that requires one skill.
type Component struct {
	ID             string `json:"component_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	ProjectID      string `json:"project_id"`
	SkillID        string `json:"skill_id"`
	EstimatedWeeks int    `json:"estimated_weeks"`
	// ContributorID caches the contributor currently working on the component.
	// The assignment ledger remains authoritative for week-level data.
	ContributorID *string `json:"contributor_id"`
}

// Assigned reports whether the component points at a contributor.
func (c Component) Assigned() bool {
	return c.ContributorID != nil && *c.ContributorID != ""
}

// DefaultComponentName is used when a component is created without a name.
func DefaultComponentName(projectName, skillName string) string {
	return projectName + " " + skillName
}

// Contributor is a person who may hold several skills.
type Contributor struct {
	ID        string   `json:"contributor_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	SkillIDs  []string `json:"skill_ids"`
}

// FullName joins first and last name.
func (c Contributor) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasSkill reports whether skillID is in the contributor's skill set.
func (c Contributor) HasSkill(skillID string) bool {
	for _, id := range c.SkillIDs {
		if id == skillID {
			return true
		}
	}
	return false
}

// ContributorSkill links a contributor to one skill.
type ContributorSkill struct {
	ContributorID string `json:"contributor_id"`
	SkillID       string `json:"skill_id"`
}

// Assignment binds a contributor to a component for one week of the period.
// (ComponentID, Week) is unique.
type Assignment struct {
	ComponentID   string `json:"component_id"`
	ContributorID string `json:"contributor_id"`
	Week          int    `json:"week"`
}
