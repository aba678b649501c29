// Package seed loads a YAML description of skills, contributors and periods
// into the planner through its service.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/planner/core/logger"
	"github.com/kilianp07/planner/core/model"
	"github.com/kilianp07/planner/core/planner"
)

// File is the seed document. Skills and contributors are referenced by name.
type File struct {
	Skills       []string      `yaml:"skills"`
	Contributors []Contributor `yaml:"contributors"`
	Periods      []Period      `yaml:"periods"`
}

type Contributor struct {
	FirstName string   `yaml:"first_name"`
	LastName  string   `yaml:"last_name"`
	Skills    []string `yaml:"skills"`
}

type Period struct {
	Name      string     `yaml:"name"`
	StartDate model.Date `yaml:"start_date"`
	EndDate   model.Date `yaml:"end_date"`
	Projects  []Project  `yaml:"projects"`
}

type Project struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Components  []Component `yaml:"components"`
}

// Component optionally names a contributor ("First Last") and the weeks
// they work on it, as indexes or as any date inside the week.
type Component struct {
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	Skill          string       `yaml:"skill"`
	EstimatedWeeks int          `yaml:"estimated_weeks"`
	Contributor    string       `yaml:"contributor"`
	Weeks          []int        `yaml:"weeks"`
	Dates          []model.Date `yaml:"dates"`
}

// weeks merges the explicit indexes with the weeks holding each date.
// Dates outside the period give out-of-range indexes that the ledger rejects.
func (c Component) weeks(period model.Period) []int {
	weeks := append([]int(nil), c.Weeks...)
	seen := make(map[int]bool, len(weeks)+len(c.Dates))
	for _, w := range weeks {
		seen[w] = true
	}
	for _, d := range c.Dates {
		w := period.WeekOf(d.Time)
		if !seen[w] {
			seen[w] = true
			weeks = append(weeks, w)
		}
	}
	return weeks
}

// Summary counts what Apply created.
type Summary struct {
	Skills       int
	Contributors int
	Periods      int
	Projects     int
	Components   int
	Assignments  int
}

// Load reads and parses a seed file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document, rejecting unknown fields.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("parse seed: %w", err)
	}
	return f, nil
}

// Apply creates the seed entities in order. Skills that already exist are
// reused by name; everything else is created. It stops at the first error.
func Apply(ctx context.Context, svc *planner.Service, f File, log logger.Logger) (Summary, error) {
	log = logger.OrNop(log)
	var sum Summary

	skills, err := svc.ListSkills(ctx)
	if err != nil {
		return sum, err
	}
	skillIDs := make(map[string]string, len(skills))
	for _, s := range skills {
		skillIDs[s.Name] = s.ID
	}
	for _, name := range f.Skills {
		if _, ok := skillIDs[name]; ok {
			continue
		}
		s, err := svc.CreateSkill(ctx, name)
		if err != nil {
			return sum, fmt.Errorf("skill %q: %w", name, err)
		}
		skillIDs[s.Name] = s.ID
		sum.Skills++
	}
	skillID := func(name string) (string, error) {
		id, ok := skillIDs[name]
		if !ok {
			return "", fmt.Errorf("unknown skill %q", name)
		}
		return id, nil
	}

	contributorIDs := make(map[string]string, len(f.Contributors))
	for _, c := range f.Contributors {
		in := planner.ContributorInput{FirstName: c.FirstName, LastName: c.LastName}
		for _, name := range c.Skills {
			id, err := skillID(name)
			if err != nil {
				return sum, fmt.Errorf("contributor %s %s: %w", c.FirstName, c.LastName, err)
			}
			in.SkillIDs = append(in.SkillIDs, id)
		}
		created, err := svc.CreateContributor(ctx, in)
		if err != nil {
			return sum, fmt.Errorf("contributor %s %s: %w", c.FirstName, c.LastName, err)
		}
		contributorIDs[created.FullName()] = created.ID
		sum.Contributors++
	}

	for _, p := range f.Periods {
		period, err := svc.CreatePeriod(ctx, planner.PeriodInput{Name: p.Name, StartDate: p.StartDate, EndDate: p.EndDate})
		if err != nil {
			return sum, fmt.Errorf("period %q: %w", p.Name, err)
		}
		sum.Periods++
		log.Infow("period seeded", map[string]any{"period": period.Name, "weeks": period.NumWeeks()})

		for _, pr := range p.Projects {
			project, err := svc.CreateProject(ctx, planner.ProjectInput{Name: pr.Name, Description: pr.Description, PeriodID: period.ID})
			if err != nil {
				return sum, fmt.Errorf("project %q: %w", pr.Name, err)
			}
			sum.Projects++
			for _, c := range pr.Components {
				n, err := applyComponent(ctx, svc, period, project, c, skillID, contributorIDs)
				if err != nil {
					return sum, fmt.Errorf("project %q: %w", pr.Name, err)
				}
				sum.Components++
				sum.Assignments += n
			}
		}
	}
	return sum, nil
}

func applyComponent(ctx context.Context, svc *planner.Service, period model.Period, project model.Project, c Component,
	skillID func(string) (string, error), contributorIDs map[string]string) (int, error) {
	sid, err := skillID(c.Skill)
	if err != nil {
		return 0, err
	}
	comp, err := svc.CreateComponent(ctx, planner.ComponentInput{
		Name:           c.Name,
		Description:    c.Description,
		ProjectID:      project.ID,
		SkillID:        sid,
		EstimatedWeeks: c.EstimatedWeeks,
	})
	if err != nil {
		return 0, fmt.Errorf("component %q: %w", c.Name, err)
	}
	weeks := c.weeks(period)
	if c.Contributor == "" {
		if len(weeks) > 0 {
			return 0, fmt.Errorf("component %q: weeks require a contributor", comp.Name)
		}
		return 0, nil
	}
	cid, ok := contributorIDs[c.Contributor]
	if !ok {
		return 0, fmt.Errorf("component %q: unknown contributor %q", comp.Name, c.Contributor)
	}
	if len(weeks) == 0 {
		_, err := svc.AssignContributor(ctx, comp.ID, &cid)
		return 0, err
	}
	changes, err := svc.UpdateAssignments(ctx, planner.AssignmentUpdate{
		ComponentID:   comp.ID,
		ContributorID: cid,
		AddedWeeks:    weeks,
	})
	if err != nil {
		return 0, fmt.Errorf("component %q: %w", comp.Name, err)
	}
	return len(changes.Added), nil
}
