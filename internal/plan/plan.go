// Package plan holds the weekly/monthly plan being assembled by the wizard and
// the step definitions whose validators read it.
package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Period is the span a plan covers.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	return p == Weekly || p == Monthly
}

// Days returns the number of days in the period starting at start.
func (p Period) Days(start time.Time) int {
	if p == Monthly {
		y, m, d := start.Date()
		first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return int(first.AddDate(0, 1, 0).Sub(first).Hours() / 24)
	}
	return 7
}

// Settings is the general configuration edited by the first step.
type Settings struct {
	Name      string `json:"name" yaml:"name"`
	Period    Period `json:"period" yaml:"period"`
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"` // YYYY-MM-DD
	Notes     string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Participant takes part in the plan.
type Participant struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// Task is a recurring or one-off chore assigned within the period.
type Task struct {
	Title    string `json:"title" yaml:"title"`
	Assignee string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Day      string `json:"day,omitempty" yaml:"day,omitempty"`
}

// Milestone is a dated goal within the period.
type Milestone struct {
	Title string `json:"title" yaml:"title"`
	Due   string `json:"due,omitempty" yaml:"due,omitempty"` // YYYY-MM-DD
}

// ShoppingItem is one line of the shopping list.
type ShoppingItem struct {
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// Plan is the composite record the wizard builds.
type Plan struct {
	ID           string         `json:"id" yaml:"id,omitempty"`
	Settings     Settings       `json:"settings" yaml:"settings"`
	Participants []Participant  `json:"participants" yaml:"participants,omitempty"`
	Tasks        []Task         `json:"tasks" yaml:"tasks,omitempty"`
	Milestones   []Milestone    `json:"milestones" yaml:"milestones,omitempty"`
	Shopping     []ShoppingItem `json:"shopping" yaml:"shopping,omitempty"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at,omitempty"`
}

// New returns an empty plan for the given period.
func New(period Period) *Plan {
	return &Plan{
		Settings:  Settings{Period: period},
		CreatedAt: time.Now(),
	}
}

// Slug derives a stable identifier from the plan name.
func (p *Plan) Slug() string {
	s := slug.Make(p.Settings.Name)
	if s == "" {
		return "unnamed-plan"
	}
	return s
}

// EnsureID assigns ID from the name if it is not set yet.
func (p *Plan) EnsureID() string {
	if p.ID == "" {
		p.ID = p.Slug()
	}
	return p.ID
}

// AddParticipant appends a participant.
func (p *Plan) AddParticipant(name, role string) {
	p.Participants = append(p.Participants, Participant{Name: strings.TrimSpace(name), Role: strings.TrimSpace(role)})
}

// AddTask appends a task.
func (p *Plan) AddTask(title, assignee, day string) {
	p.Tasks = append(p.Tasks, Task{
		Title:    strings.TrimSpace(title),
		Assignee: strings.TrimSpace(assignee),
		Day:      strings.TrimSpace(day),
	})
}

// AddMilestone appends a milestone.
func (p *Plan) AddMilestone(title, due string) {
	p.Milestones = append(p.Milestones, Milestone{Title: strings.TrimSpace(title), Due: strings.TrimSpace(due)})
}

// AddShoppingItem appends a shopping list entry.
func (p *Plan) AddShoppingItem(name, quantity string) {
	p.Shopping = append(p.Shopping, ShoppingItem{Name: strings.TrimSpace(name), Quantity: strings.TrimSpace(quantity)})
}

// Entries returns the display lines of the list edited by stepID, or nil for
// steps that do not edit a list.
func (p *Plan) Entries(stepID string) []string {
	var out []string
	switch stepID {
	case StepUsers:
		for _, u := range p.Participants {
			out = append(out, joinNonEmpty(u.Name, u.Role))
		}
	case StepTasks:
		for _, t := range p.Tasks {
			out = append(out, joinNonEmpty(t.Title, t.Assignee, t.Day))
		}
	case StepMilestones:
		for _, m := range p.Milestones {
			out = append(out, joinNonEmpty(m.Title, m.Due))
		}
	case StepShopping:
		for _, s := range p.Shopping {
			out = append(out, joinNonEmpty(s.Name, s.Quantity))
		}
	}
	return out
}

// Add appends an entry to the list edited by stepID. fields follow the order
// of Fields(stepID); missing trailing fields are empty.
func (p *Plan) Add(stepID string, fields ...string) error {
	f := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	names := Fields(stepID)
	if names == nil {
		return fmt.Errorf("step %q has no list", stepID)
	}
	if strings.TrimSpace(f(0)) == "" {
		return fmt.Errorf("%s: %s is required", stepID, names[0])
	}
	switch stepID {
	case StepUsers:
		p.AddParticipant(f(0), f(1))
	case StepTasks:
		p.AddTask(f(0), f(1), f(2))
	case StepMilestones:
		p.AddMilestone(f(0), f(1))
	case StepShopping:
		p.AddShoppingItem(f(0), f(1))
	}
	return nil
}

// RemoveAt deletes entry i of the list edited by stepID. Out-of-range indices
// are ignored.
func (p *Plan) RemoveAt(stepID string, i int) {
	switch stepID {
	case StepUsers:
		p.Participants = removeAt(p.Participants, i)
	case StepTasks:
		p.Tasks = removeAt(p.Tasks, i)
	case StepMilestones:
		p.Milestones = removeAt(p.Milestones, i)
	case StepShopping:
		p.Shopping = removeAt(p.Shopping, i)
	}
}

// Fields names the inputs of a list step, first one required.
func Fields(stepID string) []string {
	switch stepID {
	case StepUsers:
		return []string{"name", "role"}
	case StepTasks:
		return []string{"title", "assignee", "day"}
	case StepMilestones:
		return []string{"title", "due"}
	case StepShopping:
		return []string{"item", "quantity"}
	}
	return nil
}

func removeAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	return append(s[:i], s[i+1:]...)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
