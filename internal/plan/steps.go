package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/planr/internal/wizard"
)

// Step ids in wizard order.
const (
	StepConfig     = "config"
	StepUsers      = "users"
	StepTasks      = "tasks"
	StepMilestones = "milestones"
	StepShopping   = "shopping"
)

const dateLayout = "2006-01-02"

// Steps builds the wizard registry for p. Each validator closes over p, so
// edits to the plan are reflected on the next CanProceed.
func Steps(p *Plan) []wizard.Step {
	gate := func(id string) wizard.Validator {
		return func() bool { return len(p.Problems(id)) == 0 }
	}
	return []wizard.Step{
		{ID: StepConfig, Label: "General", Icon: "⚙", Validate: gate(StepConfig)},
		{ID: StepUsers, Label: "Participants", Icon: "☺", Validate: gate(StepUsers)},
		{ID: StepTasks, Label: "Tasks", Icon: "✔", Optional: true, Validate: gate(StepTasks)},
		{ID: StepMilestones, Label: "Milestones", Icon: "⚑", Optional: true, Validate: gate(StepMilestones)},
		{ID: StepShopping, Label: "Shopping", Icon: "🛒", Optional: true, Validate: gate(StepShopping)},
	}
}

// Problems lists why the step's gate is closed. An empty result means the
// step may be left forward.
func (p *Plan) Problems(stepID string) []string {
	var out []string
	switch stepID {
	case StepConfig:
		if strings.TrimSpace(p.Settings.Name) == "" {
			out = append(out, "plan name is required")
		}
		if !p.Settings.Period.Valid() {
			out = append(out, fmt.Sprintf("period must be %s or %s", Weekly, Monthly))
		}
		if d := p.Settings.StartDate; d != "" {
			if _, err := time.Parse(dateLayout, d); err != nil {
				out = append(out, "start date must be YYYY-MM-DD")
			}
		}

	case StepUsers:
		named := false
		for _, u := range p.Participants {
			if strings.TrimSpace(u.Name) != "" {
				named = true
				break
			}
		}
		if !named {
			out = append(out, "add at least one participant with a name")
		}

	case StepTasks:
		for i, t := range p.Tasks {
			if strings.TrimSpace(t.Title) == "" {
				out = append(out, fmt.Sprintf("task %d has no title", i+1))
			}
		}

	case StepMilestones:
		for i, m := range p.Milestones {
			if strings.TrimSpace(m.Title) == "" {
				out = append(out, fmt.Sprintf("milestone %d has no title", i+1))
			}
			if m.Due != "" {
				if _, err := time.Parse(dateLayout, m.Due); err != nil {
					out = append(out, fmt.Sprintf("milestone %d due date must be YYYY-MM-DD", i+1))
				}
			}
		}

	case StepShopping:
		for i, s := range p.Shopping {
			if strings.TrimSpace(s.Name) == "" {
				out = append(out, fmt.Sprintf("shopping item %d has no name", i+1))
			}
		}
	}
	return out
}
