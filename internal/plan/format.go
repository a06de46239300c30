package plan

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a plan from YAML. Unknown fields are rejected so typos in
// hand-written drafts surface early.
func ParseYAML(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	if p.Settings.Period == "" {
		p.Settings.Period = Weekly
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return &p, nil
}

// LoadFile reads a YAML plan from path.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	return ParseYAML(data)
}

// YAML encodes the plan.
func (p *Plan) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown renders a human-readable summary of the plan.
func (p *Plan) Markdown() string {
	var b strings.Builder

	name := p.Settings.Name
	if name == "" {
		name = "Untitled plan"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	fmt.Fprintf(&b, "**Period:** %s", p.Settings.Period)
	if p.Settings.StartDate != "" {
		fmt.Fprintf(&b, " starting %s", p.Settings.StartDate)
		if start, err := time.Parse(dateLayout, p.Settings.StartDate); err == nil {
			fmt.Fprintf(&b, " (%d days)", p.Settings.Period.Days(start))
		}
	}
	b.WriteString("\n\n")

	if p.Settings.Notes != "" {
		b.WriteString(strings.TrimSpace(p.Settings.Notes))
		b.WriteString("\n\n")
	}

	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		for _, l := range lines {
			fmt.Fprintf(&b, "- %s\n", l)
		}
		b.WriteString("\n")
	}

	section("Participants", p.Entries(StepUsers))
	section("Tasks", p.Entries(StepTasks))
	section("Milestones", p.Entries(StepMilestones))
	section("Shopping list", p.Entries(StepShopping))

	return strings.TrimRight(b.String(), "\n") + "\n"
}
