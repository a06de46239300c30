package mcpserver

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/wizard"
)

// statusText describes the engine state. Callers hold stateMu.
func (s *Server) statusText() string {
	e := s.engine
	step := e.CurrentStepData()

	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Step %d of %d: %s (%s)\n", e.CurrentStep()+1, e.TotalSteps(), step.Label, step.ID)
	fmt.Fprintf(&b, "Progress: %d%%\n", e.Progress())
	fmt.Fprintf(&b, "Optional: %s\n", yesNo(step.Optional))
	fmt.Fprintf(&b, "Can proceed: %s\n", yesNo(e.CanProceed()))

	done := e.CompletedSteps()
	ids := make([]string, len(done))
	for i, n := range done {
		ids[i] = e.Steps()[n].ID
	}
	if len(ids) == 0 {
		b.WriteString("Completed: none\n")
	} else {
		fmt.Fprintf(&b, "Completed: %s\n", strings.Join(ids, ", "))
	}
	if e.Finished() {
		b.WriteString("Finished: yes (reset to continue)\n")
	}

	if problems := s.plan.Problems(step.ID); len(problems) > 0 {
		b.WriteString("Problems:\n")
		for _, p := range problems {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// navigate runs op on the engine and reports what changed. Engine no-ops are
// reported as text, not as tool errors.
func (s *Server) navigate(tool string, op func(e *wizard.Engine)) *mcp.CallToolResult {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.engine.Finished() {
		return mcp.NewToolResultText("The wizard is finished. Call wizard-reset to start over.\n\n" + s.statusText())
	}

	before := s.engine.Snapshot()
	completions := s.completions
	op(s.engine)
	after := s.engine.Snapshot()

	var head string
	switch {
	case s.completions > completions:
		head = "Wizard complete."
	case before.Current == after.Current && slices.Equal(before.Completed, after.Completed):
		head = tool + " changed nothing."
	default:
		head = fmt.Sprintf("Now on step %d of %d: %s.", after.Current+1, s.engine.TotalSteps(), s.engine.CurrentStepData().Label)
	}
	return mcp.NewToolResultText(head + "\n\n" + s.statusText())
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return mcp.NewToolResultText(s.statusText()), nil
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.navigate("wizard-next", (*wizard.Engine).NextStep), nil
}

func (s *Server) handlePrev(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.navigate("wizard-prev", (*wizard.Engine).PrevStep), nil
}

// handleSkip skips optional steps. A required step's gate still has to be
// open before it can be skipped past.
func (s *Server) handleSkip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.navigate("wizard-skip", func(e *wizard.Engine) {
		if !e.IsOptionalStep() && !e.CanProceed() {
			return
		}
		e.SkipOptionalSteps()
	}), nil
}

// handleGoTo accepts a step id or a 1-based number. Numbers outside the
// registry are passed through and ignored by the engine.
func (s *Server) handleGoTo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := request.RequireString("step")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target = strings.TrimSpace(target)

	s.stateMu.Lock()
	n := s.engine.StepIndex(target)
	s.stateMu.Unlock()

	if n < 0 {
		num, err := strconv.Atoi(target)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("unknown step %q", target)), nil
		}
		n = num - 1
	}

	return s.navigate("wizard-goto", func(e *wizard.Engine) { e.GoToStep(n) }), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.engine.Reset()
	return mcp.NewToolResultText("Wizard reset.\n\n" + s.statusText()), nil
}

func (s *Server) handleConfigure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	settings := &s.plan.Settings
	var changed []string
	if v, ok := args["name"].(string); ok {
		settings.Name = strings.TrimSpace(v)
		changed = append(changed, "name")
	}
	if v, ok := args["period"].(string); ok {
		settings.Period = plan.Period(strings.ToLower(strings.TrimSpace(v)))
		changed = append(changed, "period")
	}
	if v, ok := args["start_date"].(string); ok {
		settings.StartDate = strings.TrimSpace(v)
		changed = append(changed, "start_date")
	}
	if v, ok := args["notes"].(string); ok {
		settings.Notes = strings.TrimSpace(v)
		changed = append(changed, "notes")
	}
	if len(changed) == 0 {
		return mcp.NewToolResultError("no settings given"), nil
	}

	if err := s.saveDraft(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save draft: %v", err)), nil
	}

	msg := "Updated " + strings.Join(changed, ", ") + "."
	if problems := s.plan.Problems(plan.StepConfig); len(problems) > 0 {
		msg += "\nSettings problems:\n  - " + strings.Join(problems, "\n  - ")
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	step, err := request.RequireString("step")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := request.RequireStringSlice("fields")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if err := s.plan.Add(step, fields...); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.saveDraft(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save draft: %v", err)), nil
	}

	entries := s.plan.Entries(step)
	return mcp.NewToolResultText(fmt.Sprintf("Added to %s: %s (%d entries)", step, entries[len(entries)-1], len(entries))), nil
}

func (s *Server) handleRemove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	step, err := request.RequireString("step")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	entries := s.plan.Entries(step)
	if index < 1 || index > len(entries) {
		return mcp.NewToolResultError(fmt.Sprintf("%s has %d entries, no entry %d", step, len(entries), index)), nil
	}
	s.plan.RemoveAt(step, index-1)
	if err := s.saveDraft(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save draft: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed from %s: %s", step, entries[index-1])), nil
}

func (s *Server) handleShow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	data, err := s.plan.YAML()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode plan: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
