package planwizard

import (
	"fmt"
	"strings"

	"github.com/mark3labs/planr/internal/wizard"
)

// renderStepper draws one chip per step: the active step highlighted,
// completed steps checked and optional steps dimmed.
func renderStepper(e *wizard.Engine) string {
	steps := e.Steps()
	chips := make([]string, 0, len(steps))
	for i, s := range steps {
		label := fmt.Sprintf("%d %s %s", i+1, s.Icon, s.Label)
		switch {
		case i == e.CurrentStep():
			chips = append(chips, styleStepCurrent.Render(label))
		case e.IsStepCompleted(i):
			chips = append(chips, styleStepDone.Render("✓ "+label))
		case s.Optional:
			chips = append(chips, styleStepOptional.Render(label))
		default:
			chips = append(chips, styleStepPending.Render(label))
		}
	}
	return strings.Join(chips, styleHintSeparator.Render(" › "))
}

// reachable reports whether the stepper lets the user jump to step n: any
// step up to one past the furthest completed one, or behind the active step.
func reachable(e *wizard.Engine, n int) bool {
	if n < 0 || n >= e.TotalSteps() {
		return false
	}
	limit := e.CurrentStep()
	if done := e.CompletedSteps(); len(done) > 0 {
		limit = max(limit, done[len(done)-1]+1)
	}
	return n <= limit
}

// jumpTarget parses alt+1..alt+9 into a zero-based step index.
func jumpTarget(key string) (int, bool) {
	digit, ok := strings.CutPrefix(key, "alt+")
	if !ok || len(digit) != 1 || digit[0] < '1' || digit[0] > '9' {
		return 0, false
	}
	return int(digit[0] - '1'), true
}
