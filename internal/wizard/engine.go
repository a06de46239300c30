package wizard

import (
	"fmt"
	"sort"

	"github.com/mark3labs/planr/internal/logger"
)

// Op names the navigation operation behind a Transition.
type Op string

const (
	OpNext  Op = "next"
	OpPrev  Op = "prev"
	OpGoTo  Op = "goto"
	OpSkip  Op = "skip"
	OpMark  Op = "mark"
	OpReset Op = "reset"
)

// Transition is delivered to the observer after every operation that changed
// state or fired the completion callback. No-ops are not reported.
type Transition struct {
	Op        Op
	From      int
	To        int
	Completed bool // onComplete fired during this operation
}

// Engine owns the navigation state of one wizard session.
// It is not safe for concurrent use; a single UI session drives it.
type Engine struct {
	steps     []Step
	initial   int
	current   int
	completed map[int]struct{}
	finished  bool

	onComplete     func()
	observer       func(Transition)
	lockOnComplete bool
}

// New creates an engine over steps. The slice is copied; later changes by the
// caller do not affect the registry.
func New(steps []Step, opts ...Option) (*Engine, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	seen := make(map[string]struct{}, len(steps))
	for i, s := range steps {
		if s.ID == "" {
			return nil, fmt.Errorf("%w (index %d)", ErrEmptyStepID, i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStep, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	e := &Engine{
		steps:     append([]Step(nil), steps...),
		completed: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.initial < 0 || e.initial >= len(e.steps) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInitialStep, e.initial, len(e.steps))
	}
	e.current = e.initial

	return e, nil
}

// CurrentStep returns the index of the active step.
func (e *Engine) CurrentStep() int { return e.current }

// CurrentStepData returns the descriptor of the active step.
func (e *Engine) CurrentStepData() Step { return e.steps[e.current] }

// TotalSteps returns the number of registered steps.
func (e *Engine) TotalSteps() int { return len(e.steps) }

// IsFirstStep reports whether the active step is the first one.
func (e *Engine) IsFirstStep() bool { return e.current == 0 }

// IsLastStep reports whether the active step is the last one.
func (e *Engine) IsLastStep() bool { return e.current == len(e.steps)-1 }

// IsOptionalStep reports whether the active step is optional.
func (e *Engine) IsOptionalStep() bool { return e.steps[e.current].Optional }

// CanProceed evaluates the active step's validator. The result is never
// cached because validators read caller-owned data that may change at any time.
func (e *Engine) CanProceed() bool {
	return e.steps[e.current].Valid()
}

// Progress returns the position of the active step as an integer percentage,
// round((current+1) / total * 100). It ignores the completed set.
func (e *Engine) Progress() int {
	total := len(e.steps)
	// Integer form of round-half-up.
	return (200*(e.current+1) + total) / (2 * total)
}

// CompletedSteps returns the completed indices in ascending order.
func (e *Engine) CompletedSteps() []int {
	out := make([]int, 0, len(e.completed))
	for i := range e.completed {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// IsStepCompleted reports whether index n is in the completed set.
func (e *Engine) IsStepCompleted(n int) bool {
	_, ok := e.completed[n]
	return ok
}

// Steps returns a copy of the step registry.
func (e *Engine) Steps() []Step {
	return append([]Step(nil), e.steps...)
}

// StepIndex returns the index of the step with the given id, or -1.
func (e *Engine) StepIndex(id string) int {
	for i, s := range e.steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Finished reports whether the engine is locked after completion. It is only
// ever true when the engine was built WithLockOnComplete(true).
func (e *Engine) Finished() bool { return e.finished }

// NextStep advances past the active step if its gate is open. On the last
// step it fires onComplete instead and stays put.
func (e *Engine) NextStep() {
	if e.finished {
		return
	}
	if !e.CanProceed() {
		logger.Debug("wizard: next blocked on step %q", e.steps[e.current].ID)
		return
	}

	from := e.current
	e.completed[from] = struct{}{}

	if e.IsLastStep() {
		e.complete()
		e.notify(Transition{Op: OpNext, From: from, To: e.current, Completed: true})
		return
	}

	e.current = min(e.current+1, len(e.steps)-1)
	e.notify(Transition{Op: OpNext, From: from, To: e.current})
}

// PrevStep moves back one step, stopping at the first. Backward navigation
// is never gated and leaves the completed set alone.
func (e *Engine) PrevStep() {
	if e.finished || e.current == 0 {
		return
	}
	from := e.current
	e.current = max(e.current-1, 0)
	e.notify(Transition{Op: OpPrev, From: from, To: e.current})
}

// GoToStep jumps to step n. Out-of-range targets are ignored. Which targets a
// UI offers (completed only, adjacent only, ...) is the caller's policy.
func (e *Engine) GoToStep(n int) {
	if e.finished {
		return
	}
	if n < 0 || n >= len(e.steps) {
		logger.Debug("wizard: ignoring goto %d (total %d)", n, len(e.steps))
		return
	}
	if n == e.current {
		return
	}
	from := e.current
	e.current = n
	e.notify(Transition{Op: OpGoTo, From: from, To: n})
}

// SkipOptionalSteps jumps to the next required step. When only optional steps
// remain the wizard is logically done: onComplete fires and the current step
// is left unchanged, mirroring NextStep on the last step.
func (e *Engine) SkipOptionalSteps() {
	if e.finished {
		return
	}
	from := e.current
	next, done := PlanSkip(e.steps, e.current)
	if done {
		e.complete()
		e.notify(Transition{Op: OpSkip, From: from, To: e.current, Completed: true})
		return
	}
	e.current = next
	e.notify(Transition{Op: OpSkip, From: from, To: next})
}

// MarkStepComplete adds n to the completed set. Out-of-range indices are ignored.
func (e *Engine) MarkStepComplete(n int) {
	if n < 0 || n >= len(e.steps) {
		return
	}
	if _, ok := e.completed[n]; ok {
		return
	}
	e.completed[n] = struct{}{}
	e.notify(Transition{Op: OpMark, From: e.current, To: e.current})
}

// Reset returns the engine to its initial step with nothing completed.
func (e *Engine) Reset() {
	from := e.current
	e.current = e.initial
	e.completed = make(map[int]struct{})
	e.finished = false
	e.notify(Transition{Op: OpReset, From: from, To: e.current})
}

func (e *Engine) complete() {
	if e.lockOnComplete {
		e.finished = true
	}
	if e.onComplete != nil {
		e.onComplete()
	}
}

func (e *Engine) notify(t Transition) {
	if e.observer != nil {
		e.observer(t)
	}
}
