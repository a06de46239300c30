// Package wizard implements a step-sequencing engine for guided, multi-step
// data entry. The engine owns only navigation state (current index and the set
// of completed indices); what a step edits and what makes it valid is supplied
// by the caller as Step descriptors and Validator closures.
package wizard

import "errors"

// Validator reports whether a step's data currently allows forward progress.
// It must be side-effect free and cheap: it is called on every CanProceed.
type Validator func() bool

// Step describes one page of the wizard. Steps are caller-owned and treated as
// immutable once handed to New.
type Step struct {
	ID       string    // Stable identifier, unique within a wizard
	Label    string    // Presentation hint, opaque to the engine
	Icon     string    // Presentation hint, opaque to the engine
	Optional bool      // Optional steps may be bulk-skipped
	Validate Validator // nil means always valid
}

// Valid evaluates the step's validator. A step without one is always valid.
func (s Step) Valid() bool {
	if s.Validate == nil {
		return true
	}
	return s.Validate()
}

// Construction errors. Navigation never returns errors.
var (
	ErrNoSteps       = errors.New("wizard: at least one step is required")
	ErrEmptyStepID   = errors.New("wizard: step id must not be empty")
	ErrDuplicateStep = errors.New("wizard: duplicate step id")
	ErrInitialStep   = errors.New("wizard: initial step out of range")
)
