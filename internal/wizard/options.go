package wizard

// Option configures an Engine at construction.
type Option func(*Engine)

// WithInitialStep sets the step the engine starts on and returns to on Reset.
// Defaults to 0.
func WithInitialStep(n int) Option {
	return func(e *Engine) {
		e.initial = n
	}
}

// WithOnComplete sets the callback fired when forward navigation runs past the
// last step, either via NextStep or SkipOptionalSteps.
func WithOnComplete(fn func()) Option {
	return func(e *Engine) {
		e.onComplete = fn
	}
}

// WithObserver registers a function notified after every state change.
func WithObserver(fn func(Transition)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// WithLockOnComplete makes completion terminal: once onComplete has fired,
// navigation is ignored until Reset. By default the engine stays interactive
// on the last step and may complete again.
func WithLockOnComplete(lock bool) Option {
	return func(e *Engine) {
		e.lockOnComplete = lock
	}
}
