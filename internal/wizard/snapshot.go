package wizard

// Snapshot is the serializable navigation state of an Engine.
type Snapshot struct {
	Current   int   `json:"current"`
	Completed []int `json:"completed"`
	Finished  bool  `json:"finished,omitempty"`
}

// Snapshot captures the current navigation state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Current:   e.current,
		Completed: e.CompletedSteps(),
		Finished:  e.finished,
	}
}

// Restore replaces the navigation state with s. Data that does not fit the
// registry is dropped rather than rejected: the current index is clamped and
// out-of-range completed indices are discarded. Finished is only honoured on
// engines built WithLockOnComplete(true). The observer is not notified.
func (e *Engine) Restore(s Snapshot) {
	e.current = min(max(s.Current, 0), len(e.steps)-1)

	e.completed = make(map[int]struct{}, len(s.Completed))
	for _, i := range s.Completed {
		if i >= 0 && i < len(e.steps) {
			e.completed[i] = struct{}{}
		}
	}

	e.finished = s.Finished && e.lockOnComplete
}
