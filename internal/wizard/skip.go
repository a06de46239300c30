package wizard

// PlanSkip returns the index of the first required step after from. When every
// step after from is optional (including when from is already the last step)
// it reports completed=true and next is meaningless.
func PlanSkip(steps []Step, from int) (next int, completed bool) {
	for i := from + 1; i < len(steps); i++ {
		if !steps[i].Optional {
			return i, false
		}
	}
	return from, true
}
