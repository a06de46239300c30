package main

import (
	"fmt"
	"io"

	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/render"
	"github.com/mark3labs/planr/internal/session"
	"github.com/mark3labs/planr/internal/wizard"
	"github.com/spf13/cobra"
)

var showFlags struct {
	yaml bool
}

var showCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Print the plan of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showFlags.yaml, "yaml", false, "Print the plan as YAML (suitable for 'planr fill')")
}

// sessionSummary describes where a session stands, e.g.
// "in progress, step 2 of 5 (Participants), 40%".
func sessionSummary(state *session.State) string {
	p := state.Plan
	if p == nil {
		p = plan.New(plan.Weekly)
	}
	e, err := wizard.New(plan.Steps(p))
	if err != nil {
		return "unknown"
	}
	if state.HasProgress {
		e.Restore(state.Progress)
	}

	status := "in progress"
	if state.Complete {
		status = "complete"
	}
	return fmt.Sprintf("%s, step %d of %d (%s), %d%%", status, e.CurrentStep()+1, e.TotalSteps(), e.CurrentStepData().Label, e.Progress())
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	state, err := store.LoadState(ctx, args[0])
	if err != nil {
		return err
	}
	if state.Plan == nil {
		return fmt.Errorf("session %s has no saved plan", args[0])
	}

	return printPlan(cmd.OutOrStdout(), state, showFlags.yaml)
}

func printPlan(w io.Writer, state *session.State, asYAML bool) error {
	plain := render.Plain(w)
	if asYAML {
		data, err := state.Plan.YAML()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, render.YAML(string(data), plain))
		return err
	}

	fmt.Fprintf(w, "Session %s: %s\n\n", state.Session, sessionSummary(state))
	_, err := fmt.Fprintln(w, render.Markdown(state.Plan.Markdown(), 100, plain))
	return err
}
