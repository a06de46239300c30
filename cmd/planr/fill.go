package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/planr/internal/logger"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/session"
	"github.com/mark3labs/planr/internal/state"
	"github.com/mark3labs/planr/internal/tui/planwizard"
	"github.com/mark3labs/planr/internal/wizard"
	"github.com/spf13/cobra"
)

var fillFlags struct {
	skipOptional bool
	session      string
}

var fillCmd = &cobra.Command{
	Use:   "fill <plan.yaml>",
	Short: "Run the wizard headless over a plan file",
	Long: `Load a plan from YAML and drive the wizard forward without a TUI.

Each step's validation runs exactly as in the interactive wizard. When a step
cannot be left, its problems are printed and the command fails. With
--skip-optional, optional steps are skipped instead of validated. With
--session, the run is saved like an interactive one.`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	fillCmd.Flags().BoolVar(&fillFlags.skipOptional, "skip-optional", false, "Skip optional steps instead of validating them")
	fillCmd.Flags().StringVarP(&fillFlags.session, "session", "s", "", "Save the run under this session name")
}

// blockedError reports the step a headless run could not leave.
type blockedError struct {
	Step     wizard.Step
	Problems []string
}

func (e *blockedError) Error() string {
	return fmt.Sprintf("blocked on step %q: %s", e.Step.ID, strings.Join(e.Problems, "; "))
}

// fill drives a fresh engine over p until it completes or a gate stays
// closed. Progress lines go to w.
func fill(ctx context.Context, w io.Writer, p *plan.Plan, skipOptional bool, sessionName string, rec planwizard.Recorder) error {
	completed := false
	var engine *wizard.Engine

	observer := func(t wizard.Transition) {
		logger.Debug("fill: %s %d -> %d (completed=%t)", t.Op, t.From, t.To, t.Completed)
		if rec == nil {
			return
		}
		if err := rec.SaveDraft(ctx, sessionName, p); err != nil {
			logger.Error("Failed to save draft: %v", err)
		}
		if err := rec.SaveProgress(ctx, sessionName, t.Op, engine.Snapshot()); err != nil {
			logger.Error("Failed to save progress: %v", err)
		}
		if t.Completed {
			if err := rec.MarkComplete(ctx, sessionName); err != nil {
				logger.Error("Failed to mark session complete: %v", err)
			}
		}
	}

	engine, err := wizard.New(plan.Steps(p),
		wizard.WithOnComplete(func() { completed = true }),
		wizard.WithObserver(observer),
	)
	if err != nil {
		return err
	}

	for !completed {
		step := engine.CurrentStepData()
		before := engine.CurrentStep()

		if skipOptional && step.Optional {
			engine.SkipOptionalSteps()
			fmt.Fprintf(w, "- %s %s skipped\n", step.Icon, step.Label)
		} else {
			engine.NextStep()
			if !completed && engine.CurrentStep() == before {
				return &blockedError{Step: step, Problems: p.Problems(step.ID)}
			}
			fmt.Fprintf(w, "✓ %s %s\n", step.Icon, step.Label)
		}
	}

	fmt.Fprintf(w, "Plan complete (%d%%)\n", engine.Progress())
	return nil
}

func runFill(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := plan.LoadFile(args[0])
	if err != nil {
		return err
	}

	var rec planwizard.Recorder
	if fillFlags.session != "" {
		if fillFlags.session != session.Name(fillFlags.session) {
			return fmt.Errorf("invalid session name %q (try %q)", fillFlags.session, session.Name(fillFlags.session))
		}
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()
		rec = store
		state.RememberSession(cfg.DataDir, fillFlags.session)
	}

	err = fill(ctx, cmd.OutOrStdout(), p, fillFlags.skipOptional, fillFlags.session, rec)
	var blocked *blockedError
	if errors.As(err, &blocked) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Cannot leave step %s (%s):\n", blocked.Step.ID, blocked.Step.Label)
		for _, problem := range blocked.Problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "  ✗ %s\n", problem)
		}
	}
	if err != nil {
		return err
	}
	return runCompleteHooks(ctx, cmd.OutOrStdout(), fillFlags.session, p)
}
