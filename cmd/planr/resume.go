package main

import (
	"errors"
	"fmt"

	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/state"
	"github.com/mark3labs/planr/internal/tui/planwizard"
	"github.com/mark3labs/planr/internal/wizard"
	"github.com/spf13/cobra"
)

var resumeFlags struct {
	reset bool
}

var resumeCmd = &cobra.Command{
	Use:   "resume [session]",
	Short: "Continue a saved wizard session",
	Long: `Reopen the wizard with the saved plan and navigation state of a session.
Without a session name, the last session opened is resumed.

Use --reset to keep the plan but start navigation from the first step, for
example to reopen a session that was completed with lock_on_complete.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().BoolVar(&resumeFlags.reset, "reset", false, "Keep the plan but restart navigation")
}

// resumeTarget picks the session to resume.
func resumeTarget(args []string, dataDir string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if last := state.Load(dataDir).LastSession; last != "" {
		return last, nil
	}
	return "", errors.New("no session given and no previous session found, see 'planr list'")
}

func runResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sessionName, err := resumeTarget(args, cfg.DataDir)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	st, err := store.LoadState(ctx, sessionName)
	if err != nil {
		return err
	}

	p := st.Plan
	if p == nil {
		p = plan.New(plan.Period(cfg.Period))
	}

	var resume *wizard.Snapshot
	if resumeFlags.reset {
		if err := store.SaveProgress(ctx, sessionName, wizard.OpReset, wizard.Snapshot{Completed: []int{}}); err != nil {
			return err
		}
	} else if st.HasProgress {
		if cfg.LockOnComplete && st.Complete {
			return fmt.Errorf("session %s is complete, reopen it with --reset", sessionName)
		}
		snap := st.Progress
		resume = &snap
	}

	state.RememberSession(cfg.DataDir, sessionName)

	res, err := planwizard.Run(ctx, planwizard.Options{
		Plan:           p,
		Session:        sessionName,
		Recorder:       store,
		Resume:         resume,
		LockOnComplete: cfg.LockOnComplete,
	})
	return finishWizard(ctx, cmd.OutOrStdout(), sessionName, res, err)
}
