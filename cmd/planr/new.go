package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/session"
	"github.com/mark3labs/planr/internal/state"
	"github.com/mark3labs/planr/internal/tui/planwizard"
	"github.com/spf13/cobra"
)

var newFlags struct {
	name      string
	period    string
	session   string
	startStep string
	lock      bool
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start the plan wizard",
	Long: `Start the interactive plan wizard in a new session.

Every step change is saved, so an interrupted wizard can be continued
with 'planr resume <session>'.`,
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newFlags.name, "name", "n", "", "Plan name")
	newCmd.Flags().StringVarP(&newFlags.period, "period", "p", "", "Plan period: weekly or monthly (default from config)")
	newCmd.Flags().StringVarP(&newFlags.session, "session", "s", "", "Session name (default: derived from the plan name)")
	newCmd.Flags().StringVar(&newFlags.startStep, "start-step", "", "Step id to open on (default from config)")
	newCmd.Flags().BoolVar(&newFlags.lock, "lock-on-complete", false, "Make completion final until the wizard is reset")
}

// newSessionName picks the session name for a new wizard.
func newSessionName(explicit, planName string, now time.Time) (string, error) {
	raw := explicit
	if raw == "" {
		raw = planName
	}
	if raw == "" {
		raw = "plan-" + now.Format("20060102-150405")
	}
	name := session.Name(raw)
	if name == "" {
		return "", fmt.Errorf("invalid session name %q", raw)
	}
	return name, nil
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	period := plan.Period(cfg.Period)
	if newFlags.period != "" {
		period = plan.Period(newFlags.period)
	}
	if !period.Valid() {
		return fmt.Errorf("invalid period %q (use weekly or monthly)", period)
	}

	sessionName, err := newSessionName(newFlags.session, newFlags.name, time.Now())
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := store.LoadState(ctx, sessionName); err == nil {
		return fmt.Errorf("session %s already exists, continue it with 'planr resume %s'", sessionName, sessionName)
	} else if !errors.Is(err, session.ErrNotFound) {
		return err
	}

	p := plan.New(period)
	p.Settings.Name = newFlags.name

	startStep := cfg.StartStep
	if newFlags.startStep != "" {
		startStep = newFlags.startStep
	}

	state.RememberSession(cfg.DataDir, sessionName)

	res, err := planwizard.Run(ctx, planwizard.Options{
		Plan:           p,
		Session:        sessionName,
		Recorder:       store,
		StartStep:      startStep,
		LockOnComplete: cfg.LockOnComplete || newFlags.lock,
	})
	return finishWizard(ctx, cmd.OutOrStdout(), sessionName, res, err)
}
