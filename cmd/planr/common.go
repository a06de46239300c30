package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/planr/internal/config"
	"github.com/mark3labs/planr/internal/hooks"
	"github.com/mark3labs/planr/internal/logger"
	"github.com/mark3labs/planr/internal/nats"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/render"
	"github.com/mark3labs/planr/internal/session"
	"github.com/mark3labs/planr/internal/tui/planwizard"
	"github.com/spf13/cobra"
)

// cfg is loaded before every command runs.
var cfg = config.Default()

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if rootFlags.dataDir != "" {
		c.DataDir = rootFlags.dataDir
	}
	if err := logger.Configure(c.LogLevel, c.LogFile); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}
	cfg = c
	logger.Debug("Config loaded: data_dir=%s period=%s lock_on_complete=%t", cfg.DataDir, cfg.Period, cfg.LockOnComplete)
	return nil
}

// openStore starts the embedded NATS server in the configured data directory.
// The returned func shuts it down.
func openStore(ctx context.Context) (*session.Store, func(), error) {
	conn, err := nats.Open(ctx, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session storage in %s: %w", cfg.DataDir, err)
	}
	closeFn := func() {
		if err := conn.Close(); err != nil {
			logger.Warn("Error closing session storage: %v", err)
		}
	}
	return session.NewStore(conn.JetStream, conn.Stream), closeFn, nil
}

// finishWizard reports the outcome of an interactive run and runs the
// completion hooks of a completed one.
func finishWizard(ctx context.Context, w io.Writer, sessionName string, res *planwizard.Result, err error) error {
	if errors.Is(err, planwizard.ErrCancelled) {
		fmt.Fprintf(w, "Wizard cancelled. Continue with: planr resume %s\n", sessionName)
		return nil
	}
	if err != nil {
		return err
	}
	if !res.Completed {
		fmt.Fprintf(w, "Wizard closed. Continue with: planr resume %s\n", sessionName)
		return nil
	}

	fmt.Fprintln(w, render.Markdown(res.Plan.Markdown(), 100, render.Plain(w)))
	fmt.Fprintf(w, "\nSaved as session %s\n", sessionName)
	return runCompleteHooks(ctx, w, sessionName, res.Plan)
}

// runCompleteHooks runs the on_complete hooks of the working directory with
// the plan written to a temporary YAML file.
func runCompleteHooks(ctx context.Context, w io.Writer, sessionName string, p *plan.Plan) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	hc, err := hooks.LoadConfig(wd)
	if err != nil {
		return err
	}
	if hc == nil || len(hc.Hooks.OnComplete) == 0 {
		return nil
	}

	data, err := p.YAML()
	if err != nil {
		return err
	}
	f, err := os.CreateTemp("", "planr-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create plan file for hooks: %w", err)
	}
	defer func() { _ = os.Remove(f.Name()) }()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write plan file for hooks: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	out, err := hooks.ExecuteAll(ctx, hc.Hooks.OnComplete, wd, hooks.Variables{
		Session:  sessionName,
		PlanName: p.Settings.Name,
		PlanFile: f.Name(),
		Period:   string(p.Settings.Period),
	})
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprint(w, out)
	}
	return nil
}

// loadPlanRef resolves ref to a plan: a .yaml/.yml file when one exists at
// that path, otherwise a session name.
func loadPlanRef(ctx context.Context, ref string, store func() (*session.Store, error)) (*plan.Plan, error) {
	ext := strings.ToLower(filepath.Ext(ref))
	if ext == ".yaml" || ext == ".yml" {
		if _, err := os.Stat(ref); err == nil {
			return plan.LoadFile(ref)
		}
	}

	s, err := store()
	if err != nil {
		return nil, err
	}
	state, err := s.LoadState(ctx, ref)
	if err != nil {
		return nil, err
	}
	if state.Plan == nil {
		return nil, fmt.Errorf("session %s has no saved plan", ref)
	}
	return state.Plan, nil
}
