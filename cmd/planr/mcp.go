package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/planr/internal/mcpserver"
	"github.com/mark3labs/planr/internal/plan"
	"github.com/mark3labs/planr/internal/session"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	session string
	http    bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve a wizard session to agents over MCP",
	Long: `Expose a wizard session as MCP tools (wizard-status, wizard-next,
wizard-prev, wizard-goto, wizard-skip, wizard-reset, plan-configure, plan-add,
plan-remove, plan-show).

Serves over stdio by default. With --http, serves streamable HTTP on a random
local port and prints the endpoint URL to stderr. An existing session is
continued; otherwise a new one is created.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVarP(&mcpFlags.session, "session", "s", "", "Session name (default: mcp-<timestamp>)")
	mcpCmd.Flags().BoolVar(&mcpFlags.http, "http", false, "Serve streamable HTTP instead of stdio")
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionName := session.Name(mcpFlags.session)
	if sessionName == "" {
		sessionName = "mcp-" + time.Now().Format("20060102-150405")
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := mcpserver.Options{
		Plan:           plan.New(plan.Period(cfg.Period)),
		Session:        sessionName,
		Recorder:       store,
		LockOnComplete: cfg.LockOnComplete,
	}
	state, err := store.LoadState(ctx, sessionName)
	switch {
	case err == nil:
		if state.Plan != nil {
			opts.Plan = state.Plan
		}
		if state.HasProgress {
			snap := state.Progress
			opts.Resume = &snap
		}
	case !errors.Is(err, session.ErrNotFound):
		return err
	}

	srv, err := mcpserver.New(opts)
	if err != nil {
		return err
	}

	if !mcpFlags.http {
		return srv.ServeStdio(ctx, os.Stdin, os.Stdout)
	}

	if _, err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Serving session %s at %s\n", sessionName, srv.URL())
	<-ctx.Done()
	return srv.Stop()
}
