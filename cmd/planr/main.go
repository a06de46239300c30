package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/planr/internal/logger"
	"github.com/mark3labs/planr/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ █   ▄▀█ █▄ █ █▀█"
	logoText2 = "█▀▀ █▄▄ █▀█ █ ▀█ █▀▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootFlags struct {
	dataDir string
}

var rootCmd = &cobra.Command{
	Use:               "planr",
	Short:             "Step-by-step wizard for weekly and monthly plans",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

planr walks you through building a weekly or monthly plan: general settings,
participants, tasks, milestones and a shopping list. Sessions are stored in an
embedded NATS JetStream log so a wizard can be resumed, inspected and diffed.
The same wizard is available headless (fill) and to agents over MCP (mcp).`

	rootCmd.PersistentFlags().StringVar(&rootFlags.dataDir, "data-dir", "", "Data directory for session storage (default from config: .planr)")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(setupCmd)
}
