package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/planr/internal/logger"
	"github.com/mark3labs/planr/internal/tui/theme"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved wizard sessions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	names, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet. Start one with 'planr new'.")
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		state, err := store.LoadState(ctx, name)
		if err != nil {
			logger.Warn("Skipping session %s: %v", name, err)
			continue
		}
		planName := ""
		if state.Plan != nil {
			planName = state.Plan.Settings.Name
		}
		rows = append(rows, []string{
			name,
			planName,
			sessionSummary(state),
			state.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	th := theme.Current()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(th.BgSurface2))).
		Headers("SESSION", "PLAN", "STATUS", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(th.Primary)).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	_, err = lipgloss.Fprintln(cmd.OutOrStdout(), t.String())
	return err
}
