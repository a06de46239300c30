package main

import (
	"fmt"

	"github.com/mark3labs/planr/internal/render"
	"github.com/mark3labs/planr/internal/session"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Show a unified diff between two plans",
	Long: `Compare two plans as YAML. Each argument is either a session name or a
path to a .yaml/.yml plan file.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		store      *session.Store
		closeStore func()
	)
	defer func() {
		if closeStore != nil {
			closeStore()
		}
	}()
	lazyStore := func() (*session.Store, error) {
		if store != nil {
			return store, nil
		}
		var err error
		store, closeStore, err = openStore(ctx)
		return store, err
	}

	texts := make([]string, 2)
	for i, ref := range args {
		p, err := loadPlanRef(ctx, ref, lazyStore)
		if err != nil {
			return err
		}
		data, err := p.YAML()
		if err != nil {
			return err
		}
		texts[i] = string(data)
	}

	d := render.Diff(args[0], args[1], texts[0], texts[1])
	if d == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No differences.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), d)
	return nil
}
