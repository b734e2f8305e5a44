package main

import (
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"clipcast/internal/preflight"
)

func newPreflightCommand(app *appContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, media tooling and the inference endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			checks := preflight.DefaultChecks()
			if offline {
				checks = preflight.OfflineChecks()
			}
			results := preflight.Run(cmd.Context(), cfg, checks)

			rows := make([]table.Row, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "FAIL"
				}
				rows = append(rows, table.Row{result.Name, state, result.Detail})
			}
			renderTable(table.Row{"Check", "Result", "Detail"}, rows)

			if !preflight.AllPassed(results) {
				return errors.New("preflight failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "skip checks that need network access")
	return cmd
}
