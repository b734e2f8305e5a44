package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	app := &appContext{}

	root := &cobra.Command{
		Use:           "clipcast",
		Short:         "Turn long videos into scheduled social highlights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Best effort; a missing .env is the normal case.
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVar(&app.configFlag, "config", "",
		"path to the configuration file")

	root.AddCommand(
		newSubmitCommand(app),
		newListCommand(app),
		newStatusCommand(app),
		newShowCommand(app),
		newHighlightsCommand(app),
		newPlanCommand(app),
		newRemoveCommand(app),
		newConfigCommand(app),
		newPreflightCommand(app),
		newRunCommand(app),
	)
	return root
}
