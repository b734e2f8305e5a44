package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clipcast/internal/analysis"
	"clipcast/internal/daemon"
	"clipcast/internal/extraction"
	"clipcast/internal/planning"
	"clipcast/internal/probe"
	"clipcast/internal/workflow"
)

// newRunCommand runs the pipeline in the foreground, for development and
// for process supervisors that prefer exec'ing the CLI.
func newRunCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := app.ensureLogger()
			if err != nil {
				return err
			}
			store, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			manager := workflow.NewManager(cfg, store, logger)
			manager.ConfigureStages(workflow.StageSet{
				Probe:      probe.New(cfg, logger),
				Analysis:   analysis.New(cfg, logger),
				Extraction: extraction.New(cfg, store, logger),
				Planning:   planning.New(cfg, store, logger),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d := daemon.New(cfg, store, manager, logger)
			if err := d.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			d.Stop()
			return nil
		},
	}
}
