package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipcast/internal/config"
)

func newConfigCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(app), newConfigShowCommand(app))
	return cmd
}

func newConfigInitCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.configFlag
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Println("Wrote", path)
			return nil
		},
	}
}

func newConfigShowCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ensureConfig()
			if err != nil {
				return err
			}

			fmt.Println("Uploads:      ", cfg.Paths.UploadsDir)
			fmt.Println("Clips:        ", cfg.Paths.ClipsDir)
			fmt.Println("Thumbnails:   ", cfg.Paths.ThumbnailsDir)
			fmt.Println("Subtitles:    ", cfg.Paths.SubtitlesDir)
			fmt.Println("Plans:        ", cfg.Paths.PlansDir)
			fmt.Println("Logs:         ", cfg.Paths.LogDir)
			fmt.Println("Database:     ", cfg.DatabasePath())
			fmt.Println("ffmpeg:       ", cfg.Media.FFmpeg)
			fmt.Println("ffprobe:      ", cfg.Media.FFprobe)
			fmt.Println("Media types:  ", cfg.Media.AllowedTypes)
			fmt.Println("Model:        ", cfg.LLM.Model)
			fmt.Println("Endpoint:     ", cfg.LLM.BaseURL)
			if cfg.LLM.APIKey == "" {
				fmt.Println("API key:       (not set)")
			} else {
				fmt.Println("API key:       (set)")
			}
			fmt.Println("Job workers:  ", cfg.Workflow.JobWorkers)
			fmt.Println("Clip workers: ", cfg.Workflow.ExtractWorkers)
			return nil
		},
	}
}
