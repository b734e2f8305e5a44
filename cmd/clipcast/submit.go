package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipcast/internal/api"
)

func newSubmitCommand(app *appContext) *cobra.Command {
	var title string
	var description string

	cmd := &cobra.Command{
		Use:   "submit <video-file>",
		Short: "Submit a video for highlight extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeStore, err := app.service()
			if err != nil {
				return err
			}
			defer closeStore()

			view, err := service.Submit(cmd.Context(), api.SubmitRequest{
				SourcePath:  args[0],
				Title:       title,
				Description: description,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Submitted job %s (%s)\n", view.ID, view.Title)
			fmt.Printf("Poll with: clipcast status %s\n", view.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "job title (defaults to the filename)")
	cmd.Flags().StringVar(&description, "description", "", "what the video is about")
	return cmd
}
