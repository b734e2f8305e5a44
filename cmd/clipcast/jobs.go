package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeStore, err := app.service()
			if err != nil {
				return err
			}
			defer closeStore()

			jobs, err := service.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Println("No jobs.")
				return nil
			}

			rows := make([]table.Row, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, table.Row{
					job.ID,
					truncate(job.Title, 32),
					job.Status,
					job.HighlightsCount,
					formatAge(job.CreatedAt),
				})
			}
			renderTable(table.Row{"ID", "Title", "Status", "Highlights", "Submitted"}, rows)
			return nil
		},
	}
}

func newStatusCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show a job's current pipeline stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeStore, err := app.service()
			if err != nil {
				return err
			}
			defer closeStore()

			status, err := service.Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(status.Status)
			if status.ErrorMessage != "" {
				fmt.Println("error:", status.ErrorMessage)
			}
			return nil
		},
	}
}

func newShowCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show a job's full details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeStore, err := app.service()
			if err != nil {
				return err
			}
			defer closeStore()

			job, err := service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Job:        %s\n", job.ID)
			fmt.Printf("Title:      %s\n", job.Title)
			if job.Description != "" {
				fmt.Printf("About:      %s\n", job.Description)
			}
			fmt.Printf("Upload:     %s (%s)\n", job.OriginalFilename, job.MediaType)
			fmt.Printf("Status:     %s\n", job.Status)
			if job.ErrorMessage != "" {
				fmt.Printf("Error:      %s\n", job.ErrorMessage)
			}
			if job.DurationSeconds > 0 {
				fmt.Printf("Duration:   %s (%d frames)\n", formatDuration(job.DurationSeconds), job.FrameCount)
			}
			if job.HighlightsCount > 0 {
				fmt.Printf("Highlights: %d\n", job.HighlightsCount)
			}
			if job.PlanPath != "" {
				fmt.Printf("Plan:       %s\n", job.PlanPath)
			}
			fmt.Printf("Submitted:  %s\n", formatAge(job.CreatedAt))
			return nil
		},
	}
}

func newHighlightsCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "highlights <job-id>",
		Short: "List a job's extracted highlights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeStore, err := app.service()
			if err != nil {
				return err
			}
			defer closeStore()

			highlights, err := service.Highlights(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(highlights) == 0 {
				fmt.Println("No highlights yet.")
				return nil
			}

			rows := make([]table.Row, 0, len(highlights))
			for _, h := range highlights {
				rows = append(rows, table.Row{
					h.Index,
					truncate(h.Title, 32),
					fmt.Sprintf("%.1fs", h.StartSeconds),
					formatDuration(h.DurationSeconds),
					h.ClipPath,
				})
			}
			renderTable(table.Row{"#", "Title", "Start", "Length", "Clip"}, rows)
			return nil
		},
	}
}

func newPlanCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <job-id>",
		Short: "Show a job's content plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeStore, err := app.service()
			if err != nil {
				return err
			}
			defer closeStore()

			plan, err := service.Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(plan.Title)
			rows := make([]table.Row, 0, len(plan.Posts))
			for _, post := range plan.Posts {
				rows = append(rows, table.Row{
					post.PostingDate,
					post.Platform,
					truncate(post.Title, 28),
					truncate(post.Caption, 48),
				})
			}
			renderTable(table.Row{"Date", "Platform", "Title", "Caption"}, rows)
			return nil
		},
	}
}

func newRemoveCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <job-id>",
		Short: "Delete a job and every artifact it produced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeStore, err := app.service()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := service.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Removed", args[0])
			return nil
		},
	}
}
