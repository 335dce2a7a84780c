package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"spry/internal/api"
	"spry/internal/config"
)

func newPlanCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Import sprint plans",
	}
	cmd.AddCommand(newPlanImportCmd(cfg, jsonOutput))
	return cmd
}

func newPlanImportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		inputPath string
		sprintID  string
		dryRun    bool
		dedupe    string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import stories and tasks from a markdown plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("--file is required")
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return err
			}

			req, err := parsePlan(string(data))
			if err != nil {
				return err
			}
			if sprintID != "" {
				req.SprintID = sprintID
			}
			req.DryRun = dryRun
			req.Dedupe = dedupe

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ImportPlan(cmd.Context(), req)
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(resp)
				}

				writeWarnings(resp.Messages)
				prefix := ""
				if resp.DryRun {
					prefix = "dry run: "
				}
				_ = writePlain("%sstories: %d, tasks: %d, skipped: %d\n",
					prefix, resp.StoriesCreated, resp.TasksCreated, resp.Skipped)
				if len(resp.StoryIDs) > 0 {
					_ = writePlain("%s\n", strings.Join(resp.StoryIDs, "\n"))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "file", "f", "", "input markdown plan")
	cmd.Flags().StringVar(&sprintID, "sprint", "", "destination sprint id")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without making changes")
	cmd.Flags().StringVar(&dedupe, "dedupe", "skip", "dedupe mode: skip|error")

	return cmd
}
