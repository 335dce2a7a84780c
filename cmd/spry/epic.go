package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spry/internal/api"
	"spry/internal/config"
)

func newEpicCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epic",
		Short: "Manage epics",
	}
	cmd.AddCommand(
		newEpicCreateCmd(cfg, jsonOutput),
		newEpicShowCmd(cfg, jsonOutput),
		newEpicListCmd(cfg, jsonOutput),
	)
	return cmd
}

func newEpicCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		id          string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new epic",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("name is required")
			}
			req := api.EpicCreateRequest{
				ID:   id,
				Name: strings.Join(args, " "),
			}
			if description != "" {
				req.Description = &description
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.CreateEpic(cmd.Context(), req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("%s\n", resp.ID)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "explicit epic id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	return cmd
}

func newEpicShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show epic details and rollup progress",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetEpic(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}

				lines := []string{
					fmt.Sprintf("id: %s", resp.ID),
					fmt.Sprintf("name: %s", resp.Name),
				}
				if resp.Description != "" {
					lines = append(lines, fmt.Sprintf("description: %s", resp.Description))
				}
				if resp.Progress != nil {
					lines = append(lines,
						fmt.Sprintf("total_points: %g", resp.Progress.TotalStoryPoints),
						fmt.Sprintf("completed_points: %g", resp.Progress.CompletedStoryPoints),
						fmt.Sprintf("progress: %.0f%%", resp.Progress.Progress*100),
					)
				}
				return writePlain("%s\n", strings.Join(lines, "\n"))
			})
		},
	}
}

func newEpicListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List epics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ListEpics(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeEpicList(resp)
			})
		},
	}
}
