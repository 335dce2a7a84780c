package main

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"spry/internal/api"
	"spry/internal/config"
)

func newStoryCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Manage stories",
	}
	cmd.AddCommand(
		newStoryCreateCmd(cfg, jsonOutput),
		newStoryShowCmd(cfg, jsonOutput),
		newStoryListCmd(cfg, jsonOutput),
		newStoryUpdateCmd(cfg, jsonOutput),
		newStoryTasksCmd(cfg, jsonOutput),
		newStoryAssignCmd(cfg, jsonOutput),
		newStoryDeleteCmd(cfg, jsonOutput),
	)
	return cmd
}

func newStoryCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		id          string
		description string
		priority    string
		points      float64
		epicID      string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new story",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("name is required")
			}
			req := api.StoryCreateRequest{
				ID:   id,
				Name: strings.Join(args, " "),
			}
			if description != "" {
				req.Description = &description
			}
			if priority != "" {
				req.Priority = &priority
			}
			if cmd.Flags().Changed("points") {
				req.StoryPoints = &points
			}
			if epicID != "" {
				req.EpicID = &epicID
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.CreateStory(cmd.Context(), req)
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

	cmd.Flags().StringVar(&id, "id", "", "explicit story id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority")
	cmd.Flags().Float64Var(&points, "points", 0, "story points")
	cmd.Flags().StringVar(&epicID, "epic", "", "epic id")
	return cmd
}

func newStoryShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show story details",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetStory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeStoryDetail(resp)
			})
		},
	}
}

func newStoryListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var epicID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				query := url.Values{}
				setIfNotEmpty(query, "epic_id", epicID)

				resp, err := client.ListStories(cmd.Context(), query)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeStoryList(resp)
			})
		},
	}

	cmd.Flags().StringVar(&epicID, "epic", "", "epic filter")
	return cmd
}

func newStoryUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		name        string
		description string
		priority    string
		points      float64
		epicID      string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a story",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.StoryUpdateRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				req.Priority = &priority
			}
			if cmd.Flags().Changed("points") {
				req.StoryPoints = &points
			}
			if cmd.Flags().Changed("epic") {
				req.EpicID = &epicID
			}
			if req.Name == nil && req.Description == nil && req.Priority == nil && req.StoryPoints == nil && req.EpicID == nil {
				return errors.New("no fields to update")
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.UpdateStory(cmd.Context(), args[0], req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeStoryDetail(resp)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority")
	cmd.Flags().Float64Var(&points, "points", 0, "story points")
	cmd.Flags().StringVar(&epicID, "epic", "", "epic id (empty clears)")
	return cmd
}

func newStoryTasksCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <id>",
		Short: "List a story's tasks",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ListStoryTasks(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeTaskList(resp)
			})
		},
	}
}

func newStoryAssignCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		sprintID string
		backlog  bool
	)

	cmd := &cobra.Command{
		Use:   "assign <id>",
		Short: "Assign a story's tasks to a sprint, or back to the backlog",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sprintID == "" && !backlog {
				return errors.New("--sprint or --backlog is required")
			}
			if sprintID != "" && backlog {
				return errors.New("--sprint and --backlog are mutually exclusive")
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.AssignStory(cmd.Context(), args[0], api.AssignStoryRequest{SprintID: sprintID})
				if err != nil {
					return err
				}
				writeWarnings(resp.Warnings)
				if *jsonOutput {
					return writeJSON(resp)
				}
				if len(resp.Failed) > 0 {
					// Succeeded writes stay applied; retry only the failed subset.
					return writePlain("updated: %s\nfailed: %s\n",
						strings.Join(resp.Updated, ","), strings.Join(resp.Failed, ","))
				}
				return writePlain("updated: %d task(s)\n", len(resp.Updated))
			})
		},
	}

	cmd.Flags().StringVar(&sprintID, "sprint", "", "target sprint id")
	cmd.Flags().BoolVar(&backlog, "backlog", false, "return the story's tasks to the backlog")
	return cmd
}

func newStoryDeleteCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a story (its tasks survive without the story)",
		Args:    requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				if err := client.DeleteStory(cmd.Context(), args[0]); err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"deleted": args[0]})
				}
				return writePlain("%s\n", args[0])
			})
		},
	}
	return cmd
}
