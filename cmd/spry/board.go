package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"spry/internal/api"
	"spry/internal/board"
	"spry/internal/config"
	"spry/internal/models"
)

func newBoardCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Work with the Kanban board",
	}
	cmd.AddCommand(
		newBoardShowCmd(cfg, jsonOutput),
		newBoardMoveCmd(cfg, jsonOutput),
		newBoardAssignCmd(cfg, jsonOutput),
	)
	return cmd
}

func newBoardShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show tasks grouped by column",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				store := board.NewEntityStore()
				if err := store.Refresh(cmd.Context(), client); err != nil {
					return err
				}

				if *jsonOutput {
					columns := map[string][]models.Task{}
					for _, status := range models.WorkflowOrder {
						columns[string(status)] = tasksInStatus(store, status)
					}
					return writeJSON(columns)
				}

				for _, status := range models.WorkflowOrder {
					tasks := tasksInStatus(store, status)
					header := fmt.Sprintf("%s (%d)", statusLabel(status), len(tasks))
					if limit := cfg.WIPLimit(string(status)); limit > 0 {
						header = fmt.Sprintf("%s (%d/%d)", statusLabel(status), len(tasks), limit)
						if len(tasks) > limit {
							header += " over limit"
						}
					}
					_ = writePlain("%s\n", header)
					for _, task := range tasks {
						_ = writePlain("  %s  %s\n", task.ID, task.Name)
					}
					_ = writePlain("\n")
				}
				return nil
			})
		},
	}
}

func tasksInStatus(store *board.EntityStore, status models.TaskStatus) []models.Task {
	var out []models.Task
	for _, task := range store.Tasks() {
		if task.Status == status {
			out = append(out, task)
		}
	}
	return out
}

func newBoardMoveCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Args:  requireExactlyArgs(2, "id and status are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := models.ParseTaskStatus(args[1])
			if err != nil {
				return err
			}

			return withClient(cfg, func(client *api.Client) error {
				store := board.NewEntityStore()
				if err := store.Refresh(cmd.Context(), client); err != nil {
					return err
				}

				engine := board.NewEngine(store, client, cfg.Board.WIPLimits, slog.Default())
				result, err := engine.Transition(cmd.Context(), args[0], status)
				if err != nil {
					return err
				}

				if result.Warning != nil {
					writeWarnings([]string{result.Warning.String()})
				}
				if *jsonOutput {
					return writeJSON(result)
				}
				if !result.Changed {
					return writePlain("%s already %s\n", result.Task.ID, result.Task.Status)
				}
				return writePlain("%s -> %s\n", result.Task.ID, result.Task.Status)
			})
		},
	}
}

func newBoardAssignCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		sprintID string
		backlog  bool
	)

	cmd := &cobra.Command{
		Use:   "assign <story-id>",
		Short: "Move a story's tasks into a sprint",
		Args:  requireExactlyArgs(1, "story id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sprintID == "" && !backlog {
				return errors.New("either --sprint or --backlog is required")
			}
			if sprintID != "" && backlog {
				return errors.New("--sprint and --backlog are mutually exclusive")
			}

			return withClient(cfg, func(client *api.Client) error {
				store := board.NewEntityStore()
				if err := store.Refresh(cmd.Context(), client); err != nil {
					return err
				}

				coordinator := board.NewCoordinator(store, client, slog.Default())
				result, err := coordinator.AssignStoryToSprint(cmd.Context(), args[0], sprintID)

				var partial *board.PartialAssignmentError
				if errors.As(err, &partial) {
					_ = writePlain("updated: %s\n", strings.Join(partial.Updated, ", "))
					_ = writePlain("failed: %s\n", strings.Join(partial.FailedIDs(), ", "))
					return err
				}
				if err != nil {
					return err
				}

				if result.OverCapacity {
					writeWarnings([]string{fmt.Sprintf("sprint %s is over capacity", result.SprintID)})
				}
				if *jsonOutput {
					return writeJSON(result)
				}

				destination := result.SprintID
				if destination == "" {
					destination = "backlog"
				}
				return writePlain("moved %d tasks of %s to %s\n", len(result.Updated), result.StoryID, destination)
			})
		},
	}

	cmd.Flags().StringVar(&sprintID, "sprint", "", "destination sprint id")
	cmd.Flags().BoolVar(&backlog, "backlog", false, "return the story to the backlog")
	return cmd
}
