package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"spry/internal/api"
	"spry/internal/config"
)

func newSprintCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage sprints",
	}
	cmd.AddCommand(
		newSprintCreateCmd(cfg, jsonOutput),
		newSprintShowCmd(cfg, jsonOutput),
		newSprintListCmd(cfg, jsonOutput),
		newSprintUpdateCmd(cfg, jsonOutput),
		newSprintTotalsCmd(cfg, jsonOutput),
	)
	return cmd
}

func newSprintCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		id       string
		goal     string
		start    string
		end      string
		capacity float64
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new sprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("name is required")
			}
			req := api.SprintCreateRequest{
				ID:        id,
				Name:      strings.Join(args, " "),
				StartDate: start,
				EndDate:   end,
			}
			if goal != "" {
				req.Goal = &goal
			}
			if cmd.Flags().Changed("capacity") {
				req.Capacity = &capacity
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.CreateSprint(cmd.Context(), req)
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

	cmd.Flags().StringVar(&id, "id", "", "explicit sprint id")
	cmd.Flags().StringVar(&goal, "goal", "", "sprint goal")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&capacity, "capacity", 0, "capacity in story points")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newSprintShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show sprint details",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetSprint(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeSprintDetail(resp)
			})
		},
	}
}

func newSprintListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ListSprints(cmd.Context(), nil)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeSprintList(resp)
			})
		},
	}
}

func newSprintUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		name     string
		goal     string
		start    string
		end      string
		capacity float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a sprint",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.SprintUpdateRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("goal") {
				req.Goal = &goal
			}
			if cmd.Flags().Changed("start") {
				req.StartDate = &start
			}
			if cmd.Flags().Changed("end") {
				req.EndDate = &end
			}
			if cmd.Flags().Changed("capacity") {
				req.Capacity = &capacity
			}
			if req.Name == nil && req.Goal == nil && req.StartDate == nil && req.EndDate == nil && req.Capacity == nil {
				return errors.New("no fields to update")
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.UpdateSprint(cmd.Context(), args[0], req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeSprintDetail(resp)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&goal, "goal", "", "sprint goal")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&capacity, "capacity", 0, "capacity in story points")
	return cmd
}

func newSprintTotalsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "totals <id>",
		Short: "Show a sprint's committed and completed points",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.SprintTotals(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				_ = writePlain("committed_points: %g\n", resp.CommittedPoints)
				_ = writePlain("completed_points: %g\n", resp.CompletedPoints)
				_ = writePlain("stories: %d\n", resp.StoryCount)
				_ = writePlain("tasks: %d\n", resp.TaskCount)
				if resp.Capacity != nil {
					_ = writePlain("capacity: %g\n", *resp.Capacity)
				}
				if resp.OverCapacity {
					_ = writePlain("over_capacity: true\n")
				}
				return nil
			})
		},
	}
}
