package main

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"spry/internal/api"
	"spry/internal/config"
)

func newTaskCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskCreateCmd(cfg, jsonOutput),
		newTaskShowCmd(cfg, jsonOutput),
		newTaskListCmd(cfg, jsonOutput),
		newTaskUpdateCmd(cfg, jsonOutput),
		newTaskMoveCmd(cfg, jsonOutput),
		newTaskDeleteCmd(cfg, jsonOutput),
	)
	return cmd
}

type taskCreateOptions struct {
	id             string
	status         string
	taskType       string
	priority       string
	storyID        string
	sprintID       string
	assignee       string
	estimatedHours float64
}

func newTaskCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &taskCreateOptions{}
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("name is required")
			}
			req := api.TaskCreateRequest{
				ID:   opts.id,
				Name: strings.Join(args, " "),
			}
			if opts.status != "" {
				req.Status = &opts.status
			}
			if opts.taskType != "" {
				req.Type = &opts.taskType
			}
			if opts.priority != "" {
				req.Priority = &opts.priority
			}
			if opts.storyID != "" {
				req.StoryID = &opts.storyID
			}
			if opts.sprintID != "" {
				req.SprintID = &opts.sprintID
			}
			if opts.assignee != "" {
				req.Assignee = &opts.assignee
			}
			if cmd.Flags().Changed("hours") {
				req.EstimatedHours = &opts.estimatedHours
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.CreateTask(cmd.Context(), req)
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

	cmd.Flags().StringVar(&opts.id, "id", "", "explicit task id")
	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "initial status")
	cmd.Flags().StringVarP(&opts.taskType, "type", "t", "", "task type")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "priority")
	cmd.Flags().StringVar(&opts.storyID, "story", "", "story id")
	cmd.Flags().StringVar(&opts.sprintID, "sprint", "", "sprint id")
	cmd.Flags().StringVar(&opts.assignee, "assignee", "", "assignee")
	cmd.Flags().Float64Var(&opts.estimatedHours, "hours", 0, "estimated hours")
	return cmd
}

func newTaskShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  requireExactlyArgs(1, "id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeTaskDetail(resp)
			})
		},
	}
}

func newTaskListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		status   string
		storyID  string
		sprintID string
		assignee string
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				query := url.Values{}
				if statuses := splitCommaList(status); len(statuses) > 0 {
					query.Set("status", strings.Join(statuses, ","))
				}
				setIfNotEmpty(query, "story_id", storyID)
				setIfNotEmpty(query, "sprint_id", sprintID)
				setIfNotEmpty(query, "assignee", assignee)
				if limit > 0 {
					query.Set("limit", intToString(limit))
				}
				if offset > 0 {
					query.Set("offset", intToString(offset))
				}

				resp, err := client.ListTasks(cmd.Context(), query)
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

	cmd.Flags().StringVar(&status, "status", "", "status filter (comma separated)")
	cmd.Flags().StringVar(&storyID, "story", "", "story filter")
	cmd.Flags().StringVar(&sprintID, "sprint", "", "sprint filter, or 'backlog' for unassigned tasks")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit results")
	cmd.Flags().IntVar(&offset, "offset", 0, "offset results")
	return cmd
}

type taskUpdateOptions struct {
	name           string
	taskType       string
	priority       string
	storyID        string
	sprintID       string
	assignee       string
	estimatedHours float64
	actualHours    float64
}

func newTaskUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &taskUpdateOptions{}
	cmd := &cobra.Command{
		Use:   "update <id> [<id>...]",
		Short: "Update tasks",
		Args:  requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.TaskUpdateRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &opts.name
			}
			if cmd.Flags().Changed("type") {
				req.Type = &opts.taskType
			}
			if cmd.Flags().Changed("priority") {
				req.Priority = &opts.priority
			}
			if cmd.Flags().Changed("story") {
				req.StoryID = &opts.storyID
			}
			if cmd.Flags().Changed("sprint") {
				req.SprintID = &opts.sprintID
			}
			if cmd.Flags().Changed("assignee") {
				req.Assignee = &opts.assignee
			}
			if cmd.Flags().Changed("hours") {
				req.EstimatedHours = &opts.estimatedHours
			}
			if cmd.Flags().Changed("actual-hours") {
				req.ActualHours = &opts.actualHours
			}
			if !hasTaskUpdateFields(req) {
				return errors.New("no fields to update")
			}

			return withClient(cfg, func(client *api.Client) error {
				responses := make([]api.TaskResponse, 0, len(args))
				for _, id := range args {
					resp, err := client.UpdateTask(cmd.Context(), id, req)
					if err != nil {
						return err
					}
					responses = append(responses, resp)
				}
				if *jsonOutput {
					if len(responses) == 1 {
						return writeJSON(responses[0])
					}
					return writeJSON(responses)
				}
				return writePlain("%s\n", strings.Join(args, ","))
			})
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "new name")
	cmd.Flags().StringVarP(&opts.taskType, "type", "t", "", "type")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "priority")
	cmd.Flags().StringVar(&opts.storyID, "story", "", "story id (empty clears)")
	cmd.Flags().StringVar(&opts.sprintID, "sprint", "", "sprint id (empty clears)")
	cmd.Flags().StringVar(&opts.assignee, "assignee", "", "assignee")
	cmd.Flags().Float64Var(&opts.estimatedHours, "hours", 0, "estimated hours")
	cmd.Flags().Float64Var(&opts.actualHours, "actual-hours", 0, "actual hours")
	return cmd
}

func hasTaskUpdateFields(req api.TaskUpdateRequest) bool {
	return req.Name != nil ||
		req.Type != nil ||
		req.Priority != nil ||
		req.StoryID != nil ||
		req.SprintID != nil ||
		req.Assignee != nil ||
		req.EstimatedHours != nil ||
		req.ActualHours != nil
}

func newTaskMoveCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another status column",
		Args:  requireExactlyArgs(2, "id and status are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.MoveTask(cmd.Context(), args[0], api.TaskMoveRequest{Status: args[1]})
				if err != nil {
					return err
				}
				writeWarnings(resp.Warnings)
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("%s %s\n", resp.ID, resp.Status)
			})
		},
	}
}

func newTaskDeleteCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id> [<id>...]",
		Aliases: []string{"rm"},
		Short:   "Delete tasks",
		Args:    requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				for _, id := range args {
					if err := client.DeleteTask(cmd.Context(), id); err != nil {
						return err
					}
				}
				if *jsonOutput {
					return writeJSON(map[string]any{"deleted": args})
				}
				return writePlain("%s\n", strings.Join(args, ","))
			})
		},
	}
	return cmd
}
