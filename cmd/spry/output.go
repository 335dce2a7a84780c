package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"spry/internal/api"
	"spry/internal/format"
	"spry/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeWarnings(warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}

func writeTaskList(tasks []api.TaskResponse) error {
	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, []string{
			task.ID,
			string(task.Status),
			string(task.Priority),
			string(task.Type),
			valueOrDash(task.SprintID),
			task.Name,
		})
	}
	return format.Table(os.Stdout, []string{"ID", "STATUS", "PRIORITY", "TYPE", "SPRINT", "NAME"}, rows)
}

func writeTaskDetail(task api.TaskResponse) error {
	lines := []string{
		fmt.Sprintf("id: %s", task.ID),
		fmt.Sprintf("name: %s", task.Name),
		fmt.Sprintf("status: %s", task.Status),
		fmt.Sprintf("type: %s", task.Type),
		fmt.Sprintf("priority: %s", task.Priority),
		fmt.Sprintf("created_at: %s", formatTime(task.CreatedAt)),
		fmt.Sprintf("updated_at: %s", formatTime(task.UpdatedAt)),
	}

	if task.StoryID != "" {
		lines = append(lines, fmt.Sprintf("story_id: %s", task.StoryID))
	}
	if task.SprintID != "" {
		lines = append(lines, fmt.Sprintf("sprint_id: %s", task.SprintID))
	}
	if task.Assignee != "" {
		lines = append(lines, fmt.Sprintf("assignee: %s", task.Assignee))
	}
	if task.EstimatedHours != nil {
		lines = append(lines, fmt.Sprintf("estimated_hours: %g", *task.EstimatedHours))
	}
	if task.ActualHours != nil {
		lines = append(lines, fmt.Sprintf("actual_hours: %g", *task.ActualHours))
	}
	if task.CompletedAt != nil {
		lines = append(lines, fmt.Sprintf("completed_at: %s", formatTime(*task.CompletedAt)))
	}

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func writeStoryList(stories []api.StoryResponse) error {
	rows := make([][]string, 0, len(stories))
	for _, story := range stories {
		rows = append(rows, []string{
			story.ID,
			formatPoints(story.StoryPoints),
			story.Membership,
			valueOrDash(story.SprintID),
			valueOrDash(story.EpicID),
			story.Name,
		})
	}
	return format.Table(os.Stdout, []string{"ID", "POINTS", "MEMBERSHIP", "SPRINT", "EPIC", "NAME"}, rows)
}

func writeStoryDetail(story api.StoryResponse) error {
	lines := []string{
		fmt.Sprintf("id: %s", story.ID),
		fmt.Sprintf("name: %s", story.Name),
		fmt.Sprintf("priority: %s", story.Priority),
		fmt.Sprintf("points: %s", formatPoints(story.StoryPoints)),
		fmt.Sprintf("membership: %s", story.Membership),
	}
	if story.SprintID != "" {
		lines = append(lines, fmt.Sprintf("sprint_id: %s", story.SprintID))
	}
	if story.EpicID != "" {
		lines = append(lines, fmt.Sprintf("epic_id: %s", story.EpicID))
	}
	if story.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", story.Description))
	}
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func writeSprintList(sprints []api.SprintResponse) error {
	rows := make([][]string, 0, len(sprints))
	for _, sprint := range sprints {
		active := ""
		if sprint.Active {
			active = "active"
		}
		rows = append(rows, []string{
			sprint.ID,
			formatDay(sprint.StartDate),
			formatDay(sprint.EndDate),
			formatPoints(sprint.Capacity),
			active,
			sprint.Name,
		})
	}
	return format.Table(os.Stdout, []string{"ID", "START", "END", "CAPACITY", "", "NAME"}, rows)
}

func writeSprintDetail(sprint api.SprintResponse) error {
	lines := []string{
		fmt.Sprintf("id: %s", sprint.ID),
		fmt.Sprintf("name: %s", sprint.Name),
		fmt.Sprintf("start_date: %s", formatDay(sprint.StartDate)),
		fmt.Sprintf("end_date: %s", formatDay(sprint.EndDate)),
		fmt.Sprintf("active: %t", sprint.Active),
	}
	if sprint.Goal != "" {
		lines = append(lines, fmt.Sprintf("goal: %s", sprint.Goal))
	}
	if sprint.Capacity != nil {
		lines = append(lines, fmt.Sprintf("capacity: %g", *sprint.Capacity))
	}
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func writeEpicList(epics []api.EpicResponse) error {
	rows := make([][]string, 0, len(epics))
	for _, epic := range epics {
		progress := "-"
		if epic.Progress != nil {
			progress = fmt.Sprintf("%.0f%%", epic.Progress.Progress*100)
		}
		rows = append(rows, []string{epic.ID, progress, epic.Name})
	}
	return format.Table(os.Stdout, []string{"ID", "DONE", "NAME"}, rows)
}

func writeSnapshotList(snapshots []api.SnapshotResponse) error {
	rows := make([][]string, 0, len(snapshots))
	for _, snap := range snapshots {
		rows = append(rows, []string{
			formatDay(snap.Day),
			fmt.Sprintf("%d", snap.TotalTasks()),
			fmt.Sprintf("%d", snap.StatusCounts[models.StatusDone]),
			fmt.Sprintf("%g", snap.RemainingPoints),
			fmt.Sprintf("%g", snap.RemainingHours),
		})
	}
	return format.Table(os.Stdout, []string{"DAY", "TASKS", "DONE", "POINTS LEFT", "HOURS LEFT"}, rows)
}

func formatPoints(points *float64) string {
	if points == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *points)
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDay(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func statusLabel(status models.TaskStatus) string {
	switch status {
	case models.StatusTodo:
		return "To Do"
	case models.StatusInProgress:
		return "In Progress"
	case models.StatusReview:
		return "Review"
	case models.StatusDone:
		return "Done"
	default:
		return string(status)
	}
}
