package models

import (
	"fmt"
	"strings"
)

// TaskStatus defines the workflow columns a task can occupy.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// TaskType defines allowed work item categories. Defects feed the
// defect-rate team metric.
type TaskType string

const (
	TypeFeature TaskType = "feature"
	TypeBug     TaskType = "bug"
	TypeChore   TaskType = "chore"
)

// Priority defines allowed task/story priorities.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// SprintMembership describes how a story relates to sprints, derived
// from its tasks. A story is atomically in a sprint only when every
// task agrees on the sprint id; disagreement is reported as mixed.
type SprintMembership string

const (
	MembershipBacklog  SprintMembership = "backlog"
	MembershipInSprint SprintMembership = "in_sprint"
	MembershipMixed    SprintMembership = "mixed"
)

var validTaskStatuses = map[TaskStatus]struct{}{
	StatusTodo:       {},
	StatusInProgress: {},
	StatusReview:     {},
	StatusDone:       {},
}

var validTaskTypes = map[TaskType]struct{}{
	TypeFeature: {},
	TypeBug:     {},
	TypeChore:   {},
}

var validPriorities = map[Priority]struct{}{
	PriorityLow:      {},
	PriorityMedium:   {},
	PriorityHigh:     {},
	PriorityCritical: {},
}

// WorkflowOrder lists statuses in board column order, left to right.
var WorkflowOrder = []TaskStatus{
	StatusTodo,
	StatusInProgress,
	StatusReview,
	StatusDone,
}

func IsValidTaskStatus(status TaskStatus) bool {
	_, ok := validTaskStatuses[status]
	return ok
}

func IsValidTaskType(taskType TaskType) bool {
	_, ok := validTaskTypes[taskType]
	return ok
}

func IsValidPriority(priority Priority) bool {
	_, ok := validPriorities[priority]
	return ok
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	value := TaskStatus(normalizeToken(raw))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidTaskStatus(value) {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return value, nil
}

func ParseTaskType(raw string) (TaskType, error) {
	value := TaskType(normalizeToken(raw))
	if value == "" {
		return "", fmt.Errorf("type is required")
	}
	if !IsValidTaskType(value) {
		return "", fmt.Errorf("invalid type: %s", value)
	}
	return value, nil
}

func ParsePriority(raw string) (Priority, error) {
	token := normalizeToken(raw)
	// The board UI historically used "urgent" for the top bucket.
	if token == "urgent" {
		token = string(PriorityCritical)
	}
	value := Priority(token)
	if value == "" {
		return "", fmt.Errorf("priority is required")
	}
	if !IsValidPriority(value) {
		return "", fmt.Errorf("invalid priority: %s", value)
	}
	return value, nil
}

func TaskStatusStrings() []string {
	out := make([]string, 0, len(WorkflowOrder))
	for _, status := range WorkflowOrder {
		out = append(out, string(status))
	}
	return out
}

func normalizeToken(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.ReplaceAll(token, "-", "_")
	token = strings.ReplaceAll(token, " ", "_")
	return token
}
