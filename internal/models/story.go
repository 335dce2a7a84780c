package models

import "time"

// Story groups tasks under one deliverable slice of work.
type Story struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StoryPoints *float64  `json:"story_points,omitempty"`
	EpicID      string    `json:"epic_id,omitempty"`
	Priority    Priority  `json:"priority"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Points returns the story's estimate, treating unset as zero.
func (s Story) Points() float64 {
	if s.StoryPoints == nil {
		return 0
	}
	return *s.StoryPoints
}

// Membership derives the story's sprint relation from its tasks.
// Sprint membership is never stored on the story itself; the task
// set is the single source of truth. A story with no tasks is in
// the backlog. If every task shares one non-empty sprint id the
// story is in that sprint; if tasks disagree it is mixed.
func Membership(tasks []Task) (SprintMembership, string) {
	if len(tasks) == 0 {
		return MembershipBacklog, ""
	}

	sprintID := tasks[0].SprintID
	for _, task := range tasks[1:] {
		if task.SprintID != sprintID {
			return MembershipMixed, ""
		}
	}
	if sprintID == "" {
		return MembershipBacklog, ""
	}
	return MembershipInSprint, sprintID
}

// FullyDone reports whether a non-empty task set is entirely done.
func FullyDone(tasks []Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, task := range tasks {
		if !task.Done() {
			return false
		}
	}
	return true
}
