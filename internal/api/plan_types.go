package api

// PlanTaskRecord is one task inside a plan story.
type PlanTaskRecord struct {
	Name           string   `json:"name"`
	Type           string   `json:"type,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	Assignee       string   `json:"assignee,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
}

// PlanStoryRecord is one story in an import plan.
type PlanStoryRecord struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Priority    string           `json:"priority,omitempty"`
	StoryPoints *float64         `json:"story_points,omitempty"`
	EpicID      string           `json:"epic_id,omitempty"`
	Tasks       []PlanTaskRecord `json:"tasks,omitempty"`
}

// PlanImportRequest is the payload for POST /v1/plans/import.
type PlanImportRequest struct {
	SprintID string            `json:"sprint_id,omitempty"`
	Stories  []PlanStoryRecord `json:"stories"`
	DryRun   bool              `json:"dry_run"`
	Dedupe   string            `json:"dedupe,omitempty"`
}

// PlanImportResponse is the response from POST /v1/plans/import.
type PlanImportResponse struct {
	StoriesCreated int      `json:"stories_created"`
	TasksCreated   int      `json:"tasks_created"`
	Skipped        int      `json:"skipped"`
	DryRun         bool     `json:"dry_run"`
	StoryIDs       []string `json:"story_ids,omitempty"`
	Messages       []string `json:"messages,omitempty"`
}
