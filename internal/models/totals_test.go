package models

import "testing"

func TestComputeSprintTotals(t *testing.T) {
	points := func(v float64) *float64 { return &v }
	stories := []Story{
		{ID: "st-aa11", StoryPoints: points(5)},
		{ID: "st-bb22", StoryPoints: points(3)},
		{ID: "st-cc33", StoryPoints: points(8)},
	}
	tasks := []Task{
		{ID: "sy-a1", StoryID: "st-aa11", SprintID: "sn-x", Status: StatusDone},
		{ID: "sy-a2", StoryID: "st-aa11", SprintID: "sn-x", Status: StatusDone},
		{ID: "sy-b1", StoryID: "st-bb22", SprintID: "sn-x", Status: StatusReview},
		{ID: "sy-c1", StoryID: "st-cc33", SprintID: "", Status: StatusTodo},
		{ID: "sy-d1", StoryID: "", SprintID: "sn-x", Status: StatusTodo},
	}

	totals := ComputeSprintTotals("sn-x", stories, tasks)
	if totals.CommittedPoints != 8 {
		t.Fatalf("committed = %v, want 8", totals.CommittedPoints)
	}
	if totals.CompletedPoints != 5 {
		t.Fatalf("completed = %v, want 5", totals.CompletedPoints)
	}
	if totals.TaskCount != 4 {
		t.Fatalf("task count = %d, want 4", totals.TaskCount)
	}
	if totals.StoryCount != 2 {
		t.Fatalf("story count = %d, want 2", totals.StoryCount)
	}
}

func TestComputeSprintTotalsMonotonic(t *testing.T) {
	points := func(v float64) *float64 { return &v }
	stories := []Story{
		{ID: "st-aa11", StoryPoints: points(5)},
		{ID: "st-bb22", StoryPoints: points(3)},
	}
	tasks := []Task{
		{ID: "sy-a1", StoryID: "st-aa11", SprintID: "sn-x", Status: StatusTodo},
		{ID: "sy-b1", StoryID: "st-bb22", SprintID: "", Status: StatusTodo},
	}

	before := ComputeSprintTotals("sn-x", stories, tasks)

	// Moving another story's tasks into the sprint never lowers commitment.
	tasks[1].SprintID = "sn-x"
	after := ComputeSprintTotals("sn-x", stories, tasks)
	if after.CommittedPoints < before.CommittedPoints {
		t.Fatalf("committed points decreased: %v -> %v", before.CommittedPoints, after.CommittedPoints)
	}
	if after.CommittedPoints != 8 {
		t.Fatalf("committed = %v, want 8", after.CommittedPoints)
	}
}

func TestComputeSprintTotalsEmpty(t *testing.T) {
	totals := ComputeSprintTotals("sn-x", nil, nil)
	if totals != (SprintTotals{}) {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}
