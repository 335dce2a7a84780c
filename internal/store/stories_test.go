package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"spry/internal/models"
)

func testStory(id string, base models.Story) *models.Story {
	story := base
	story.ID = id
	if story.Name == "" {
		story.Name = "Story " + id
	}
	if story.Priority == "" {
		story.Priority = models.PriorityMedium
	}
	return &story
}

func TestCreateAndGetStory(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	story := &models.Story{
		ID:          "st-ab12",
		Name:        "Checkout flow",
		StoryPoints: floatPtr(5),
		Priority:    models.PriorityHigh,
		Description: "end to end checkout",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateStory(ctx, story); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetStory(ctx, "st-ab12")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected story, got nil")
	}
	if got.Name != "Checkout flow" {
		t.Fatalf("unexpected name %q", got.Name)
	}
	if got.StoryPoints == nil || *got.StoryPoints != 5 {
		t.Fatalf("expected 5 points, got %v", got.StoryPoints)
	}
	if got.Priority != models.PriorityHigh {
		t.Fatalf("unexpected priority %q", got.Priority)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at did not round-trip: %v vs %v", got.CreatedAt, now)
	}
}

func TestGetStoryMissing(t *testing.T) {
	st := testStore(t)
	got, err := st.GetStory(context.Background(), "st-zz99")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestUpdateStoryPartial(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	if err := st.CreateStory(ctx, testStory("st-ab12", models.Story{
		StoryPoints: floatPtr(3),
		CreatedAt:   now,
		UpdatedAt:   now,
	})); err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Renamed"
	high := models.PriorityHigh
	if err := st.UpdateStory(ctx, "st-ab12", StoryUpdate{
		Name:      &name,
		Priority:  &high,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetStory(ctx, "st-ab12")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("unexpected name %q", got.Name)
	}
	if got.Priority != models.PriorityHigh {
		t.Fatalf("unexpected priority %q", got.Priority)
	}
	// Untouched field survives a partial update.
	if got.StoryPoints == nil || *got.StoryPoints != 3 {
		t.Fatalf("expected points to survive, got %v", got.StoryPoints)
	}
}

func TestUpdateStoryClearPoints(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	if err := st.CreateStory(ctx, testStory("st-ab12", models.Story{
		StoryPoints: floatPtr(8),
		CreatedAt:   now,
		UpdatedAt:   now,
	})); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := st.UpdateStory(ctx, "st-ab12", StoryUpdate{ClearPoints: true, UpdatedAt: now}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetStory(ctx, "st-ab12")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StoryPoints != nil {
		t.Fatalf("expected cleared points, got %v", *got.StoryPoints)
	}
}

func TestUpdateStoryMissing(t *testing.T) {
	st := testStore(t)
	name := "x"
	err := st.UpdateStory(context.Background(), "st-zz99", StoryUpdate{Name: &name, UpdatedAt: testNow()})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestDeleteStoryClearsTaskReference(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	if err := st.CreateStory(ctx, testStory("st-ab12", models.Story{CreatedAt: now, UpdatedAt: now})); err != nil {
		t.Fatalf("create story: %v", err)
	}
	task := testTask("sy-ab12", models.StatusTodo, now)
	task.StoryID = "st-ab12"
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	existed, err := st.DeleteStory(ctx, "st-ab12")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !existed {
		t.Fatal("expected delete to report existence")
	}

	got, err := st.GetTask(ctx, "sy-ab12")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil {
		t.Fatal("expected task to survive story deletion")
	}
	if got.StoryID != "" {
		t.Fatalf("expected story_id cleared, got %q", got.StoryID)
	}

	existed, err = st.DeleteStory(ctx, "st-ab12")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if existed {
		t.Fatal("expected second delete to report absence")
	}
}

func TestListStoriesByEpic(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	if err := st.CreateEpic(ctx, &models.Epic{ID: "ep-aa11", Name: "Payments", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create epic: %v", err)
	}
	if err := st.CreateStory(ctx, testStory("st-aa11", models.Story{EpicID: "ep-aa11", CreatedAt: now, UpdatedAt: now})); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.CreateStory(ctx, testStory("st-bb22", models.Story{CreatedAt: now, UpdatedAt: now})); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := st.ListStories(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(all))
	}

	scoped, err := st.ListStories(ctx, "ep-aa11")
	if err != nil {
		t.Fatalf("list by epic: %v", err)
	}
	if len(scoped) != 1 || scoped[0].ID != "st-aa11" {
		t.Fatalf("unexpected epic stories: %+v", scoped)
	}
}
