package store

import (
	"context"
	"testing"

	"spry/internal/models"
)

func TestCreateAndGetEpic(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	epic := &models.Epic{
		ID:          "ep-ab12",
		Name:        "Payments",
		Description: "everything money",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateEpic(ctx, epic); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetEpic(ctx, "ep-ab12")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected epic, got nil")
	}
	if got.Name != "Payments" {
		t.Fatalf("unexpected name %q", got.Name)
	}
	if got.Description != "everything money" {
		t.Fatalf("unexpected description %q", got.Description)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at did not round-trip: %v vs %v", got.UpdatedAt, now)
	}
}

func TestGetEpicMissing(t *testing.T) {
	st := testStore(t)
	got, err := st.GetEpic(context.Background(), "ep-zz99")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestListEpics(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	for _, id := range []string{"ep-aa11", "ep-bb22"} {
		if err := st.CreateEpic(ctx, &models.Epic{ID: id, Name: "Epic " + id, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	epics, err := st.ListEpics(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(epics) != 2 {
		t.Fatalf("expected 2 epics, got %d", len(epics))
	}
}

func TestDeleteEpicClearsStoryReference(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	if err := st.CreateEpic(ctx, &models.Epic{ID: "ep-aa11", Name: "Payments", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create epic: %v", err)
	}
	if err := st.CreateStory(ctx, testStory("st-aa11", models.Story{EpicID: "ep-aa11", CreatedAt: now, UpdatedAt: now})); err != nil {
		t.Fatalf("create story: %v", err)
	}

	if _, err := st.db.ExecContext(ctx, "DELETE FROM epics WHERE id = ?", "ep-aa11"); err != nil {
		t.Fatalf("delete epic: %v", err)
	}

	got, err := st.GetStory(ctx, "st-aa11")
	if err != nil {
		t.Fatalf("get story: %v", err)
	}
	if got == nil {
		t.Fatal("expected story to survive epic deletion")
	}
	if got.EpicID != "" {
		t.Fatalf("expected epic_id cleared, got %q", got.EpicID)
	}
}
