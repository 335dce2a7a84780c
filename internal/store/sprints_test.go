package store

import (
	"context"
	"testing"
	"time"

	"spry/internal/models"
)

func TestCreateAndListSprints(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	second := &models.Sprint{
		ID:        "sn-bb22",
		Name:      "Sprint 2",
		StartDate: now.AddDate(0, 0, 14),
		EndDate:   now.AddDate(0, 0, 28),
		CreatedAt: now,
		UpdatedAt: now,
	}
	first := &models.Sprint{
		ID:        "sn-aa11",
		Name:      "Sprint 1",
		Goal:      "Stabilize the board",
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 14),
		Capacity:  floatPtr(20),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Insert out of order; listing is chronological.
	for _, sprint := range []*models.Sprint{second, first} {
		if err := st.CreateSprint(ctx, sprint); err != nil {
			t.Fatalf("create %s: %v", sprint.ID, err)
		}
	}

	sprints, err := st.ListSprints(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sprints) != 2 {
		t.Fatalf("expected 2 sprints, got %d", len(sprints))
	}
	if sprints[0].ID != "sn-aa11" || sprints[1].ID != "sn-bb22" {
		t.Fatalf("expected chronological order, got %s, %s", sprints[0].ID, sprints[1].ID)
	}
	if sprints[0].Capacity == nil || *sprints[0].Capacity != 20 {
		t.Fatalf("expected capacity 20, got %v", sprints[0].Capacity)
	}
	if sprints[0].Goal != "Stabilize the board" {
		t.Fatalf("unexpected goal %q", sprints[0].Goal)
	}
}

func TestUpdateSprint(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := testNow()

	sprint := &models.Sprint{
		ID:        "sn-aa11",
		Name:      "Sprint 1",
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 14),
		Capacity:  floatPtr(15),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.CreateSprint(ctx, sprint); err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Sprint 1 - extended"
	end := now.AddDate(0, 0, 21)
	if err := st.UpdateSprint(ctx, "sn-aa11", SprintUpdate{
		Name:      &name,
		EndDate:   &end,
		UpdatedAt: now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetSprint(ctx, "sn-aa11")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != name {
		t.Fatalf("expected renamed sprint, got %q", got.Name)
	}
	if !got.EndDate.Equal(end) {
		t.Fatalf("expected end %v, got %v", end, got.EndDate)
	}
	if got.Capacity == nil || *got.Capacity != 15 {
		t.Fatal("capacity should be untouched by partial update")
	}

	if err := st.UpdateSprint(ctx, "sn-aa11", SprintUpdate{
		ClearCapacity: true,
		UpdatedAt:     now.Add(2 * time.Minute),
	}); err != nil {
		t.Fatalf("clear capacity: %v", err)
	}
	got, err = st.GetSprint(ctx, "sn-aa11")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Capacity != nil {
		t.Fatalf("expected cleared capacity, got %v", got.Capacity)
	}
}
