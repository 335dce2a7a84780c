package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"spry/internal/api"
	"spry/internal/models"
)

func TestEpicServiceGetWithProgress(t *testing.T) {
	st := newStoreForTest(t)
	svc := NewEpicService(st)
	ctx := context.Background()
	now := time.Now().UTC()

	created, err := svc.Create(ctx, api.EpicCreateRequest{Name: "Payments"})
	if err != nil {
		t.Fatalf("create epic: %v", err)
	}
	mustCreateStory(t, st, &models.Story{ID: "st-aa11", Name: "Checkout", StoryPoints: floatPtr(5), EpicID: created.ID, Priority: models.PriorityMedium, CreatedAt: now, UpdatedAt: now})
	done := now
	mustCreateTask(t, st, &models.Task{ID: "sy-aa01", Name: "Done piece", Status: models.StatusDone, Type: models.TypeFeature, Priority: models.PriorityMedium, StoryID: "st-aa11", CompletedAt: &done, CreatedAt: now, UpdatedAt: now})

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get epic: %v", err)
	}
	if got.Progress == nil {
		t.Fatal("expected rollup progress")
	}
	if got.Progress.TotalStoryPoints != 5 || got.Progress.CompletedStoryPoints != 5 {
		t.Fatalf("unexpected rollup: %+v", got.Progress)
	}
}

func TestEpicServiceMissingEpicReturnsNotFound(t *testing.T) {
	st := newStoreForTest(t)
	svc := NewEpicService(st)
	if _, err := svc.Get(context.Background(), "ep-zz99"); httpStatusFromError(err) != http.StatusNotFound {
		t.Fatalf("expected 404 from get, got %v", err)
	}
}
