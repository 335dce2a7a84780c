package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"spry/internal/api"
	"spry/internal/models"
	"spry/internal/store"
)

func TestPlanImporterImport(t *testing.T) {
	imp, st := newPlanImporterForTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustCreateSprint(t, st, &models.Sprint{ID: "sn-aa11", Name: "S1", StartDate: now, EndDate: now.AddDate(0, 0, 14), CreatedAt: now, UpdatedAt: now})

	resp, err := imp.Import(ctx, api.PlanImportRequest{
		SprintID: "sn-aa11",
		Stories: []api.PlanStoryRecord{
			{
				Name:        "Checkout flow",
				StoryPoints: floatPtr(5),
				Priority:    "high",
				Tasks: []api.PlanTaskRecord{
					{Name: "API endpoint", EstimatedHours: floatPtr(6)},
					{Name: "Fix rounding", Type: "bug", Priority: "low"},
				},
			},
			{Name: "Search"},
		},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.StoriesCreated != 2 || resp.TasksCreated != 2 || resp.Skipped != 0 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	if len(resp.StoryIDs) != 2 {
		t.Fatalf("expected 2 story ids, got %v", resp.StoryIDs)
	}

	tasks, err := st.ListTasks(ctx, store.TaskFilter{StoryID: resp.StoryIDs[0]})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks on the first story, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.SprintID != "sn-aa11" {
			t.Fatalf("plan tasks must land in the target sprint, got %q", task.SprintID)
		}
		if task.Status != models.StatusTodo {
			t.Fatalf("plan tasks start in todo, got %s", task.Status)
		}
	}
	// Tasks without their own priority inherit the story's.
	for _, task := range tasks {
		if task.Name == "API endpoint" && task.Priority != models.PriorityHigh {
			t.Fatalf("expected inherited high priority, got %s", task.Priority)
		}
		if task.Name == "Fix rounding" && task.Priority != models.PriorityLow {
			t.Fatalf("expected explicit low priority, got %s", task.Priority)
		}
	}
}

func TestPlanImporterDryRun(t *testing.T) {
	imp, st := newPlanImporterForTest(t)
	ctx := context.Background()

	resp, err := imp.Import(ctx, api.PlanImportRequest{
		DryRun: true,
		Stories: []api.PlanStoryRecord{
			{Name: "Would be created", Tasks: []api.PlanTaskRecord{{Name: "And this"}}},
		},
	})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !resp.DryRun || resp.StoriesCreated != 1 || resp.TasksCreated != 1 {
		t.Fatalf("unexpected dry run counts: %+v", resp)
	}

	stories, err := st.ListStories(ctx, "")
	if err != nil {
		t.Fatalf("list stories: %v", err)
	}
	if len(stories) != 0 {
		t.Fatalf("dry run must not write, found %d stories", len(stories))
	}
}

func TestPlanImporterDedupe(t *testing.T) {
	t.Run("skip", func(t *testing.T) {
		imp, st := newPlanImporterForTest(t)
		ctx := context.Background()
		now := time.Now().UTC()
		mustCreateStory(t, st, &models.Story{ID: "st-aa11", Name: "Checkout Flow", Priority: models.PriorityMedium, CreatedAt: now, UpdatedAt: now})

		resp, err := imp.Import(ctx, api.PlanImportRequest{
			Stories: []api.PlanStoryRecord{
				{Name: "checkout flow"},
				{Name: "Fresh"},
			},
		})
		if err != nil {
			t.Fatalf("import: %v", err)
		}
		if resp.Skipped != 1 || resp.StoriesCreated != 1 {
			t.Fatalf("expected 1 skipped and 1 created, got %+v", resp)
		}
	})

	t.Run("error", func(t *testing.T) {
		imp, st := newPlanImporterForTest(t)
		ctx := context.Background()
		now := time.Now().UTC()
		mustCreateStory(t, st, &models.Story{ID: "st-aa11", Name: "Checkout Flow", Priority: models.PriorityMedium, CreatedAt: now, UpdatedAt: now})

		_, err := imp.Import(ctx, api.PlanImportRequest{
			Dedupe:  "error",
			Stories: []api.PlanStoryRecord{{Name: "checkout flow"}},
		})
		if err == nil {
			t.Fatal("expected duplicate to reject the plan")
		}
		if got := httpStatusFromError(err); got != http.StatusConflict {
			t.Fatalf("expected 409, got %d", got)
		}
	})

	t.Run("duplicate within plan", func(t *testing.T) {
		imp, _ := newPlanImporterForTest(t)
		resp, err := imp.Import(context.Background(), api.PlanImportRequest{
			Stories: []api.PlanStoryRecord{{Name: "Same"}, {Name: "same"}},
		})
		if err != nil {
			t.Fatalf("import: %v", err)
		}
		if resp.StoriesCreated != 1 || resp.Skipped != 1 {
			t.Fatalf("expected the second occurrence skipped, got %+v", resp)
		}
	})
}

func TestPlanImporterValidatesBeforeWriting(t *testing.T) {
	imp, st := newPlanImporterForTest(t)
	ctx := context.Background()

	_, err := imp.Import(ctx, api.PlanImportRequest{
		Stories: []api.PlanStoryRecord{
			{Name: "Good"},
			{Name: "Bad", Priority: "sometime"},
		},
	})
	if err == nil {
		t.Fatal("expected the malformed record to reject the plan")
	}

	stories, err := st.ListStories(ctx, "")
	if err != nil {
		t.Fatalf("list stories: %v", err)
	}
	if len(stories) != 0 {
		t.Fatalf("a rejected plan must write nothing, found %d stories", len(stories))
	}
}

func newPlanImporterForTest(t *testing.T) (*PlanImporter, *store.Store) {
	t.Helper()
	st := newStoreForTest(t)
	return NewPlanImporter(st, testConfig()), st
}
