package server

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"spry/internal/api"
	"spry/internal/config"
	"spry/internal/models"
	"spry/internal/store"
)

func TestTaskServiceCreateDefaults(t *testing.T) {
	svc, _ := newTaskServiceForTest(t, testConfig())
	ctx := context.Background()

	resp, err := svc.Create(ctx, api.TaskCreateRequest{Name: "  Implement login  "})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if resp.Task.Name != "Implement login" {
		t.Fatalf("expected trimmed name, got %q", resp.Task.Name)
	}
	if resp.Task.Status != models.StatusTodo {
		t.Fatalf("expected default status todo, got %s", resp.Task.Status)
	}
	if resp.Task.Type != models.TypeFeature {
		t.Fatalf("expected default type feature, got %s", resp.Task.Type)
	}
	if resp.Task.Priority != models.PriorityMedium {
		t.Fatalf("expected default priority medium, got %s", resp.Task.Priority)
	}
	if !validateID(resp.Task.ID, "sy") {
		t.Fatalf("expected generated sy-xxxx id, got %q", resp.Task.ID)
	}
	if resp.Task.CompletedAt != nil {
		t.Fatal("new todo task should not carry a completion timestamp")
	}
}

func TestTaskServiceCreateValidation(t *testing.T) {
	tests := []struct {
		name       string
		req        api.TaskCreateRequest
		wantStatus int
	}{
		{name: "empty name", req: api.TaskCreateRequest{Name: "   "}, wantStatus: http.StatusBadRequest},
		{name: "bad status", req: api.TaskCreateRequest{Name: "T", Status: strPtr("archived")}, wantStatus: http.StatusBadRequest},
		{name: "bad id shape", req: api.TaskCreateRequest{ID: "task-1", Name: "T"}, wantStatus: http.StatusBadRequest},
		{name: "wrong id prefix", req: api.TaskCreateRequest{ID: "st-ab12", Name: "T"}, wantStatus: http.StatusBadRequest},
		{name: "missing story ref", req: api.TaskCreateRequest{Name: "T", StoryID: strPtr("st-zz99")}, wantStatus: http.StatusNotFound},
		{name: "missing sprint ref", req: api.TaskCreateRequest{Name: "T", SprintID: strPtr("sn-zz99")}, wantStatus: http.StatusNotFound},
		{name: "negative hours", req: api.TaskCreateRequest{Name: "T", EstimatedHours: floatPtr(-1)}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTaskServiceForTest(t, testConfig())
			_, err := svc.Create(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := httpStatusFromError(err); got != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (%v)", tt.wantStatus, got, err)
			}
		})
	}
}

func TestTaskServiceCreateDuplicateID(t *testing.T) {
	svc, _ := newTaskServiceForTest(t, testConfig())
	ctx := context.Background()

	if _, err := svc.Create(ctx, api.TaskCreateRequest{ID: "sy-ab12", Name: "First"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	_, err := svc.Create(ctx, api.TaskCreateRequest{ID: "sy-ab12", Name: "Second"})
	if err == nil {
		t.Fatal("expected conflict")
	}
	if got := httpStatusFromError(err); got != http.StatusConflict {
		t.Fatalf("expected 409, got %d", got)
	}
}

func TestTaskServiceMoveStampsCompletion(t *testing.T) {
	svc, _ := newTaskServiceForTest(t, testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, api.TaskCreateRequest{Name: "Ship it"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	done, err := svc.Move(ctx, created.Task.ID, "done")
	if err != nil {
		t.Fatalf("move to done: %v", err)
	}
	if done.Task.CompletedAt == nil {
		t.Fatal("moving into done must stamp the completion timestamp")
	}
	stamp := *done.Task.CompletedAt

	// Moving to the current status is a no-op and must not restamp.
	again, err := svc.Move(ctx, created.Task.ID, "done")
	if err != nil {
		t.Fatalf("repeat move: %v", err)
	}
	if again.Task.CompletedAt == nil || !again.Task.CompletedAt.Equal(stamp) {
		t.Fatalf("no-op move changed the completion timestamp: %v vs %v", again.Task.CompletedAt, stamp)
	}

	reopened, err := svc.Move(ctx, created.Task.ID, "in_progress")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Task.CompletedAt != nil {
		t.Fatal("leaving done must clear the completion timestamp")
	}

	// The cleared timestamp must survive the round trip to storage.
	fetched, err := svc.Get(ctx, created.Task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if fetched.Task.CompletedAt != nil {
		t.Fatal("stored task still carries a completion timestamp")
	}
}

func TestTaskServiceMoveWarnsOnWIPLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Board.WIPLimits = map[string]int{"in_progress": 1}
	svc, _ := newTaskServiceForTest(t, cfg)
	ctx := context.Background()

	first, err := svc.Create(ctx, api.TaskCreateRequest{Name: "First"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, api.TaskCreateRequest{Name: "Second"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	resp, err := svc.Move(ctx, first.Task.ID, "in_progress")
	if err != nil {
		t.Fatalf("move first: %v", err)
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("move within the limit should not warn, got %v", resp.Warnings)
	}

	resp, err = svc.Move(ctx, second.Task.ID, "in_progress")
	if err != nil {
		t.Fatalf("move second: %v", err)
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", resp.Warnings)
	}
	if resp.Task.Status != models.StatusInProgress {
		t.Fatalf("warning must not block the move, status %s", resp.Task.Status)
	}
}

func TestTaskServiceUpdateRejectsStatus(t *testing.T) {
	svc, _ := newTaskServiceForTest(t, testConfig())
	ctx := context.Background()

	created, err := svc.Create(ctx, api.TaskCreateRequest{Name: "Keep status"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	_, err = svc.Update(ctx, created.Task.ID, api.TaskUpdateRequest{Status: strPtr("done")})
	if err == nil {
		t.Fatal("expected update with status to be rejected")
	}
	if got := httpStatusFromError(err); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestTaskServiceUpdateClearsAssociations(t *testing.T) {
	svc, st := newTaskServiceForTest(t, testConfig())
	ctx := context.Background()
	now := time.Now().UTC()

	mustCreateStory(t, st, &models.Story{ID: "st-aa11", Name: "Story", Priority: models.PriorityMedium, CreatedAt: now, UpdatedAt: now})
	created, err := svc.Create(ctx, api.TaskCreateRequest{Name: "Attached", StoryID: strPtr("st-aa11")})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.Task.StoryID != "st-aa11" {
		t.Fatalf("expected story attached, got %q", created.Task.StoryID)
	}

	updated, err := svc.Update(ctx, created.Task.ID, api.TaskUpdateRequest{StoryID: strPtr("")})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Task.StoryID != "" {
		t.Fatalf("empty story_id should clear the association, got %q", updated.Task.StoryID)
	}
}

func TestTaskServiceListFiltersByStatus(t *testing.T) {
	svc, _ := newTaskServiceForTest(t, testConfig())
	ctx := context.Background()

	a, err := svc.Create(ctx, api.TaskCreateRequest{Name: "A"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := svc.Create(ctx, api.TaskCreateRequest{Name: "B"}); err != nil {
		t.Fatalf("create b: %v", err)
	}
	if _, err := svc.Move(ctx, a.Task.ID, "review"); err != nil {
		t.Fatalf("move a: %v", err)
	}

	got, err := svc.List(ctx, store.TaskFilter{Statuses: []string{"review"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Task.ID != a.Task.ID {
		t.Fatalf("expected only %s in review, got %+v", a.Task.ID, got)
	}

	if _, err := svc.List(ctx, store.TaskFilter{Statuses: []string{"bogus"}}); err == nil {
		t.Fatal("expected invalid status filter to be rejected")
	}
}

func TestTaskServiceMissingTaskReturnsNotFound(t *testing.T) {
	svc, _ := newTaskServiceForTest(t, testConfig())
	ctx := context.Background()

	if _, err := svc.Get(ctx, "sy-zz99"); httpStatusFromError(err) != http.StatusNotFound {
		t.Fatalf("expected 404 from get, got %v", err)
	}
	if _, err := svc.Move(ctx, "sy-zz99", "done"); httpStatusFromError(err) != http.StatusNotFound {
		t.Fatalf("expected 404 from move, got %v", err)
	}

	created, err := svc.Create(ctx, api.TaskCreateRequest{Name: "Short lived"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := svc.Delete(ctx, created.Task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := svc.Get(ctx, created.Task.ID); httpStatusFromError(err) != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func newStoreForTest(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server_test.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func newTaskServiceForTest(t *testing.T, cfg *config.Config) (*TaskService, *store.Store) {
	t.Helper()
	st := newStoreForTest(t)
	return NewTaskService(st, cfg), st
}

func mustCreateStory(t *testing.T, st *store.Store, story *models.Story) {
	t.Helper()
	if err := st.CreateStory(context.Background(), story); err != nil {
		t.Fatalf("create story %s: %v", story.ID, err)
	}
}

func mustCreateSprint(t *testing.T, st *store.Store, sprint *models.Sprint) {
	t.Helper()
	if err := st.CreateSprint(context.Background(), sprint); err != nil {
		t.Fatalf("create sprint %s: %v", sprint.ID, err)
	}
}

func mustCreateTask(t *testing.T, st *store.Store, task *models.Task) {
	t.Helper()
	if err := st.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("create task %s: %v", task.ID, err)
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
