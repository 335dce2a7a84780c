package store

import (
	"path/filepath"
	"testing"
	"time"

	"spry/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func floatPtr(v float64) *float64 { return &v }

func testTask(id string, status models.TaskStatus, now time.Time) *models.Task {
	return &models.Task{
		ID:        id,
		Name:      "Task " + id,
		Status:    status,
		Type:      models.TypeFeature,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty db path")
	}
}

func TestSchemaVersion(t *testing.T) {
	st := testStore(t)
	version, err := st.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	want := migrations[len(migrations)-1].Version
	if version != want {
		t.Fatalf("expected schema version %d, got %d", want, version)
	}
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID("sy", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(id) != 7 || id[:3] != "sy-" {
		t.Fatalf("unexpected id format: %q", id)
	}

	// Collisions are retried against the exists callback.
	calls := 0
	id, err = GenerateID("st", func(string) (bool, error) {
		calls++
		return calls == 1, nil
	})
	if err != nil {
		t.Fatalf("generate with collision: %v", err)
	}
	if calls < 2 {
		t.Fatalf("expected at least one retry, got %d calls", calls)
	}
	if id[:3] != "st-" {
		t.Fatalf("unexpected id prefix: %q", id)
	}
}
