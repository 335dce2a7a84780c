package metrics

import (
	"math"
	"testing"
	"time"

	"spry/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func floatPtr(f float64) *float64 { return &f }

func historyFixture() []VelocityPoint {
	return []VelocityPoint{
		{SprintID: "sn-0001", PlannedPoints: 10, CompletedPoints: 8},
		{SprintID: "sn-0002", PlannedPoints: 12, CompletedPoints: 12},
		{SprintID: "sn-0003", PlannedPoints: 15, CompletedPoints: 9},
	}
}

func TestAverageVelocity(t *testing.T) {
	got := averageVelocity(historyFixture())
	if math.Abs(got-29.0/3.0) > 1e-9 {
		t.Fatalf("average velocity: got %v, want %v", got, 29.0/3.0)
	}
	if got := averageVelocity(nil); got != 0 {
		t.Fatalf("empty history: got %v, want 0", got)
	}
}

func TestPredictability(t *testing.T) {
	got := predictability(historyFixture())
	if math.Abs(got-80) > 1e-9 {
		t.Fatalf("predictability: got %v, want 80", got)
	}
}

func TestPredictabilityBounds(t *testing.T) {
	tests := []struct {
		name    string
		history []VelocityPoint
		want    float64
	}{
		{"empty", nil, 0},
		{"zero planned skipped", []VelocityPoint{{PlannedPoints: 0, CompletedPoints: 5}}, 0},
		{"overdelivery capped", []VelocityPoint{{PlannedPoints: 10, CompletedPoints: 20}}, 100},
		{"mixed with zero planned", []VelocityPoint{
			{PlannedPoints: 0, CompletedPoints: 3},
			{PlannedPoints: 10, CompletedPoints: 5},
		}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := predictability(tt.history)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Fatalf("predictability out of range: %v", got)
			}
		})
	}
}

func TestVelocityHistory(t *testing.T) {
	now := day("2026-03-20")
	sprints := []models.Sprint{
		{ID: "sn-0002", Name: "Sprint 2", StartDate: day("2026-03-02"), EndDate: day("2026-03-13")},
		{ID: "sn-0001", Name: "Sprint 1", StartDate: day("2026-02-16"), EndDate: day("2026-02-27")},
	}
	stories := []models.Story{
		{ID: "st-0001", StoryPoints: floatPtr(5)},
		{ID: "st-0002", StoryPoints: floatPtr(3)},
	}
	tasks := []models.Task{
		{ID: "sy-0001", StoryID: "st-0001", SprintID: "sn-0001", Status: models.StatusDone},
		{ID: "sy-0002", StoryID: "st-0002", SprintID: "sn-0002", Status: models.StatusInProgress},
	}
	snapshots := []models.Snapshot{
		{Day: day("2026-02-16"), SprintCommitted: map[string]float64{"sn-0001": 8}},
	}

	history := VelocityHistory(sprints, stories, tasks, snapshots, now)
	if len(history) != 2 {
		t.Fatalf("expected 2 points, got %d", len(history))
	}
	if history[0].SprintID != "sn-0001" || history[1].SprintID != "sn-0002" {
		t.Fatalf("history not chronological: %s, %s", history[0].SprintID, history[1].SprintID)
	}

	first := history[0]
	if first.Basis != BasisSnapshot {
		t.Fatalf("expected snapshot basis, got %q", first.Basis)
	}
	if first.PlannedPoints != 8 {
		t.Fatalf("planned points: got %v, want 8", first.PlannedPoints)
	}
	if first.CompletedPoints != 5 {
		t.Fatalf("completed points: got %v, want 5", first.CompletedPoints)
	}

	second := history[1]
	if second.Basis != BasisCurrent {
		t.Fatalf("expected current basis, got %q", second.Basis)
	}
	if second.PlannedPoints != 3 {
		t.Fatalf("fallback planned points: got %v, want 3", second.PlannedPoints)
	}
	if second.CompletedPoints != 0 {
		t.Fatalf("completed points: got %v, want 0", second.CompletedPoints)
	}
}

func TestVelocityHistoryClampsDateToNow(t *testing.T) {
	now := day("2026-03-05")
	sprints := []models.Sprint{
		{ID: "sn-0001", StartDate: day("2026-03-02"), EndDate: day("2026-03-13")},
	}
	history := VelocityHistory(sprints, nil, nil, nil, now)
	if !history[0].Date.Equal(now) {
		t.Fatalf("expected date clamped to now, got %v", history[0].Date)
	}
}

func TestBurndownIdealLine(t *testing.T) {
	sprint := models.Sprint{
		ID:        "sn-0001",
		StartDate: day("2026-03-02"), // Monday
		EndDate:   day("2026-03-13"), // Friday, 10 business days
	}
	snapshots := []models.Snapshot{
		{Day: day("2026-03-02"), RemainingPoints: 18, SprintCommitted: map[string]float64{"sn-0001": 18}},
		{Day: day("2026-03-04"), RemainingPoints: 14, SprintCommitted: map[string]float64{"sn-0001": 18}},
	}

	points := Burndown(sprint, snapshots)
	if len(points) != 10 {
		t.Fatalf("expected 10 business days, got %d", len(points))
	}
	if points[0].Ideal != 18 {
		t.Fatalf("ideal start: got %v, want 18", points[0].Ideal)
	}
	if points[len(points)-1].Ideal != 0 {
		t.Fatalf("ideal end: got %v, want 0", points[len(points)-1].Ideal)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Ideal > points[i-1].Ideal {
			t.Fatalf("ideal line not declining at %d: %v > %v", i, points[i].Ideal, points[i-1].Ideal)
		}
	}

	if points[0].Actual == nil || *points[0].Actual != 18 {
		t.Fatalf("day 1 actual: got %v, want 18", points[0].Actual)
	}
	if points[1].Actual != nil {
		t.Fatalf("day 2 has no snapshot, actual should be nil")
	}
	if points[2].Actual == nil || *points[2].Actual != 14 {
		t.Fatalf("day 3 actual: got %v, want 14", points[2].Actual)
	}
}

func TestBurndownSkipsWeekends(t *testing.T) {
	sprint := models.Sprint{
		StartDate: day("2026-03-06"), // Friday
		EndDate:   day("2026-03-09"), // Monday
	}
	points := Burndown(sprint, nil)
	if len(points) != 2 {
		t.Fatalf("expected 2 business days, got %d", len(points))
	}
	for _, point := range points {
		wd := point.Date.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("weekend day in burndown: %v", point.Date)
		}
	}
}

func TestBurndownSingleBusinessDay(t *testing.T) {
	sprint := models.Sprint{
		ID:        "sn-0001",
		StartDate: day("2026-03-07"), // Saturday
		EndDate:   day("2026-03-09"), // Monday, the only business day
	}
	snapshots := []models.Snapshot{
		{Day: day("2026-03-09"), RemainingPoints: 6, SprintCommitted: map[string]float64{"sn-0001": 6}},
	}

	points := Burndown(sprint, snapshots)
	if len(points) != 1 {
		t.Fatalf("expected 1 business day, got %d", len(points))
	}
	if points[0].Ideal != 6 {
		t.Fatalf("ideal on the only day: got %v, want 6", points[0].Ideal)
	}
}

func TestBurndownEmptyWindow(t *testing.T) {
	sprint := models.Sprint{
		StartDate: day("2026-03-09"),
		EndDate:   day("2026-03-06"),
	}
	if points := Burndown(sprint, nil); len(points) != 0 {
		t.Fatalf("inverted window should yield no points, got %d", len(points))
	}
}

func TestCumulativeFlowStacking(t *testing.T) {
	snapshots := []models.Snapshot{
		{Day: day("2026-03-03"), StatusCounts: map[models.TaskStatus]int{
			models.StatusTodo: 4, models.StatusInProgress: 2, models.StatusReview: 1, models.StatusDone: 3,
		}},
		{Day: day("2026-03-02"), StatusCounts: map[models.TaskStatus]int{
			models.StatusTodo: 5, models.StatusInProgress: 2, models.StatusReview: 1, models.StatusDone: 2,
		}},
	}

	points := CumulativeFlow(snapshots)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if !points[0].Date.Before(points[1].Date) {
		t.Fatalf("flow points not chronological")
	}

	first := points[0]
	if first.Done != 2 || first.Review != 3 || first.InProgress != 5 || first.Todo != 10 {
		t.Fatalf("unexpected stacking: %+v", first)
	}
	second := points[1]
	if second.Done != 3 || second.Todo != 10 {
		t.Fatalf("done band should grow 2 to 3 with total 10, got %+v", second)
	}

	for _, point := range points {
		if point.Done > point.Review || point.Review > point.InProgress || point.InProgress > point.Todo {
			t.Fatalf("bands out of order: %+v", point)
		}
	}
}

func TestFlowWindow(t *testing.T) {
	snapshots := []models.Snapshot{
		{Day: day("2026-03-01"), StatusCounts: map[models.TaskStatus]int{models.StatusDone: 1}},
		{Day: day("2026-03-05"), StatusCounts: map[models.TaskStatus]int{models.StatusDone: 2}},
		{Day: day("2026-03-10"), StatusCounts: map[models.TaskStatus]int{models.StatusDone: 3}},
	}
	points := FlowWindow(snapshots, day("2026-03-02"), day("2026-03-09"))
	if len(points) != 1 {
		t.Fatalf("expected 1 point in window, got %d", len(points))
	}
	if points[0].Done != 2 {
		t.Fatalf("wrong snapshot selected: %+v", points[0])
	}
}

func TestTeamMetrics(t *testing.T) {
	start := day("2026-03-02")
	end := day("2026-03-13")
	sprints := []models.Sprint{
		{ID: "sn-0001", StartDate: start, EndDate: end},
	}
	done := day("2026-03-10")
	tasks := []models.Task{
		{
			ID: "sy-0001", SprintID: "sn-0001", Status: models.StatusDone,
			Type: models.TypeFeature, CreatedAt: day("2026-03-04"), CompletedAt: &done,
		},
		{
			ID: "sy-0002", SprintID: "sn-0001", Status: models.StatusDone,
			Type: models.TypeBug, CreatedAt: day("2026-02-20"), CompletedAt: &done,
		},
		{
			ID: "sy-0003", SprintID: "sn-0001", Status: models.StatusInProgress,
			Type: models.TypeFeature, CreatedAt: day("2026-03-04"),
		},
		{
			ID: "sy-0004", SprintID: "", Status: models.StatusDone,
			Type: models.TypeBug, CreatedAt: day("2026-03-04"), CompletedAt: &done,
		},
	}

	metrics := Team(historyFixture(), sprints, tasks)

	if math.Abs(metrics.AverageVelocity-29.0/3.0) > 1e-9 {
		t.Fatalf("average velocity: got %v", metrics.AverageVelocity)
	}
	if math.Abs(metrics.Predictability-80) > 1e-9 {
		t.Fatalf("predictability: got %v", metrics.Predictability)
	}
	if math.Abs(metrics.DefectRate-0.5) > 1e-9 {
		t.Fatalf("defect rate: got %v, want 0.5", metrics.DefectRate)
	}

	// 12-day window is 12/7 weeks; 2 completed tasks.
	wantThroughput := 2.0 / (12.0 / 7.0)
	if math.Abs(metrics.Throughput-wantThroughput) > 1e-9 {
		t.Fatalf("throughput: got %v, want %v", metrics.Throughput, wantThroughput)
	}

	// Cycle: (6 + 18) / 2 days. Lead clamps creation to sprint start:
	// (6 + 8) / 2 days.
	if math.Abs(metrics.CycleTimeDays-12) > 1e-9 {
		t.Fatalf("cycle time: got %v, want 12", metrics.CycleTimeDays)
	}
	if math.Abs(metrics.LeadTimeDays-7) > 1e-9 {
		t.Fatalf("lead time: got %v, want 7", metrics.LeadTimeDays)
	}
}

func TestTeamMetricsEmpty(t *testing.T) {
	metrics := Team(nil, nil, nil)
	if metrics != (TeamMetrics{}) {
		t.Fatalf("expected zero metrics, got %+v", metrics)
	}
}

func TestSprintsEndedBy(t *testing.T) {
	now := day("2026-03-10")
	sprints := []models.Sprint{
		{ID: "sn-0001", EndDate: day("2026-03-06")},
		{ID: "sn-0002", EndDate: day("2026-03-20")},
	}
	history := []VelocityPoint{
		{SprintID: "sn-0001"},
		{SprintID: "sn-0002"},
	}
	ended := SprintsEndedBy(history, sprints, now)
	if len(ended) != 1 || ended[0].SprintID != "sn-0001" {
		t.Fatalf("expected only ended sprint, got %+v", ended)
	}
}
