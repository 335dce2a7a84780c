package board

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundError reports a reference to an entity the store does not
// hold. Validation happens before any network call.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InvalidStatusError reports a status value outside the workflow.
type InvalidStatusError struct {
	TaskID string
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q for task %s", e.Status, e.TaskID)
}

// PartialAssignmentError reports a sprint assignment that landed some
// of a story's tasks but not all of them. Updated lists the task ids
// written successfully; Failed maps each unwritten task id to its
// cause. Succeeded writes are not rolled back; the caller decides
// whether to retry the failed subset or revert.
type PartialAssignmentError struct {
	StoryID  string
	SprintID string
	Updated  []string
	Failed   map[string]error
}

func (e *PartialAssignmentError) Error() string {
	ids := e.FailedIDs()
	return fmt.Sprintf("sprint assignment for story %s incomplete: %d updated, %d failed (%s)",
		e.StoryID, len(e.Updated), len(ids), strings.Join(ids, ", "))
}

// FailedIDs returns the failed task ids in stable order.
func (e *PartialAssignmentError) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CapacityWarning flags a soft limit exceeded by an otherwise
// successful operation. It accompanies results and is never returned
// as an error.
type CapacityWarning struct {
	Column string
	Limit  int
	Count  int
}

func (w CapacityWarning) String() string {
	return fmt.Sprintf("%s holds %d tasks, limit %d", w.Column, w.Count, w.Limit)
}
