package api

import "spry/internal/models"

// SnapshotCaptureRequest is the payload for POST /v1/snapshots. An
// empty day means "today" in the server's clock.
type SnapshotCaptureRequest struct {
	Day string `json:"day,omitempty"`
}

// SnapshotResponse wraps a captured snapshot.
type SnapshotResponse struct {
	models.Snapshot
	Replaced bool `json:"replaced,omitempty"`
}
