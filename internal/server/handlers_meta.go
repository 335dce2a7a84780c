package server

import (
	"net/http"

	"spry/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	version, err := s.store.SchemaVersion()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	counts, err := s.store.CountTasksByStatus(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	taskCounts := make(map[string]int, len(counts))
	total := 0
	for status, count := range counts {
		taskCounts[string(status)] = count
		total += count
	}

	s.writeJSON(w, http.StatusOK, api.InfoResponse{
		ProjectPrefix: s.projectPrefix,
		SchemaVersion: version,
		TaskCounts:    taskCounts,
		TotalTasks:    total,
	})
}
