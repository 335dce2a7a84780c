package server

import (
	"net/http"
	"strings"

	"spry/internal/api"
)

func (s *Server) handleCaptureSnapshot(w http.ResponseWriter, r *http.Request) {
	// An empty body means "capture today".
	var req api.SnapshotCaptureRequest
	if r.ContentLength != 0 {
		if !s.decodeJSONReq(w, r, &req) {
			return
		}
	}

	resp, err := s.snapshots.Capture(r.Context(), strings.TrimSpace(req.Day))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.snapshots.List(r.Context(), strings.TrimSpace(query.Get("from")), strings.TrimSpace(query.Get("to")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if resp == nil {
		resp = []api.SnapshotResponse{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	window, err := dashboardWindow(strings.TrimSpace(r.URL.Query().Get("window")))
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	resp, err := s.analytics.Dashboard(r.Context(), window)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlanImport(w http.ResponseWriter, r *http.Request) {
	var req api.PlanImportRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.importer.Import(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
