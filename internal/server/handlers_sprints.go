package server

import (
	"net/http"

	"spry/internal/api"
)

func (s *Server) handleCreateSprint(w http.ResponseWriter, r *http.Request) {
	var req api.SprintCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.sprints.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSprint(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "sn")
	if !ok {
		return
	}
	resp, err := s.sprints.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateSprint(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "sn")
	if !ok {
		return
	}
	var req api.SprintUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.sprints.Update(r.Context(), id, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSprints(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sprints.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if resp == nil {
		resp = []api.SprintResponse{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSprintTotals(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "sn")
	if !ok {
		return
	}
	resp, err := s.sprints.Totals(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
