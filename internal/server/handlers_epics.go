package server

import (
	"net/http"

	"spry/internal/api"
)

func (s *Server) handleCreateEpic(w http.ResponseWriter, r *http.Request) {
	var req api.EpicCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.epics.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetEpic(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "ep")
	if !ok {
		return
	}
	resp, err := s.epics.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEpics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.epics.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if resp == nil {
		resp = []api.EpicResponse{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}
