package server

import (
	"net/http"
	"strings"

	"spry/internal/api"
)

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	var req api.StoryCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.stories.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "st")
	if !ok {
		return
	}
	resp, err := s.stories.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateStory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "st")
	if !ok {
		return
	}
	var req api.StoryUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.stories.Update(r.Context(), id, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "st")
	if !ok {
		return
	}
	if err := s.stories.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	epicID := strings.TrimSpace(r.URL.Query().Get("epic_id"))
	resp, err := s.stories.List(r.Context(), epicID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if resp == nil {
		resp = []api.StoryResponse{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListStoryTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "st")
	if !ok {
		return
	}
	resp, err := s.stories.Tasks(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if resp == nil {
		resp = []api.TaskResponse{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignStory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "st")
	if !ok {
		return
	}
	var req api.AssignStoryRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	resp, err := s.stories.Assign(r.Context(), id, strings.TrimSpace(req.SprintID))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// A partial outcome still carries per-task detail; 207 tells the
	// client to inspect the failed subset.
	status := http.StatusOK
	if len(resp.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	s.writeJSON(w, status, resp)
}
