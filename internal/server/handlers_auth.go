package server

import (
	"fmt"
	"net/http"
	"time"

	"spry/internal/api"
	"spry/internal/auth"
)

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	username, err := auth.NormalizeUsername(req.Username)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if user == nil || user.Disabled || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("invalid credentials")))
		return
	}

	token, err := s.sessions.issue(username, time.Now().UTC())
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, internalError(err))
		return
	}

	s.writeJSON(w, http.StatusOK, api.LoginResponse{Token: token, Username: username})
}
