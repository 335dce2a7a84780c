package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"spry/internal/api"
	"spry/internal/auth"
	"spry/internal/store"
)

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.UserCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	username, err := auth.NormalizeUsername(req.Username)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, internalError(err))
		return
	}

	user, err := s.store.CreateUser(r.Context(), username, hash, "admin", time.Now().UTC())
	if err != nil {
		if isUniqueConstraint(err) {
			s.writeErrorReq(w, r, http.StatusConflict, conflictCode(fmt.Errorf("username already exists"), ErrCodeIDExists))
			return
		}
		s.writeStoreError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, userResponse(*user))
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	resp := make([]api.UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, userResponse(user))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminDisableUser(w http.ResponseWriter, r *http.Request) {
	username, err := auth.NormalizeUsername(strings.TrimSpace(r.PathValue("username")))
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
		return
	}
	var req api.UserDisableRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	if err := s.store.SetUserDisabled(r.Context(), username, req.Disabled, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("user not found: %s", username), ErrCodeUserNotFound))
			return
		}
		s.writeStoreError(w, r, err)
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if user == nil {
		s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("user not found: %s", username), ErrCodeUserNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, userResponse(*user))
}

func userResponse(user store.User) api.UserResponse {
	return api.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Disabled:  user.Disabled,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
