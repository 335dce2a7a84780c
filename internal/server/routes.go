package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Tasks.
	mux.HandleFunc("POST /v1/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /v1/tasks", s.handleListTasks)
	mux.HandleFunc("GET /v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /v1/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /v1/tasks/{id}/move", s.handleMoveTask)

	// Stories.
	mux.HandleFunc("POST /v1/stories", s.handleCreateStory)
	mux.HandleFunc("GET /v1/stories", s.handleListStories)
	mux.HandleFunc("GET /v1/stories/{id}", s.handleGetStory)
	mux.HandleFunc("PATCH /v1/stories/{id}", s.handleUpdateStory)
	mux.HandleFunc("DELETE /v1/stories/{id}", s.handleDeleteStory)
	mux.HandleFunc("GET /v1/stories/{id}/tasks", s.handleListStoryTasks)
	mux.HandleFunc("POST /v1/stories/{id}/assign", s.handleAssignStory)

	// Sprints.
	mux.HandleFunc("POST /v1/sprints", s.handleCreateSprint)
	mux.HandleFunc("GET /v1/sprints", s.handleListSprints)
	mux.HandleFunc("GET /v1/sprints/{id}", s.handleGetSprint)
	mux.HandleFunc("PATCH /v1/sprints/{id}", s.handleUpdateSprint)
	mux.HandleFunc("GET /v1/sprints/{id}/totals", s.handleSprintTotals)

	// Epics.
	mux.HandleFunc("POST /v1/epics", s.handleCreateEpic)
	mux.HandleFunc("GET /v1/epics", s.handleListEpics)
	mux.HandleFunc("GET /v1/epics/{id}", s.handleGetEpic)

	// Snapshots and analytics.
	mux.HandleFunc("POST /v1/snapshots", s.handleCaptureSnapshot)
	mux.HandleFunc("GET /v1/snapshots", s.handleListSnapshots)
	mux.HandleFunc("GET /v1/analytics/dashboard", s.handleDashboard)

	// Plan import.
	mux.HandleFunc("POST /v1/plans/import", s.handlePlanImport)

	// Auth and admin.
	mux.HandleFunc("POST /v1/auth/login", s.handleAuthLogin)
	mux.HandleFunc("POST /v1/admin/users", s.requireAdmin(s.handleAdminCreateUser))
	mux.HandleFunc("GET /v1/admin/users", s.requireAdmin(s.handleAdminListUsers))
	mux.HandleFunc("PATCH /v1/admin/users/{username}", s.requireAdmin(s.handleAdminDisableUser))

	return s.withRequestLogging(s.withAuth(mux))
}
