package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"spry/internal/config"
	"spry/internal/store"
)

const (
	apiTokenEnvKey    = "SPRY_API_TOKEN"
	adminTokenEnvKey  = "SPRY_ADMIN_TOKEN"
	allowRemoteEnvKey = "SPRY_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps HTTP handlers for the spry API.
type Server struct {
	addr          string
	store         store.ProjectStore
	projectPrefix string
	cfg           *config.Config

	tasks     *TaskService
	stories   *StoryService
	sprints   *SprintService
	epics     *EpicService
	snapshots *SnapshotService
	analytics *AnalyticsService
	importer  *PlanImporter

	logger     *slog.Logger
	apiToken   string
	adminToken string
	sessions   *sessionRegistry
}

// New creates a new server instance.
func New(addr string, projectStore store.ProjectStore, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	s := &Server{
		addr:          addr,
		store:         projectStore,
		projectPrefix: cfg.ProjectPrefix,
		cfg:           cfg,
		logger:        logger,
		apiToken:      strings.TrimSpace(os.Getenv(apiTokenEnvKey)),
		adminToken:    strings.TrimSpace(os.Getenv(adminTokenEnvKey)),
		sessions:      newSessionRegistry(),
	}
	s.tasks = NewTaskService(projectStore, cfg)
	s.stories = NewStoryService(projectStore)
	s.sprints = NewSprintService(projectStore, cfg)
	s.epics = NewEpicService(projectStore)
	s.snapshots = NewSnapshotService(projectStore)
	s.analytics = NewAnalyticsService(projectStore)
	s.importer = NewPlanImporter(projectStore, cfg)
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
