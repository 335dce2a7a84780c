package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "SPRY_HTTP_TIMEOUT"
	apiTokenEnvKey     = "SPRY_API_TOKEN"
	adminTokenEnvKey   = "SPRY_ADMIN_TOKEN"
)

// Client is a simple HTTP client for the spry API.
type Client struct {
	baseURL    string
	http       *http.Client
	authToken  string
	adminToken string
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: httpTimeoutFromEnv()},
		authToken:  strings.TrimSpace(os.Getenv(apiTokenEnvKey)),
		adminToken: strings.TrimSpace(os.Getenv(adminTokenEnvKey)),
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) GetInfo(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	err := c.do(ctx, http.MethodGet, "/v1/info", nil, nil, &resp)
	return resp, err
}

func (c *Client) CreateTask(ctx context.Context, req TaskCreateRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodPost, "/v1/tasks", nil, req, &resp)
	return resp, err
}

func (c *Client) GetTask(ctx context.Context, id string) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, req TaskUpdateRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), nil, req, &resp)
	return resp, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tasks/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, query url.Values) ([]TaskResponse, error) {
	var resp []TaskResponse
	err := c.do(ctx, http.MethodGet, "/v1/tasks", query, nil, &resp)
	return resp, err
}

// MoveTask transitions a task's status server-side.
func (c *Client) MoveTask(ctx context.Context, id string, req TaskMoveRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(id)+"/move", nil, req, &resp)
	return resp, err
}

func (c *Client) CreateStory(ctx context.Context, req StoryCreateRequest) (StoryResponse, error) {
	var resp StoryResponse
	err := c.do(ctx, http.MethodPost, "/v1/stories", nil, req, &resp)
	return resp, err
}

func (c *Client) GetStory(ctx context.Context, id string) (StoryResponse, error) {
	var resp StoryResponse
	err := c.do(ctx, http.MethodGet, "/v1/stories/"+url.PathEscape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) UpdateStory(ctx context.Context, id string, req StoryUpdateRequest) (StoryResponse, error) {
	var resp StoryResponse
	err := c.do(ctx, http.MethodPatch, "/v1/stories/"+url.PathEscape(id), nil, req, &resp)
	return resp, err
}

func (c *Client) DeleteStory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/stories/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListStories(ctx context.Context, query url.Values) ([]StoryResponse, error) {
	var resp []StoryResponse
	err := c.do(ctx, http.MethodGet, "/v1/stories", query, nil, &resp)
	return resp, err
}

func (c *Client) ListStoryTasks(ctx context.Context, id string) ([]TaskResponse, error) {
	var resp []TaskResponse
	err := c.do(ctx, http.MethodGet, "/v1/stories/"+url.PathEscape(id)+"/tasks", nil, nil, &resp)
	return resp, err
}

// AssignStory moves every task of a story into a sprint. The response
// reports partial outcomes; callers must check Failed.
func (c *Client) AssignStory(ctx context.Context, id string, req AssignStoryRequest) (AssignStoryResponse, error) {
	var resp AssignStoryResponse
	err := c.do(ctx, http.MethodPost, "/v1/stories/"+url.PathEscape(id)+"/assign", nil, req, &resp)
	return resp, err
}

func (c *Client) CreateSprint(ctx context.Context, req SprintCreateRequest) (SprintResponse, error) {
	var resp SprintResponse
	err := c.do(ctx, http.MethodPost, "/v1/sprints", nil, req, &resp)
	return resp, err
}

func (c *Client) GetSprint(ctx context.Context, id string) (SprintResponse, error) {
	var resp SprintResponse
	err := c.do(ctx, http.MethodGet, "/v1/sprints/"+url.PathEscape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) UpdateSprint(ctx context.Context, id string, req SprintUpdateRequest) (SprintResponse, error) {
	var resp SprintResponse
	err := c.do(ctx, http.MethodPatch, "/v1/sprints/"+url.PathEscape(id), nil, req, &resp)
	return resp, err
}

func (c *Client) ListSprints(ctx context.Context, query url.Values) ([]SprintResponse, error) {
	var resp []SprintResponse
	err := c.do(ctx, http.MethodGet, "/v1/sprints", query, nil, &resp)
	return resp, err
}

func (c *Client) SprintTotals(ctx context.Context, id string) (SprintTotalsResponse, error) {
	var resp SprintTotalsResponse
	err := c.do(ctx, http.MethodGet, "/v1/sprints/"+url.PathEscape(id)+"/totals", nil, nil, &resp)
	return resp, err
}

func (c *Client) CreateEpic(ctx context.Context, req EpicCreateRequest) (EpicResponse, error) {
	var resp EpicResponse
	err := c.do(ctx, http.MethodPost, "/v1/epics", nil, req, &resp)
	return resp, err
}

func (c *Client) GetEpic(ctx context.Context, id string) (EpicResponse, error) {
	var resp EpicResponse
	err := c.do(ctx, http.MethodGet, "/v1/epics/"+url.PathEscape(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) ListEpics(ctx context.Context) ([]EpicResponse, error) {
	var resp []EpicResponse
	err := c.do(ctx, http.MethodGet, "/v1/epics", nil, nil, &resp)
	return resp, err
}

func (c *Client) CaptureSnapshot(ctx context.Context, req SnapshotCaptureRequest) (SnapshotResponse, error) {
	var resp SnapshotResponse
	err := c.do(ctx, http.MethodPost, "/v1/snapshots", nil, req, &resp)
	return resp, err
}

func (c *Client) ListSnapshots(ctx context.Context, query url.Values) ([]SnapshotResponse, error) {
	var resp []SnapshotResponse
	err := c.do(ctx, http.MethodGet, "/v1/snapshots", query, nil, &resp)
	return resp, err
}

func (c *Client) Dashboard(ctx context.Context, query url.Values) (DashboardResponse, error) {
	var resp DashboardResponse
	err := c.do(ctx, http.MethodGet, "/v1/analytics/dashboard", query, nil, &resp)
	return resp, err
}

// ImportPlan sends a parsed plan for import.
func (c *Client) ImportPlan(ctx context.Context, req PlanImportRequest) (PlanImportResponse, error) {
	var resp PlanImportResponse
	err := c.do(ctx, http.MethodPost, "/v1/plans/import", nil, req, &resp)
	return resp, err
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, req, &resp)
	return resp, err
}

func (c *Client) AdminCreateUser(ctx context.Context, req UserCreateRequest) (UserResponse, error) {
	var resp UserResponse
	err := c.doAdmin(ctx, http.MethodPost, "/v1/admin/users", req, &resp)
	return resp, err
}

func (c *Client) AdminListUsers(ctx context.Context) ([]UserResponse, error) {
	var resp []UserResponse
	err := c.doAdmin(ctx, http.MethodGet, "/v1/admin/users", nil, &resp)
	return resp, err
}

func (c *Client) AdminDisableUser(ctx context.Context, username string, req UserDisableRequest) (UserResponse, error) {
	var resp UserResponse
	err := c.doAdmin(ctx, http.MethodPatch, "/v1/admin/users/"+url.PathEscape(username), req, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	return c.send(ctx, method, path, query, body, out, false)
}

func (c *Client) doAdmin(ctx context.Context, method, path string, body any, out any) error {
	return c.send(ctx, method, path, nil, body, out, true)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, out any, admin bool) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeader(req)
	if admin {
		c.setAdminHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError turns an error response into an *APIError so callers
// can branch on status and code.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		apiErr.Message = errResp.Error
		apiErr.Code = errResp.Code
		apiErr.ErrorCode = errResp.ErrorCode
	} else {
		apiErr.Message = resp.Status
	}
	return apiErr
}

func (c *Client) setAuthHeader(req *http.Request) {
	if c.authToken == "" || req == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
}

func (c *Client) setAdminHeader(req *http.Request) {
	if c.adminToken == "" || req == nil {
		return
	}
	req.Header.Set("X-Admin-Token", c.adminToken)
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
