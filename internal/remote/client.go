package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/autofixer/workbench/internal/domain/catalog"
)

// Client wraps the persistence API. Every response is carried in a
// {success, data | error} envelope; any response whose envelope is not
// success=true is a failure regardless of HTTP status.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a store client for the given API base URL
// (e.g. http://127.0.0.1:5000/api).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:5000/api"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthInfo is the liveness payload.
type HealthInfo struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Health probes the liveness endpoint.
func (c *Client) Health(ctx context.Context) (HealthInfo, error) {
	var out HealthInfo
	err := c.doJSON(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// ListProjects fetches all project metadata.
func (c *Client) ListProjects(ctx context.Context) ([]catalog.Project, error) {
	var out struct {
		Projects []catalog.Project `json:"projects"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// CreateProject creates a project from a template.
func (c *Client) CreateProject(ctx context.Context, name string, template catalog.Template) (*catalog.Project, error) {
	body := map[string]any{"name": name, "template": string(template)}
	var out struct {
		Project catalog.Project `json:"project"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/projects", body, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

// GetProject fetches full project detail (file summaries plus folder list).
func (c *Client) GetProject(ctx context.Context, id string) (*catalog.Project, error) {
	var out struct {
		Project catalog.Project `json:"project"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

// DeleteProject deletes a project and everything in it.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil)
}

// ReadFile fetches the full content of one file.
func (c *Client) ReadFile(ctx context.Context, projectID, path string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	requestPath := "/projects/" + url.PathEscape(projectID) + "/files/" + escapeFilePath(path)
	if err := c.doJSON(ctx, http.MethodGet, requestPath, nil, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// WriteFile replaces the full content of one file.
func (c *Client) WriteFile(ctx context.Context, projectID, path, content string) error {
	requestPath := "/projects/" + url.PathEscape(projectID) + "/files/" + escapeFilePath(path)
	return c.doJSON(ctx, http.MethodPut, requestPath, map[string]any{"content": content}, nil)
}

// CreateFile creates a new file and returns its summary.
func (c *Client) CreateFile(ctx context.Context, projectID, name, path, content string) (*catalog.File, error) {
	body := map[string]any{"name": name, "path": path, "content": content}
	var out struct {
		File catalog.File `json:"file"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/files", body, &out); err != nil {
		return nil, err
	}
	return &out.File, nil
}

// CreateFolder creates a folder in a project.
func (c *Client) CreateFolder(ctx context.Context, projectID, name string) error {
	body := map[string]any{"name": name}
	return c.doJSON(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/folders", body, nil)
}

// RunProject asks the server to compile and run the project.
func (c *Client) RunProject(ctx context.Context, projectID string) (string, error) {
	var out struct {
		Output string `json:"output"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/run", struct{}{}, &out); err != nil {
		return "", err
	}
	return out.Output, nil
}

// IntelOp names a code-intelligence capability.
type IntelOp string

const (
	IntelDetectErrors IntelOp = "detect-errors"
	IntelSuggestions  IntelOp = "suggestions"
	IntelGenerateCode IntelOp = "generate-code"
	IntelReviewCode   IntelOp = "review-code"
	IntelFixCode      IntelOp = "fix-code"
)

// Analyze passes code text to a code-intelligence endpoint and returns the
// structured result verbatim. The engine does not interpret the payload.
func (c *Client) Analyze(ctx context.Context, op IntelOp, code string) (json.RawMessage, error) {
	payload, err := c.do(ctx, http.MethodPost, "/"+string(op), map[string]any{"code": code})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) doJSON(ctx context.Context, method, requestPath string, body, out any) error {
	payload, err := c.do(ctx, method, requestPath, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &ServerError{Status: http.StatusOK, Message: "malformed response payload"}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, requestPath string, body any) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Correlation-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	payload, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, &TransportError{Err: readErr}
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &ServerError{Status: resp.StatusCode, Message: "malformed response envelope"}
	}
	if !env.Success {
		return nil, &ServerError{Status: resp.StatusCode, Message: env.Error}
	}
	return payload, nil
}

// escapeFilePath escapes each segment of a /-separated file path while
// keeping the separators, so nested paths survive routing.
func escapeFilePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
