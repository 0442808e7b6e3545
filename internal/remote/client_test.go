package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autofixer/workbench/internal/domain/catalog"
	"github.com/autofixer/workbench/internal/remote"
)

func TestClient_ListProjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/projects", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Correlation-Id"))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"projects": []map[string]any{
				{"id": "1", "name": "demo", "template": "basic"},
			},
		})
	}))
	defer server.Close()

	client := remote.NewClient(server.URL+"/api", nil)
	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "demo", projects[0].Name)
	require.Equal(t, catalog.TemplateBasic, projects[0].Template)
}

func TestClient_EnvelopeFailureIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// success=false with a 200 status must still be treated as failure.
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "boom"})
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, nil)
	_, err := client.ListProjects(context.Background())
	require.ErrorIs(t, err, remote.ErrRejected)
	require.NotErrorIs(t, err, remote.ErrNotFound)
	require.Contains(t, err.Error(), "boom")
}

func TestClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "File not found"})
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, nil)
	_, err := client.ReadFile(context.Background(), "1", "src/Main.java")
	require.ErrorIs(t, err, remote.ErrNotFound)
	require.ErrorIs(t, err, remote.ErrRejected)
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := remote.NewClient(server.URL, nil)
	_, err := client.ListProjects(context.Background())
	require.ErrorIs(t, err, remote.ErrUnavailable)
}

func TestClient_WriteFileEscapesPathSegments(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		var body struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "class Main {}", body.Content)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, nil)
	err := client.WriteFile(context.Background(), "p1", "src/My Class.java", "class Main {}")
	require.NoError(t, err)
	require.Equal(t, "/projects/p1/files/src/My%20Class.java", gotPath)
}

func TestClient_CreateProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "demo", body["name"])
		require.Equal(t, "maven", body["template"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"project": map[string]any{"id": "42", "name": "demo", "template": "maven"},
		})
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, nil)
	proj, err := client.CreateProject(context.Background(), "demo", catalog.TemplateMaven)
	require.NoError(t, err)
	require.Equal(t, "42", proj.ID)
}

func TestClient_AnalyzePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/detect-errors", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "class A {}", body["code"])
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"errors":  []map[string]any{{"line": 3, "message": "missing semicolon"}},
		})
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, nil)
	result, err := client.Analyze(context.Background(), remote.IntelDetectErrors, "class A {}")
	require.NoError(t, err)
	require.Contains(t, string(result), "missing semicolon")
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"message":   "backend is running",
			"timestamp": "2026-08-27T10:00:00",
		})
	}))
	defer server.Close()

	client := remote.NewClient(server.URL+"/api", nil)
	info, err := client.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "backend is running", info.Message)
}
