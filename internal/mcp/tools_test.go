package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/autofixer/workbench/internal/domain/autosave"
	"github.com/autofixer/workbench/internal/domain/catalog"
	"github.com/autofixer/workbench/internal/domain/document"
	"github.com/autofixer/workbench/internal/domain/workspace"
	"github.com/autofixer/workbench/internal/remote"
)

type catalogStub struct {
	listFn   func(context.Context) ([]catalog.Summary, error)
	createFn func(context.Context, string, string) (*catalog.Project, error)
	deleteFn func(context.Context, string) error
}

func (c catalogStub) List(ctx context.Context) ([]catalog.Summary, error) { return c.listFn(ctx) }
func (c catalogStub) Create(ctx context.Context, name, template string) (*catalog.Project, error) {
	return c.createFn(ctx, name, template)
}
func (c catalogStub) Delete(ctx context.Context, id string) error { return c.deleteFn(ctx, id) }

type workspaceStub struct {
	state      workspace.State
	project    *catalog.Project
	docs       []document.Info
	activePath string
	activeDoc  *document.Document
	edits      []string
	runFn      func(context.Context) (string, error)
	openFn     func(context.Context, string) error
}

func (w *workspaceStub) Open(ctx context.Context, projectID string) error {
	if w.openFn != nil {
		return w.openFn(ctx, projectID)
	}
	return nil
}
func (w *workspaceStub) Close() { w.state = workspace.StateClosed }
func (w *workspaceStub) CreateFile(context.Context, string) (*catalog.File, error) {
	return nil, workspace.ErrNotOpen
}
func (w *workspaceStub) CreateFolder(context.Context, string) error { return workspace.ErrNotOpen }
func (w *workspaceStub) OpenDocument(context.Context, string) error { return nil }
func (w *workspaceStub) CloseDocument(string) error                 { return nil }
func (w *workspaceStub) EditActive(content string)                  { w.edits = append(w.edits, content) }
func (w *workspaceStub) SaveNow(context.Context) error              { return nil }
func (w *workspaceStub) Run(ctx context.Context) (string, error) {
	if w.runFn != nil {
		return w.runFn(ctx)
	}
	return "", workspace.ErrNotOpen
}
func (w *workspaceStub) State() workspace.State { return w.state }
func (w *workspaceStub) Project() (catalog.Project, bool) {
	if w.project == nil {
		return catalog.Project{}, false
	}
	return *w.project, true
}
func (w *workspaceStub) Documents() []document.Info { return w.docs }
func (w *workspaceStub) ActivePath() string         { return w.activePath }
func (w *workspaceStub) ActiveDocument() (document.Document, bool) {
	if w.activeDoc == nil {
		return document.Document{}, false
	}
	return *w.activeDoc, true
}

type intelStub struct {
	fn func(context.Context, string) (json.RawMessage, error)
}

func (i intelStub) DetectErrors(ctx context.Context, code string) (json.RawMessage, error) {
	return i.fn(ctx, code)
}
func (i intelStub) Suggestions(ctx context.Context, code string) (json.RawMessage, error) {
	return i.fn(ctx, code)
}
func (i intelStub) GenerateCode(ctx context.Context, prompt string) (json.RawMessage, error) {
	return i.fn(ctx, prompt)
}
func (i intelStub) ReviewCode(ctx context.Context, code string) (json.RawMessage, error) {
	return i.fn(ctx, code)
}
func (i intelStub) FixCode(ctx context.Context, code string) (json.RawMessage, error) {
	return i.fn(ctx, code)
}

type saveStatusStub struct {
	status autosave.Status
	path   string
}

func (s saveStatusStub) Status() (autosave.Status, string) { return s.status, s.path }

type connectivityStub bool

func (c connectivityStub) Connected() bool { return bool(c) }

func callTool(t *testing.T, svc Services, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	server := NewServer(Config{Services: svc})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientSession.Close() })

	result, err := clientSession.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return result
}

func TestListProjectsTool(t *testing.T) {
	svc := Services{
		Catalog: catalogStub{listFn: func(context.Context) ([]catalog.Summary, error) {
			return []catalog.Summary{{ID: "p1", Name: "demo", Template: catalog.TemplateBasic, FileCount: 2}}, nil
		}},
		Workspace: &workspaceStub{state: workspace.StateClosed},
		Intel:     intelStub{},
	}

	result := callTool(t, svc, "list_projects", map[string]any{})
	require.False(t, result.IsError)

	data, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var parsed listProjectsResult
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed.Projects, 1)
	require.Equal(t, "p1", parsed.Projects[0].ID)
}

func TestCreateProjectToolRejectsBadTemplate(t *testing.T) {
	svc := Services{
		Catalog: catalogStub{createFn: func(_ context.Context, name, template string) (*catalog.Project, error) {
			_, ok := catalog.ParseTemplate(template)
			if !ok {
				return nil, catalog.ErrInvalidInput
			}
			return &catalog.Project{ID: "p1", Name: name}, nil
		}},
		Workspace: &workspaceStub{state: workspace.StateClosed},
		Intel:     intelStub{},
	}

	result := callTool(t, svc, "create_project", map[string]any{"name": "demo", "template": "gradle"})
	require.True(t, result.IsError)
}

func TestOpenProjectToolMapsNotFound(t *testing.T) {
	svc := Services{
		Catalog: catalogStub{},
		Workspace: &workspaceStub{openFn: func(context.Context, string) error {
			return &remote.ServerError{Status: 404, Message: "Project not found"}
		}},
		Intel: intelStub{},
	}

	result := callTool(t, svc, "open_project", map[string]any{"project_id": "missing"})
	require.True(t, result.IsError)
}

func TestEditActiveFileTool(t *testing.T) {
	ws := &workspaceStub{state: workspace.StateOpen}
	svc := Services{Catalog: catalogStub{}, Workspace: ws, Intel: intelStub{}}

	result := callTool(t, svc, "edit_active_file", map[string]any{"content": "class A {}"})
	require.False(t, result.IsError)
	require.Equal(t, []string{"class A {}"}, ws.edits)
}

func TestRunProjectTool(t *testing.T) {
	ws := &workspaceStub{
		state: workspace.StateOpen,
		runFn: func(context.Context) (string, error) { return "Hello, World!\n", nil },
	}
	svc := Services{Catalog: catalogStub{}, Workspace: ws, Intel: intelStub{}}

	result := callTool(t, svc, "run_project", map[string]any{})
	require.False(t, result.IsError)
}

func TestDetectErrorsTool(t *testing.T) {
	svc := Services{
		Catalog:   catalogStub{},
		Workspace: &workspaceStub{state: workspace.StateClosed},
		Intel: intelStub{fn: func(_ context.Context, code string) (json.RawMessage, error) {
			return json.RawMessage(`{"errors":[]}`), nil
		}},
	}

	result := callTool(t, svc, "detect_errors", map[string]any{"code": "class A {}"})
	require.False(t, result.IsError)
}

func TestBuildEditorStateClosed(t *testing.T) {
	svc := Services{
		Workspace:    &workspaceStub{state: workspace.StateClosed},
		SaveStatus:   saveStatusStub{status: autosave.StatusIdle},
		Connectivity: connectivityStub(false),
	}

	state := buildEditorState(svc)
	require.Equal(t, "closed", state.SessionState)
	require.False(t, state.Connected)
	require.Nil(t, state.Tree)
	require.Empty(t, state.Tabs)
}

func TestBuildEditorStateOpen(t *testing.T) {
	svc := Services{
		Workspace: &workspaceStub{
			state: workspace.StateOpen,
			project: &catalog.Project{
				ID: "p1", Name: "demo", Folders: []string{"src"},
				Files: []catalog.File{{Name: "Main.java", Path: "src/Main.java", Type: "java"}},
			},
			docs:       []document.Info{{Path: "src/Main.java", Name: "Main.java", Dirty: true}},
			activePath: "src/Main.java",
			activeDoc:  &document.Document{Path: "src/Main.java", Content: "class Main {}", Dirty: true},
		},
		SaveStatus:   saveStatusStub{status: autosave.StatusPending, path: "src/Main.java"},
		Connectivity: connectivityStub(true),
	}

	state := buildEditorState(svc)
	require.Equal(t, "open", state.SessionState)
	require.True(t, state.Connected)
	require.Equal(t, "pending", state.SaveStatus)
	require.NotNil(t, state.Tree)
	require.Len(t, state.Tabs, 1)
	require.True(t, state.Tabs[0].Dirty)
	require.Equal(t, []string{"demo", "src", "Main.java"}, state.Breadcrumb)
	require.Equal(t, "class Main {}", state.ActiveContent)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))

	apiErr := MapError(workspace.ErrNotOpen)
	require.NotNil(t, apiErr)
	require.Equal(t, "NO_PROJECT_OPEN", apiErr.Code)

	apiErr = MapError(&remote.ServerError{Status: 404, Message: "File not found"})
	require.Equal(t, "NOT_FOUND", apiErr.Code)

	apiErr = MapError(&remote.ServerError{Status: 400, Message: "name taken"})
	require.Equal(t, "REJECTED", apiErr.Code)

	apiErr = MapError(remote.ErrUnavailable)
	require.Equal(t, "BACKEND_UNAVAILABLE", apiErr.Code)

	apiErr = MapError(workspace.ErrStaleState)
	require.Equal(t, "STALE_STATE", apiErr.Code)
}
