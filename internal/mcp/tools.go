package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/autofixer/workbench/internal/domain/catalog"
	"github.com/autofixer/workbench/internal/view"
)

type emptyArgs struct{}

type createProjectArgs struct {
	Name     string `json:"name"`
	Template string `json:"template,omitempty"`
}

type projectIDArgs struct {
	ProjectID string `json:"project_id"`
}

type nameArgs struct {
	Name string `json:"name"`
}

type pathArgs struct {
	Path string `json:"path"`
}

type contentArgs struct {
	Content string `json:"content"`
}

type codeArgs struct {
	Code string `json:"code"`
}

type promptArgs struct {
	Prompt string `json:"prompt"`
}

type listProjectsResult struct {
	Projects []catalog.Summary `json:"projects"`
}

type projectResult struct {
	Project catalog.Project `json:"project"`
}

type fileResult struct {
	File catalog.File `json:"file"`
}

type okResult struct {
	OK bool `json:"ok"`
}

type runResult struct {
	Output string `json:"output"`
}

type analysisResult struct {
	Result any `json:"result"`
}

type editorStateResult struct {
	SessionState  string          `json:"session_state"`
	Connected     bool            `json:"connected"`
	SaveStatus    string          `json:"save_status,omitempty"`
	SavePath      string          `json:"save_path,omitempty"`
	Tree          *view.TreeModel `json:"tree,omitempty"`
	Tabs          []view.Tab      `json:"tabs"`
	Breadcrumb    []string        `json:"breadcrumb,omitempty"`
	ActivePath    string          `json:"active_path,omitempty"`
	ActiveContent string          `json:"active_content,omitempty"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects on the backend",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyArgs) (*sdkmcp.CallToolResult, listProjectsResult, error) {
		summaries, err := svc.Catalog.List(ctx)
		if err != nil {
			return nil, listProjectsResult{}, toolError(err)
		}
		return nil, listProjectsResult{Projects: summaries}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new project from a template (empty, basic or maven)",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args createProjectArgs) (*sdkmcp.CallToolResult, projectResult, error) {
		proj, err := svc.Catalog.Create(ctx, args.Name, args.Template)
		if err != nil {
			return nil, projectResult{}, toolError(err)
		}
		return nil, projectResult{Project: *proj}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project; closes the workspace if that project is open",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args projectIDArgs) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Catalog.Delete(ctx, args.ProjectID); err != nil {
			return nil, okResult{}, toolError(err)
		}
		return nil, okResult{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_project",
		Description: "Open a project in the workspace, replacing any previously open one",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args projectIDArgs) (*sdkmcp.CallToolResult, projectResult, error) {
		if err := svc.Workspace.Open(ctx, args.ProjectID); err != nil {
			return nil, projectResult{}, toolError(err)
		}
		proj, _ := svc.Workspace.Project()
		return nil, projectResult{Project: proj}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_project",
		Description: "Close the open workspace, discarding unsaved edits",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyArgs) (*sdkmcp.CallToolResult, okResult, error) {
		svc.Workspace.Close()
		return nil, okResult{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_file",
		Description: "Open a project file as the active document",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args pathArgs) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Workspace.OpenDocument(ctx, args.Path); err != nil {
			return nil, okResult{}, toolError(err)
		}
		return nil, okResult{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_file",
		Description: "Close an open document; focus moves to the first remaining tab",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, args pathArgs) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Workspace.CloseDocument(args.Path); err != nil {
			return nil, okResult{}, toolError(err)
		}
		return nil, okResult{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "edit_active_file",
		Description: "Replace the active document's content and schedule a debounced save",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, args contentArgs) (*sdkmcp.CallToolResult, okResult, error) {
		svc.Workspace.EditActive(args.Content)
		return nil, okResult{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_now",
		Description: "Save the active document immediately, cancelling any pending autosave",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyArgs) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Workspace.SaveNow(ctx); err != nil {
			return nil, okResult{}, toolError(err)
		}
		return nil, okResult{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_file",
		Description: "Create a file under src/ in the open project and focus it",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args nameArgs) (*sdkmcp.CallToolResult, fileResult, error) {
		file, err := svc.Workspace.CreateFile(ctx, args.Name)
		if err != nil {
			return nil, fileResult{}, toolError(err)
		}
		return nil, fileResult{File: *file}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_folder",
		Description: "Create a folder in the open project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args nameArgs) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Workspace.CreateFolder(ctx, args.Name); err != nil {
			return nil, okResult{}, toolError(err)
		}
		return nil, okResult{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_project",
		Description: "Compile and run the open project on the backend",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyArgs) (*sdkmcp.CallToolResult, runResult, error) {
		output, err := svc.Workspace.Run(ctx)
		if err != nil {
			return nil, runResult{}, toolError(err)
		}
		return nil, runResult{Output: output}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "editor_state",
		Description: "Current editor state: session, tree, tabs, breadcrumb, save and connectivity status",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyArgs) (*sdkmcp.CallToolResult, editorStateResult, error) {
		return nil, buildEditorState(svc), nil
	})

	registerIntelTools(server, svc.Intel)
}

func registerIntelTools(server *sdkmcp.Server, intelSvc IntelService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "detect_errors",
		Description: "Detect problems in the given code",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args codeArgs) (*sdkmcp.CallToolResult, analysisResult, error) {
		result, err := intelSvc.DetectErrors(ctx, args.Code)
		if err != nil {
			return nil, analysisResult{}, toolError(err)
		}
		return nil, analysisResult{Result: result}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_suggestions",
		Description: "Get improvement suggestions for the given code",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args codeArgs) (*sdkmcp.CallToolResult, analysisResult, error) {
		result, err := intelSvc.Suggestions(ctx, args.Code)
		if err != nil {
			return nil, analysisResult{}, toolError(err)
		}
		return nil, analysisResult{Result: result}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_code",
		Description: "Generate code from a natural-language prompt",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args promptArgs) (*sdkmcp.CallToolResult, analysisResult, error) {
		result, err := intelSvc.GenerateCode(ctx, args.Prompt)
		if err != nil {
			return nil, analysisResult{}, toolError(err)
		}
		return nil, analysisResult{Result: result}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "review_code",
		Description: "Review the given code",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args codeArgs) (*sdkmcp.CallToolResult, analysisResult, error) {
		result, err := intelSvc.ReviewCode(ctx, args.Code)
		if err != nil {
			return nil, analysisResult{}, toolError(err)
		}
		return nil, analysisResult{Result: result}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "fix_code",
		Description: "Return a corrected version of the given code",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args codeArgs) (*sdkmcp.CallToolResult, analysisResult, error) {
		result, err := intelSvc.FixCode(ctx, args.Code)
		if err != nil {
			return nil, analysisResult{}, toolError(err)
		}
		return nil, analysisResult{Result: result}, nil
	})
}

func buildEditorState(svc Services) editorStateResult {
	result := editorStateResult{
		SessionState: string(svc.Workspace.State()),
		Tabs:         []view.Tab{},
	}
	if svc.Connectivity != nil {
		result.Connected = svc.Connectivity.Connected()
	}
	if svc.SaveStatus != nil {
		status, path := svc.SaveStatus.Status()
		result.SaveStatus = string(status)
		result.SavePath = path
	}

	proj, ok := svc.Workspace.Project()
	if !ok {
		return result
	}
	activePath := svc.Workspace.ActivePath()
	tree := view.BuildTree(proj, activePath)
	result.Tree = &tree
	result.Tabs = view.BuildTabs(svc.Workspace.Documents(), activePath)
	result.Breadcrumb = view.BuildBreadcrumb(proj.Name, activePath)
	result.ActivePath = activePath
	if doc, ok := svc.Workspace.ActiveDocument(); ok {
		result.ActiveContent = doc.Content
	}
	return result
}
