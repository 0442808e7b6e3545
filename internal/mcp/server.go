package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/autofixer/workbench/internal/domain/autosave"
	"github.com/autofixer/workbench/internal/domain/catalog"
	"github.com/autofixer/workbench/internal/domain/document"
	"github.com/autofixer/workbench/internal/domain/workspace"
)

// CatalogService defines catalog operations needed by MCP.
type CatalogService interface {
	List(ctx context.Context) ([]catalog.Summary, error)
	Create(ctx context.Context, name, template string) (*catalog.Project, error)
	Delete(ctx context.Context, id string) error
}

// WorkspaceService defines editing-session operations needed by MCP.
type WorkspaceService interface {
	Open(ctx context.Context, projectID string) error
	Close()
	CreateFile(ctx context.Context, name string) (*catalog.File, error)
	CreateFolder(ctx context.Context, name string) error
	OpenDocument(ctx context.Context, path string) error
	CloseDocument(path string) error
	EditActive(content string)
	SaveNow(ctx context.Context) error
	Run(ctx context.Context) (string, error)
	State() workspace.State
	Project() (catalog.Project, bool)
	Documents() []document.Info
	ActivePath() string
	ActiveDocument() (document.Document, bool)
}

// IntelService defines code-intelligence operations needed by MCP.
type IntelService interface {
	DetectErrors(ctx context.Context, code string) (json.RawMessage, error)
	Suggestions(ctx context.Context, code string) (json.RawMessage, error)
	GenerateCode(ctx context.Context, prompt string) (json.RawMessage, error)
	ReviewCode(ctx context.Context, code string) (json.RawMessage, error)
	FixCode(ctx context.Context, code string) (json.RawMessage, error)
}

// SaveStatusReporter exposes the autosave indicator.
type SaveStatusReporter interface {
	Status() (autosave.Status, string)
}

// ConnectivityReporter exposes backend reachability.
type ConnectivityReporter interface {
	Connected() bool
}

// Services contains all domain services needed by MCP.
type Services struct {
	Catalog      CatalogService
	Workspace    WorkspaceService
	Intel        IntelService
	SaveStatus   SaveStatusReporter
	Connectivity ConnectivityReporter
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "workbench",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Logger: cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
