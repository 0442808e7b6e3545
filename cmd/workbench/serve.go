package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/autofixer/workbench/internal/config"
	"github.com/autofixer/workbench/internal/connectivity"
	"github.com/autofixer/workbench/internal/domain/autosave"
	"github.com/autofixer/workbench/internal/domain/catalog"
	"github.com/autofixer/workbench/internal/domain/intel"
	"github.com/autofixer/workbench/internal/domain/workspace"
	"github.com/autofixer/workbench/internal/mcp"
	"github.com/autofixer/workbench/internal/remote"
	"github.com/autofixer/workbench/internal/state"
	"github.com/autofixer/workbench/migrations"
)

func newServeCmd() *cobra.Command {
	var transportMode string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(transportMode)
		},
	}
	cmd.Flags().StringVar(&transportMode, "transport", "stdio", "transport mode: stdio or http")
	return cmd
}

func runServe(transportMode string) error {
	if transportMode != "stdio" && transportMode != "http" {
		return fmt.Errorf("unknown transport mode %q", transportMode)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if transportMode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.State.Path); err != nil {
		return fmt.Errorf("preparing state path: %w", err)
	}
	db, err := state.New(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer db.Close()
	if err := runEmbeddedMigrations(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	stateStore := state.NewStore(db)

	client := remote.NewClient(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout()})

	sess := workspace.NewSession(client, client, logger)
	coordinator := autosave.New(client, autosave.Options{
		Debounce: cfg.Autosave.Debounce(),
		Settle:   cfg.Autosave.Settle(),
		Logger:   logger,
		Notify: func(path string, status autosave.Status) {
			if status == autosave.StatusSaved {
				sess.MarkClean(path)
			}
		},
	})
	sess.SetSaver(coordinator)

	catalogSvc := catalog.NewService(client, logger)
	catalogSvc.AttachSession(sess)
	intelSvc := intel.NewService(client, logger)

	monitor := connectivity.NewMonitor(healthProber{client}, connectivity.Options{
		Interval: cfg.Health.Interval(),
		Logger:   logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)

	restoreSession(ctx, stateStore, sess, logger)
	defer persistSession(stateStore, sess, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Catalog:      catalogSvc,
			Workspace:    sess,
			Intel:        intelSvc,
			SaveStatus:   coordinator,
			Connectivity: monitor,
		},
		Logger: logger,
	})

	if transportMode == "stdio" {
		return runStdioMode(ctx, cancel, logger, mcpServer)
	}
	return runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
}

type healthProber struct {
	client *remote.Client
}

func (p healthProber) Health(ctx context.Context) (string, error) {
	info, err := p.client.Health(ctx)
	if err != nil {
		return "", err
	}
	return info.Message, nil
}

// restoreSession reopens the project and tabs persisted by the previous run.
// Best effort: a missing project or file just logs and moves on.
func restoreSession(ctx context.Context, store *state.Store, sess *workspace.Session, logger *slog.Logger) {
	snap, err := store.Load(ctx)
	if errors.Is(err, state.ErrNoState) {
		return
	}
	if err != nil {
		logger.Warn("could not load saved editor state", "error", err)
		return
	}

	if err := sess.Open(ctx, snap.ProjectID); err != nil {
		logger.Warn("could not restore project", "id", snap.ProjectID, "error", err)
		return
	}
	for _, path := range snap.OpenPaths {
		if err := sess.OpenDocument(ctx, path); err != nil {
			logger.Warn("could not restore tab", "path", path, "error", err)
		}
	}
	if snap.ActivePath != "" {
		if err := sess.OpenDocument(ctx, snap.ActivePath); err != nil {
			logger.Warn("could not restore focus", "path", snap.ActivePath, "error", err)
		}
	}
	logger.Info("editor state restored", "project", snap.ProjectID, "tabs", len(snap.OpenPaths))
}

func persistSession(store *state.Store, sess *workspace.Session, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if sess.State() != workspace.StateOpen {
		if err := store.Clear(ctx); err != nil {
			logger.Warn("could not clear saved editor state", "error", err)
		}
		return
	}

	docs := sess.Documents()
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		paths = append(paths, doc.Path)
	}
	err := store.Save(ctx, state.Snapshot{
		ProjectID:  sess.ProjectID(),
		OpenPaths:  paths,
		ActivePath: sess.ActivePath(),
		SavedAt:    time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("could not persist editor state", "error", err)
	}
}

func runStdioMode(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}

func runEmbeddedMigrations(db *state.DB) error {
	data, err := migrations.FS.ReadFile("001_initial_schema.up.sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
