package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Service maintains the local cache of project summaries and reconciles it
// against the remote store. The cache mutates only after the corresponding
// remote call confirms.
type Service struct {
	store  Store
	logger *slog.Logger

	mu       sync.Mutex
	projects []Project
	session  OpenSession
}

// NewService creates a new catalog service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// AttachSession registers the workspace session so project deletion can tear
// down an open workspace.
func (s *Service) AttachSession(session OpenSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// List fetches all projects and replaces the cache wholesale. On failure the
// previous cache is left intact; there is no partial merge.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()

	return summarize(projects), nil
}

// Create validates the name locally, creates the project remotely and appends
// it to the cache. An empty name never reaches the network.
func (s *Service) Create(ctx context.Context, name, template string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	tmpl, ok := ParseTemplate(template)
	if !ok {
		return nil, fmt.Errorf("unknown template %q: %w", template, ErrInvalidInput)
	}

	proj, err := s.store.CreateProject(ctx, name, tmpl)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.mu.Lock()
	s.projects = append(s.projects, *proj)
	s.mu.Unlock()

	s.logger.Info("project created", "id", proj.ID, "name", proj.Name, "template", proj.Template)
	return proj, nil
}

// Delete removes a project remotely, then from the cache. If the deleted
// project is open in the workspace, the session is torn down.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	s.mu.Lock()
	kept := s.projects[:0]
	for _, proj := range s.projects {
		if proj.ID != id {
			kept = append(kept, proj)
		}
	}
	s.projects = kept
	session := s.session
	s.mu.Unlock()

	if session != nil && session.ProjectID() == id {
		s.logger.Info("closing workspace for deleted project", "id", id)
		session.Close()
	}
	return nil
}

// Cached returns the current cache without touching the network.
func (s *Service) Cached() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.projects)
}

func summarize(projects []Project) []Summary {
	summaries := make([]Summary, 0, len(projects))
	for i := range projects {
		summaries = append(summaries, projects[i].Summary())
	}
	return summaries
}
