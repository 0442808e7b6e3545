package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/autofixer/workbench/internal/domain/catalog"
)

// CatalogStore is a mock for catalog.Store.
type CatalogStore struct {
	mock.Mock
}

func (m *CatalogStore) ListProjects(ctx context.Context) ([]catalog.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]catalog.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogStore) CreateProject(ctx context.Context, name string, template catalog.Template) (*catalog.Project, error) {
	args := m.Called(ctx, name, template)
	if proj, ok := args.Get(0).(*catalog.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogStore) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ProjectStore is a mock for workspace.ProjectStore.
type ProjectStore struct {
	mock.Mock
}

func (m *ProjectStore) GetProject(ctx context.Context, id string) (*catalog.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*catalog.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) CreateFile(ctx context.Context, projectID, name, path, content string) (*catalog.File, error) {
	args := m.Called(ctx, projectID, name, path, content)
	if file, ok := args.Get(0).(*catalog.File); ok {
		return file, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) CreateFolder(ctx context.Context, projectID, name string) error {
	args := m.Called(ctx, projectID, name)
	return args.Error(0)
}

func (m *ProjectStore) RunProject(ctx context.Context, projectID string) (string, error) {
	args := m.Called(ctx, projectID)
	return args.String(0), args.Error(1)
}

// FileStore is a mock for document.FileStore.
type FileStore struct {
	mock.Mock
}

func (m *FileStore) ReadFile(ctx context.Context, projectID, path string) (string, error) {
	args := m.Called(ctx, projectID, path)
	return args.String(0), args.Error(1)
}

// FileWriter is a mock for autosave.FileWriter.
type FileWriter struct {
	mock.Mock
}

func (m *FileWriter) WriteFile(ctx context.Context, projectID, path, content string) error {
	args := m.Called(ctx, projectID, path, content)
	return args.Error(0)
}
