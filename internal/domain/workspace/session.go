package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/autofixer/workbench/internal/domain/catalog"
	"github.com/autofixer/workbench/internal/domain/document"
)

// State is the session lifecycle state.
type State string

const (
	StateClosed  State = "closed"
	StateOpening State = "opening"
	StateOpen    State = "open"
)

// Session owns the authoritative local copy of the opened project's tree and
// orchestrates the document set. Local state mutates only after the
// corresponding remote call confirms; results arriving after the session
// moved on are discarded (the epoch counter tracks that).
type Session struct {
	store  ProjectStore
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	epoch   uint64
	project *catalog.Project
	docs    *document.Set
	saver   Saver
}

// NewSession creates a closed session. Documents opened through it fetch
// content from the given file store.
func NewSession(store ProjectStore, files document.FileStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		store:  store,
		logger: logger,
		state:  StateClosed,
		docs:   document.NewSet(files),
	}
}

// SetSaver wires the autosave coordinator. Optional; without one, edits stay
// local until SaveNow is called through some other path.
func (s *Session) SetSaver(saver Saver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saver = saver
}

// Open fetches the project detail and makes it the session's tree. Opening
// while another project is open tears the old one down first, discarding
// unsaved edits. On failure the session stays closed.
func (s *Session) Open(ctx context.Context, projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	s.teardownLocked()
	s.state = StateOpening
	s.epoch++
	epoch := s.epoch
	saver := s.saver
	s.mu.Unlock()
	if saver != nil {
		saver.Reset()
	}

	proj, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		s.mu.Lock()
		if s.epoch == epoch {
			s.state = StateClosed
		}
		s.mu.Unlock()
		return fmt.Errorf("opening project: %w", err)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrStaleState
	}
	s.project = proj
	s.state = StateOpen
	s.docs.Reset(proj.ID)
	first := firstFileByPath(proj.Files)
	s.mu.Unlock()

	s.logger.Info("project opened", "id", proj.ID, "name", proj.Name, "files", len(proj.Files))

	if first != "" {
		if err := s.OpenDocument(ctx, first); err != nil {
			s.logger.Warn("could not open first file", "path", first, "error", err)
		}
	}
	return nil
}

// Close tears the session down: tree, documents and focus are cleared and
// pending autosave work is discarded.
func (s *Session) Close() {
	s.mu.Lock()
	s.teardownLocked()
	saver := s.saver
	s.mu.Unlock()
	if saver != nil {
		saver.Reset()
	}
}

func (s *Session) teardownLocked() {
	if s.state == StateClosed && s.project == nil {
		return
	}
	s.project = nil
	s.state = StateClosed
	s.epoch++
	s.docs.Reset("")
}

// CreateFile creates src/<name> remotely, appends it to the tree and opens it
// as the active document. Duplicate paths are not validated locally; the
// server's conflict response is surfaced as-is.
func (s *Session) CreateFile(ctx context.Context, name string) (*catalog.File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return nil, ErrNotOpen
	}
	projectID := s.project.ID
	epoch := s.epoch
	s.mu.Unlock()

	path := "src/" + name
	file, err := s.store.CreateFile(ctx, projectID, name, path, "")
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	s.mu.Lock()
	if s.epoch != epoch || s.state != StateOpen {
		s.mu.Unlock()
		return nil, ErrStaleState
	}
	s.project.Files = append(s.project.Files, *file)
	s.mu.Unlock()

	if err := s.OpenDocument(ctx, file.Path); err != nil {
		s.logger.Warn("created file could not be opened", "path", file.Path, "error", err)
	}
	return file, nil
}

// CreateFolder creates a folder remotely and appends it to the local folder
// list.
func (s *Session) CreateFolder(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return ErrNotOpen
	}
	projectID := s.project.ID
	epoch := s.epoch
	s.mu.Unlock()

	if err := s.store.CreateFolder(ctx, projectID, name); err != nil {
		return fmt.Errorf("creating folder: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.state != StateOpen {
		return ErrStaleState
	}
	for _, folder := range s.project.Folders {
		if folder == name {
			return nil
		}
	}
	s.project.Folders = append(s.project.Folders, name)
	return nil
}

// OpenDocument makes the file at path the active document, fetching its
// content on first open. A path no longer in the tree is a stale reference.
func (s *Session) OpenDocument(ctx context.Context, path string) error {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return ErrNotOpen
	}
	name := ""
	for _, file := range s.project.Files {
		if file.Path == path {
			name = file.Name
			break
		}
	}
	s.mu.Unlock()
	if name == "" {
		return fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}

	if _, err := s.docs.Open(ctx, path, name); err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	return nil
}

// CloseDocument removes the document from the set. Unsaved edits beyond what
// the coordinator already flushed are lost, by design.
func (s *Session) CloseDocument(path string) error {
	return s.docs.Close(path)
}

// EditActive applies an editor keystroke burst to the active document and
// schedules the debounced save. The saved path is the one active at mutation
// time, captured here, never re-read when the timer fires. Without an active
// document this is a silent no-op.
func (s *Session) EditActive(content string) {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return
	}
	projectID := s.project.ID
	saver := s.saver
	s.mu.Unlock()

	path, ok := s.docs.UpdateActive(content)
	if !ok {
		return
	}
	if saver != nil {
		saver.Schedule(projectID, path, content)
	}
}

// SaveNow persists the active document immediately, cancelling any pending
// debounce timer.
func (s *Session) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return ErrNotOpen
	}
	projectID := s.project.ID
	saver := s.saver
	s.mu.Unlock()

	doc, ok := s.docs.Active()
	if !ok {
		return ErrNoActiveDocument
	}
	if saver == nil {
		return nil
	}
	if err := saver.SaveNow(ctx, projectID, doc.Path, doc.Content); err != nil {
		return fmt.Errorf("saving %s: %w", doc.Path, err)
	}
	return nil
}

// Run asks the server to compile and run the open project.
func (s *Session) Run(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return "", ErrNotOpen
	}
	projectID := s.project.ID
	s.mu.Unlock()

	output, err := s.store.RunProject(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("running project: %w", err)
	}
	return output, nil
}

// State reports the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ProjectID returns the open project's id, or "" when closed.
func (s *Session) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return ""
	}
	return s.project.ID
}

// Project returns a copy of the open project's tree.
func (s *Session) Project() (catalog.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen || s.project == nil {
		return catalog.Project{}, false
	}
	proj := *s.project
	proj.Files = append([]catalog.File(nil), s.project.Files...)
	proj.Folders = append([]string(nil), s.project.Folders...)
	return proj, true
}

// Documents lists the open documents in insertion order.
func (s *Session) Documents() []document.Info {
	return s.docs.Snapshot()
}

// ActivePath returns the active document path, or "" when unset.
func (s *Session) ActivePath() string {
	return s.docs.ActivePath()
}

// ActiveDocument returns a copy of the active document.
func (s *Session) ActiveDocument() (document.Document, bool) {
	return s.docs.Active()
}

// MarkClean clears a document's dirty flag after a confirmed save.
func (s *Session) MarkClean(path string) {
	s.docs.MarkClean(path)
}

func firstFileByPath(files []catalog.File) string {
	if len(files) == 0 {
		return ""
	}
	paths := make([]string, 0, len(files))
	for _, file := range files {
		paths = append(paths, file.Path)
	}
	sort.Strings(paths)
	return paths[0]
}
