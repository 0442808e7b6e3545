package document

import (
	"context"
	"fmt"
	"sync"
)

// Set is the ordered collection of open documents plus the active pointer.
// It holds at most one document per path; the active pointer is either unset
// or references a member of the set.
type Set struct {
	files FileStore

	mu        sync.Mutex
	projectID string
	docs      []*Document
	active    string
}

// NewSet creates an empty document set backed by the given content store.
func NewSet(files FileStore) *Set {
	return &Set{files: files}
}

// Reset drops every document and binds the set to a project. Called when a
// workspace opens or closes.
func (s *Set) Reset(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = projectID
	s.docs = nil
	s.active = ""
}

// Open makes the document at path active. If it is already open only the
// focus changes; otherwise the content is fetched and a new document is
// appended. The display name is the last path segment.
func (s *Set) Open(ctx context.Context, path, name string) (*Document, error) {
	s.mu.Lock()
	if doc := s.findLocked(path); doc != nil {
		s.active = path
		s.mu.Unlock()
		return doc, nil
	}
	projectID := s.projectID
	s.mu.Unlock()

	content, err := s.files.ReadFile(ctx, projectID, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another open for the same path may have finished while we fetched.
	if doc := s.findLocked(path); doc != nil {
		s.active = path
		return doc, nil
	}
	if s.projectID != projectID {
		return nil, ErrNotOpen
	}
	doc := &Document{Path: path, Name: name, Content: content}
	s.docs = append(s.docs, doc)
	s.active = path
	return doc, nil
}

// Close removes the document at path. If it was active, focus moves to the
// first remaining document in insertion order, or becomes unset. Edits not
// yet flushed by the autosave coordinator are discarded.
func (s *Set) Close(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, doc := range s.docs {
		if doc.Path == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotOpen
	}
	s.docs = append(s.docs[:idx], s.docs[idx+1:]...)
	if s.active == path {
		if len(s.docs) > 0 {
			s.active = s.docs[0].Path
		} else {
			s.active = ""
		}
	}
	return nil
}

// UpdateActive replaces the active document's content and marks it dirty.
// With no active document this is a silent no-op: keystroke plumbing cannot
// meaningfully stop user input.
func (s *Set) UpdateActive(content string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return "", false
	}
	doc := s.findLocked(s.active)
	if doc == nil {
		return "", false
	}
	doc.Content = content
	doc.Dirty = true
	return doc.Path, true
}

// MarkClean clears the dirty flag after a confirmed save. A document closed
// while its save was in flight is simply gone; nothing to do.
func (s *Set) MarkClean(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc := s.findLocked(path); doc != nil {
		doc.Dirty = false
	}
}

// ActivePath returns the active document path, or "" when unset.
func (s *Set) ActivePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Active returns a copy of the active document.
func (s *Set) Active() (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.findLocked(s.active)
	if doc == nil {
		return Document{}, false
	}
	return *doc, true
}

// Get returns a copy of the document at path.
func (s *Set) Get(path string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.findLocked(path)
	if doc == nil {
		return Document{}, false
	}
	return *doc, true
}

// Snapshot lists the open documents in insertion order.
func (s *Set) Snapshot() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]Info, 0, len(s.docs))
	for _, doc := range s.docs {
		infos = append(infos, Info{Path: doc.Path, Name: doc.Name, Dirty: doc.Dirty})
	}
	return infos
}

// Len reports how many documents are open.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Set) findLocked(path string) *Document {
	if path == "" {
		return nil
	}
	for _, doc := range s.docs {
		if doc.Path == path {
			return doc
		}
	}
	return nil
}
