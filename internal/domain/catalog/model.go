package catalog

import "strings"

// Template identifies the project scaffold chosen at creation time. It is
// immutable after the project exists.
type Template string

const (
	TemplateEmpty Template = "empty"
	TemplateBasic Template = "basic"
	TemplateMaven Template = "maven"
)

// ParseTemplate validates a template tag. An empty tag maps to TemplateEmpty,
// matching the server default.
func ParseTemplate(value string) (Template, bool) {
	switch Template(strings.TrimSpace(value)) {
	case "", TemplateEmpty:
		return TemplateEmpty, true
	case TemplateBasic:
		return TemplateBasic, true
	case TemplateMaven:
		return TemplateMaven, true
	default:
		return "", false
	}
}

// File is the summary form of a project file. Content is not part of the
// summary; it is fetched lazily when a document is opened.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type,omitempty"`
}

// Project mirrors the server's project metadata.
type Project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Template  Template `json:"template"`
	Files     []File   `json:"files"`
	Folders   []string `json:"folders"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// Summary is the lightweight listing view of a project.
type Summary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Template    Template `json:"template"`
	FileCount   int      `json:"file_count"`
	FolderCount int      `json:"folder_count"`
}

// Summary derives the listing view from full metadata.
func (p *Project) Summary() Summary {
	return Summary{
		ID:          p.ID,
		Name:        p.Name,
		Template:    p.Template,
		FileCount:   len(p.Files),
		FolderCount: len(p.Folders),
	}
}

// FileTypeFor derives a file's display type from its name the way the server
// does: the extension without the dot, or "txt" when there is none.
func FileTypeFor(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 && idx < len(name)-1 {
		return name[idx+1:]
	}
	return "txt"
}
