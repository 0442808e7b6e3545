// Package view builds display models from domain state. Everything here is a
// pure projection; nothing mutates the session.
package view

import (
	"sort"
	"strings"

	"github.com/autofixer/workbench/internal/domain/catalog"
	"github.com/autofixer/workbench/internal/domain/document"
)

// TreeNode is one entry in the rendered file tree.
type TreeNode struct {
	Name   string     `json:"name"`
	Path   string     `json:"path,omitempty"`
	Type   string     `json:"type"`
	Active bool       `json:"active,omitempty"`
	Nodes  []TreeNode `json:"nodes,omitempty"`
}

// TreeModel is the file tree for the open project.
type TreeModel struct {
	ProjectName string     `json:"project_name"`
	Nodes       []TreeNode `json:"nodes"`
}

// Tab is one entry in the rendered tab strip.
type Tab struct {
	Path   string `json:"path"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
	Dirty  bool   `json:"dirty"`
}

// BuildTree groups the project's files under their folder prefixes. Folders
// appear first, sorted by name, then root-level files; files inside a folder
// sort by path. A folder with no files still renders empty.
func BuildTree(project catalog.Project, activePath string) TreeModel {
	byFolder := make(map[string][]catalog.File)
	var rootFiles []catalog.File
	for _, file := range project.Files {
		folder, _, found := strings.Cut(file.Path, "/")
		if !found {
			rootFiles = append(rootFiles, file)
			continue
		}
		byFolder[folder] = append(byFolder[folder], file)
	}

	folders := append([]string(nil), project.Folders...)
	for folder := range byFolder {
		if !containsString(folders, folder) {
			folders = append(folders, folder)
		}
	}
	sort.Strings(folders)

	nodes := make([]TreeNode, 0, len(folders)+len(rootFiles))
	for _, folder := range folders {
		files := byFolder[folder]
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
		children := make([]TreeNode, 0, len(files))
		for _, file := range files {
			children = append(children, fileNode(file, activePath))
		}
		nodes = append(nodes, TreeNode{Name: folder, Type: "folder", Nodes: children})
	}
	sort.Slice(rootFiles, func(i, j int) bool { return rootFiles[i].Path < rootFiles[j].Path })
	for _, file := range rootFiles {
		nodes = append(nodes, fileNode(file, activePath))
	}

	return TreeModel{ProjectName: project.Name, Nodes: nodes}
}

// BuildTabs renders the tab strip in document insertion order.
func BuildTabs(docs []document.Info, activePath string) []Tab {
	tabs := make([]Tab, 0, len(docs))
	for _, doc := range docs {
		tabs = append(tabs, Tab{
			Path:   doc.Path,
			Title:  doc.Name,
			Active: doc.Path == activePath,
			Dirty:  doc.Dirty,
		})
	}
	return tabs
}

// BuildBreadcrumb renders "project / folder / file" segments for the active
// document. Without an active document only the project name appears.
func BuildBreadcrumb(projectName, activePath string) []string {
	segments := []string{projectName}
	if activePath == "" {
		return segments
	}
	return append(segments, strings.Split(activePath, "/")...)
}

func fileNode(file catalog.File, activePath string) TreeNode {
	fileType := file.Type
	if fileType == "" {
		fileType = catalog.FileTypeFor(file.Name)
	}
	return TreeNode{
		Name:   file.Name,
		Path:   file.Path,
		Type:   fileType,
		Active: file.Path == activePath,
	}
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
