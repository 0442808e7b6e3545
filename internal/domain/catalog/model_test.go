package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tmpl, ok := ParseTemplate("")
	require.True(t, ok)
	require.Equal(t, TemplateEmpty, tmpl)

	tmpl, ok = ParseTemplate(" maven ")
	require.True(t, ok)
	require.Equal(t, TemplateMaven, tmpl)

	_, ok = ParseTemplate("gradle")
	require.False(t, ok)
}

func TestFileTypeFor(t *testing.T) {
	require.Equal(t, "java", FileTypeFor("Main.java"))
	require.Equal(t, "xml", FileTypeFor("pom.xml"))
	require.Equal(t, "txt", FileTypeFor("README"))
	require.Equal(t, "txt", FileTypeFor("trailing."))
}

func TestProjectSummaryCounts(t *testing.T) {
	proj := Project{
		ID:      "p1",
		Name:    "demo",
		Folders: []string{"src", "resources"},
		Files:   []File{{Name: "Main.java", Path: "src/Main.java"}},
	}
	summary := proj.Summary()
	require.Equal(t, 1, summary.FileCount)
	require.Equal(t, 2, summary.FolderCount)
}
