package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPyprojectTomlDependencies(t *testing.T) {
	content := []byte(`[project]
dependencies = [
  "requests>=2.28,<3.0",
  "click~=8.1",
]

[build-system]
requires = ["setuptools>=61.0"]
`)
	records, err := PyprojectToml{}.Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byName := map[string]string{}
	for _, r := range records {
		byName[r.Name] = r.VersionText
		require.Equal(t, content[r.StartOffset:r.EndOffset], []byte(r.VersionText))
	}
	require.Equal(t, ">=2.28,<3.0", byName["requests"])
	require.Equal(t, "~=8.1", byName["click"])
	require.Equal(t, ">=61.0", byName["setuptools"])
}

func TestPyprojectTomlOptionalDependencies(t *testing.T) {
	content := []byte(`[project]
dependencies = []

[project.optional-dependencies]
test = ["pytest>=7.0"]
`)
	records, err := PyprojectToml{}.Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "pytest", records[0].Name)
	require.Equal(t, ">=7.0", records[0].VersionText)
}

func TestPyprojectTomlInvalidSyntax(t *testing.T) {
	_, err := PyprojectToml{}.Parse([]byte("[project\nnot valid"))
	require.Error(t, err)
}

// When [build-system] precedes [project] in the file, a single forward-only
// search cursor shared across both sections would advance past
// [build-system] while locating [project]'s dependencies first, making the
// build-system requirement's literal unfindable. Each section must be
// searched within its own byte range.
func TestPyprojectTomlBuildSystemBeforeProject(t *testing.T) {
	content := []byte(`[build-system]
requires = ["setuptools>=61.0"]

[project]
dependencies = [
  "requests>=2.28,<3.0",
]
`)
	records, err := PyprojectToml{}.Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := map[string]string{}
	for _, r := range records {
		byName[r.Name] = r.VersionText
		require.Equal(t, content[r.StartOffset:r.EndOffset], []byte(r.VersionText))
	}
	require.Equal(t, ">=61.0", byName["setuptools"])
	require.Equal(t, ">=2.28,<3.0", byName["requests"])
}

func TestPyprojectTomlMultipleOptionalGroupsOutOfOrder(t *testing.T) {
	content := []byte(`[project]
dependencies = []

[project.optional-dependencies]
dev = ["black>=24.0"]
test = ["pytest>=7.0"]
`)
	records, err := PyprojectToml{}.Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := map[string]string{}
	for _, r := range records {
		byName[r.Name] = r.VersionText
		require.Equal(t, content[r.StartOffset:r.EndOffset], []byte(r.VersionText))
	}
	require.Equal(t, ">=24.0", byName["black"])
	require.Equal(t, ">=7.0", byName["pytest"])
}

func TestPyprojectTomlNoSpecifierIsEmptyVersionText(t *testing.T) {
	content := []byte(`[project]
dependencies = ["requests"]
`)
	records, err := PyprojectToml{}.Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "requests", records[0].Name)
	require.Equal(t, "", records[0].VersionText)
	require.Equal(t, records[0].StartOffset, records[0].EndOffset)
}
