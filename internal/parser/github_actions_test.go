package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGitHubActionsWorkflowTagPin(t *testing.T) {
	content := []byte(`on: push
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
`)
	records, err := GitHubActionsWorkflow{}.Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "actions/checkout", records[0].Name)
	require.Equal(t, "v4", records[0].VersionText)
	require.Empty(t, records[0].CommitHash)
	require.Equal(t, content[records[0].StartOffset:records[0].EndOffset], []byte("v4"))
}

func TestGitHubActionsWorkflowSHAWithComment(t *testing.T) {
	content := []byte(`on: push
jobs:
  build:
    steps:
      - uses: actions/checkout@8f4b7f84864484a7bf31766abe9204da3cbe65b3 # v4.1.1
`)
	records, err := GitHubActionsWorkflow{}.Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, "8f4b7f84864484a7bf31766abe9204da3cbe65b3", rec.CommitHash)
	require.Equal(t, "v4.1.1", rec.VersionText)
	require.NotNil(t, rec.Extras)
	require.NotNil(t, rec.Extras.GitHubActionsComment)
	require.Equal(t, "v4.1.1", rec.Extras.GitHubActionsComment.CommentText)
}

func TestGitHubActionsWorkflowSHAWithoutComment(t *testing.T) {
	content := []byte(`on: push
jobs:
  build:
    steps:
      - uses: actions/checkout@8f4b7f84864484a7bf31766abe9204da3cbe65b3
`)
	records, err := GitHubActionsWorkflow{}.Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, "8f4b7f84864484a7bf31766abe9204da3cbe65b3", rec.CommitHash)
	require.Equal(t, rec.CommitHash, rec.VersionText)
	require.Nil(t, rec.Extras)
}

func TestGitHubActionsWorkflowNoSteps(t *testing.T) {
	content := []byte("on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n")
	records, err := GitHubActionsWorkflow{}.Parse(content)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestGitHubActionsWorkflowInvalidSyntax(t *testing.T) {
	_, err := GitHubActionsWorkflow{}.Parse([]byte("not: [valid yaml"))
	require.Error(t, err)
}
