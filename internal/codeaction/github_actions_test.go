package codeaction

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/version-lsp/version-lsp/internal/domain"
)

func fakeResolveSHA(byTag map[string]string) ResolveSHAFunc {
	return func(tag string) (string, error) {
		sha, ok := byTag[tag]
		if !ok {
			return "", fmt.Errorf("no sha for tag %q", tag)
		}
		return sha, nil
	}
}

func TestGitHubActionsBumpsNoCommitHashReturnsNil(t *testing.T) {
	rec := domain.PackageRecord{RegistryKind: domain.GitHubActions, VersionText: "v4.1.1"}
	edits := GitHubActionsBumps(rec, []string{"v4.1.2"}, "v4.1.2", fakeResolveSHA(nil))
	require.Nil(t, edits)
}

func TestGitHubActionsBumpsHashOnlyBumpsToLatest(t *testing.T) {
	rec := domain.PackageRecord{
		RegistryKind: domain.GitHubActions,
		CommitHash:   "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		StartOffset:  10,
	}
	resolve := fakeResolveSHA(map[string]string{"v5.0.0": "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"})

	edits := GitHubActionsBumps(rec, nil, "v5.0.0", resolve)
	require.Len(t, edits, 1)
	require.Equal(t, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", edits[0].NewText)
	require.Equal(t, 10, edits[0].StartOffset)
	require.Equal(t, 10+len(rec.CommitHash), edits[0].EndOffset)
}

func TestGitHubActionsBumpsHashOnlyNoLatestReturnsNil(t *testing.T) {
	rec := domain.PackageRecord{RegistryKind: domain.GitHubActions, CommitHash: "aaaa"}
	edits := GitHubActionsBumps(rec, nil, "", fakeResolveSHA(nil))
	require.Nil(t, edits)
}

func TestGitHubActionsBumpsHashOnlySHAFailureReturnsNil(t *testing.T) {
	rec := domain.PackageRecord{RegistryKind: domain.GitHubActions, CommitHash: "aaaa"}
	edits := GitHubActionsBumps(rec, nil, "v5.0.0", fakeResolveSHA(nil))
	require.Nil(t, edits)
}

func TestGitHubActionsBumpsWithCommentRewritesShaAndComment(t *testing.T) {
	rec := domain.PackageRecord{
		RegistryKind: domain.GitHubActions,
		VersionText:  "v4.1.1",
		CommitHash:   "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		StartOffset:  5,
		Extras: &domain.Extras{
			GitHubActionsComment: &domain.GitHubActionsComment{
				CommentText:      "v4.1.1",
				CommentEndOffset: 70,
			},
		},
	}
	versions := []string{"v4.1.1", "v4.1.2", "v4.2.0", "v5.0.0"}
	resolve := fakeResolveSHA(map[string]string{
		"v4.1.2": "1111111111111111111111111111111111111111",
		"v4.2.0": "2222222222222222222222222222222222222222",
		"v5.0.0": "3333333333333333333333333333333333333333",
	})

	edits := GitHubActionsBumps(rec, versions, "v5.0.0", resolve)
	require.Len(t, edits, 3)
	for _, e := range edits {
		require.Equal(t, 5, e.StartOffset)
		require.Equal(t, 70, e.EndOffset)
	}
	require.Equal(t, "1111111111111111111111111111111111111111 # v4.1.2", edits[0].NewText)
	require.Equal(t, "2222222222222222222222222222222222222222 # v4.2.0", edits[1].NewText)
	require.Equal(t, "3333333333333333333333333333333333333333 # v5.0.0", edits[2].NewText)
}

func TestGitHubActionsBumpsWithCommentDropsFailedResolution(t *testing.T) {
	rec := domain.PackageRecord{
		RegistryKind: domain.GitHubActions,
		VersionText:  "v4.1.1",
		CommitHash:   "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		StartOffset:  5,
		Extras: &domain.Extras{
			GitHubActionsComment: &domain.GitHubActionsComment{
				CommentText:      "v4.1.1",
				CommentEndOffset: 70,
			},
		},
	}
	versions := []string{"v4.1.1", "v4.1.2"}
	// resolveSHA has no entry for v4.1.2, so the only candidate bump is dropped.
	edits := GitHubActionsBumps(rec, versions, "v4.1.2", fakeResolveSHA(nil))
	require.Empty(t, edits)
}
