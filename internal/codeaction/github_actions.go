package codeaction

import (
	"fmt"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// ResolveSHAFunc dereferences a tag to its target commit SHA (annotated
// tags dereferenced once), per spec.md §4.8. Callers pass
// *registryclient.GitHubClient.ResolveTagSHA bound to the record's repo.
type ResolveSHAFunc func(tag string) (string, error)

// GitHubActionsBumps implements spec.md §4.8's commit-SHA rewrite rules
// for a record whose CommitHash is set. Records with no CommitHash are
// not handled here — they take the default Compute path.
func GitHubActionsBumps(rec domain.PackageRecord, versions []string, latest string, resolveSHA ResolveSHAFunc) []Edit {
	if rec.CommitHash == "" {
		return nil
	}
	if rec.Extras != nil && rec.Extras.GitHubActionsComment != nil {
		return hashWithCommentBumps(rec, versions, resolveSHA)
	}
	return hashOnlyBump(rec, latest, resolveSHA)
}

// hashWithCommentBumps offers the same patch/minor/major bumps as the
// default case, but over the comment's tag text, rewriting both the SHA
// and the trailing comment atomically.
func hashWithCommentBumps(rec domain.PackageRecord, versions []string, resolveSHA ResolveSHAFunc) []Edit {
	comment := rec.Extras.GitHubActionsComment
	tagEdits := Compute(rec.VersionText, versions, rec.StartOffset, comment.CommentEndOffset)

	edits := make([]Edit, 0, len(tagEdits))
	for _, e := range tagEdits {
		// e.NewText currently holds "{prefix}{newTag}"; the edit range
		// spans hash through comment, so the replacement text must be
		// "{sha} # {prefix}{newTag}", and the tag looked up on GitHub is
		// e.NewText itself.
		sha, err := resolveSHA(e.NewText)
		if err != nil {
			// Abort that specific bump if SHA fetch fails, per spec.md §4.8.
			continue
		}
		edits = append(edits, Edit{
			Kind:        e.Kind,
			Title:       e.Title,
			StartOffset: rec.StartOffset,
			EndOffset:   comment.CommentEndOffset,
			NewText:     fmt.Sprintf("%s # %s", sha, e.NewText),
		})
	}
	return edits
}

// hashOnlyBump offers a single "Bump to latest" action replacing just the
// SHA with the commit for the resolver's chosen latest tag.
func hashOnlyBump(rec domain.PackageRecord, latest string, resolveSHA ResolveSHAFunc) []Edit {
	if latest == "" {
		return nil
	}
	sha, err := resolveSHA(latest)
	if err != nil {
		return nil
	}
	return []Edit{{
		Title:       fmt.Sprintf("Bump to latest: %s", latest),
		StartOffset: rec.StartOffset,
		EndOffset:   rec.StartOffset + len(rec.CommitHash),
		NewText:     sha,
	}}
}
