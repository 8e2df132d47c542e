package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/rhysd/actionlint"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// GitHubActionsWorkflow parses a workflow YAML file's `uses:` lines inside
// `steps:` blocks, per spec.md §4.1. actionlint walks the workflow's real
// grammar so only genuine step `uses:` entries are considered (not, say, an
// unrelated `uses:`-named key elsewhere) — offsets are then recovered with a
// regex over the specific source line actionlint already told us to look
// at, in the same "raw-text regex for exact byte ranges" style as the
// teacher's own action_sha_checker.go.
type GitHubActionsWorkflow struct{}

var shaPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)
var usesLinePattern = regexp.MustCompile(`uses:\s*["']?([^"'\s#]+)["']?(?:\s*#\s*(.*))?`)

func (GitHubActionsWorkflow) Parse(content []byte) ([]domain.PackageRecord, error) {
	workflow, errs := actionlint.Parse(content)
	if workflow == nil {
		msg := "unknown parse failure"
		if len(errs) > 0 {
			msg = errs[0].Error()
		}
		return nil, &ParseError{Kind: InvalidSyntax, Format: "github-actions-workflow", Cause: &simpleErr{msg}}
	}

	lineOffsets := computeLineOffsets(content)
	var records []domain.PackageRecord
	for _, job := range workflow.Jobs {
		for _, step := range job.Steps {
			exec, ok := step.Exec.(*actionlint.ExecAction)
			if !ok || exec.Uses == nil || exec.Uses.Value == "" {
				continue
			}
			rec, ok := githubActionsRecord(content, lineOffsets, exec.Uses.Pos.Line)
			if ok {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }

func computeLineOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func githubActionsRecord(content []byte, lineOffsets []int, line1 int) (domain.PackageRecord, bool) {
	idx := line1 - 1
	if idx < 0 || idx >= len(lineOffsets) {
		return domain.PackageRecord{}, false
	}
	lineStart := lineOffsets[idx]
	lineEnd := len(content)
	if idx+1 < len(lineOffsets) {
		lineEnd = lineOffsets[idx+1]
	}
	lineBytes := content[lineStart:lineEnd]

	m := usesLinePattern.FindSubmatchIndex(lineBytes)
	if m == nil {
		return domain.PackageRecord{}, false
	}
	usesValue := string(lineBytes[m[2]:m[3]])
	usesOffset := lineStart + m[2]

	at := strings.LastIndexByte(usesValue, '@')
	if at < 0 {
		return domain.PackageRecord{}, false
	}
	repoPath := usesValue[:at]
	ref := usesValue[at+1:]
	refStart := usesOffset + at + 1
	refEnd := refStart + len(ref)

	name := repoPath
	if parts := strings.SplitN(repoPath, "/", 3); len(parts) >= 2 {
		name = parts[0] + "/" + parts[1]
	}

	rec := domain.PackageRecord{
		Name:         name,
		RegistryKind: domain.GitHubActions,
	}

	if !shaPattern.MatchString(ref) {
		rec.VersionText = ref
		rec.StartOffset, rec.EndOffset = refStart, refEnd
		rec.Line, rec.Column = lineColumn(content, refStart)
		return rec, true
	}

	rec.CommitHash = ref
	if m[4] < 0 {
		// SHA with no trailing comment: version_text = commit_hash = SHA.
		rec.VersionText = ref
		rec.StartOffset, rec.EndOffset = refStart, refEnd
		rec.Line, rec.Column = lineColumn(content, refStart)
		return rec, true
	}

	commentText := strings.TrimSpace(string(lineBytes[m[4]:m[5]]))
	if commentText == "" {
		rec.VersionText = ref
		rec.StartOffset, rec.EndOffset = refStart, refEnd
		rec.Line, rec.Column = lineColumn(content, refStart)
		return rec, true
	}

	commentStart := lineStart + bytes.Index(lineBytes[m[4]:m[5]], []byte(commentText)) + m[4]
	commentEnd := commentStart + len(commentText)

	rec.VersionText = commentText
	rec.StartOffset, rec.EndOffset = refStart, refEnd
	rec.Line, rec.Column = lineColumn(content, refStart)
	rec.Extras = &domain.Extras{GitHubActionsComment: &domain.GitHubActionsComment{
		CommentText:        commentText,
		CommentStartOffset: commentStart,
		CommentEndOffset:   commentEnd,
	}}
	return rec, true
}
