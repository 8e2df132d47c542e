// Package lsp implements spec.md §4.9's LSP orchestrator: document
// lifecycle events turned into diagnostics, on-demand fetching, and
// code-action generation, speaking the surface in spec.md §6 via
// github.com/tliron/glsp.
package lsp

import (
	"encoding/json"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/version-lsp/version-lsp/internal/cache"
	"github.com/version-lsp/version-lsp/internal/codeaction"
	"github.com/version-lsp/version-lsp/internal/domain"
	"github.com/version-lsp/version-lsp/internal/engine"
	"github.com/version-lsp/version-lsp/internal/logger"
	"github.com/version-lsp/version-lsp/internal/lspconfig"
	"github.com/version-lsp/version-lsp/internal/refresh"
	"github.com/version-lsp/version-lsp/internal/registryclient"
)

var lspLog = logger.New("lsp")

// sourceName is the "source" field on every published diagnostic, per
// spec.md §6.
const sourceName = "version-lsp"

// BuildVersion is set by cmd/version-lsp/main.go from build metadata and
// reported in InitializeResult.ServerInfo.Version.
var BuildVersion = "dev"

// Server is the orchestrator described in spec.md §4.9: one glsp handler,
// the shared cache and registry clients, the refresh coordinator, and an
// in-memory table of currently-open document contents.
type Server struct {
	handler   *protocol.Handler
	cache     *cache.Cache
	clients   *registryclient.Set
	refresher *refresh.Coordinator

	cfgMu sync.RWMutex
	cfg   lspconfig.Config

	docs sync.Map // uri (string) -> content ([]byte)
}

// New wires every handler method; call Run to start serving over stdio.
func New(c *cache.Cache, clients *registryclient.Set) *Server {
	s := &Server{
		cache:   c,
		clients: clients,
		cfg:     lspconfig.Default(),
	}
	s.refresher = refresh.New(c, clients, s.Config)

	h := &protocol.Handler{}
	h.Initialize = s.onInitialize
	h.Initialized = s.onInitialized
	h.Shutdown = s.onShutdown
	h.TextDocumentDidOpen = s.onDidOpen
	h.TextDocumentDidChange = s.onDidChange
	h.TextDocumentDidClose = s.onDidClose
	h.TextDocumentCodeAction = s.onCodeAction
	s.handler = h
	return s
}

// Run starts the server over stdio, per spec.md §6 ("A single entry point
// that launches the LSP over stdio").
func (s *Server) Run() error {
	srv := glspserver.NewServer(s.handler, sourceName, false)
	return srv.RunStdio()
}

// Config returns the current effective configuration, safe for
// concurrent use by the refresh coordinator.
func (s *Server) Config() lspconfig.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

func (s *Server) setConfig(c lspconfig.Config) {
	s.cfgMu.Lock()
	s.cfg = c
	s.cfgMu.Unlock()
}

func (s *Server) onInitialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	// glsp defaults the change kind to Incremental; onDidChange expects
	// whole-document changes.
	if syncOpts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		full := protocol.TextDocumentSyncKindFull
		syncOpts.Change = &full
	}
	version := BuildVersion
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    sourceName,
			Version: &version,
		},
	}, nil
}

// onInitialized reads the client's "version-lsp" configuration
// non-blockingly (a failed or missing reply just keeps the defaults
// already in place) and spawns background refresh, per spec.md §4.9.
func (s *Server) onInitialized(context *glsp.Context, params *protocol.InitializedParams) error {
	go s.loadConfig(context)
	s.refresher.StartBackground()
	return nil
}

func (s *Server) onShutdown(context *glsp.Context) error {
	s.refresher.Stop()
	return nil
}

func (s *Server) onDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.Delete(string(params.TextDocument.URI))
	return nil
}

func (s *Server) onDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	content := []byte(params.TextDocument.Text)
	s.docs.Store(uri, content)
	s.processDocument(context, uri, content)
	return nil
}

func (s *Server) onDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// textDocumentSync = Full, per spec.md §4.9: the last change event
	// carries the complete new buffer.
	text, ok := fullText(params.ContentChanges[len(params.ContentChanges)-1])
	if !ok {
		return nil
	}
	content := []byte(text)
	s.docs.Store(uri, content)
	s.processDocument(context, uri, content)
	return nil
}

func fullText(change any) (string, bool) {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text, true
	case protocol.TextDocumentContentChangeEvent:
		return c.Text, true
	default:
		return "", false
	}
}

// processDocument implements spec.md §4.9's (a)-(e) steps: route, parse,
// evaluate, publish, then fetch-and-republish.
func (s *Server) processDocument(context *glsp.Context, uri string, content []byte) {
	kind, p, ok := route(uri)
	if !ok {
		return
	}
	if !s.Config().Enabled(kind) {
		return
	}

	records, err := p.Parse(content)
	if err != nil {
		lspLog.Warnf("parse %s: %v", uri, err)
		s.publish(context, uri, nil)
		return
	}

	binding := engine.NewBinding(kind, p, s.cache)
	verdicts, err := engine.EvaluateAll(records, binding)
	if err != nil {
		lspLog.Errorf("evaluate %s: %v", uri, err)
		return
	}
	s.publish(context, uri, diagnosticsFor(content, records, verdicts, sourceName))

	if len(records) == 0 {
		return
	}
	go func() {
		s.refresher.FetchMissing(records)
		verdicts, err := engine.EvaluateAll(records, binding)
		if err != nil {
			lspLog.Errorf("re-evaluate %s after fetch: %v", uri, err)
			return
		}
		s.publish(context, uri, diagnosticsFor(content, records, verdicts, sourceName))
	}()
}

func (s *Server) publish(context *glsp.Context, uri string, diags []protocol.Diagnostic) {
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: diags,
	})
}

// loadConfig performs the workspace/configuration round trip described in
// spec.md §4.9. Any failure (transport error, absent reply, bad JSON)
// leaves the already-installed defaults in place and logs a warning; only
// a reply that fails to decode is also shown to the user.
func (s *Server) loadConfig(context *glsp.Context) {
	section := "version-lsp"
	var result []json.RawMessage
	err := context.Call(protocol.ServerWorkspaceConfiguration, protocol.ConfigurationParams{
		Items: []protocol.ConfigurationItem{{Section: &section}},
	}, &result)
	if err != nil || len(result) == 0 {
		lspLog.Warnf("workspace/configuration unavailable, using defaults: %v", err)
		return
	}

	var cfg lspconfig.Config
	if err := json.Unmarshal(result[0], &cfg); err != nil {
		lspLog.Warnf("invalid version-lsp configuration, using defaults: %v", err)
		s.showMessage(context, protocol.MessageTypeWarning, "version-lsp: could not read configuration, using defaults")
		return
	}
	s.setConfig(lspconfig.Merge(cfg))
}

func (s *Server) showMessage(context *glsp.Context, msgType protocol.MessageType, message string) {
	context.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    msgType,
		Message: message,
	})
}

// onCodeAction implements spec.md §4.8: up to three bump actions (or the
// GitHub Actions SHA-rewrite variants) for the record under the request
// range.
func (s *Server) onCodeAction(context *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := string(params.TextDocument.URI)
	raw, ok := s.docs.Load(uri)
	if !ok {
		return nil, nil
	}
	content := raw.([]byte)

	_, p, ok := route(uri)
	if !ok {
		return nil, nil
	}
	records, err := p.Parse(content)
	if err != nil {
		return nil, nil
	}

	cursor := offsetForPosition(content, params.Range.Start)
	var actions []protocol.CodeAction
	for _, rec := range records {
		if !recordCoversOffset(rec, cursor) {
			continue
		}
		for _, e := range s.editsForRecord(rec) {
			actions = append(actions, toCodeAction(uri, content, e))
		}
	}
	return actions, nil
}

func recordCoversOffset(rec domain.PackageRecord, offset int) bool {
	if offset >= rec.StartOffset && offset < rec.EndOffset {
		return true
	}
	if rec.Extras != nil && rec.Extras.GitHubActionsComment != nil {
		c := rec.Extras.GitHubActionsComment
		return offset >= rec.StartOffset && offset < c.CommentEndOffset
	}
	return false
}

func (s *Server) editsForRecord(rec domain.PackageRecord) []codeaction.Edit {
	versions, err := s.cache.GetVersions(rec.RegistryKind, rec.Name)
	if err != nil || len(versions) == 0 {
		return nil
	}

	if rec.RegistryKind == domain.GitHubActions && rec.CommitHash != "" {
		latest, _, err := s.cache.GetLatestVersion(rec.RegistryKind, rec.Name)
		if err != nil {
			return nil
		}
		gh := s.clients.GitHub()
		if gh == nil {
			return nil
		}
		repo := rec.Name
		resolve := func(tag string) (string, error) { return gh.ResolveTagSHA(repo, tag) }
		return codeaction.GitHubActionsBumps(rec, versions, latest, resolve)
	}

	return codeaction.ComputeForRecord(rec, versions)
}

func toCodeAction(uri string, content []byte, e codeaction.Edit) protocol.CodeAction {
	quickFix := protocol.CodeActionKindQuickFix
	rng := rangeForOffsets(content, e.StartOffset, e.EndOffset)
	edit := protocol.WorkspaceEdit{
		Changes: map[string][]protocol.TextEdit{
			uri: {{Range: rng, NewText: e.NewText}},
		},
	}
	return protocol.CodeAction{
		Title: e.Title,
		Kind:  &quickFix,
		Edit:  &edit,
	}
}
