// Package lsp serves lexical unused-import diagnostics to editors over the
// Language Server Protocol.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/importsweep/pkg/fixpreview"
	"github.com/Sumatoshi-tech/importsweep/pkg/lexscan"
	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
)

const (
	serverName       = "importsweep"
	diagnosticSource = "importsweep"
)

// ServerDeps holds injectable dependencies. Zero values use defaults.
type ServerDeps struct {
	Logger  *slog.Logger
	Metrics *observability.REDMetrics
	// Extensions limits analysis to matching documents.
	Extensions []string
	Version    string
}

// Server publishes unused-import warnings for open documents.
type Server struct {
	store      *DocumentStore
	handler    protocol.Handler
	logger     *slog.Logger
	metrics    *observability.REDMetrics
	extensions []string
	version    string
}

// NewServer creates a server with its protocol handlers registered.
func NewServer(deps ServerDeps) *Server {
	srv := &Server{
		store:      NewDocumentStore(),
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		extensions: deps.Extensions,
		version:    deps.Version,
	}

	if srv.logger == nil {
		srv.logger = slog.Default()
	}

	if len(srv.extensions) == 0 {
		srv.extensions = sourceset.DefaultExtensions
	}

	if srv.version == "" {
		srv.version = "dev"
	}

	srv.handler = protocol.Handler{
		Initialize:             srv.initialize,
		Initialized:            srv.initialized,
		Shutdown:               srv.shutdown,
		SetTrace:               srv.setTrace,
		TextDocumentDidOpen:    srv.didOpen,
		TextDocumentDidChange:  srv.didChange,
		TextDocumentDidSave:    srv.didSave,
		TextDocumentDidClose:   srv.didClose,
		TextDocumentCodeAction: srv.codeAction,
	}

	return srv
}

// Run serves the protocol on stdio until the client disconnects.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()

	if opts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		full := protocol.TextDocumentSyncKindFull
		opts.Change = &full
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &srv.version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, params.TextDocument.Text)
	srv.publishDiagnostics(ctx, "didOpen", uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	text, _ := srv.store.Get(uri)

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text

				continue
			}

			start, end := c.Range.IndexesIn(text)
			text = text[:start] + c.Text + text[end:]
		}
	}

	srv.store.Set(uri, text)
	srv.publishDiagnostics(ctx, "didChange", uri)

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if params.Text != nil {
		srv.store.Set(uri, *params.Text)
	}

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, "didSave", uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (srv *Server) codeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI

	text, ok := srv.store.Get(uri)
	if !ok {
		return nil, nil
	}

	actions := srv.CodeActions(uri, text, &params.Range)
	if len(actions) == 0 {
		return nil, nil
	}

	return actions, nil
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, op, uri string) {
	start := time.Now()
	reqCtx := context.Background()

	done := srv.metrics.TrackInflight(reqCtx, "lsp."+op)
	defer done()

	text, _ := srv.store.Get(uri)
	diagnostics := srv.Diagnostics(uri, text)

	ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})

	srv.logger.Debug("published diagnostics", "uri", uri, "count", len(diagnostics))
	srv.metrics.RecordRequest(reqCtx, "lsp."+op, observability.StatusOK, time.Since(start))
}

func (srv *Server) handles(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return slices.Contains(srv.extensions, ext)
}

// Diagnostics analyzes text as the document at uri. Documents whose
// extension is not scanned get no diagnostics.
func (srv *Server) Diagnostics(uri, text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	path := uriPath(uri)
	if !srv.handles(path) {
		return diagnostics
	}

	raw := []byte(text)
	file := sourceset.FromContent(path, raw)
	shift := len(raw) - len(file.Content)

	severity := protocol.DiagnosticSeverityWarning
	source := diagnosticSource
	code := protocol.IntegerOrString{Value: lexscan.RuleUnusedImport}

	for _, b := range lexscan.Analyze(file).Unused {
		start := lineOffset(file.Content, b.NameLine) + b.NameColumn - 1 + shift

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionAt(raw, start),
				End:   positionAt(raw, start+len(b.Name)),
			},
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  fmt.Sprintf("'%s' is imported but never used", b.Name),
			Tags:     []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary},
		})
	}

	return diagnostics
}

// CodeActions offers quick fixes removing unused bindings. With a non-nil
// within, only declarations overlapping it are offered.
func (srv *Server) CodeActions(uri, text string, within *protocol.Range) []protocol.CodeAction {
	path := uriPath(uri)
	if !srv.handles(path) {
		return nil
	}

	raw := []byte(text)
	file := sourceset.FromContent(path, raw)
	shift := len(raw) - len(file.Content)
	kind := protocol.CodeActionKindQuickFix

	var actions []protocol.CodeAction

	var all []protocol.TextEdit

	for _, edit := range fixpreview.Edits(file) {
		textEdit := protocol.TextEdit{
			Range: protocol.Range{
				Start: positionAt(raw, edit.Start+shift),
				End:   positionAt(raw, edit.End+shift),
			},
			NewText: edit.Text,
		}

		all = append(all, textEdit)

		if within != nil && !rangesOverlap(*within, textEdit.Range) {
			continue
		}

		actions = append(actions, protocol.CodeAction{
			Title: "Remove unused import " + strings.Join(edit.Removed, ", "),
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: {textEdit}},
			},
		})
	}

	if len(all) > 1 && len(actions) > 0 {
		actions = append(actions, protocol.CodeAction{
			Title: "Remove all unused imports",
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: all},
			},
		})
	}

	return actions
}
