package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/lexscan"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
	"github.com/Sumatoshi-tech/importsweep/pkg/sweep"
)

func (s *Server) handleScan(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ScanInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	if !filepath.IsAbs(input.Path) {
		return errorResult(fmt.Errorf("%w: %s", ErrPathNotAbsolute, input.Path))
	}

	cfg := *s.deps.Config
	cfg.Lexical.Always = cfg.Lexical.Always || input.AlwaysLexical
	cfg.Linter.Enabled = cfg.Linter.Enabled && !input.SkipLinter
	cfg.Exports.Enabled = cfg.Exports.Enabled && !input.SkipExports

	rep, err := sweep.Run(ctx, sweep.Options{
		Root:   input.Path,
		Config: &cfg,
		Runner: s.deps.Runner,
		Logger: s.deps.Logger,
		Tracer: s.tracer,
	})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(rep)
}

// CheckSourceResult is the output of importsweep_check_source.
type CheckSourceResult struct {
	Findings []finding.Finding `json:"findings"`
}

func handleCheckSource(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input CheckSourceInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Code == "" {
		return errorResult(ErrEmptyCode)
	}

	if len(input.Code) > MaxCodeInputBytes {
		return errorResult(fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(input.Code), MaxCodeInputBytes))
	}

	name := input.Filename
	if name == "" {
		name = "input.ts"
	}

	findings := lexscan.ScanFile(sourceset.FromContent(name, []byte(input.Code)))
	if findings == nil {
		findings = []finding.Finding{}
	}

	return jsonResult(CheckSourceResult{Findings: findings})
}
