package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolNameScan        = "importsweep_scan"
	ToolNameCheckSource = "importsweep_check_source"
)

// MaxCodeInputBytes caps inline source passed to the check tool.
const MaxCodeInputBytes = 1 << 20

// Input validation errors.
var (
	ErrEmptyPath       = errors.New("path parameter is required and must not be empty")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrEmptyCode       = errors.New("code parameter is required and must not be empty")
	ErrCodeTooLarge    = errors.New("code input exceeds maximum size")
)

const (
	scanToolDescription = "Detect unused imports in a JavaScript/TypeScript project. " +
		"Runs ESLint and ts-prune when available and falls back to a lexical scan. " +
		"Returns the aggregated, deduplicated report."

	checkSourceToolDescription = "Detect unused import bindings in a single inline " +
		"JavaScript/TypeScript source using the lexical scanner only."
)

// ScanInput is the input of importsweep_scan.
type ScanInput struct {
	Path          string `json:"path"                     jsonschema:"absolute path of the project root"`
	AlwaysLexical bool   `json:"always_lexical,omitempty" jsonschema:"run the lexical scan even when ESLint reports findings"`
	SkipLinter    bool   `json:"skip_linter,omitempty"    jsonschema:"do not run ESLint"`
	SkipExports   bool   `json:"skip_exports,omitempty"   jsonschema:"do not run ts-prune"`
}

// CheckSourceInput is the input of importsweep_check_source.
type CheckSourceInput struct {
	Code     string `json:"code"               jsonschema:"source code to check"`
	Filename string `json:"filename,omitempty" jsonschema:"file name used for reporting (default: input.ts)"`
}

// ToolOutput wraps tool results as structured output.
type ToolOutput struct {
	Data any `json:"data"`
}

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, ToolOutput{Data: value}, nil
}
