package eslint

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
)

// ErrUnparseableOutput is returned when stdout is not ESLint JSON.
var ErrUnparseableOutput = errors.New("unparseable eslint output")

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// quotedName extracts the variable name from messages such as
// "'foo' is defined but never used.".
var quotedName = regexp.MustCompile(`'([^']+)'`)

type fileResult struct {
	FilePath string    `json:"filePath"`
	Messages []message `json:"messages"`
}

type message struct {
	RuleID   *string `json:"ruleId"`
	Severity int     `json:"severity"`
	Message  string  `json:"message"`
	Line     int     `json:"line"`
	Column   int     `json:"column"`
	Fatal    bool    `json:"fatal"`
}

// Parse decodes ESLint JSON output and keeps messages of the given rules.
// File paths are made relative to root.
func Parse(data []byte, root string, rules []string) ([]finding.Finding, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty output", ErrUnparseableOutput)
	}

	if !json.Valid([]byte(trimmed)) {
		return nil, fmt.Errorf("%w: not JSON", ErrUnparseableOutput)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseableOutput, err)
	}

	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnparseableOutput, describe(result.Errors()))
	}

	var files []fileResult

	if err := json.Unmarshal([]byte(trimmed), &files); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseableOutput, err)
	}

	wanted := make(map[string]bool, len(rules))
	for _, r := range rules {
		wanted[r] = true
	}

	findings := []finding.Finding{}

	for _, file := range files {
		path := finding.RelPath(root, file.FilePath)

		for _, msg := range file.Messages {
			if msg.RuleID == nil || !wanted[*msg.RuleID] {
				continue
			}

			findings = append(findings, finding.Finding{
				File:       path,
				Line:       msg.Line,
				Column:     msg.Column,
				Identifier: identifier(msg.Message),
				Message:    msg.Message,
				Rule:       *msg.RuleID,
				Strategy:   finding.TagESLint,
			})
		}
	}

	return findings, nil
}

func identifier(msg string) string {
	if m := quotedName.FindStringSubmatch(msg); m != nil {
		return m[1]
	}

	return ""
}

func describe(errs []gojsonschema.ResultError) string {
	parts := make([]string, 0, len(errs))

	for _, e := range errs {
		parts = append(parts, e.Field()+": "+e.Description())
	}

	return strings.Join(parts, "; ")
}
