// Package finding defines the normalized unused-symbol report shared by all
// detection strategies, and the three-way result each strategy returns.
package finding

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Tag identifies the strategy that produced a finding.
type Tag string

// Strategy tags in priority order.
const (
	TagESLint  Tag = "eslint"
	TagTSPrune Tag = "ts-prune"
	TagLexical Tag = "lexical"
)

// Priority returns the ordering rank of a tag. Lower runs first and wins
// deduplication ties.
func (t Tag) Priority() int {
	switch t {
	case TagESLint:
		return 0
	case TagTSPrune:
		return 1
	case TagLexical:
		return 2
	default:
		return 3
	}
}

// Finding is a single potentially unused symbol.
type Finding struct {
	File       string `json:"file"              yaml:"file"`
	Line       int    `json:"line"              yaml:"line"`
	Column     int    `json:"column,omitempty"  yaml:"column,omitempty"`
	Identifier string `json:"identifier"        yaml:"identifier"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Rule       string `json:"rule,omitempty"    yaml:"rule,omitempty"`
	Strategy   Tag    `json:"strategy"          yaml:"strategy"`
}

// Key is the deduplication identity of a finding.
type Key struct {
	File       string
	Line       int
	Identifier string
}

// Key returns the (file, line, identifier) triple.
func (f Finding) Key() Key {
	return Key{File: f.File, Line: f.Line, Identifier: f.Identifier}
}

// Location formats the finding position as file:line[:column].
func (f Finding) Location() string {
	if f.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column)
	}

	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// Sort orders findings by file, line, column and identifier.
func Sort(findings []Finding) {
	slices.SortStableFunc(findings, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Identifier, b.Identifier),
		)
	})
}

// RelPath expresses path relative to root with forward slashes, so findings
// from tools that report absolute and relative paths share one key. Paths
// outside root are returned cleaned but otherwise unchanged.
func RelPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(filepath.Clean(path))
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(filepath.Clean(path))
	}

	return filepath.ToSlash(rel)
}
