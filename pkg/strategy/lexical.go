package strategy

import (
	"context"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/lexscan"
)

// Lexical wraps the built-in scanner as a strategy over a fixed file list.
type Lexical struct {
	Scanner *lexscan.Scanner
	Paths   []string

	lines int
}

// Name returns the lexical tag.
func (l *Lexical) Name() finding.Tag {
	return finding.TagLexical
}

// Run scans every path. Only cancellation makes the result inconclusive.
func (l *Lexical) Run(ctx context.Context) finding.Result {
	result, err := l.Scanner.Scan(ctx, l.Paths)
	if err != nil {
		return finding.Inconclusive(finding.TagLexical, err.Error())
	}

	l.lines = result.Lines

	return finding.Found(finding.TagLexical, result.Findings, len(result.Findings))
}

// Lines reports the source lines read by the last Run.
func (l *Lexical) Lines() int {
	return l.lines
}
