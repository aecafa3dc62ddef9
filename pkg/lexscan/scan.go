package lexscan

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
	"github.com/Sumatoshi-tech/importsweep/pkg/textutil"
)

// RuleUnusedImport is the rule name attached to lexical findings.
const RuleUnusedImport = "unused-import"

// Analysis is the per-file result of the lexical scan.
type Analysis struct {
	Tokens       []Token
	Declarations []Declaration
	Unused       []Binding
}

// Analyze tokenizes a file and reports the import bindings it never uses.
func Analyze(file *sourceset.File) Analysis {
	tokens := TokenizeDialect(file.Content, DialectFor(file.Path))
	decls := ParseImports(tokens)

	excluded := make([]bool, len(tokens))

	for _, d := range decls {
		markRange(excluded, tokenRange{start: d.Start, end: d.End})
	}

	for _, r := range reexportRanges(tokens) {
		markRange(excluded, r)
	}

	// lastUse holds the last line each identifier appears on outside
	// declarations; a binding is used iff that line is after its import.
	lastUse := make(map[string]int)

	for i, tok := range tokens {
		if tok.Kind != Ident || excluded[i] {
			continue
		}

		lastUse[tok.Text] = max(lastUse[tok.Text], tok.Line)
	}

	var unused []Binding

	for _, d := range decls {
		for _, b := range d.Bindings {
			if lastUse[b.Name] <= d.Line {
				unused = append(unused, b)
			}
		}
	}

	return Analysis{Tokens: tokens, Declarations: decls, Unused: unused}
}

func markRange(excluded []bool, r tokenRange) {
	for i := r.start; i < r.end && i < len(excluded); i++ {
		excluded[i] = true
	}
}

// ScanFile returns one lexical finding per unused binding in file, located
// at the line of its import keyword.
func ScanFile(file *sourceset.File) []finding.Finding {
	unused := Analyze(file).Unused
	if len(unused) == 0 {
		return nil
	}

	findings := make([]finding.Finding, 0, len(unused))

	for _, b := range unused {
		findings = append(findings, bindingFinding(file.Path, b))
	}

	return findings
}

func bindingFinding(path string, b Binding) finding.Finding {
	column := 0
	if b.NameLine == b.Line {
		column = b.NameColumn
	}

	return finding.Finding{
		File:       path,
		Line:       b.Line,
		Column:     column,
		Identifier: b.Name,
		Message:    fmt.Sprintf("'%s' is imported but never used", b.Name),
		Rule:       RuleUnusedImport,
		Strategy:   finding.TagLexical,
	}
}

// Scanner runs the lexical analysis over many files in parallel.
type Scanner struct {
	// Root is used to report paths relative to the project root.
	Root string
	// Workers bounds parallelism. Zero means GOMAXPROCS.
	Workers int
	// MaxFileSize skips larger files. Zero disables the limit.
	MaxFileSize int64
	Logger      *slog.Logger
}

// ScanResult aggregates a parallel scan.
type ScanResult struct {
	Findings []finding.Finding
	// Scanned counts files that were read and analyzed.
	Scanned int
	// Skipped counts files that could not be loaded.
	Skipped int
	// Lines counts source lines across scanned files.
	Lines int
}

type fileOutcome struct {
	findings []finding.Finding
	lines    int
	loaded   bool
}

// Scan analyzes paths and returns every unused binding, ordered by file and
// line. Files that cannot be loaded are skipped. The only error is
// cancellation of ctx.
func (s *Scanner) Scan(ctx context.Context, paths []string) (ScanResult, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]fileOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(workers, len(paths)), 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			file, loadErr := sourceset.Load(path, s.MaxFileSize)
			if loadErr != nil {
				logger.DebugContext(gctx, "skipping file", "path", path, "error", loadErr)

				return nil
			}

			findings := ScanFile(file)
			for j := range findings {
				findings[j].File = finding.RelPath(s.Root, findings[j].File)
			}

			outcomes[i] = fileOutcome{findings: findings, lines: textutil.CountLines(file.Content), loaded: true}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ScanResult{}, fmt.Errorf("lexical scan: %w", err)
	}

	result := ScanResult{Findings: []finding.Finding{}}

	for _, o := range outcomes {
		if !o.loaded {
			result.Skipped++

			continue
		}

		result.Scanned++
		result.Lines += o.lines
		result.Findings = append(result.Findings, o.findings...)
	}

	finding.Sort(result.Findings)

	return result, nil
}
