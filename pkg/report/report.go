// Package report merges strategy results into one deduplicated report and
// renders it.
package report

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
)

// OutcomeSkipped marks a strategy the orchestrator chose not to run.
const OutcomeSkipped finding.Outcome = "skipped"

// Process exit statuses.
const (
	ExitClean    = 0
	ExitFindings = 1
)

// StrategySummary describes what one strategy contributed. Total is what
// the strategy detected before deduplication; Unique is what survived it,
// including findings the strategy counted but did not list.
type StrategySummary struct {
	Strategy  finding.Tag     `json:"strategy"          yaml:"strategy"`
	Outcome   finding.Outcome `json:"outcome"           yaml:"outcome"`
	Attempted bool            `json:"attempted"         yaml:"attempted"`
	Total     int             `json:"total"             yaml:"total"`
	Unique    int             `json:"unique"            yaml:"unique"`
	Omitted   int             `json:"omitted,omitempty" yaml:"omitted,omitempty"`
	Reason    string          `json:"reason,omitempty"  yaml:"reason,omitempty"`
}

// Report is the immutable result of one scan.
type Report struct {
	Root          string            `json:"root"                yaml:"root"`
	StartedAt     time.Time         `json:"started_at"          yaml:"started_at"`
	FinishedAt    time.Time         `json:"finished_at"         yaml:"finished_at"`
	FilesScanned  int               `json:"files_scanned"       yaml:"files_scanned"`
	LinesScanned  int               `json:"lines_scanned"       yaml:"lines_scanned"`
	TotalFindings int               `json:"total_findings"      yaml:"total_findings"`
	Findings      []finding.Finding `json:"findings"            yaml:"findings"`
	Strategies    []StrategySummary `json:"strategies"          yaml:"strategies"`
	Attempted     []finding.Tag     `json:"attempted"           yaml:"attempted"`
	Skipped       []finding.Tag     `json:"skipped"             yaml:"skipped"`
	Languages     map[string]int    `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// ExitCode is 0 when no findings were detected and 1 otherwise. Strategies
// that were unavailable or inconclusive never affect it.
func (r *Report) ExitCode() int {
	if r.TotalFindings == 0 {
		return ExitClean
	}

	return ExitFindings
}

// Duration is the wall time of the scan.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// FindingsBy returns the deduplicated findings attributed to tag.
func (r *Report) FindingsBy(tag finding.Tag) []finding.Finding {
	var out []finding.Finding

	for _, f := range r.Findings {
		if f.Strategy == tag {
			out = append(out, f)
		}
	}

	return out
}

// Summary returns the summary for tag, if the strategy was recorded.
func (r *Report) Summary(tag finding.Tag) (StrategySummary, bool) {
	for _, s := range r.Strategies {
		if s.Strategy == tag {
			return s, true
		}
	}

	return StrategySummary{}, false
}

// Builder accumulates results for one scan. It is not safe for concurrent use.
type Builder struct {
	root      string
	started   time.Time
	files     int
	lines     int
	languages map[string]int
	results   []finding.Result
	skipped   map[finding.Tag]string
	now       func() time.Time
}

// NewBuilder starts a report for root.
func NewBuilder(root string) *Builder {
	return &Builder{root: root, started: time.Now(), skipped: map[finding.Tag]string{}, now: time.Now}
}

// WithClock replaces the time source.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	b.started = now()

	return b
}

// WithFilesScanned records how many files were enumerated.
func (b *Builder) WithFilesScanned(n int) *Builder {
	b.files = n

	return b
}

// WithLinesScanned records how many source lines the lexical scan read.
func (b *Builder) WithLinesScanned(n int) *Builder {
	b.lines = n

	return b
}

// WithLanguages records the per-language file counts.
func (b *Builder) WithLanguages(languages map[string]int) *Builder {
	b.languages = maps.Clone(languages)

	return b
}

// AddResult records a strategy that ran.
func (b *Builder) AddResult(result finding.Result) *Builder {
	b.results = append(b.results, result)

	return b
}

// MarkSkipped records a strategy that did not run.
func (b *Builder) MarkSkipped(tag finding.Tag, reason string) *Builder {
	b.skipped[tag] = reason

	return b
}

// Build deduplicates findings by (file, line, identifier). When strategies
// agree, the one with the higher priority keeps the finding.
func (b *Builder) Build() *Report {
	results := slices.Clone(b.results)
	slices.SortStableFunc(results, func(x, y finding.Result) int {
		return cmp.Compare(x.Strategy.Priority(), y.Strategy.Priority())
	})

	report := &Report{
		Root:         b.root,
		StartedAt:    b.started,
		FinishedAt:   b.now(),
		FilesScanned: b.files,
		LinesScanned: b.lines,
		Findings:     []finding.Finding{},
		Attempted:    []finding.Tag{},
		Skipped:      []finding.Tag{},
		Languages:    b.languages,
	}

	seen := make(map[finding.Key]bool)
	omitted := 0

	for _, result := range results {
		summary := StrategySummary{
			Strategy:  result.Strategy,
			Outcome:   result.Outcome,
			Attempted: true,
			Total:     result.Total,
			Omitted:   result.Omitted(),
			Reason:    result.Reason,
		}

		for _, f := range result.Findings {
			key := f.Key()
			if seen[key] {
				continue
			}

			seen[key] = true

			if f.Strategy == "" {
				f.Strategy = result.Strategy
			}

			report.Findings = append(report.Findings, f)
			summary.Unique++
		}

		summary.Unique += summary.Omitted
		omitted += summary.Omitted

		report.Strategies = append(report.Strategies, summary)
		report.Attempted = append(report.Attempted, result.Strategy)
	}

	skippedTags := slices.SortedFunc(maps.Keys(b.skipped), func(x, y finding.Tag) int {
		return cmp.Compare(x.Priority(), y.Priority())
	})

	for _, tag := range skippedTags {
		report.Skipped = append(report.Skipped, tag)
		report.Strategies = append(report.Strategies, StrategySummary{
			Strategy: tag,
			Outcome:  OutcomeSkipped,
			Reason:   b.skipped[tag],
		})
	}

	slices.SortStableFunc(report.Strategies, func(x, y StrategySummary) int {
		return cmp.Compare(x.Strategy.Priority(), y.Strategy.Priority())
	})

	finding.Sort(report.Findings)
	report.TotalFindings = len(report.Findings) + omitted

	return report
}
