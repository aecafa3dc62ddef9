package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
)

// Default listing caps.
const (
	DefaultListingLimit        = 10
	DefaultLexicalDisplayLimit = 20
)

const durationRounding = time.Millisecond

const separator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// TextOptions controls the console renderer. Zero limits mean unlimited.
type TextOptions struct {
	NoColor             bool
	ListingLimit        int
	LexicalDisplayLimit int
	HideRecommendations bool
}

// DefaultTextOptions returns the stock console settings.
func DefaultTextOptions() TextOptions {
	return TextOptions{ListingLimit: DefaultListingLimit, LexicalDisplayLimit: DefaultLexicalDisplayLimit}
}

type palette struct {
	title   *color.Color
	heading *color.Color
	good    *color.Color
	warn    *color.Color
	bad     *color.Color
	muted   *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		title:   color.New(color.FgCyan, color.Bold),
		heading: color.New(color.Bold),
		good:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed, color.Bold),
		muted:   color.New(color.FgHiBlack),
	}

	for _, c := range []*color.Color{p.title, p.heading, p.good, p.warn, p.bad, p.muted} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	return p
}

// RenderText writes the human-readable report.
func RenderText(w io.Writer, r *Report, opts TextOptions) error {
	p := newPalette(opts.NoColor)

	var b strings.Builder

	b.WriteString(p.title.Sprint("Unused import detection") + "\n")
	b.WriteString(separator + "\n\n")
	fmt.Fprintf(&b, "Root: %s\n\n", r.Root)

	b.WriteString(p.heading.Sprint("Strategies") + "\n")
	b.WriteString(strategyTable(r, p) + "\n\n")

	for _, s := range r.Strategies {
		writeListing(&b, r, s, opts, p)
	}

	b.WriteString(separator + "\n")
	b.WriteString(p.heading.Sprint("Summary") + "\n\n")
	fmt.Fprintf(&b, "Files scanned: %s\n", humanize.Comma(int64(r.FilesScanned)))

	if r.LinesScanned > 0 {
		fmt.Fprintf(&b, "Lines scanned: %s\n", humanize.Comma(int64(r.LinesScanned)))
	}

	issues := humanize.Comma(int64(r.TotalFindings))
	if r.TotalFindings > 0 {
		issues = p.bad.Sprint(issues)
	} else {
		issues = p.good.Sprint(issues)
	}

	fmt.Fprintf(&b, "Issues found: %s\n", issues)

	if langs := languageLine(r.Languages); langs != "" {
		fmt.Fprintf(&b, "Languages: %s\n", langs)
	}

	fmt.Fprintf(&b, "Duration: %s\n", r.Duration().Round(durationRounding))

	if !opts.HideRecommendations {
		if recs := Recommendations(r); len(recs) > 0 {
			b.WriteString("\n" + p.heading.Sprint("Recommendations") + "\n\n")

			for i, rec := range recs {
				fmt.Fprintf(&b, "  %d. %s\n", i+1, rec.Text)

				if rec.Command != "" {
					fmt.Fprintf(&b, "     %s\n", p.muted.Sprint(rec.Command))
				}
			}
		}
	}

	b.WriteString(separator + "\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	return nil
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	return tbl
}

func strategyTable(r *Report, p palette) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Strategy", "Outcome", "Found", "Unique", "Note"})

	for _, s := range r.Strategies {
		found, unique := "-", "-"
		if s.Outcome == finding.OutcomeFindings {
			found = strconv.Itoa(s.Total)
			unique = strconv.Itoa(s.Unique)
		}

		tbl.AppendRow(table.Row{string(s.Strategy), outcomeLabel(s, p), found, unique, s.Reason})
	}

	return tbl.Render()
}

func outcomeLabel(s StrategySummary, p palette) string {
	label := strings.ReplaceAll(string(s.Outcome), "_", " ")

	switch s.Outcome {
	case finding.OutcomeFindings:
		if s.Total > 0 {
			return p.warn.Sprint(label)
		}

		return p.good.Sprint("clean")
	case finding.OutcomeInconclusive:
		return p.warn.Sprint(label)
	default:
		return p.muted.Sprint(label)
	}
}

func writeListing(b *strings.Builder, r *Report, s StrategySummary, opts TextOptions, p palette) {
	findings := r.FindingsBy(s.Strategy)
	if len(findings) == 0 && s.Omitted == 0 {
		return
	}

	limit := opts.ListingLimit
	if s.Strategy == finding.TagLexical {
		limit = opts.LexicalDisplayLimit
	}

	shown := findings
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	fmt.Fprintf(b, "%s (%d)\n", p.heading.Sprint(listingTitle(s.Strategy)), s.Unique)

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Location", "Identifier", "Message"})

	for _, f := range shown {
		tbl.AppendRow(table.Row{f.Location(), f.Identifier, f.Message})
	}

	b.WriteString(tbl.Render() + "\n")

	if more := len(findings) - len(shown) + s.Omitted; more > 0 {
		fmt.Fprintf(b, "   ... and %d more\n", more)
	}

	b.WriteString("\n")
}

func listingTitle(tag finding.Tag) string {
	switch tag {
	case finding.TagESLint:
		return "Unused variables (eslint)"
	case finding.TagTSPrune:
		return "Unused exports (ts-prune)"
	case finding.TagLexical:
		return "Potentially unused imports (lexical)"
	default:
		return string(tag)
	}
}

func languageLine(langs map[string]int) string {
	if len(langs) == 0 {
		return ""
	}

	names := slices.SortedFunc(maps.Keys(langs), func(a, b string) int {
		if langs[a] != langs[b] {
			return langs[b] - langs[a]
		}

		return strings.Compare(a, b)
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, langs[name]))
	}

	return strings.Join(parts, ", ")
}
