package fixpreview

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
)

// Preview is the proposed rewrite of one file.
type Preview struct {
	File  string
	Edits []Edit
	Diff  string
}

// ForFile builds the preview of file, reported under name. It returns false
// when nothing can be rewritten.
func ForFile(file *sourceset.File, name string) (Preview, bool) {
	edits := Edits(file)
	if len(edits) == 0 {
		return Preview{}, false
	}

	after := Apply(file.Content, edits)

	return Preview{File: name, Edits: edits, Diff: LineDiff(name, file.Content, after)}, true
}

// ForFindings builds previews for every file named by a lexical finding.
// Finding paths are relative to root. Unreadable files are skipped.
func ForFindings(ctx context.Context, root string, findings []finding.Finding, maxSize int64) ([]Preview, error) {
	var files []string

	for _, f := range findings {
		if f.Strategy == finding.TagLexical {
			files = append(files, f.File)
		}
	}

	slices.Sort(files)
	files = slices.Compact(files)

	previews := make([]Preview, 0, len(files))

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fix preview: %w", err)
		}

		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, filepath.FromSlash(name))
		}

		file, loadErr := sourceset.Load(path, maxSize)
		if loadErr != nil {
			continue
		}

		if p, ok := ForFile(file, name); ok {
			previews = append(previews, p)
		}
	}

	return previews, nil
}

// Render writes previews with removed lines in red and added lines in green.
func Render(w io.Writer, previews []Preview, noColor bool) error {
	if len(previews) == 0 {
		return nil
	}

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	hunk := color.New(color.FgCyan)

	for _, c := range []*color.Color{removed, added, hunk} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	var b strings.Builder

	b.WriteString("Suggested import cleanup\n\n")

	for _, p := range previews {
		for _, line := range splitLines(p.Diff) {
			switch {
			case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
				b.WriteString(line)
			case strings.HasPrefix(line, "@@"):
				b.WriteString(hunk.Sprint(line))
			case strings.HasPrefix(line, "-"):
				b.WriteString(removed.Sprint(line))
			case strings.HasPrefix(line, "+"):
				b.WriteString(added.Sprint(line))
			default:
				b.WriteString(line)
			}

			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write fix preview: %w", err)
	}

	return nil
}
