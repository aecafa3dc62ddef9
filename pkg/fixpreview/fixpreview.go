// Package fixpreview proposes rewrites of single-line import declarations
// that drop their unused bindings, and renders them as line diffs.
package fixpreview

import (
	"bytes"
	"slices"
	"strings"
	"unicode"

	"github.com/Sumatoshi-tech/importsweep/pkg/lexscan"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
)

// Edit replaces Content[Start:End] with Text.
type Edit struct {
	Line    int
	Start   int
	End     int
	Text    string
	Removed []string
}

// Edits plans one edit per single-line declaration with unused bindings.
// Declarations spanning several lines are left alone.
func Edits(file *sourceset.File) []Edit {
	analysis := lexscan.Analyze(file)
	if len(analysis.Unused) == 0 {
		return nil
	}

	unused := make(map[bindingKey]bool, len(analysis.Unused))
	for _, b := range analysis.Unused {
		unused[keyOf(b)] = true
	}

	var edits []Edit

	for _, d := range analysis.Declarations {
		if !d.SingleLine(analysis.Tokens) {
			continue
		}

		var kept []lexscan.Binding

		var removed []string

		for _, b := range d.Bindings {
			if unused[keyOf(b)] {
				removed = append(removed, b.Name)
			} else {
				kept = append(kept, b)
			}
		}

		if len(removed) == 0 {
			continue
		}

		edit, ok := planEdit(file.Content, analysis.Tokens, d, kept)
		if !ok {
			continue
		}

		edit.Removed = removed
		edits = append(edits, edit)
	}

	return edits
}

type bindingKey struct {
	line, column int
}

func keyOf(b lexscan.Binding) bindingKey {
	return bindingKey{line: b.NameLine, column: b.NameColumn}
}

func planEdit(content []byte, tokens []lexscan.Token, d lexscan.Declaration, kept []lexscan.Binding) (Edit, bool) {
	first, last := tokens[d.Start], tokens[d.End-1]
	start, end := first.Offset, last.Offset+len(last.Text)

	if len(kept) == 0 {
		start, end = removalSpan(content, start, end)

		return Edit{Line: d.Line, Start: start, End: end}, true
	}

	tail := sourceOffset(tokens, d)
	if tail < 0 {
		return Edit{}, false
	}

	var b strings.Builder

	b.WriteString("import ")

	if d.TypeOnly {
		b.WriteString("type ")
	}

	b.WriteString(renderClause(kept, d.TypeOnly))
	b.WriteString(" from ")
	b.Write(content[tail:end])

	return Edit{Line: d.Line, Start: start, End: end, Text: b.String()}, true
}

// removalSpan widens [start, end) to the whole line when nothing else is on
// it, or to the trailing blanks otherwise.
func removalSpan(content []byte, start, end int) (int, int) {
	lineStart := bytes.LastIndexByte(content[:start], '\n') + 1

	lineEnd := len(content)
	if i := bytes.IndexByte(content[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}

	before := bytes.TrimSpace(content[lineStart:start])
	after := bytes.TrimSpace(content[end:lineEnd])

	if len(before) == 0 && len(after) == 0 {
		if lineEnd < len(content) {
			lineEnd++
		}

		return lineStart, lineEnd
	}

	for end < lineEnd && (content[end] == ' ' || content[end] == '\t') {
		end++
	}

	return start, end
}

// sourceOffset is the offset of the module string after the last "from".
func sourceOffset(tokens []lexscan.Token, d lexscan.Declaration) int {
	for i := d.End - 1; i > d.Start; i-- {
		if tokens[i].Kind == lexscan.String && tokens[i-1].Is(lexscan.Ident, "from") {
			return tokens[i].Offset
		}
	}

	return -1
}

func renderClause(kept []lexscan.Binding, declTypeOnly bool) string {
	var parts []string

	var named []string

	for _, b := range kept {
		switch b.Kind {
		case lexscan.KindDefault:
			parts = append(parts, b.Name)
		case lexscan.KindNamespace:
			parts = append(parts, "* as "+b.Name)
		case lexscan.KindNamed:
			named = append(named, renderNamed(b, declTypeOnly))
		case lexscan.KindEquals:
		}
	}

	if len(named) > 0 {
		parts = append(parts, "{ "+strings.Join(named, ", ")+" }")
	}

	return strings.Join(parts, ", ")
}

func renderNamed(b lexscan.Binding, declTypeOnly bool) string {
	text := b.Name

	if b.Imported != b.Name {
		imported := b.Imported
		if !isIdentifier(imported) {
			imported = `"` + imported + `"`
		}

		text = imported + " as " + b.Name
	}

	if b.TypeOnly && !declTypeOnly {
		text = "type " + text
	}

	return text
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		ok := r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))
		if !ok {
			return false
		}
	}

	return true
}

// Apply returns content with edits applied. Edits must not overlap.
func Apply(content []byte, edits []Edit) []byte {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int { return a.Start - b.Start })

	var out bytes.Buffer

	prev := 0

	for _, e := range sorted {
		if e.Start < prev {
			continue
		}

		out.Write(content[prev:e.Start])
		out.WriteString(e.Text)

		prev = e.End
	}

	out.Write(content[prev:])

	return out.Bytes()
}
