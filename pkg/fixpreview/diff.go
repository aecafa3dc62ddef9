package fixpreview

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff renders a compact unified diff of before and after: changed lines
// only, each hunk headed by its starting line numbers.
func LineDiff(name string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}

	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffCleanupMerge(dmp.DiffMainRunes(src, dst, false)), lines)

	var b strings.Builder

	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", name, name)

	oldLine, newLine := 1, 1
	inHunk := false

	for _, d := range diffs {
		chunk := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldLine += len(chunk)
			newLine += len(chunk)
			inHunk = false
		case diffmatchpatch.DiffDelete:
			if !inHunk {
				fmt.Fprintf(&b, "@@ -%d +%d @@\n", oldLine, newLine)
				inHunk = true
			}

			for _, line := range chunk {
				b.WriteString("-" + line + "\n")
			}

			oldLine += len(chunk)
		case diffmatchpatch.DiffInsert:
			if !inHunk {
				fmt.Fprintf(&b, "@@ -%d +%d @@\n", oldLine, newLine)
				inHunk = true
			}

			for _, line := range chunk {
				b.WriteString("+" + line + "\n")
			}

			newLine += len(chunk)
		}
	}

	return b.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r\n")
	}

	return lines
}
