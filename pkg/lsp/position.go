package lsp

import (
	"bytes"
	"net/url"
	"path/filepath"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// positionAt converts a byte offset into an LSP position, counting
// characters in UTF-16 code units.
func positionAt(content []byte, off int) protocol.Position {
	off = min(max(off, 0), len(content))

	var line, char int

	for i := 0; i < off; {
		r, size := utf8.DecodeRune(content[i:])
		if r == '\n' {
			line++
			char = 0
		} else {
			char += max(utf16.RuneLen(r), 1)
		}

		i += size
	}

	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

// lineOffset returns the byte offset of the start of 1-based line.
func lineOffset(content []byte, line int) int {
	off := 0

	for l := 1; l < line; l++ {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return len(content)
		}

		off += i + 1
	}

	return off
}

// uriPath extracts the filesystem path of a file:// URI. Other URIs are
// returned unchanged.
func uriPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return uri
	}

	return filepath.FromSlash(parsed.Path)
}

func rangesOverlap(a, b protocol.Range) bool {
	return !before(a.End, b.Start) && !before(b.End, a.Start)
}

func before(a, b protocol.Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Character < b.Character)
}
