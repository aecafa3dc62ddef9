package lexscan

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// cursor walks a byte slice and maps offsets back to line and column.
type cursor struct {
	src        []byte
	off        int
	lineStarts []int
}

func newCursor(src []byte) cursor {
	starts := []int{0}

	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return cursor{src: src, lineStarts: starts}
}

func (c *cursor) eof() bool {
	return c.off >= len(c.src)
}

// peek returns the byte n positions ahead, or 0 past the end.
func (c *cursor) peek(n int) byte {
	if c.off+n >= len(c.src) {
		return 0
	}

	return c.src[c.off+n]
}

func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}

	b := c.src[c.off]
	c.off++

	return b
}

func (c *cursor) peekRune() (rune, int) {
	if c.eof() {
		return utf8.RuneError, 0
	}

	return utf8.DecodeRune(c.src[c.off:])
}

// position converts a byte offset to a 1-based line and column.
func (c *cursor) position(off int) (line, column int) {
	idx := sort.Search(len(c.lineStarts), func(i int) bool { return c.lineStarts[i] > off }) - 1

	return idx + 1, off - c.lineStarts[idx] + 1
}

func isIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDigit(b)
}

func isIdentStartRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isSpaceRune(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
