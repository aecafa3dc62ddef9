package lexscan

import (
	"bytes"
	"unicode/utf8"
)

type frameKind uint8

const (
	frameNone frameKind = iota
	// frameTemplate is a ${} substitution inside a template literal.
	frameTemplate
	// frameJSXExpr is a {} expression container inside a JSX element.
	frameJSXExpr
	// frameJSXTag is the inside of <Name ...> or </Name>.
	frameJSXTag
	// frameJSXChildren is the text between an opening and a closing tag.
	frameJSXChildren
)

// frame is one level of nesting that changes how bytes are tokenized.
// depth is the brace depth a closing } must be at to end a template
// substitution or a JSX expression container.
type frame struct {
	kind    frameKind
	depth   int
	closing bool
	named   bool
	attrs   int
}

func (lx *lexer) push(f frame) {
	lx.frames = append(lx.frames, f)
}

func (lx *lexer) pop() {
	if n := len(lx.frames); n > 0 {
		lx.frames = lx.frames[:n-1]
	}
}

func (lx *lexer) top() frame {
	if n := len(lx.frames); n > 0 {
		return lx.frames[n-1]
	}

	return frame{}
}

// jsxAllowed reports whether the < under the cursor opens a JSX element:
// an operand may appear here and a tag name or the > of a fragment follows.
// In DialectTS the element must also be closed explicitly.
func (lx *lexer) jsxAllowed() bool {
	if n := len(lx.tokens); n > 0 && !startsExpression(lx.tokens[n-1]) {
		return false
	}

	next := lx.cur.peek(1)

	switch {
	case next == '>' || isIdentStartByte(next):
	case next >= utf8.RuneSelf:
		r, _ := utf8.DecodeRune(lx.cur.src[lx.cur.off+1:])
		if !isIdentStartRune(r) {
			return false
		}
	default:
		return false
	}

	return lx.dialect == DialectJSX || lx.closedLater()
}

// closedLater reports whether the element starting at the cursor
// self-closes or has its closing tag further on. A TypeScript type assertion
// such as <Foo>value has neither.
func (lx *lexer) closedLater() bool {
	rest := lx.cur.src[lx.cur.off+1:]

	n := 0
	for n < len(rest) && isJSXNameByte(rest[n]) {
		n++
	}

	name, after := rest[:n], rest[n:]

	if i := bytes.IndexByte(after, '>'); i > 0 && after[i-1] == '/' {
		return true
	}

	closing := append([]byte("</"), name...)

	return bytes.Contains(after, append(closing, '>'))
}

func isJSXNameByte(b byte) bool {
	return isIdentContinueByte(b) || b == '-' || b == '.' || b == ':' || b >= utf8.RuneSelf
}

// openJSXTag consumes "<" or "</" and enters tag mode.
func (lx *lexer) openJSXTag(start int) {
	lx.cur.bump()

	closing := lx.cur.peek(0) == '/'
	if closing {
		lx.cur.bump()
	}

	lx.emit(Punct, start)
	lx.push(frame{kind: frameJSXTag, closing: closing})
}

// scanJSXTag consumes one token inside a tag. Anything that cannot appear in
// a tag means the < was not JSX after all (a generic arrow function such as
// <T,>() => ...), so tag mode is abandoned and scanning resumes in the
// enclosing mode at the same byte.
func (lx *lexer) scanJSXTag() {
	start := lx.cur.off
	tag := &lx.frames[len(lx.frames)-1]
	b := lx.cur.peek(0)

	switch {
	case b == '>':
		closing := tag.closing

		lx.cur.bump()
		lx.emit(Punct, start)
		lx.pop()

		if !closing {
			lx.push(frame{kind: frameJSXChildren})
		} else if lx.top().kind == frameJSXChildren {
			lx.pop()
		}
	case b == '/' && lx.cur.peek(1) == '>' && !tag.closing:
		lx.cur.off += 2
		lx.emit(Punct, start)
		lx.pop()
	case b == '{' && tag.named:
		lx.cur.bump()
		lx.emit(Punct, start)
		lx.push(frame{kind: frameJSXExpr, depth: lx.depth})
	case (b == '"' || b == '\'') && tag.named:
		lx.scanJSXString(start, b)
	case b == '=' || b == '.' || b == ':':
		lx.cur.bump()
		lx.emit(Punct, start)
	case lx.identAhead():
		lx.scanJSXName(start)

		if !tag.named {
			tag.named = true

			return
		}

		tag.attrs++
		if tag.attrs == 1 && lx.tokens[len(lx.tokens)-1].Text == "extends" {
			lx.pop()
		}
	default:
		lx.pop()
	}
}

func (lx *lexer) identAhead() bool {
	b := lx.cur.peek(0)
	if b < utf8.RuneSelf {
		return isIdentStartByte(b)
	}

	r, _ := lx.cur.peekRune()

	return isIdentStartRune(r)
}

// scanJSXName consumes a tag or attribute name, which may contain hyphens.
func (lx *lexer) scanJSXName(start int) {
	lx.consumeIdent()

	for lx.cur.peek(0) == '-' {
		lx.cur.bump()
		lx.consumeIdent()
	}

	lx.emit(Ident, start)
}

// scanJSXString consumes an attribute string. JSX strings have no escapes
// and may span lines.
func (lx *lexer) scanJSXString(start int, quote byte) {
	lx.cur.bump()

	for !lx.cur.eof() {
		if lx.cur.bump() == quote {
			break
		}
	}

	lx.emit(String, start)
}

// scanJSXChildren consumes element text up to the next expression container
// or tag. Quotes, slashes and comment markers in text are plain text.
func (lx *lexer) scanJSXChildren() {
	start := lx.cur.off

	for !lx.cur.eof() {
		b := lx.cur.peek(0)
		if b == '{' {
			break
		}

		if b == '<' {
			next := lx.cur.peek(1)
			if next == '/' || next == '>' || next >= utf8.RuneSelf || isIdentStartByte(next) {
				break
			}
		}

		lx.cur.bump()
	}

	if lx.cur.off > start {
		lx.emit(JSXText, start)
	}

	if lx.cur.eof() {
		return
	}

	tokStart := lx.cur.off

	if lx.cur.peek(0) == '{' {
		lx.cur.bump()
		lx.emit(Punct, tokStart)
		lx.push(frame{kind: frameJSXExpr, depth: lx.depth})

		return
	}

	lx.openJSXTag(tokStart)
}
