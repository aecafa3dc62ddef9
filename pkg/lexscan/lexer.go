package lexscan

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// multiPunct lists punctuators longer than one byte that the scanner needs
// to tell apart. Longest first.
var multiPunct = []string{"...", "?.", "=>"}

// Dialect selects the syntax the tokenizer accepts where JavaScript flavors
// disagree.
type Dialect uint8

// Dialects.
const (
	// DialectJSX accepts JSX elements (.js, .jsx, .tsx and friends).
	DialectJSX Dialect = iota
	// DialectTS accepts JSX only for elements that self-close or have a
	// closing tag, so `<T>expr` type assertions stay expressions.
	DialectTS
)

// DialectFor picks the dialect from a file name. Plain TypeScript files may
// use angle-bracket type assertions; everything else may contain JSX.
func DialectFor(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return DialectTS
	default:
		return DialectJSX
	}
}

// lexer turns source bytes into tokens. Template literal substitutions, JSX
// elements and JSX expression containers are tracked on a stack of frames
// so `${ {a} }` and `<p>{ {a} }</p>` close at the right brace.
type lexer struct {
	cur     cursor
	tokens  []Token
	depth   int
	frames  []frame
	dialect Dialect
}

// Tokenize splits JavaScript or TypeScript source into tokens, accepting
// JSX. Comments and whitespace are dropped. The tokenizer never fails:
// malformed input degrades into punctuation tokens.
func Tokenize(content []byte) []Token {
	return TokenizeDialect(content, DialectJSX)
}

// TokenizeDialect is Tokenize for an explicit dialect.
func TokenizeDialect(content []byte, dialect Dialect) []Token {
	lx := &lexer{cur: newCursor(content), dialect: dialect}
	lx.run()

	return lx.tokens
}

func (lx *lexer) run() {
	lx.skipHashbang()

	for {
		switch lx.top().kind {
		case frameJSXChildren:
			if lx.cur.eof() {
				return
			}

			lx.scanJSXChildren()

			continue
		case frameJSXTag:
			lx.skipTrivia()

			if lx.cur.eof() {
				return
			}

			lx.scanJSXTag()

			continue
		}

		lx.skipTrivia()

		if lx.cur.eof() {
			return
		}

		lx.scanToken()
	}
}

func (lx *lexer) scanToken() {
	start := lx.cur.off
	b := lx.cur.peek(0)

	switch {
	case isIdentStartByte(b):
		lx.scanIdent(start)
	case b >= utf8.RuneSelf:
		r, size := lx.cur.peekRune()
		if isIdentStartRune(r) {
			lx.scanIdent(start)

			return
		}

		lx.cur.off += max(size, 1)
		lx.emit(Punct, start)
	case isDigit(b) || (b == '.' && isDigit(lx.cur.peek(1))):
		lx.scanNumber(start)
	case b == '"' || b == '\'':
		lx.scanString(start, b)
	case b == '`':
		lx.cur.bump()
		lx.scanTemplate(start)
	case b == '#' && isIdentStartByte(lx.cur.peek(1)):
		lx.cur.bump()
		lx.consumeIdent()
		lx.emit(PrivateName, start)
	case b == '/' && lx.regexAllowed():
		if !lx.scanRegex(start) {
			lx.cur.bump()
			lx.emit(Punct, start)
		}
	case b == '{':
		lx.cur.bump()
		lx.depth++
		lx.emit(Punct, start)
	case b == '}':
		lx.closeBrace(start)
	case b == '<' && lx.jsxAllowed():
		lx.openJSXTag(start)
	default:
		lx.scanPunct(start)
	}
}

func (lx *lexer) emit(kind Kind, start int) {
	line, col := lx.cur.position(start)

	lx.tokens = append(lx.tokens, Token{
		Kind:   kind,
		Text:   string(lx.cur.src[start:lx.cur.off]),
		Line:   line,
		Column: col,
		Offset: start,
	})
}

func (lx *lexer) skipHashbang() {
	if lx.cur.peek(0) == '#' && lx.cur.peek(1) == '!' {
		lx.skipLine()
	}
}

func (lx *lexer) skipLine() {
	for !lx.cur.eof() && lx.cur.peek(0) != '\n' {
		lx.cur.bump()
	}
}

func (lx *lexer) skipTrivia() {
	for !lx.cur.eof() {
		b := lx.cur.peek(0)

		switch {
		case b == '/' && lx.cur.peek(1) == '/':
			lx.skipLine()
		case b == '/' && lx.cur.peek(1) == '*':
			lx.skipBlockComment()
		case b < utf8.RuneSelf:
			if b != ' ' && b != '\t' && b != '\n' && b != '\r' && b != '\v' && b != '\f' {
				return
			}

			lx.cur.bump()
		default:
			r, size := lx.cur.peekRune()
			if !isSpaceRune(r) {
				return
			}

			lx.cur.off += size
		}
	}
}

func (lx *lexer) skipBlockComment() {
	lx.cur.off += 2

	for !lx.cur.eof() {
		if lx.cur.peek(0) == '*' && lx.cur.peek(1) == '/' {
			lx.cur.off += 2

			return
		}

		lx.cur.bump()
	}
}

func (lx *lexer) consumeIdent() {
	for !lx.cur.eof() {
		b := lx.cur.peek(0)
		if b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}

			lx.cur.bump()

			continue
		}

		r, size := lx.cur.peekRune()
		if !isIdentContinueRune(r) {
			return
		}

		lx.cur.off += size
	}
}

func (lx *lexer) scanIdent(start int) {
	r, size := lx.cur.peekRune()
	if r < utf8.RuneSelf {
		lx.cur.bump()
	} else {
		lx.cur.off += size
	}

	lx.consumeIdent()
	lx.emit(Ident, start)
}

func (lx *lexer) scanNumber(start int) {
	for !lx.cur.eof() {
		b := lx.cur.peek(0)
		if !isIdentContinueByte(b) && b != '.' {
			break
		}

		lx.cur.bump()
	}

	lx.emit(Number, start)
}

// scanString consumes a quoted literal. An unescaped newline ends the
// literal early so a stray quote cannot swallow the rest of the file.
func (lx *lexer) scanString(start int, quote byte) {
	lx.cur.bump()

	for !lx.cur.eof() {
		b := lx.cur.peek(0)

		switch b {
		case '\\':
			lx.cur.off += 2
			lx.cur.off = min(lx.cur.off, len(lx.cur.src))
		case quote:
			lx.cur.bump()
			lx.emit(String, start)

			return
		case '\n':
			lx.emit(String, start)

			return
		default:
			lx.cur.bump()
		}
	}

	lx.emit(String, start)
}

// scanTemplate consumes template text up to the closing backtick or the
// next ${, which opens an expression scanned as ordinary tokens.
func (lx *lexer) scanTemplate(start int) {
	for !lx.cur.eof() {
		b := lx.cur.peek(0)

		switch {
		case b == '\\':
			lx.cur.off += 2
			lx.cur.off = min(lx.cur.off, len(lx.cur.src))
		case b == '`':
			lx.cur.bump()
			lx.emit(Template, start)

			return
		case b == '$' && lx.cur.peek(1) == '{':
			lx.emit(Template, start)

			exprStart := lx.cur.off
			lx.cur.off += 2
			lx.emit(Punct, exprStart)
			lx.push(frame{kind: frameTemplate, depth: lx.depth})

			return
		default:
			lx.cur.bump()
		}
	}

	lx.emit(Template, start)
}

func (lx *lexer) closeBrace(start int) {
	lx.cur.bump()

	if top := lx.top(); top.depth == lx.depth {
		switch top.kind {
		case frameTemplate:
			lx.pop()
			lx.emit(Punct, start)
			lx.scanTemplate(lx.cur.off)

			return
		case frameJSXExpr:
			lx.pop()
			lx.emit(Punct, start)

			return
		}
	}

	lx.depth = max(lx.depth-1, 0)
	lx.emit(Punct, start)
}

// regexAllowed decides from the previous token whether a slash starts a
// regular expression or is a division operator.
func (lx *lexer) regexAllowed() bool {
	if len(lx.tokens) == 0 {
		return true
	}

	return startsExpression(lx.tokens[len(lx.tokens)-1])
}

// startsExpression reports whether an operand may follow prev, which decides
// both regex literals and JSX elements.
func startsExpression(prev Token) bool {
	switch prev.Kind {
	case Punct:
		switch prev.Text {
		case ")", "]", "}", "<", "</":
			return false
		default:
			return true
		}
	case Ident:
		return regexKeywords[prev.Text]
	default:
		return false
	}
}

// scanRegex consumes a regular expression literal. It reports false, leaving
// the cursor untouched, when no closing slash appears on the same line.
func (lx *lexer) scanRegex(start int) bool {
	lx.cur.bump()

	inClass := false

	for !lx.cur.eof() {
		b := lx.cur.peek(0)

		switch {
		case b == '\n':
			lx.cur.off = start

			return false
		case b == '\\':
			lx.cur.off += 2
			lx.cur.off = min(lx.cur.off, len(lx.cur.src))
		case b == '[':
			inClass = true
			lx.cur.bump()
		case b == ']':
			inClass = false
			lx.cur.bump()
		case b == '/' && !inClass:
			lx.cur.bump()
			lx.consumeIdent()
			lx.emit(Regex, start)

			return true
		default:
			lx.cur.bump()
		}
	}

	lx.cur.off = start

	return false
}

func (lx *lexer) scanPunct(start int) {
	rest := lx.cur.src[lx.cur.off:]

	for _, p := range multiPunct {
		if len(rest) >= len(p) && string(rest[:len(p)]) == p {
			// "?." followed by a digit is a conditional, not optional chaining.
			if p == "?." && len(rest) > len(p) && isDigit(rest[len(p)]) {
				continue
			}

			lx.cur.off += len(p)
			lx.emit(Punct, start)

			return
		}
	}

	lx.cur.bump()
	lx.emit(Punct, start)
}
