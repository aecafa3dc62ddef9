package lexscan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importsweep/pkg/lexscan"
)

func texts(tokens []lexscan.Token, kind lexscan.Kind) []string {
	var out []string

	for _, tok := range tokens {
		if tok.Kind == kind {
			out = append(out, tok.Text)
		}
	}

	return out
}

func TestTokenize_Positions(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("import a from 'a';\n  a();"))
	require.Len(t, tokens, 9)

	assert.Equal(t, lexscan.Token{Kind: lexscan.Ident, Text: "import", Line: 1, Column: 1, Offset: 0}, tokens[0])
	assert.Equal(t, lexscan.Token{Kind: lexscan.String, Text: "'a'", Line: 1, Column: 15, Offset: 14}, tokens[3])
	assert.Equal(t, lexscan.Token{Kind: lexscan.Ident, Text: "a", Line: 2, Column: 3, Offset: 21}, tokens[5])
}

func TestTokenize_CommentsAreSkipped(t *testing.T) {
	t.Parallel()

	src := "// foo bar\n/* baz\nqux */ real /* inline */ other\n#!not-a-hashbang"
	idents := texts(lexscan.Tokenize([]byte(src)), lexscan.Ident)

	assert.Equal(t, []string{"real", "other", "not", "a", "hashbang"}, idents)
}

func TestTokenize_Hashbang(t *testing.T) {
	t.Parallel()

	idents := texts(lexscan.Tokenize([]byte("#!/usr/bin/env node\nmain()")), lexscan.Ident)
	assert.Equal(t, []string{"main"}, idents)
}

func TestTokenize_StringsHideIdentifiers(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte(`const s = "hidden \" still" + 'also \' hidden';`))

	assert.Equal(t, []string{"const", "s"}, texts(tokens, lexscan.Ident))
	assert.Len(t, texts(tokens, lexscan.String), 2)
}

func TestTokenize_UnterminatedStringStopsAtNewline(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("const s = 'oops\nvisible();"))
	assert.Equal(t, []string{"const", "s", "visible"}, texts(tokens, lexscan.Ident))
}

func TestTokenize_TemplateExpressions(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("const s = `text ${fmt({a: b})} more ${`inner ${deep}`} tail`; after"))

	idents := texts(tokens, lexscan.Ident)
	assert.Equal(t, []string{"const", "s", "fmt", "a", "b", "deep", "after"}, idents)
	assert.NotContains(t, idents, "text")
	assert.NotContains(t, idents, "tail")
}

func TestTokenize_RegexVersusDivision(t *testing.T) {
	t.Parallel()

	regexTokens := lexscan.Tokenize([]byte("const re = /hidden[/]name/gi; next"))
	assert.Equal(t, []string{"const", "re", "next"}, texts(regexTokens, lexscan.Ident))
	assert.Equal(t, []string{"/hidden[/]name/gi"}, texts(regexTokens, lexscan.Regex))

	divTokens := lexscan.Tokenize([]byte("const x = total / count / 2;"))
	assert.Equal(t, []string{"const", "x", "total", "count"}, texts(divTokens, lexscan.Ident))
	assert.Empty(t, texts(divTokens, lexscan.Regex))

	keywordTokens := lexscan.Tokenize([]byte("return /a b/.test(s)"))
	assert.Equal(t, []string{"/a b/"}, texts(keywordTokens, lexscan.Regex))
}

func TestTokenize_LoneSlashFallsBackToPunct(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("x = (/\nvisible"))
	assert.Equal(t, []string{"x", "visible"}, texts(tokens, lexscan.Ident))
}

func TestTokenize_UnicodeIdentifiers(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("const café = ñandú + $x_1;"))
	assert.Equal(t, []string{"const", "café", "ñandú", "$x_1"}, texts(tokens, lexscan.Ident))
}

func TestTokenize_PrivateNamesAndNumbers(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("this.#secret = 0x1F + 1.5 + .5;"))

	assert.Equal(t, []string{"#secret"}, texts(tokens, lexscan.PrivateName))
	assert.Equal(t, []string{"0x1F", "1.5", ".5"}, texts(tokens, lexscan.Number))
	assert.Equal(t, []string{"this"}, texts(tokens, lexscan.Ident))
}

func TestTokenize_MultiBytePunct(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("f(...args) ?. x => y"))
	assert.Equal(t, []string{"(", "...", ")", "?.", "=>"}, texts(tokens, lexscan.Punct))
}

func TestTokenize_JSXText(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("x = <p>Don't {y}</p>; z"))

	assert.Equal(t, []string{"x", "p", "y", "p", "z"}, texts(tokens, lexscan.Ident))
	assert.Equal(t, []string{"Don't "}, texts(tokens, lexscan.JSXText))
	assert.Empty(t, texts(tokens, lexscan.Regex))
	assert.Empty(t, texts(tokens, lexscan.String))
}

func TestTokenize_JSXClosingTagIsNotRegex(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("f(<a>{b}</a>, <c>{d}</c>)"))

	assert.Equal(t, []string{"f", "a", "b", "a", "c", "d", "c"}, texts(tokens, lexscan.Ident))
	assert.Empty(t, texts(tokens, lexscan.Regex))
}

func TestTokenize_ComparisonIsNotJSX(t *testing.T) {
	t.Parallel()

	tokens := lexscan.Tokenize([]byte("if (a <b && c > d) { e }"))

	assert.Equal(t, []string{"if", "a", "b", "c", "d", "e"}, texts(tokens, lexscan.Ident))
	assert.Empty(t, texts(tokens, lexscan.JSXText))
}

func TestTokenizeDialect_TypeAssertion(t *testing.T) {
	t.Parallel()

	src := []byte("const v = <Foo>bar; next")

	ts := lexscan.TokenizeDialect(src, lexscan.DialectTS)
	assert.Equal(t, []string{"const", "v", "Foo", "bar", "next"}, texts(ts, lexscan.Ident))

	jsx := lexscan.TokenizeDialect(src, lexscan.DialectJSX)
	assert.Equal(t, []string{"const", "v", "Foo"}, texts(jsx, lexscan.Ident))
	assert.Equal(t, []string{"bar; next"}, texts(jsx, lexscan.JSXText))
}

func TestDialectFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, lexscan.DialectTS, lexscan.DialectFor("src/a.ts"))
	assert.Equal(t, lexscan.DialectTS, lexscan.DialectFor("lib/b.MTS"))
	assert.Equal(t, lexscan.DialectJSX, lexscan.DialectFor("src/App.tsx"))
	assert.Equal(t, lexscan.DialectJSX, lexscan.DialectFor("src/app.js"))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ident", lexscan.Ident.String())
	assert.Equal(t, "regex", lexscan.Regex.String())
	assert.Equal(t, "jsxtext", lexscan.JSXText.String())
	assert.Equal(t, "invalid", lexscan.Kind(0).String())
}
