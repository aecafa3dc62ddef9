package lexscan

// BindingKind describes how an import introduces a local name.
type BindingKind string

// Binding kinds.
const (
	KindDefault   BindingKind = "default"
	KindNamed     BindingKind = "named"
	KindNamespace BindingKind = "namespace"
	KindEquals    BindingKind = "equals"
)

// Binding is one local name introduced by an import declaration.
type Binding struct {
	// Name is the local alias, after "as" renaming.
	Name string
	// Imported is the exported name in the source module. Equal to Name
	// unless renamed; "default" and "*" for default and namespace imports.
	Imported string
	Kind     BindingKind
	TypeOnly bool
	// Line is the line of the import keyword. NameLine and NameColumn locate
	// the alias token itself.
	Line       int
	NameLine   int
	NameColumn int
}

// Declaration is one import statement.
type Declaration struct {
	Line     int
	Source   string
	TypeOnly bool
	Bindings []Binding

	// Start and End delimit the declaration's tokens as [Start, End).
	Start int
	End   int
}

// SingleLine reports whether the whole declaration sits on its import line.
func (d Declaration) SingleLine(tokens []Token) bool {
	return d.End > d.Start && tokens[d.End-1].Line == d.Line
}

// tokenRange is a half-open range of token indexes.
type tokenRange struct {
	start int
	end   int
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) at(offset int) Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) {
		return Token{}
	}

	return p.tokens[i]
}

func (p *parser) accept(kind Kind, text string) bool {
	if p.at(0).Is(kind, text) {
		p.pos++

		return true
	}

	return false
}

// statementKeyword reports whether the token at i is the given keyword used
// as a statement head rather than as a property name.
func statementKeyword(tokens []Token, i int, keyword string) bool {
	if !tokens[i].Is(Ident, keyword) {
		return false
	}

	if i == 0 {
		return true
	}

	prev := tokens[i-1]

	return !prev.Is(Punct, ".") && !prev.Is(Punct, "?.")
}

// ParseImports recognizes import declarations in a token stream. Dynamic
// import() calls and import.meta are skipped. Malformed declarations are
// returned without bindings so their tokens are still excluded from usage.
func ParseImports(tokens []Token) []Declaration {
	var decls []Declaration

	for i := 0; i < len(tokens); i++ {
		if !statementKeyword(tokens, i, "import") {
			continue
		}

		next := Token{}
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}

		if next.Is(Punct, "(") || next.Is(Punct, ".") {
			continue
		}

		p := &parser{tokens: tokens, pos: i + 1}
		decl := p.declaration(tokens[i])
		decl.Start = i
		decl.End = max(p.pos, i+1)
		decls = append(decls, decl)
		i = decl.End - 1
	}

	return decls
}

func (p *parser) declaration(keyword Token) Declaration {
	decl := Declaration{Line: keyword.Line}

	if src := p.at(0); src.Kind == String {
		p.pos++
		decl.Source = src.Unquote()
		p.finish()

		return decl
	}

	if p.typeModifier() {
		decl.TypeOnly = true
	}

	bindings, ok := p.clause(keyword.Line)
	if !ok {
		return decl
	}

	if len(bindings) == 1 && bindings[0].Kind == KindEquals {
		decl.Source = p.equalsTarget()
		decl.Bindings = markTypeOnly(bindings, decl.TypeOnly)
		p.finish()

		return decl
	}

	if !p.accept(Ident, "from") || p.at(0).Kind != String {
		return decl
	}

	decl.Source = p.at(0).Unquote()
	p.pos++
	decl.Bindings = markTypeOnly(bindings, decl.TypeOnly)
	p.finish()

	return decl
}

// typeModifier consumes the "type" in "import type ...". A default import
// literally named type ("import type from 'm'") is left alone.
func (p *parser) typeModifier() bool {
	if !p.at(0).Is(Ident, "type") {
		return false
	}

	next := p.at(1)

	switch {
	case next.Is(Punct, "{"), next.Is(Punct, "*"):
	case next.Kind == Ident && next.Text != "from":
	case next.Is(Ident, "from") && p.at(2).Is(Ident, "from"):
	default:
		return false
	}

	p.pos++

	return true
}

// clause parses everything between "import" and "from".
func (p *parser) clause(line int) ([]Binding, bool) {
	var bindings []Binding

	if tok := p.at(0); tok.Kind == Ident {
		p.pos++

		if p.accept(Punct, "=") {
			return []Binding{newBinding(tok, tok.Text, KindEquals, line)}, true
		}

		bindings = append(bindings, newBinding(tok, "default", KindDefault, line))

		if !p.accept(Punct, ",") {
			return bindings, true
		}
	}

	switch {
	case p.accept(Punct, "{"):
		named, ok := p.namedList(line)
		if !ok {
			return nil, false
		}

		bindings = append(bindings, named...)
	case p.accept(Punct, "*"):
		if !p.accept(Ident, "as") || p.at(0).Kind != Ident {
			return nil, false
		}

		bindings = append(bindings, newBinding(p.at(0), "*", KindNamespace, line))
		p.pos++
	default:
		return nil, false
	}

	return bindings, true
}

// namedList parses "a, type b, c as d, 'e-f' as g }" after the opening brace.
func (p *parser) namedList(line int) ([]Binding, bool) {
	var bindings []Binding

	for {
		if p.accept(Punct, "}") {
			return bindings, true
		}

		typeOnly := false
		if p.at(0).Is(Ident, "type") && (p.at(1).Kind == Ident || p.at(1).Kind == String) && p.at(1).Text != "as" {
			typeOnly = true
			p.pos++
		}

		imported := p.at(0)
		if imported.Kind != Ident && imported.Kind != String {
			return nil, false
		}

		p.pos++

		local := imported
		if p.accept(Ident, "as") {
			local = p.at(0)
			if local.Kind != Ident {
				return nil, false
			}

			p.pos++
		} else if imported.Kind == String {
			return nil, false
		}

		b := newBinding(local, imported.Unquote(), KindNamed, line)
		b.TypeOnly = typeOnly
		bindings = append(bindings, b)

		if !p.accept(Punct, ",") && !p.at(0).Is(Punct, "}") {
			return nil, false
		}
	}
}

// equalsTarget consumes "require('m')" or a dotted namespace path after
// "import X =" and returns the module or path.
func (p *parser) equalsTarget() string {
	if p.at(0).Is(Ident, "require") && p.at(1).Is(Punct, "(") {
		p.pos += 2

		source := ""
		if p.at(0).Kind == String {
			source = p.at(0).Unquote()
			p.pos++
		}

		p.accept(Punct, ")")

		return source
	}

	path := ""

	for p.at(0).Kind == Ident {
		path += p.at(0).Text
		p.pos++

		if !p.at(0).Is(Punct, ".") {
			break
		}

		path += "."
		p.pos++
	}

	return path
}

// finish consumes an import attributes clause and the terminating semicolon.
func (p *parser) finish() {
	if (p.at(0).Is(Ident, "with") || p.at(0).Is(Ident, "assert")) && p.at(1).Is(Punct, "{") {
		p.pos += 2
		for p.pos < len(p.tokens) && !p.accept(Punct, "}") {
			p.pos++
		}
	}

	p.accept(Punct, ";")
}

func newBinding(tok Token, imported string, kind BindingKind, line int) Binding {
	return Binding{
		Name:       tok.Text,
		Imported:   imported,
		Kind:       kind,
		Line:       line,
		NameLine:   tok.Line,
		NameColumn: tok.Column,
	}
}

func markTypeOnly(bindings []Binding, typeOnly bool) []Binding {
	if !typeOnly {
		return bindings
	}

	for i := range bindings {
		bindings[i].TypeOnly = true
	}

	return bindings
}

// reexportRanges finds "export { ... } from 'm'", "export * from 'm'" and
// "export * as ns from 'm'" clauses. Names inside them belong to another
// module and are not usage of local imports.
func reexportRanges(tokens []Token) []tokenRange {
	var ranges []tokenRange

	for i := 0; i < len(tokens); i++ {
		if !statementKeyword(tokens, i, "export") {
			continue
		}

		p := &parser{tokens: tokens, pos: i + 1}
		if p.at(0).Is(Ident, "type") {
			p.pos++
		}

		switch {
		case p.accept(Punct, "{"):
			for p.pos < len(tokens) && !p.accept(Punct, "}") {
				p.pos++
			}
		case p.accept(Punct, "*"):
			if p.accept(Ident, "as") {
				p.pos++
			}
		default:
			continue
		}

		if !p.accept(Ident, "from") || p.at(0).Kind != String {
			continue
		}

		p.pos++
		ranges = append(ranges, tokenRange{start: i, end: p.pos})
		i = p.pos - 1
	}

	return ranges
}
