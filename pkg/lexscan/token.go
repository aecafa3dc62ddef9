// Package lexscan finds unused import bindings in JavaScript and TypeScript
// sources with a lightweight tokenizer instead of a full parser.
//
// A binding is considered used when its name appears as an identifier token
// after the import line, outside of import declarations and re-export
// clauses. Strings, comments and regular expression literals never count as
// usage; template literal ${} expressions do. In JSX, element text is not
// usage while tag names, attribute names and {} expression containers are.
package lexscan

// Kind classifies a token.
type Kind uint8

// Token kinds.
const (
	Ident Kind = iota + 1
	Punct
	String
	Template
	Regex
	Number
	PrivateName
	JSXText
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Punct:
		return "punct"
	case String:
		return "string"
	case Template:
		return "template"
	case Regex:
		return "regex"
	case Number:
		return "number"
	case PrivateName:
		return "private"
	case JSXText:
		return "jsxtext"
	default:
		return "invalid"
	}
}

// Token is a lexeme with its 1-based position. Column counts bytes.
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
	Offset int
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Unquote returns the contents of a string token without its quotes.
func (t Token) Unquote() string {
	if t.Kind != String || len(t.Text) < 2 {
		return t.Text
	}

	return t.Text[1 : len(t.Text)-1]
}

// regexKeywords may precede a regular expression literal.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}
