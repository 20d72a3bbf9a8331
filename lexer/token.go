package lexer

import (
	"fmt"
	"strings"
)

// Kind identifies the grammar that produced a token
type Kind int

const (
	KindText Kind = iota
	KindTemplate
	KindMarkup
	KindStyle
	KindScript
	KindSwitch
	KindCase
)

var kindNames = map[Kind]string{
	KindText:     "TEXT",
	KindTemplate: "TEMPLATE",
	KindMarkup:   "MARKUP",
	KindStyle:    "STYLE",
	KindScript:   "SCRIPT",
	KindSwitch:   "SWITCH",
	KindCase:     "CASE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Token is a slice of the source together with the effect it has on
// indentation. Level is written by the parser, and only for tokens that
// open a scope.
type Token struct {
	Text    string
	Kind    Kind
	Indents bool
	Dedents bool
	Ignore  bool
	Offset  int
	Level   int
	Line    int
}

// Text creates a token that does not affect nesting.
func Text(text string, kind Kind) Token {
	return Token{Text: text, Kind: kind}
}

// Open creates a token that opens a scope.
func Open(text string, kind Kind) Token {
	return Token{Text: text, Kind: kind, Indents: true}
}

// Close creates a token that closes the innermost matching scope.
func Close(text string, kind Kind) Token {
	return Token{Text: text, Kind: kind, Dedents: true}
}

// OpenAndClose creates a token that closes a scope and immediately opens a
// new one at the same level, like an else tag.
func OpenAndClose(text string, kind Kind) Token {
	return Token{Text: text, Kind: kind, Indents: true, Dedents: true}
}

// Ignored creates a verbatim token.
func Ignored(text string) Token {
	return Token{Text: text, Kind: KindText, Ignore: true}
}

// IsSpace reports whether the token holds nothing but whitespace.
func (t Token) IsSpace() bool {
	return strings.TrimSpace(t.Text) == ""
}

func (t Token) variant() string {
	switch {
	case t.Indents && t.Dedents:
		return "OpenAndClose"
	case t.Indents:
		return "Open"
	case t.Dedents:
		return "Close"
	}
	return "Text"
}

func (t Token) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s:%q)", t.variant(), t.Kind, t.Text)
	if t.Ignore {
		b.WriteString("!")
	}
	if t.Offset != 0 {
		fmt.Fprintf(&b, "%+d", t.Offset)
	}
	return b.String()
}
