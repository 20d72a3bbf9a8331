package lexer

import (
	"regexp"
)

// StyleMode lexes CSS. Brackets nest; a declaration that continues over
// several lines gets one extra tab of offset on every continuation line.
type StyleMode struct {
	ret      Mode
	brackets []string
	inDecl   bool
	re       *regexp.Regexp
}

// NewStyleMode returns a CSS mode. When ret is nil the mode lexes a
// standalone stylesheet; otherwise </style> hands control back to ret.
func NewStyleMode(ret Mode) *StyleMode {
	return &StyleMode{ret: ret}
}

func (m *StyleMode) String() string { return "style" }

func (m *StyleMode) pattern() *regexp.Regexp {
	if m.re == nil {
		patterns := withTemplates(`/\*[ \t]*fmt:off[ \t]*\*/`, `/\*`)
		patterns = append(patterns, stringPatterns...)
		if m.ret != nil {
			patterns = append(patterns, `(?i)</style[ \t]*>`)
		}
		patterns = append(patterns, `[{(\[]`, `[})\]]`, `;`, `:`)
		m.re = compile(patterns...)
	}
	return m.re
}

func (m *StyleMode) token(raw string, c *cursor) (Token, Mode) {
	if tok, next, ok := templateToken(raw, c, m); ok {
		return m.place(tok, c), next
	}

	switch {
	case fmtOffStyle.MatchString(raw):
		return m.place(Text(raw, KindStyle), c), newComment(fmtOnStyle, m)

	case raw == "/*":
		return m.place(Text(raw, KindStyle), c), newComment(`\*/`, m)

	case m.ret != nil && closingStyleTag.MatchString(raw):
		return Close(raw, KindMarkup), m.ret

	case isOpenBracket(raw):
		tok := m.place(Open(raw, KindStyle), c)
		m.brackets = append(m.brackets, raw)
		if raw == "{" {
			m.inDecl = false
		}
		return tok, m

	case isCloseBracket(raw):
		if n := len(m.brackets); n > 0 {
			m.brackets = m.brackets[:n-1]
		}
		if raw == "}" {
			m.inDecl = false
		}
		return Close(raw, KindStyle), m

	case raw == ";":
		tok := m.place(Text(raw, KindStyle), c)
		m.inDecl = false
		return tok, m

	case raw == ":":
		tok := m.place(Text(raw, KindStyle), c)
		if n := len(m.brackets); n > 0 && m.brackets[n-1] == "{" {
			m.inDecl = true
		}
		return tok, m
	}

	return m.place(Text(raw, KindStyle), c), m
}

func (m *StyleMode) text(raw string, c *cursor) Token {
	return m.place(Text(raw, KindStyle), c)
}

func (m *StyleMode) place(tok Token, c *cursor) Token {
	if m.inDecl && c.atLineStart() && !tok.IsSpace() {
		tok.Offset = c.tabWidth()
	}
	return tok
}
