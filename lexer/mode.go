package lexer

import (
	"regexp"
)

// Mode is a lexer state. Each mode owns its token patterns and decides,
// for every raw token it matched, which Token it is and which mode scans
// next. Modes keep only their own transient state, such as open brackets.
type Mode interface {
	String() string
	pattern() *regexp.Regexp
	token(raw string, c *cursor) (Token, Mode)
	text(raw string, c *cursor) Token
}

// TextMode lexes documents that only contain template tags.
type TextMode struct {
	re *regexp.Regexp
}

func NewTextMode() *TextMode {
	return &TextMode{}
}

func (m *TextMode) String() string { return "text" }

func (m *TextMode) pattern() *regexp.Regexp {
	if m.re == nil {
		m.re = compile(templatePatterns...)
	}
	return m.re
}

func (m *TextMode) token(raw string, c *cursor) (Token, Mode) {
	if tok, next, ok := templateToken(raw, c, m); ok {
		return tok, next
	}
	return Text(raw, KindText), m
}

func (m *TextMode) text(raw string, c *cursor) Token {
	return Text(raw, KindText)
}

// CommentMode passes everything through verbatim until its end pattern
// matches, then hands control back to the mode that entered it.
type CommentMode struct {
	end     string
	escapes bool
	ret     Mode
	re      *regexp.Regexp
}

func newComment(end string, ret Mode) *CommentMode {
	return &CommentMode{end: end, ret: ret}
}

// newEscapedComment is a comment whose end delimiter may be escaped with a
// backslash, as in JavaScript template literals.
func newEscapedComment(end string, ret Mode) *CommentMode {
	return &CommentMode{end: end, escapes: true, ret: ret}
}

func (m *CommentMode) String() string { return "comment(" + m.end + ")" }

func (m *CommentMode) pattern() *regexp.Regexp {
	if m.re == nil {
		if m.escapes {
			m.re = compile(`\\.`, m.end)
		} else {
			m.re = compile(m.end)
		}
	}
	return m.re
}

func (m *CommentMode) token(raw string, c *cursor) (Token, Mode) {
	if m.escapes && raw[0] == '\\' {
		return Ignored(raw), m
	}
	return Ignored(raw), m.ret
}

func (m *CommentMode) text(raw string, c *cursor) Token {
	return Ignored(raw)
}
