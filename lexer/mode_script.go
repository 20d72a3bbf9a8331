package lexer

import (
	"regexp"
	"strings"
)

// frame is an open bracket in a script together with the offset of the
// line that opened it, so offsets nest inside parenthesized and braced
// expressions.
type frame struct {
	offset int
	// hard marks the body of a switch statement.
	hard     bool
	caseOpen bool
}

// ScriptMode lexes JavaScript.
//
// A line that starts with "." continues a method chain and is shifted one
// tab to the right of its surroundings. The body of a switch statement is
// a hard scope: its case and default labels indent the statements below
// them, and the closing brace closes the last label along with the body.
type ScriptMode struct {
	ret        Mode
	frames     []frame
	switching  bool
	lineOffset int
	re         *regexp.Regexp
}

// NewScriptMode returns a JavaScript mode. When ret is nil the mode lexes a
// standalone script; otherwise </script> hands control back to ret.
func NewScriptMode(ret Mode) *ScriptMode {
	return &ScriptMode{ret: ret}
}

func (m *ScriptMode) String() string { return "script" }

func (m *ScriptMode) pattern() *regexp.Regexp {
	if m.re == nil {
		patterns := withTemplates(`//[ \t]*fmt:off\b[^\n]*`, `//[^\n]*`, `/\*`)
		patterns = append(patterns, stringPatterns...)
		patterns = append(patterns, "`")
		if m.ret != nil {
			patterns = append(patterns, `(?i)</script[ \t]*>`)
		}
		patterns = append(patterns,
			`\bswitch\b`,
			`\b(?:case|default)\b`,
			`\.\.\.`,
			`\.`,
			`[{(\[]`,
			`[})\]]`,
		)
		m.re = compile(patterns...)
	}
	return m.re
}

func (m *ScriptMode) token(raw string, c *cursor) (Token, Mode) {
	if tok, next, ok := templateToken(raw, c, m); ok {
		return m.place(tok, c), next
	}

	switch {
	case fmtOffScript.MatchString(raw):
		return m.place(Text(raw, KindScript), c), newComment(fmtOnScript, m)

	case strings.HasPrefix(raw, "//"):
		// A line comment never swallows the end of the script element.
		if m.ret != nil {
			if i := strings.Index(strings.ToLower(raw), "</script"); i > 0 {
				raw = raw[:i]
			}
		}
		return m.place(Text(raw, KindScript), c), m

	case raw == "/*":
		return m.place(Text(raw, KindScript), c), newComment(`\*/`, m)

	case raw == "`":
		return m.place(Text(raw, KindScript), c), newEscapedComment("`", m)

	case m.ret != nil && closingScriptTag.MatchString(raw):
		return Close(raw, KindMarkup), m.ret

	case raw == "switch":
		m.switching = true
		return m.place(Text(raw, KindScript), c), m

	case raw == "case" || raw == "default":
		if n := len(m.frames); n > 0 && m.frames[n-1].hard {
			f := &m.frames[n-1]
			tok := Open(raw, KindCase)
			if f.caseOpen {
				tok = OpenAndClose(raw, KindCase)
			}
			f.caseOpen = true
			return m.place(tok, c), m
		}
		return m.place(Text(raw, KindScript), c), m

	case raw == ".":
		tok := Text(raw, KindScript)
		if c.atLineStart() {
			tok.Offset = m.base() + c.tabWidth()
			m.lineOffset = tok.Offset
		}
		return tok, m

	case isOpenBracket(raw):
		tok := m.place(Open(raw, KindScript), c)
		f := frame{offset: m.lineOffset}
		if raw == "{" && m.switching {
			tok.Kind = KindSwitch
			f.hard = true
			m.switching = false
		}
		m.frames = append(m.frames, f)
		return tok, m

	case isCloseBracket(raw):
		tok := Close(raw, KindScript)
		if n := len(m.frames); n > 0 {
			f := m.frames[n-1]
			m.frames = m.frames[:n-1]
			if f.hard {
				tok.Kind = KindSwitch
			}
			if c.atLineStart() {
				tok.Offset = f.offset
				m.lineOffset = f.offset
			}
		}
		return tok, m
	}

	return m.place(Text(raw, KindScript), c), m
}

func (m *ScriptMode) text(raw string, c *cursor) Token {
	return m.place(Text(raw, KindScript), c)
}

// base is the offset inherited from the innermost open bracket.
func (m *ScriptMode) base() int {
	if n := len(m.frames); n > 0 {
		return m.frames[n-1].offset
	}
	return 0
}

func (m *ScriptMode) place(tok Token, c *cursor) Token {
	if c.atLineStart() && !tok.IsSpace() {
		tok.Offset = m.base()
		m.lineOffset = tok.Offset
	}
	return tok
}
