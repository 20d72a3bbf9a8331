package lexer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MarkupMode lexes HTML. Opening tags hand over to a TagMode until their
// closing bracket; closing tags dedent.
type MarkupMode struct {
	re *regexp.Regexp
}

func NewMarkupMode() *MarkupMode {
	return &MarkupMode{}
}

func (m *MarkupMode) String() string { return "markup" }

func (m *MarkupMode) pattern() *regexp.Regexp {
	if m.re == nil {
		m.re = compile(markupPatterns...)
	}
	return m.re
}

func (m *MarkupMode) token(raw string, c *cursor) (Token, Mode) {
	if tok, next, ok := templateToken(raw, c, m); ok {
		return tok, next
	}

	switch {
	case fmtOffMarkup.MatchString(raw):
		return Text(raw, KindMarkup), newComment(fmtOnMarkup, m)

	case raw == "<!--":
		return Text(raw, KindMarkup), newComment(`-->`, m)

	case strings.HasPrefix(raw, "</"):
		var next Mode = m
		if !strings.HasSuffix(raw, ">") {
			next = &endTagMode{ret: m}
		}
		name := elementName(raw[2:])
		if voidElements[name] || verbatimElements[name] {
			return Text(raw, KindMarkup), next
		}
		return Close(raw, KindMarkup), next
	}

	// Every opening tag is pushed, void elements included: the scope lasts
	// until the tag's own closing bracket for those, which keeps attribute
	// lines of a multi-line tag one level deeper than the tag itself.
	return Open(raw, KindMarkup), newTagMode(elementName(raw[1:]), raw, c, m)
}

func (m *MarkupMode) text(raw string, c *cursor) Token {
	return Text(raw, KindMarkup)
}

// TagMode lexes the inside of an opening tag, from the tag name up to the
// closing bracket.
type TagMode struct {
	name string
	ret  Mode
	// offset aligns continuation lines with the first attribute.
	offset int
	source strings.Builder
	re     *regexp.Regexp
}

func newTagMode(name, raw string, c *cursor, ret Mode) *TagMode {
	m := &TagMode{name: name, ret: ret}
	m.source.WriteString(raw)

	rest := c.rest()
	attr := strings.TrimLeft(rest, " \t")
	gap := len(rest) - len(attr)
	if gap > 0 && attr != "" && attr[0] != '\n' && attr[0] != '\r' && attr[0] != '>' && !strings.HasPrefix(attr, "/>") {
		m.offset = c.column() + utf8.RuneCountInString(raw) + gap - c.tabWidth()
	}
	return m
}

func (m *TagMode) String() string { return "tag(" + m.name + ")" }

func (m *TagMode) pattern() *regexp.Regexp {
	if m.re == nil {
		m.re = compile(tagPatterns...)
	}
	return m.re
}

func (m *TagMode) token(raw string, c *cursor) (Token, Mode) {
	m.source.WriteString(raw)
	if tok, next, ok := templateToken(raw, c, m); ok {
		return m.place(tok, c), next
	}

	switch raw {
	case "/>":
		return Close(raw, KindMarkup), m.ret

	case ">":
		if voidElements[m.name] {
			return Close(raw, KindMarkup), m.ret
		}
		if verbatimElements[m.name] {
			return Close(raw, KindMarkup), newComment(closingPattern(m.name), m.ret)
		}
		tok := Text(raw, KindMarkup)
		if c.atLineStart() {
			tok.Offset = -c.tabWidth()
		}
		return tok, m.next()
	}

	return m.place(Text(raw, KindMarkup), c), m
}

func (m *TagMode) text(raw string, c *cursor) Token {
	m.source.WriteString(raw)
	return m.place(Text(raw, KindMarkup), c)
}

func (m *TagMode) place(tok Token, c *cursor) Token {
	if c.atLineStart() && !tok.IsSpace() {
		tok.Offset = m.offset
	}
	return tok
}

// next picks the mode for the element's content.
func (m *TagMode) next() Mode {
	switch m.name {
	case "style":
		return NewStyleMode(m.ret)
	case "script":
		if templateScript.MatchString(m.source.String()) {
			return m.ret
		}
		return NewScriptMode(m.ret)
	}
	return m.ret
}

// endTagMode finishes a closing tag whose ">" is not on the same line as
// its name.
type endTagMode struct {
	ret Mode
	re  *regexp.Regexp
}

func (m *endTagMode) String() string { return "endtag" }

func (m *endTagMode) pattern() *regexp.Regexp {
	if m.re == nil {
		m.re = compile(`>`)
	}
	return m.re
}

func (m *endTagMode) token(raw string, c *cursor) (Token, Mode) {
	return Text(raw, KindMarkup), m.ret
}

func (m *endTagMode) text(raw string, c *cursor) Token {
	return Text(raw, KindMarkup)
}

// elementName extracts the lowercased element name from the text that
// follows "<" or "</".
func elementName(s string) string {
	end := strings.IndexAny(s, " \t\r\n>/")
	if end >= 0 {
		s = s[:end]
	}
	return strings.ToLower(s)
}
