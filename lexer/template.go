package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

// templateToken classifies template syntax for any mode. ok is false when
// raw is not a template tag, variable or comment.
func templateToken(raw string, c *cursor, self Mode) (tok Token, next Mode, ok bool) {
	switch {
	case strings.HasPrefix(raw, "{{"):
		return Text(raw, KindTemplate), self, true

	case strings.HasPrefix(raw, "{#"):
		tok = Text(raw, KindTemplate)
		if raw == "{#" {
			return tok, newComment(`#\}`, self), true
		}
		if fmtOffTemplate.MatchString(raw) {
			return tok, newComment(fmtOnTemplate, self), true
		}
		return tok, self, true

	case strings.HasPrefix(raw, "{%"):
		tok, next = blockToken(raw, c, self)
		return tok, next, true
	}
	return Token{}, self, false
}

func blockToken(raw string, c *cursor, self Mode) (Token, Mode) {
	m := TagNameRegex.FindStringSubmatch(raw)
	if m == nil {
		return Text(raw, KindTemplate), self
	}
	name := m[1]

	if end, ok := rawBlockTags[name]; ok {
		return Text(raw, KindTemplate), newComment(`\{%[-+]?[ \t]*`+end+`\b.*?%\}`, self)
	}

	switch {
	case openAndCloseTags[name]:
		return OpenAndClose(raw, KindTemplate), self
	case c.scan.isEndTag(name):
		return Close(raw, KindTemplate), self
	case opensBlock(name, raw, c):
		return Open(raw, KindTemplate), self
	}
	return Text(raw, KindTemplate), self
}

// opensBlock reports whether the tag opens a scope: a matching end tag has
// to follow somewhere in the remaining source, and ambiguous tags must also
// pass the test on their own text.
func opensBlock(name, raw string, c *cursor) bool {
	if re, ok := ambiguousTags[name]; ok {
		matched, err := re.MatchString(raw)
		if err != nil {
			c.fail(fmt.Errorf("classifying %q: %w", raw, err))
			return false
		}
		if !matched {
			return false
		}
	}
	return c.scan.hasEnd(name, c.pos)
}

// closingPattern builds a case-insensitive end pattern for an element.
func closingPattern(name string) string {
	return `(?i)</` + regexp.QuoteMeta(name) + `[ \t]*>`
}
