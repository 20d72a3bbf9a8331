package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line is one physical output line. Level and Offset are filled in by the
// parser; Ignore marks lines inside a verbatim region.
type Line struct {
	Number int
	Tokens []*Token
	Level  int
	Offset int
	Ignore bool
}

func NewLine(number int) *Line {
	return &Line{Number: number}
}

// Append adds a token to the end of the line.
func (l *Line) Append(tok Token) {
	tok.Line = l.Number
	l.Tokens = append(l.Tokens, &tok)
}

// Next returns an empty line that follows l.
func (l *Line) Next() *Line {
	return NewLine(l.Number + 1)
}

// Raw is the concatenated token text, leading and trailing whitespace included.
func (l *Line) Raw() string {
	var b strings.Builder
	for _, tok := range l.Tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Text is the unindented content of the line.
func (l *Line) Text() string {
	return strings.TrimSpace(l.Raw())
}

// IsBlank reports whether the line holds no visible characters yet.
func (l *Line) IsBlank() bool {
	return l.First() == nil
}

// First returns the first token that is not pure whitespace.
func (l *Line) First() *Token {
	for _, tok := range l.Tokens {
		if !tok.IsSpace() {
			return tok
		}
	}
	return nil
}

// Column returns the width in runes of the unindented text on the line so far.
func (l *Line) Column() int {
	return utf8.RuneCountInString(strings.TrimLeftFunc(l.Raw(), unicode.IsSpace))
}

// Indent renders the line with tabWidth spaces per level. Ignored lines
// are returned exactly as lexed and blank lines come back empty.
func (l *Line) Indent(tabWidth int) string {
	if l.Ignore {
		return l.Raw()
	}
	text := l.Text()
	if text == "" || tabWidth <= 0 {
		return text
	}
	spaces := tabWidth*l.Level + l.Offset
	if spaces < 0 {
		spaces = 0
	}
	return strings.Repeat(" ", spaces) + text
}

func (l *Line) String() string {
	parts := make([]string, len(l.Tokens))
	for i, tok := range l.Tokens {
		parts[i] = tok.String()
	}
	flag := " "
	if l.Ignore {
		flag = "!"
	}
	return fmt.Sprintf("%3d %2d%+d%s [%s]", l.Number, l.Level, l.Offset, flag, strings.Join(parts, ", "))
}
