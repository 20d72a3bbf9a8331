package lexer

import (
	"fmt"
	"strings"
	"time"
)

const ambiguityTimeout = 100 * time.Millisecond

// LexerError represents a lexing error
type LexerError struct {
	Message string
	Line    int
	Column  int
}

func (e LexerError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// Config holds the settings threaded into every mode
type Config struct {
	// TabWidth is the number of spaces per level, used for offsets.
	TabWidth int
	// ExtraBlocks maps additional block tag names to their end tag.
	ExtraBlocks map[string]string
}

func DefaultConfig() Config {
	return Config{
		TabWidth: 4,
	}
}

// Lexer splits a document into lines of tokens
type Lexer struct {
	config    Config
	extraEnds map[string]bool
}

// NewLexer creates a new lexer with the given configuration
func NewLexer(config Config) *Lexer {
	l := &Lexer{
		config:    config,
		extraEnds: make(map[string]bool, len(config.ExtraBlocks)),
	}
	for _, end := range config.ExtraBlocks {
		l.extraEnds[end] = true
	}
	return l
}

// Tokenize lexes source starting in mode and returns one Line per physical
// line. The active mode is swapped whenever a token asks for it; there is
// no backtracking.
func (l *Lexer) Tokenize(source string, mode Mode) ([]*Line, error) {
	s := &scanner{
		lexer: l,
		src:   source,
		ends:  make(map[string]endMark),
	}

	var lines []*Line
	line := NewLine(1)
	pos := 0
	for pos < len(source) {
		loc := mode.pattern().FindStringIndex(source[pos:])
		if loc == nil {
			line.Append(mode.text(source[pos:], s.at(pos, line)))
			break
		}

		start, end := pos+loc[0], pos+loc[1]
		if start > pos {
			line.Append(mode.text(source[pos:start], s.at(start, line)))
		}

		raw := source[start:end]
		if raw == "\n" {
			lines = append(lines, line)
			line = line.Next()
			pos = end
			continue
		}

		tok, next := mode.token(raw, s.at(end, line))
		if s.err != nil {
			return nil, &LexerError{
				Message: s.err.Error(),
				Line:    line.Number,
				Column:  line.Column() + 1,
			}
		}

		// A mode may hand back a shorter token than it was given; the rest
		// is scanned again under the next mode.
		if tok.Text == "" || !strings.HasPrefix(raw, tok.Text) {
			tok.Text = raw
		}
		line.Append(tok)
		pos = start + len(tok.Text)
		mode = next
	}
	lines = append(lines, line)

	return lines, nil
}

// scanner is the per-call state shared by every mode during one Tokenize.
type scanner struct {
	lexer *Lexer
	src   string
	ends  map[string]endMark
	err   error
}

// endMark remembers where the next end tag of a block name was found, or
// the position from which it is known to be absent.
type endMark struct {
	at   int
	from int
}

func (s *scanner) at(pos int, line *Line) *cursor {
	return &cursor{scan: s, pos: pos, line: line}
}

// hasEnd reports whether a closing tag for name appears at or after pos.
func (s *scanner) hasEnd(name string, pos int) bool {
	if m, ok := s.ends[name]; ok {
		if m.at >= pos {
			return true
		}
		if m.at < 0 && pos >= m.from {
			return false
		}
	}
	loc := endTagRegex(name, s.lexer.config.ExtraBlocks[name]).FindStringIndex(s.src[pos:])
	if loc == nil {
		s.ends[name] = endMark{at: -1, from: pos}
		return false
	}
	s.ends[name] = endMark{at: pos + loc[0]}
	return true
}

func (s *scanner) isEndTag(name string) bool {
	return strings.HasPrefix(name, "end") || s.lexer.extraEnds[name]
}

// cursor is the scan position handed to a mode while it classifies a token.
type cursor struct {
	scan *scanner
	pos  int
	line *Line
}

// rest is the source that follows the token being classified.
func (c *cursor) rest() string {
	return c.scan.src[c.pos:]
}

// atLineStart reports whether no visible token precedes this one on its line.
func (c *cursor) atLineStart() bool {
	return c.line.IsBlank()
}

func (c *cursor) column() int {
	return c.line.Column()
}

func (c *cursor) tabWidth() int {
	return c.scan.lexer.config.TabWidth
}

func (c *cursor) fail(err error) {
	if c.scan.err == nil {
		c.scan.err = err
	}
}
