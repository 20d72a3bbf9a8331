package parser

import (
	"fmt"

	"github.com/rtts/djhtml/lexer"
)

// Parser assigns a level to every line in a single pass, keeping a stack of
// the tokens that are still open.
type Parser struct {
	stack []*lexer.Token
}

// NewParser creates a parser with an empty stack
func NewParser() *Parser {
	return &Parser{}
}

// Parse sets Level, Offset and Ignore on every line. It fails on the first
// closing token without a match and when anything is left open at the end.
func (p *Parser) Parse(lines []*lexer.Line) error {
	for _, line := range lines {
		if err := p.parseLine(line); err != nil {
			return err
		}
	}

	if n := len(p.stack); n > 0 {
		open := p.stack[n-1]
		return NewError(ErrorTypeUnmatchedOpening,
			fmt.Sprintf("%q is never closed", open.Text), open.Line, open.Text)
	}
	return nil
}

func (p *Parser) parseLine(line *lexer.Line) error {
	line.Level = 0
	line.Offset = 0
	line.Ignore = len(line.Tokens) > 0 && line.Tokens[0].Ignore

	first := true
	for _, tok := range line.Tokens {
		if first && tok.IsSpace() {
			continue
		}

		if tok.Dedents {
			match, err := p.pop(tok)
			if err != nil {
				return err
			}
			if first {
				line.Level = match.Level
			}
			if tok.Indents {
				tok.Level = match.Level
				p.stack = append(p.stack, tok)
			}
		} else {
			if first {
				line.Level = p.nextLevel()
			}
			if tok.Indents {
				tok.Level = line.Level
				p.stack = append(p.stack, tok)
			}
		}

		if first {
			line.Offset = tok.Offset
			first = false
		}
	}
	return nil
}

// nextLevel is the level of a line that starts inside the innermost scope.
func (p *Parser) nextLevel() int {
	if n := len(p.stack); n > 0 {
		return p.stack[n-1].Level + 1
	}
	return 0
}

// pop removes and returns the open token that tok closes.
//
// Template tags may straddle other grammars, so a closing template tag
// reaches past markup, style and script tokens to the innermost open
// template tag and leaves those in place. A switch body closes its last
// case label along with itself. Everything else must close the top of the
// stack.
func (p *Parser) pop(tok *lexer.Token) (*lexer.Token, error) {
	n := len(p.stack)
	if n == 0 {
		return nil, NewError(ErrorTypeUnmatchedClosing,
			fmt.Sprintf("%q does not close anything", tok.Text), tok.Line, tok.Text)
	}

	switch tok.Kind {
	case lexer.KindTemplate:
		for i := n - 1; i >= 0; i-- {
			if p.stack[i].Kind == lexer.KindTemplate {
				match := p.stack[i]
				p.stack = append(p.stack[:i], p.stack[i+1:]...)
				return match, nil
			}
		}
		return nil, NewError(ErrorTypeUnmatchedClosing,
			fmt.Sprintf("%q does not close any template tag", tok.Text), tok.Line, tok.Text)

	case lexer.KindSwitch:
		i := n - 1
		for i >= 0 && p.stack[i].Kind == lexer.KindCase {
			i--
		}
		if i < 0 || p.stack[i].Kind != lexer.KindSwitch {
			return nil, p.mismatch(tok, p.stack[n-1])
		}
		match := p.stack[i]
		p.stack = p.stack[:i]
		return match, nil
	}

	top := p.stack[n-1]
	if top.Kind != tok.Kind {
		return nil, p.mismatch(tok, top)
	}
	p.stack = p.stack[:n-1]
	return top, nil
}

func (p *Parser) mismatch(tok, open *lexer.Token) *Error {
	return NewError(ErrorTypeKindMismatch,
		fmt.Sprintf("%q cannot close %q from line %d", tok.Text, open.Text, open.Line),
		tok.Line, tok.Text)
}
