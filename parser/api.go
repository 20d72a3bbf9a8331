package parser

import (
	"github.com/rtts/djhtml/lexer"
)

// ParseTemplate is a simple one-line API: it tokenizes source as markup
// with the default configuration and returns the lines with their levels
// assigned.
func ParseTemplate(source string) ([]*lexer.Line, error) {
	return ParseTemplateWithConfig(lexer.DefaultConfig(), source, lexer.NewMarkupMode())
}

// ParseTemplateWithConfig tokenizes source starting in mode and runs the
// indentation pass over the result
func ParseTemplateWithConfig(config lexer.Config, source string, mode lexer.Mode) ([]*lexer.Line, error) {
	lines, err := lexer.NewLexer(config).Tokenize(source, mode)
	if err != nil {
		return nil, err
	}
	if err := NewParser().Parse(lines); err != nil {
		return nil, err
	}
	return lines, nil
}
