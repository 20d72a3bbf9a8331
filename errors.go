package djhtml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rtts/djhtml/lexer"
	"github.com/rtts/djhtml/parser"
)

var (
	// ErrCorrupted means a result differs from its source in more than
	// leading and trailing whitespace. It is an internal failure: the
	// result must not be written anywhere.
	ErrCorrupted = errors.New("non-whitespace changes detected")

	// ErrTabWidth is returned for a negative tab width.
	ErrTabWidth = errors.New("tab width must not be negative")
)

// IsSyntaxError reports whether err was caused by a malformed document, as
// opposed to an internal failure.
func IsSyntaxError(err error) bool {
	var pe *parser.Error
	if errors.As(err, &pe) {
		return true
	}
	var le *lexer.LexerError
	return errors.As(err, &le)
}

// Verify checks that result differs from source in whitespace only and
// reports whether it differs at all.
func Verify(source, result string) (bool, error) {
	in := strings.Split(source, "\n")
	out := strings.Split(result, "\n")
	if len(in) != len(out) {
		return false, fmt.Errorf("%w: %d lines became %d", ErrCorrupted, len(in), len(out))
	}

	changed := false
	for i := range in {
		if in[i] == out[i] {
			continue
		}
		changed = true
		if strings.TrimSpace(in[i]) != strings.TrimSpace(out[i]) {
			return false, fmt.Errorf("%w at line %d", ErrCorrupted, i+1)
		}
	}
	return changed, nil
}
