package parser

import (
	"fmt"
)

// ErrorType represents the different structural errors
type ErrorType string

const (
	ErrorTypeUnmatchedClosing ErrorType = "unmatched_closing"
	ErrorTypeUnmatchedOpening ErrorType = "unmatched_opening"
	ErrorTypeKindMismatch     ErrorType = "kind_mismatch"
)

// Error is a structural error in the document, located by the line of the
// offending token
type Error struct {
	Type    ErrorType
	Message string
	Line    int
	Text    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s", e.Type, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewError creates a new structural error
func NewError(errorType ErrorType, message string, line int, text string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Line:    line,
		Text:    text,
	}
}
