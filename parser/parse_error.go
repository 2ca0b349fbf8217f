package parser

import (
	"fmt"
	"strings"
)

// ParseError reports a formula that could not be tokenized or reduced into
// a valid expression tree. Offset is the byte index into the formula text
// (after the leading "="), or -1 when no position applies.
type ParseError struct {
	Message string
	Offset  int
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Message
}

func errAt(offset int, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Offset: offset}
}

// FormatParseError renders the error with a caret under the offending
// position of the source formula.
func FormatParseError(err *ParseError, source string) string {
	if err.Offset < 0 || err.Offset > len(source) || source == "" {
		return err.Error()
	}
	caret := strings.Repeat(" ", err.Offset) + "^"
	return fmt.Sprintf("%s\n  %s\n  %s", err.Error(), source, caret)
}
