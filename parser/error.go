package parser

import (
	"fmt"

	"minilang/token"
)

// SyntaxError describes a parse failure: an unexpected token, a missing
// required token, or end of input in the middle of a construct.
type SyntaxError struct {
	Line       int
	Column     int
	Message    string
	SourceLine string
}

func CreateSyntaxError(line int, column int, sourceLine string, message string) SyntaxError {
	return SyntaxError{
		Line:       line,
		Column:     column,
		Message:    message,
		SourceLine: sourceLine,
	}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 MiniLang syntax error:\nline:%d, column:%d - %s\n%s",
		e.Line, e.Column, e.Message, token.Caret(e.SourceLine, e.Column))
}
