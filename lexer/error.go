package lexer

import (
	"fmt"

	"minilang/token"
)

// LexError describes a failure during lexical analysis: an unexpected
// character, a malformed operator or an unterminated block comment.
// It carries the 1-indexed source position and the offending source line
// so the rendered message can point a caret at the exact character.
type LexError struct {
	Line       int
	Column     int
	Message    string
	SourceLine string
}

func (e LexError) Error() string {
	return fmt.Sprintf("💥 MiniLang lex error:\nline:%d, column:%d - %s\n%s",
		e.Line, e.Column, e.Message, token.Caret(e.SourceLine, e.Column))
}
