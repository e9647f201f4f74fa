package asm

import "fmt"

// LinkError reports a problem found while linking: an unresolved label
// or symbol reference, a duplicate label, or an unknown mnemonic.
// Reaching one means an earlier stage emitted malformed assembly — a
// compiler defect, not a user error.
type LinkError struct {
	Ref     string
	Message string
}

func (e LinkError) Error() string {
	return fmt.Sprintf("🤖 MiniLang link error: %s: '%s'", e.Message, e.Ref)
}
