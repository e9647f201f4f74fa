package vm

import "fmt"

// ErrorKind classifies runtime failures.
type ErrorKind string

const (
	DivideByZero   ErrorKind = "DivideByZero"
	InputExhausted ErrorKind = "InputExhausted"
	UnknownOpcode  ErrorKind = "UnknownOpcode"
)

// RuntimeError is a structured failure surfaced by the VM, distinct from
// successful termination. PC is the byte index of the failing
// instruction.
type RuntimeError struct {
	Kind    ErrorKind
	PC      int
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 MiniLang runtime error (%s) at pc=%d: %s", e.Kind, e.PC, e.Message)
}
