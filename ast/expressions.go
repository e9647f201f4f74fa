// expressions.go contains all the expression AST nodes. An expression node always evaluates to a value.

package ast

import (
	"minilang/token"
)

// Number represents an integer literal in the source code. MiniLang is
// integer-only, so this is the single literal form.
type Number struct {
	Value int64
}

func (number Number) Accept(v ExpressionVisitor) any {
	return v.VisitNumber(number)
}

// Variable represents a variable reference expression. It models the
// retrieval of a value previously bound to a variable name.
//
// Fields:
//   - Name: The IDENTIFIER token holding the variable's name (lexeme)
//     and its source position, used for uninitialized-use warnings.
type Variable struct {
	Name token.Token
}

func (variable Variable) Accept(v ExpressionVisitor) any {
	return v.VisitVariable(variable)
}

// Unary represents a unary operation expression (e.g., "-b").
// It consists of an operator token and a single right-hand expression.
type Unary struct {
	Operator token.Token // The operator (always "-")
	Right    Expression  // The expression the operator is applied to
}

func (unary Unary) Accept(v ExpressionVisitor) any {
	return v.VisitUnary(unary)
}

// Binary represents a binary operation expression (e.g., "a + b").
// It consists of a left-hand side expression, an operator token
// (arithmetic, relational or equality), and a right-hand side expression.
type Binary struct {
	Left     Expression  // The left-hand expression (e.g., "a" in "a + b")
	Operator token.Token // The operator (e.g., "+")
	Right    Expression  // The right-hand expression (e.g., "b" in "a + b")
}

func (binary Binary) Accept(v ExpressionVisitor) any {
	return v.VisitBinary(binary)
}
