// Package optimizer implements constant folding over the AST. Constant
// subexpressions are evaluated at compile time, and if/else statements
// whose condition folds to a constant have their dead branch pruned.
//
// Folding arithmetic matches the VM's runtime semantics bit-for-bit:
// int64 operands, division truncating toward zero, relational operators
// producing exactly 0 or 1. Division by a constant zero is NOT folded;
// the node is left intact so the runtime error is preserved.
package optimizer

import (
	"minilang/ast"
	"minilang/token"
)

// Folder rewrites an AST bottom-up, replacing constant subexpressions
// with Number nodes. Folding is pure: it returns fresh nodes and never
// mutates its input.
type Folder struct{}

// New returns a Folder.
func New() *Folder {
	return &Folder{}
}

// Fold returns the folded form of the program. Folding is idempotent:
// applying it to its own output yields an equal tree.
func (f *Folder) Fold(statements []ast.Stmt) []ast.Stmt {
	folded := make([]ast.Stmt, 0, len(statements))
	for _, statement := range statements {
		folded = append(folded, statement.Accept(f).([]ast.Stmt)...)
	}
	return folded
}

// foldExpression folds a single expression tree.
func (f *Folder) foldExpression(expression ast.Expression) ast.Expression {
	return expression.Accept(f).(ast.Expression)
}

func (f *Folder) VisitNumber(number ast.Number) any {
	return ast.Expression(number)
}

func (f *Folder) VisitVariable(variable ast.Variable) any {
	return ast.Expression(variable)
}

func (f *Folder) VisitUnary(unary ast.Unary) any {
	right := f.foldExpression(unary.Right)
	if number, ok := right.(ast.Number); ok {
		return ast.Expression(ast.Number{Value: -number.Value})
	}
	return ast.Expression(ast.Unary{Operator: unary.Operator, Right: right})
}

func (f *Folder) VisitBinary(binary ast.Binary) any {
	left := f.foldExpression(binary.Left)
	right := f.foldExpression(binary.Right)

	leftNumber, leftConst := left.(ast.Number)
	rightNumber, rightConst := right.(ast.Number)
	if leftConst && rightConst {
		if value, ok := eval(leftNumber.Value, binary.Operator.TokenType, rightNumber.Value); ok {
			return ast.Expression(ast.Number{Value: value})
		}
	}
	return ast.Expression(ast.Binary{Left: left, Operator: binary.Operator, Right: right})
}

// eval computes a binary operation over two constants. It reports false
// for division by zero, which must stay a runtime error.
func eval(left int64, operator token.TokenType, right int64) (int64, bool) {
	switch operator {
	case token.ADD:
		return left + right, true
	case token.SUB:
		return left - right, true
	case token.MULT:
		return left * right, true
	case token.DIV:
		if right == 0 {
			return 0, false
		}
		// Go's integer division truncates toward zero, matching the VM.
		return left / right, true
	case token.LESS:
		return boolToInt(left < right), true
	case token.LESS_EQUAL:
		return boolToInt(left <= right), true
	case token.LARGER:
		return boolToInt(left > right), true
	case token.LARGER_EQUAL:
		return boolToInt(left >= right), true
	case token.EQUAL_EQUAL:
		return boolToInt(left == right), true
	case token.NOT_EQUAL:
		return boolToInt(left != right), true
	}
	return 0, false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (f *Folder) VisitReadStmt(stmt ast.ReadStmt) any {
	return []ast.Stmt{stmt}
}

func (f *Folder) VisitPrintStmt(stmt ast.PrintStmt) any {
	return []ast.Stmt{ast.PrintStmt{Expression: f.foldExpression(stmt.Expression)}}
}

func (f *Folder) VisitAssignStmt(stmt ast.AssignStmt) any {
	return []ast.Stmt{ast.AssignStmt{Name: stmt.Name, Value: f.foldExpression(stmt.Value)}}
}

func (f *Folder) VisitIfStmt(stmt ast.IfStmt) any {
	condition := f.foldExpression(stmt.Condition)

	// A constant condition selects one branch at compile time; the
	// surviving block is inlined in place of the if statement.
	if number, ok := condition.(ast.Number); ok {
		if number.Value != 0 {
			return f.Fold(stmt.Then)
		}
		return f.Fold(stmt.Else)
	}

	return []ast.Stmt{ast.IfStmt{
		Condition: condition,
		Then:      f.Fold(stmt.Then),
		Else:      f.Fold(stmt.Else),
	}}
}

func (f *Folder) VisitWhileStmt(stmt ast.WhileStmt) any {
	return []ast.Stmt{ast.WhileStmt{
		Condition: f.foldExpression(stmt.Condition),
		Body:      f.Fold(stmt.Body),
	}}
}
