package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"minilang/ast"
)

// astPrinter implements the visitor interfaces and builds a
// JSON-friendly representation of the AST using maps and slices.
// Each Visit method returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (p astPrinter) VisitNumber(number ast.Number) any {
	return map[string]any{
		"type":  "Number",
		"value": number.Value,
	}
}

func (p astPrinter) VisitVariable(variable ast.Variable) any {
	return map[string]any{
		"type": "Variable",
		"name": variable.Name.Lexeme,
	}
}

func (p astPrinter) VisitUnary(unary ast.Unary) any {
	return map[string]any{
		"type":     "Unary",
		"operator": unary.Operator.Lexeme,
		"right":    unary.Right.Accept(p),
	}
}

func (p astPrinter) VisitBinary(binary ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": binary.Operator.Lexeme,
		"left":     binary.Left.Accept(p),
		"right":    binary.Right.Accept(p),
	}
}

func (p astPrinter) VisitReadStmt(stmt ast.ReadStmt) any {
	return map[string]any{
		"type": "ReadStmt",
		"name": stmt.Name.Lexeme,
	}
}

func (p astPrinter) VisitPrintStmt(stmt ast.PrintStmt) any {
	return map[string]any{
		"type":       "PrintStmt",
		"expression": stmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitAssignStmt(stmt ast.AssignStmt) any {
	return map[string]any{
		"type":  "AssignStmt",
		"name":  stmt.Name.Lexeme,
		"value": stmt.Value.Accept(p),
	}
}

func (p astPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	return map[string]any{
		"type":      "IfStmt",
		"condition": stmt.Condition.Accept(p),
		"then":      p.statements(stmt.Then),
		"else":      p.statements(stmt.Else),
	}
}

func (p astPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return map[string]any{
		"type":      "WhileStmt",
		"condition": stmt.Condition.Accept(p),
		"body":      p.statements(stmt.Body),
	}
}

func (p astPrinter) statements(statements []ast.Stmt) []any {
	nodes := make([]any, 0, len(statements))
	for _, statement := range statements {
		nodes = append(nodes, statement.Accept(p))
	}
	return nodes
}

// ASTJSON renders the program as indented JSON.
func ASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	document := map[string]any{
		"type":       "Program",
		"statements": printer.statements(statements),
	}
	encoded, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error producing AST JSON: %w", err)
	}
	return string(encoded), nil
}

// WriteAST writes the program's JSON representation to the given writer.
func WriteAST(statements []ast.Stmt, out io.Writer) error {
	encoded, err := ASTJSON(statements)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, encoded)
	return err
}

// WriteASTToFile writes the program's JSON representation to a file at
// the given path.
func WriteASTToFile(statements []ast.Stmt, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %w", err)
	}
	defer file.Close()
	return WriteAST(statements, file)
}
