// Package semantic implements the flow analysis pass. It populates the
// symbol table and emits warnings for reads of possibly-uninitialized
// variables. Warnings accumulate and never abort compilation.
//
// The analysis tracks an abstract set of variables known to be
// definitely initialized at each program point. It is deliberately
// conservative: a single pass with no fixed-point iteration, so a while
// body never contributes to the set after the loop (the loop may run
// zero times) and an if/else contributes the intersection of its
// branches.
package semantic

import (
	"fmt"

	"minilang/ast"
	"minilang/token"
)

// Symbol records what the analyzer learned about one variable name.
// Names live in a single global namespace; declaration is implicit on
// the first read or assignment.
type Symbol struct {
	Declared    bool
	Initialized bool
}

// SymbolTable maps variable names to their Symbol records.
type SymbolTable map[string]Symbol

// Warning is a non-fatal diagnostic for a use of a possibly-uninitialized
// variable.
type Warning struct {
	Line       int
	Column     int
	Name       string
	SourceLine string
}

func (w Warning) String() string {
	return fmt.Sprintf("⚠️  MiniLang warning:\nline:%d, column:%d - variable '%s' may be uninitialized\n%s",
		w.Line, w.Column, w.Name, token.Caret(w.SourceLine, w.Column))
}

// Analyzer walks the program once, maintaining the set of definitely
// initialized variables, and records symbols and warnings as it goes.
type Analyzer struct {
	symbols  SymbolTable
	warnings []Warning
	lines    []string

	// The INIT set at the current program point.
	initialized map[string]bool
}

// New returns an Analyzer. The source text is kept for warning excerpts.
func New(source string) *Analyzer {
	return &Analyzer{
		symbols:     SymbolTable{},
		lines:       token.Lines(source),
		initialized: map[string]bool{},
	}
}

// Analyze runs the init analysis over the program and returns the
// populated symbol table together with all accumulated warnings.
func (a *Analyzer) Analyze(statements []ast.Stmt) (SymbolTable, []Warning) {
	a.analyzeStatements(statements)
	return a.symbols, a.warnings
}

func (a *Analyzer) analyzeStatements(statements []ast.Stmt) {
	for _, statement := range statements {
		statement.Accept(a)
	}
}

// declare marks a variable as declared and definitely initialized at the
// current program point.
func (a *Analyzer) declare(name string) {
	a.symbols[name] = Symbol{Declared: true, Initialized: true}
	a.initialized[name] = true
}

func (a *Analyzer) copyInit() map[string]bool {
	snapshot := make(map[string]bool, len(a.initialized))
	for name := range a.initialized {
		snapshot[name] = true
	}
	return snapshot
}

func (a *Analyzer) VisitReadStmt(stmt ast.ReadStmt) any {
	a.declare(stmt.Name.Lexeme)
	return nil
}

func (a *Analyzer) VisitPrintStmt(stmt ast.PrintStmt) any {
	stmt.Expression.Accept(a)
	return nil
}

func (a *Analyzer) VisitAssignStmt(stmt ast.AssignStmt) any {
	// The value is checked against the set before the target joins it,
	// so "x = x + 1;" on an unset x still warns.
	stmt.Value.Accept(a)
	a.declare(stmt.Name.Lexeme)
	return nil
}

func (a *Analyzer) VisitIfStmt(stmt ast.IfStmt) any {
	stmt.Condition.Accept(a)

	before := a.copyInit()

	a.analyzeStatements(stmt.Then)
	afterThen := a.initialized

	a.initialized = before
	a.analyzeStatements(stmt.Else)
	afterElse := a.initialized

	// Only variables initialized on both branches survive the join.
	merged := map[string]bool{}
	for name := range afterThen {
		if afterElse[name] {
			merged[name] = true
		}
	}
	a.initialized = merged
	return nil
}

func (a *Analyzer) VisitWhileStmt(stmt ast.WhileStmt) any {
	stmt.Condition.Accept(a)

	// The body is analyzed for diagnostics inside it, but its
	// assignments never escape: the loop may execute zero times.
	before := a.copyInit()
	a.analyzeStatements(stmt.Body)
	a.initialized = before
	return nil
}

func (a *Analyzer) VisitNumber(number ast.Number) any {
	return nil
}

func (a *Analyzer) VisitVariable(variable ast.Variable) any {
	name := variable.Name.Lexeme
	if a.initialized[name] {
		return nil
	}
	if _, seen := a.symbols[name]; !seen {
		a.symbols[name] = Symbol{Declared: true, Initialized: false}
	}
	a.warnings = append(a.warnings, Warning{
		Line:       variable.Name.Line,
		Column:     variable.Name.Column,
		Name:       name,
		SourceLine: token.LineAt(a.lines, variable.Name.Line),
	})
	return nil
}

func (a *Analyzer) VisitUnary(unary ast.Unary) any {
	unary.Right.Accept(a)
	return nil
}

func (a *Analyzer) VisitBinary(binary ast.Binary) any {
	binary.Left.Accept(a)
	binary.Right.Accept(a)
	return nil
}
