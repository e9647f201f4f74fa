// Package pipeline composes the compilation stages. Data flows strictly
// forward: source → tokens → AST → (optionally folded AST) → TAC →
// assembly → machine program. No stage mutates an earlier stage's
// artifact; each produces a fresh value, and all of them are retained on
// the Artifacts struct so any stage can be serialized for inspection.
package pipeline

import (
	"minilang/asm"
	"minilang/ast"
	"minilang/codegen"
	"minilang/ir"
	"minilang/lexer"
	"minilang/optimizer"
	"minilang/parser"
	"minilang/semantic"
	"minilang/token"
)

// Options selects pipeline behavior.
type Options struct {
	// Optimize enables constant folding. On by default in the CLI;
	// disabled by -no-opt.
	Optimize bool
}

// Artifacts holds every intermediate produced by one compilation.
type Artifacts struct {
	Source   string
	Tokens   []token.Token
	Program  []ast.Stmt
	Folded   []ast.Stmt // the statements actually lowered; equal to Program when folding is off
	Symbols  semantic.SymbolTable
	Warnings []semantic.Warning
	IR       []ir.Instruction
	Assembly codegen.Assembly
	Machine  *asm.Program
}

// Compile runs the full pipeline over the source text. Lex, parse and
// link errors abort immediately; semantic warnings accumulate on the
// artifacts and never abort.
func Compile(source string, options Options) (*Artifacts, error) {
	artifacts := &Artifacts{Source: source}

	tokens, err := lexer.New(source).Scan()
	if err != nil {
		return nil, err
	}
	artifacts.Tokens = tokens

	program, err := parser.Make(tokens, source).Parse()
	if err != nil {
		return nil, err
	}
	artifacts.Program = program

	artifacts.Symbols, artifacts.Warnings = semantic.New(source).Analyze(program)

	artifacts.Folded = program
	if options.Optimize {
		artifacts.Folded = optimizer.New().Fold(program)
	}

	artifacts.IR = ir.NewGenerator().Generate(artifacts.Folded)

	assembly, err := codegen.NewGenerator().Generate(artifacts.IR)
	if err != nil {
		return nil, err
	}
	artifacts.Assembly = assembly

	machine, err := asm.Assemble(assembly)
	if err != nil {
		return nil, err
	}
	artifacts.Machine = machine

	return artifacts, nil
}
