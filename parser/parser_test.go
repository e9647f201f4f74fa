package parser

import (
	"strings"
	"testing"

	"minilang/ast"
	"minilang/lexer"
	"minilang/token"
)

func parseSource(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	statements, err := Make(tokens, source).Parse()
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	return statements
}

func parseError(t *testing.T, source string) error {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	_, err = Make(tokens, source).Parse()
	if err == nil {
		t.Fatalf("expected a syntax error for %q", source)
	}
	return err
}

func TestStatementShapes(t *testing.T) {
	statements := parseSource(t, "read a; print a; a = a + 1; end")
	if len(statements) != 3 {
		t.Fatalf("statement count - got: %d, want: 3", len(statements))
	}
	if _, ok := statements[0].(ast.ReadStmt); !ok {
		t.Errorf("statement 0 - got: %T, want: ReadStmt", statements[0])
	}
	if _, ok := statements[1].(ast.PrintStmt); !ok {
		t.Errorf("statement 1 - got: %T, want: PrintStmt", statements[1])
	}
	if _, ok := statements[2].(ast.AssignStmt); !ok {
		t.Errorf("statement 2 - got: %T, want: AssignStmt", statements[2])
	}
}

// a + b * c must parse as a + (b * c).
func TestMultiplicationBindsTighter(t *testing.T) {
	statements := parseSource(t, "print a + b * c; end")
	printStmt := statements[0].(ast.PrintStmt)

	outer, ok := printStmt.Expression.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary at the top, got %T", printStmt.Expression)
	}
	if outer.Operator.TokenType != token.ADD {
		t.Fatalf("top operator - got: %s, want: +", outer.Operator.TokenType)
	}
	right, ok := outer.Right.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary on the right, got %T", outer.Right)
	}
	if right.Operator.TokenType != token.MULT {
		t.Errorf("right operator - got: %s, want: *", right.Operator.TokenType)
	}
}

// a - b - c must parse as (a - b) - c.
func TestSubtractionIsLeftAssociative(t *testing.T) {
	statements := parseSource(t, "print a - b - c; end")
	printStmt := statements[0].(ast.PrintStmt)

	outer := printStmt.Expression.(ast.Binary)
	if outer.Operator.TokenType != token.SUB {
		t.Fatalf("top operator - got: %s, want: -", outer.Operator.TokenType)
	}
	left, ok := outer.Left.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary on the left, got %T", outer.Left)
	}
	if left.Operator.TokenType != token.SUB {
		t.Errorf("left operator - got: %s, want: -", left.Operator.TokenType)
	}
	if _, ok := outer.Right.(ast.Variable); !ok {
		t.Errorf("right operand - got: %T, want: Variable", outer.Right)
	}
}

// -a * b must parse as (-a) * b.
func TestUnaryBindsTighterThanBinary(t *testing.T) {
	statements := parseSource(t, "print -a * b; end")
	printStmt := statements[0].(ast.PrintStmt)

	outer, ok := printStmt.Expression.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary at the top, got %T", printStmt.Expression)
	}
	if outer.Operator.TokenType != token.MULT {
		t.Fatalf("top operator - got: %s, want: *", outer.Operator.TokenType)
	}
	if _, ok := outer.Left.(ast.Unary); !ok {
		t.Errorf("left operand - got: %T, want: Unary", outer.Left)
	}
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	statements := parseSource(t, "print (a + b) * c; end")
	printStmt := statements[0].(ast.PrintStmt)

	outer := printStmt.Expression.(ast.Binary)
	if outer.Operator.TokenType != token.MULT {
		t.Fatalf("top operator - got: %s, want: *", outer.Operator.TokenType)
	}
	left, ok := outer.Left.(ast.Binary)
	if !ok {
		t.Fatalf("expected Binary on the left, got %T", outer.Left)
	}
	if left.Operator.TokenType != token.ADD {
		t.Errorf("left operator - got: %s, want: +", left.Operator.TokenType)
	}
}

func TestComparisonBelowEquality(t *testing.T) {
	statements := parseSource(t, "print a < b == c < d; end")
	printStmt := statements[0].(ast.PrintStmt)

	outer := printStmt.Expression.(ast.Binary)
	if outer.Operator.TokenType != token.EQUAL_EQUAL {
		t.Fatalf("top operator - got: %s, want: ==", outer.Operator.TokenType)
	}
}

func TestIfElseCarriesBothBranches(t *testing.T) {
	statements := parseSource(t, "if x < 1 { print 1; } else { print 2; print 3; } end")
	ifStmt, ok := statements[0].(ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", statements[0])
	}
	if len(ifStmt.Then) != 1 {
		t.Errorf("then body - got: %d statements, want: 1", len(ifStmt.Then))
	}
	if len(ifStmt.Else) != 2 {
		t.Errorf("else body - got: %d statements, want: 2", len(ifStmt.Else))
	}
}

func TestWhileBody(t *testing.T) {
	statements := parseSource(t, "while i < 10 { i = i + 1; } end")
	whileStmt, ok := statements[0].(ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", statements[0])
	}
	if len(whileStmt.Body) != 1 {
		t.Errorf("body - got: %d statements, want: 1", len(whileStmt.Body))
	}
}

func TestNestedBlocks(t *testing.T) {
	source := "if a < b { if c < d { print 1; } else { print 2; } } else { while e < f { print 3; } } end"
	statements := parseSource(t, source)
	ifStmt := statements[0].(ast.IfStmt)
	if _, ok := ifStmt.Then[0].(ast.IfStmt); !ok {
		t.Errorf("then body - got: %T, want: IfStmt", ifStmt.Then[0])
	}
	if _, ok := ifStmt.Else[0].(ast.WhileStmt); !ok {
		t.Errorf("else body - got: %T, want: WhileStmt", ifStmt.Else[0])
	}
}

func TestMissingSemicolon(t *testing.T) {
	err := parseError(t, "read a end")
	if !strings.Contains(err.Error(), "';'") {
		t.Errorf("error must name the expected semicolon: %s", err)
	}
}

func TestElseIsMandatory(t *testing.T) {
	err := parseError(t, "if a < 1 { print 1; } end")
	if !strings.Contains(err.Error(), "'ELSE'") {
		t.Errorf("error must name the expected else: %s", err)
	}
}

func TestMissingEnd(t *testing.T) {
	err := parseError(t, "read a;")
	if !strings.Contains(err.Error(), "end of input") {
		t.Errorf("error must report premature end of input: %s", err)
	}
}

func TestDanglingExpressionError(t *testing.T) {
	err := parseError(t, "print 1 + ; end")
	syntaxErr, ok := err.(SyntaxError)
	if !ok {
		t.Fatalf("expected SyntaxError, got %T", err)
	}
	if syntaxErr.Line != 1 {
		t.Errorf("error line - got: %d, want: 1", syntaxErr.Line)
	}
	if !strings.Contains(err.Error(), "^") {
		t.Errorf("error message must contain a caret excerpt: %s", err)
	}
}

func TestAssignmentRequiresEquals(t *testing.T) {
	err := parseError(t, "a 1; end")
	if !strings.Contains(err.Error(), "'='") {
		t.Errorf("error must name the expected '=': %s", err)
	}
}
