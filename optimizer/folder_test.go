package optimizer

import (
	"reflect"
	"testing"

	"minilang/ast"
	"minilang/lexer"
	"minilang/parser"
)

func parseSource(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	statements, err := parser.Make(tokens, source).Parse()
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	return statements
}

func foldedPrintValue(t *testing.T, source string) ast.Expression {
	t.Helper()
	folded := New().Fold(parseSource(t, source))
	if len(folded) != 1 {
		t.Fatalf("statement count - got: %d, want: 1", len(folded))
	}
	printStmt, ok := folded[0].(ast.PrintStmt)
	if !ok {
		t.Fatalf("expected PrintStmt, got %T", folded[0])
	}
	return printStmt.Expression
}

func TestFoldArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int64
	}{
		{name: "precedence", source: "print 2 + 3 * 4; end", want: 14},
		{name: "division truncates", source: "print 7 / 2; end", want: 3},
		{name: "negative division truncates toward zero", source: "print -7 / 2; end", want: -3},
		{name: "unary minus", source: "print -5; end", want: -5},
		{name: "double negation", source: "print --5; end", want: 5},
		{name: "relational true", source: "print 1 < 2; end", want: 1},
		{name: "relational false", source: "print 2 < 1; end", want: 0},
		{name: "equality", source: "print 3 == 3; end", want: 1},
		{name: "inequality", source: "print 3 != 3; end", want: 0},
		{name: "grouping", source: "print (2 + 3) * 4; end", want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expression := foldedPrintValue(t, tt.source)
			number, ok := expression.(ast.Number)
			if !ok {
				t.Fatalf("expected a folded Number, got %T", expression)
			}
			if number.Value != tt.want {
				t.Errorf("folded value - got: %d, want: %d", number.Value, tt.want)
			}
		})
	}
}

func TestDivisionByZeroIsNotFolded(t *testing.T) {
	expression := foldedPrintValue(t, "print 1 / 0; end")
	if _, ok := expression.(ast.Binary); !ok {
		t.Fatalf("division by zero must stay a Binary, got %T", expression)
	}
}

func TestVariablesAreNotFolded(t *testing.T) {
	expression := foldedPrintValue(t, "print x + 1; end")
	if _, ok := expression.(ast.Binary); !ok {
		t.Fatalf("expected Binary, got %T", expression)
	}
}

// Constant subtrees fold inside an otherwise dynamic expression.
func TestPartialFolding(t *testing.T) {
	expression := foldedPrintValue(t, "print x + 2 * 3; end")
	binary := expression.(ast.Binary)
	number, ok := binary.Right.(ast.Number)
	if !ok {
		t.Fatalf("expected folded right operand, got %T", binary.Right)
	}
	if number.Value != 6 {
		t.Errorf("folded value - got: %d, want: 6", number.Value)
	}
}

func TestTrueBranchInlined(t *testing.T) {
	folded := New().Fold(parseSource(t, "if 1 < 2 { print 1; print 2; } else { print 3; } end"))
	if len(folded) != 2 {
		t.Fatalf("statement count - got: %d, want: 2 (then branch inlined)", len(folded))
	}
	for i, statement := range folded {
		if _, ok := statement.(ast.PrintStmt); !ok {
			t.Errorf("statement %d - got: %T, want: PrintStmt", i, statement)
		}
	}
}

func TestFalseBranchInlined(t *testing.T) {
	folded := New().Fold(parseSource(t, "if 0 { print 1; } else { print 2; } end"))
	if len(folded) != 1 {
		t.Fatalf("statement count - got: %d, want: 1 (else branch inlined)", len(folded))
	}
	printStmt := folded[0].(ast.PrintStmt)
	number := printStmt.Expression.(ast.Number)
	if number.Value != 2 {
		t.Errorf("surviving print - got: %d, want: 2", number.Value)
	}
}

func TestDynamicConditionKeepsBothBranches(t *testing.T) {
	folded := New().Fold(parseSource(t, "read x; if x < 2 + 2 { print 1; } else { print 2; } end"))
	ifStmt, ok := folded[1].(ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", folded[1])
	}
	// the condition's constant right side still folds
	condition := ifStmt.Condition.(ast.Binary)
	number, ok := condition.Right.(ast.Number)
	if !ok || number.Value != 4 {
		t.Errorf("condition right side - got: %v, want folded 4", condition.Right)
	}
}

func TestWhileConditionFoldsButLoopStays(t *testing.T) {
	folded := New().Fold(parseSource(t, "while 1 < 2 { read x; } end"))
	whileStmt, ok := folded[0].(ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", folded[0])
	}
	number, ok := whileStmt.Condition.(ast.Number)
	if !ok || number.Value != 1 {
		t.Errorf("while condition - got: %v, want folded 1", whileStmt.Condition)
	}
}

func TestFoldingIsIdempotent(t *testing.T) {
	sources := []string{
		"print 2 + 3 * 4; end",
		"read x; if x < 2 + 2 { print x + 1 * 3; } else { print 0; } end",
		"if 1 { print 1; } else { print 2; } while 0 == 1 { print 3; } end",
		"print 1 / 0; end",
	}
	for _, source := range sources {
		folder := New()
		once := folder.Fold(parseSource(t, source))
		twice := folder.Fold(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("folding %q is not idempotent:\nonce:  %v\ntwice: %v", source, once, twice)
		}
	}
}

func TestFoldingDoesNotMutateInput(t *testing.T) {
	original := parseSource(t, "print 2 + 3; end")
	snapshot := parseSource(t, "print 2 + 3; end")
	New().Fold(original)
	if !reflect.DeepEqual(original, snapshot) {
		t.Errorf("folding mutated its input")
	}
}
