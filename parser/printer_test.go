package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"minilang/lexer"
)

func TestASTJSONShape(t *testing.T) {
	source := "read n; if n < 2 { print -n; } else { print n * 2; } end"
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	statements, err := Make(tokens, source).Parse()
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}

	document, err := ASTJSON(statements)
	if err != nil {
		t.Fatalf("ASTJSON raised an error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(document), &decoded); err != nil {
		t.Fatalf("printer output is not valid JSON: %v", err)
	}
	if decoded["type"] != "Program" {
		t.Errorf("root type - got: %v, want: Program", decoded["type"])
	}

	for _, nodeType := range []string{"ReadStmt", "IfStmt", "PrintStmt", "Unary", "Binary", "Variable", "Number"} {
		if !strings.Contains(document, nodeType) {
			t.Errorf("JSON output missing node type %q", nodeType)
		}
	}
}

func TestASTJSONEmptyProgram(t *testing.T) {
	tokens, err := lexer.New("end").Scan()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	statements, err := Make(tokens, "end").Parse()
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	document, err := ASTJSON(statements)
	if err != nil {
		t.Fatalf("ASTJSON raised an error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(document), &decoded); err != nil {
		t.Fatalf("printer output is not valid JSON: %v", err)
	}
	nodes, ok := decoded["statements"].([]any)
	if !ok || len(nodes) != 0 {
		t.Errorf("statements - got: %v, want: empty array", decoded["statements"])
	}
}
