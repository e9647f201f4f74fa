package ir

import (
	"fmt"

	"minilang/ast"
	"minilang/token"
)

// EndLabel is the sentinel label appended after the last statement. The
// assembly stage emits the HALT instruction behind it.
const EndLabel = "END"

// Generator lowers an AST into a TAC sequence. It owns the monotonically
// increasing counters for temporaries (t1, t2, ...) and labels
// (L1, L2, ...); both are scoped to a single compilation, so there is no
// process-global state.
type Generator struct {
	code       []Instruction
	tempCount  int
	labelCount int
}

// NewGenerator returns a Generator with fresh counters.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate lowers the program to TAC. The resulting sequence always ends
// with the sentinel END label.
func (g *Generator) Generate(statements []ast.Stmt) []Instruction {
	for _, statement := range statements {
		statement.Accept(g)
	}
	g.emit(Instruction{Op: OpLabel, A1: None(), A2: None(), Dest: Label(EndLabel)})
	return g.code
}

func (g *Generator) emit(instruction Instruction) {
	g.code = append(g.code, instruction)
}

// newTemp allocates the next temporary.
func (g *Generator) newTemp() Operand {
	g.tempCount++
	return Temp(g.tempCount)
}

// newLabel allocates the next label. Labels are allocated per construct,
// so nested statements never collide.
func (g *Generator) newLabel() Operand {
	g.labelCount++
	return Label(fmt.Sprintf("L%d", g.labelCount))
}

// lower emits the TAC for an expression and returns the operand holding
// its result. Sub-expression results land in fresh temporaries; integer
// literals are materialized through an assign so every value the
// assembly stage sees is addressable.
func (g *Generator) lower(expression ast.Expression) Operand {
	return expression.Accept(g).(Operand)
}

func (g *Generator) VisitNumber(number ast.Number) any {
	dest := g.newTemp()
	g.emit(Instruction{Op: OpAssign, A1: Literal(number.Value), A2: None(), Dest: dest})
	return dest
}

func (g *Generator) VisitVariable(variable ast.Variable) any {
	// Variables are already addressable; no temporary needed.
	return Var(variable.Name.Lexeme)
}

func (g *Generator) VisitUnary(unary ast.Unary) any {
	operand := g.lower(unary.Right)
	dest := g.newTemp()
	g.emit(Instruction{Op: OpUminus, A1: operand, A2: None(), Dest: dest})
	return dest
}

var binaryOps = map[token.TokenType]Op{
	token.ADD:          OpAdd,
	token.SUB:          OpSub,
	token.MULT:         OpMul,
	token.DIV:          OpDiv,
	token.LESS:         OpLess,
	token.LESS_EQUAL:   OpLessEqual,
	token.LARGER:       OpLarger,
	token.LARGER_EQUAL: OpLargerEqual,
	token.EQUAL_EQUAL:  OpEqual,
	token.NOT_EQUAL:    OpNotEqual,
}

func (g *Generator) VisitBinary(binary ast.Binary) any {
	left := g.lower(binary.Left)
	right := g.lower(binary.Right)
	dest := g.newTemp()
	g.emit(Instruction{Op: binaryOps[binary.Operator.TokenType], A1: left, A2: right, Dest: dest})
	return dest
}

func (g *Generator) VisitReadStmt(stmt ast.ReadStmt) any {
	g.emit(Instruction{Op: OpRead, A1: None(), A2: None(), Dest: Var(stmt.Name.Lexeme)})
	return nil
}

func (g *Generator) VisitPrintStmt(stmt ast.PrintStmt) any {
	value := g.lower(stmt.Expression)
	g.emit(Instruction{Op: OpPrint, A1: value, A2: None(), Dest: None()})
	return nil
}

func (g *Generator) VisitAssignStmt(stmt ast.AssignStmt) any {
	value := g.lower(stmt.Value)
	g.emit(Instruction{Op: OpAssign, A1: value, A2: None(), Dest: Var(stmt.Name.Lexeme)})
	return nil
}

// VisitIfStmt lowers if/else with the false branch first:
//
//	t = cond
//	ifnz t L_true
//	<else lowered>
//	goto L_end
//	label L_true
//	<then lowered>
//	label L_end
func (g *Generator) VisitIfStmt(stmt ast.IfStmt) any {
	condition := g.lower(stmt.Condition)
	labelTrue := g.newLabel()
	labelEnd := g.newLabel()

	g.emit(Instruction{Op: OpIfNZ, A1: condition, A2: None(), Dest: labelTrue})
	for _, statement := range stmt.Else {
		statement.Accept(g)
	}
	g.emit(Instruction{Op: OpGoto, A1: None(), A2: None(), Dest: labelEnd})
	g.emit(Instruction{Op: OpLabel, A1: None(), A2: None(), Dest: labelTrue})
	for _, statement := range stmt.Then {
		statement.Accept(g)
	}
	g.emit(Instruction{Op: OpLabel, A1: None(), A2: None(), Dest: labelEnd})
	return nil
}

// VisitWhileStmt lowers a loop re-evaluating its condition at the top:
//
//	label L_start
//	t = cond
//	ifnz t L_body
//	goto L_end
//	label L_body
//	<body lowered>
//	goto L_start
//	label L_end
func (g *Generator) VisitWhileStmt(stmt ast.WhileStmt) any {
	labelStart := g.newLabel()
	labelBody := g.newLabel()
	labelEnd := g.newLabel()

	g.emit(Instruction{Op: OpLabel, A1: None(), A2: None(), Dest: labelStart})
	condition := g.lower(stmt.Condition)
	g.emit(Instruction{Op: OpIfNZ, A1: condition, A2: None(), Dest: labelBody})
	g.emit(Instruction{Op: OpGoto, A1: None(), A2: None(), Dest: labelEnd})
	g.emit(Instruction{Op: OpLabel, A1: None(), A2: None(), Dest: labelBody})
	for _, statement := range stmt.Body {
		statement.Accept(g)
	}
	g.emit(Instruction{Op: OpGoto, A1: None(), A2: None(), Dest: labelStart})
	g.emit(Instruction{Op: OpLabel, A1: None(), A2: None(), Dest: labelEnd})
	return nil
}
