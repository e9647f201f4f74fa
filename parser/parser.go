// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A recursive descent parser is a top-down parser because it starts from
// the top grammar rule and works its way down into the nested
// sub-expressions before reaching the leaves of the syntax tree
// (terminal rules).
//
// The MiniLang grammar, precedence climbing from bottom:
//
//	program    := stmt* 'end'
//	stmt       := 'read' IDENT ';'
//	            | 'print' expr ';'
//	            | IDENT '=' expr ';'
//	            | 'if' expr '{' stmt* '}' 'else' '{' stmt* '}'
//	            | 'while' expr '{' stmt* '}'
//	expr       := equality
//	equality   := comparison (('==' | '!=') comparison)*
//	comparison := term (('<' | '>' | '<=' | '>=') term)*
//	term       := factor (('+' | '-') factor)*
//	factor     := unary (('*' | '/') unary)*
//	unary      := '-' unary | primary
//	primary    := NUMBER | IDENT | '(' expr ')'
package parser

import (
	"fmt"

	"minilang/ast"
	"minilang/token"
)

var equalityTokenTypes = []token.TokenType{
	token.EQUAL_EQUAL,
	token.NOT_EQUAL,
}

var comparisonTokenTypes = []token.TokenType{
	token.LESS,
	token.LESS_EQUAL,
	token.LARGER,
	token.LARGER_EQUAL,
}

var termTokenTypes = []token.TokenType{
	token.ADD,
	token.SUB,
}

var factorTokenTypes = []token.TokenType{
	token.MULT,
	token.DIV,
}

type Parser struct {
	tokens   []token.Token
	lines    []string
	position int
}

// Make initializes and returns a new Parser instance.
//
// Parameters:
//   - tokens: The tokens created by the lexer, terminated by EOF.
//   - source: The original source text, kept for error excerpts.
func Make(tokens []token.Token, source string) *Parser {
	return &Parser{
		tokens:   tokens,
		lines:    token.Lines(source),
		position: 0,
	}
}

// peek returns the token at the parser's current position without
// advancing.
func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

// previous retrieves the token at the parser's previous position.
func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

// advance consumes the current token and increments the parser's
// position by one unit.
func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

// isFinished determines if the parser has consumed all the tokens.
func (parser *Parser) isFinished() bool {
	return parser.peek().TokenType == token.EOF
}

// checkType determines if the provided tokenType matches the token at
// the parser's current position.
func (parser *Parser) checkType(tokenType token.TokenType) bool {
	if parser.isFinished() {
		return false
	}
	return parser.peek().TokenType == tokenType
}

// isMatch determines if the token at the current position matches any of
// the provided tokenTypes. If a match is found the parser consumes the
// token.
func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for i := range tokenTypes {
		if parser.checkType(tokenTypes[i]) {
			parser.advance()
			return true
		}
	}
	return false
}

// newError builds a SyntaxError at the given token, attaching the source
// line for the caret excerpt.
func (parser *Parser) newError(at token.Token, message string) SyntaxError {
	return CreateSyntaxError(at.Line, at.Column, token.LineAt(parser.lines, at.Line), message)
}

// consume advances past the current token if its type matches tokenType,
// otherwise it returns a SyntaxError naming the expected kind and the
// token actually found.
func (parser *Parser) consume(tokenType token.TokenType, context string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	currentToken := parser.peek()
	found := fmt.Sprintf("'%s'", currentToken.Lexeme)
	if currentToken.TokenType == token.EOF {
		found = "end of input"
	}
	message := fmt.Sprintf("expected '%s' %s, found %s", tokenType, context, found)
	return currentToken, parser.newError(currentToken, message)
}

// Parse parses the entire token stream into the program's statements.
// The token stream must consist of zero or more statements terminated by
// the 'end' keyword.
//
// Returns:
//   - []ast.Stmt: the parsed program.
//   - error: the first SyntaxError encountered, or nil.
func (parser *Parser) Parse() ([]ast.Stmt, error) {
	statements := []ast.Stmt{}

	for !parser.checkType(token.END) {
		if parser.isFinished() {
			return nil, parser.newError(parser.peek(), "expected 'end' terminating the program, found end of input")
		}
		statement, err := parser.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}
	parser.advance() // consume 'end'

	return statements, nil
}

// statement parses a single statement: read, print, assignment,
// if/else or while.
func (parser *Parser) statement() (ast.Stmt, error) {

	if parser.isMatch([]token.TokenType{token.READ}) {
		return parser.readStatement()
	}

	if parser.isMatch([]token.TokenType{token.PRINT}) {
		return parser.printStatement()
	}

	if parser.isMatch([]token.TokenType{token.IF}) {
		return parser.ifStatement()
	}

	if parser.isMatch([]token.TokenType{token.WHILE}) {
		return parser.whileStatement()
	}

	if parser.checkType(token.IDENTIFIER) {
		return parser.assignStatement()
	}

	currentToken := parser.peek()
	message := fmt.Sprintf("expected a statement, found '%s'", currentToken.Lexeme)
	if currentToken.TokenType == token.EOF {
		message = "expected a statement, found end of input"
	}
	return nil, parser.newError(currentToken, message)
}

// readStatement parses "read IDENT ;" after the 'read' keyword has been
// consumed.
func (parser *Parser) readStatement() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "after 'read'")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "after read statement"); err != nil {
		return nil, err
	}
	return ast.ReadStmt{Name: name}, nil
}

// printStatement parses "print expr ;" after the 'print' keyword has
// been consumed.
func (parser *Parser) printStatement() (ast.Stmt, error) {
	expression, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "after print statement"); err != nil {
		return nil, err
	}
	return ast.PrintStmt{Expression: expression}, nil
}

// assignStatement parses "IDENT = expr ;".
func (parser *Parser) assignStatement() (ast.Stmt, error) {
	name := parser.advance()
	if _, err := parser.consume(token.ASSIGN, "after variable name"); err != nil {
		return nil, err
	}
	value, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "after assignment"); err != nil {
		return nil, err
	}
	return ast.AssignStmt{Name: name, Value: value}, nil
}

// ifStatement parses an if statement after the 'if' keyword has been
// consumed. The else clause is mandatory in MiniLang, so both branches
// are always parsed.
func (parser *Parser) ifStatement() (ast.Stmt, error) {
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}

	thenBody, err := parser.block("after if condition")
	if err != nil {
		return nil, err
	}

	if _, err := parser.consume(token.ELSE, "after if block"); err != nil {
		return nil, err
	}

	elseBody, err := parser.block("after 'else'")
	if err != nil {
		return nil, err
	}

	return ast.IfStmt{
		Condition: condition,
		Then:      thenBody,
		Else:      elseBody,
	}, nil
}

// whileStatement parses a while statement after the 'while' keyword has
// been consumed.
func (parser *Parser) whileStatement() (ast.Stmt, error) {
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}

	body, err := parser.block("after while condition")
	if err != nil {
		return nil, err
	}

	return ast.WhileStmt{
		Condition: condition,
		Body:      body,
	}, nil
}

// block parses "{ stmt* }" and returns the enclosed statements.
func (parser *Parser) block(context string) ([]ast.Stmt, error) {
	if _, err := parser.consume(token.LCUR, context); err != nil {
		return nil, err
	}

	statements := []ast.Stmt{}
	for !parser.checkType(token.RCUR) {
		if parser.isFinished() {
			return nil, parser.newError(parser.peek(), "expected '}' closing block, found end of input")
		}
		statement, err := parser.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}
	parser.advance() // consume '}'

	return statements, nil
}

// expression is the entry point for parsing expressions. It begins at
// the equality rule, which encompasses all lower-precedence rules.
func (parser *Parser) expression() (ast.Expression, error) {
	return parser.equality()
}

// equality parses equality expressions using operators "==" and "!=".
// All binary operators are left-associative: "a == b == c" builds
// "((a == b) == c)".
func (parser *Parser) equality() (ast.Expression, error) {
	expr, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(equalityTokenTypes) {
		operator := parser.previous()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{
			Left:     expr,
			Operator: operator,
			Right:    right,
		}
	}
	return expr, nil
}

// comparison parses comparison expressions using operators "<", "<=",
// ">", ">=".
func (parser *Parser) comparison() (ast.Expression, error) {
	expr, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(comparisonTokenTypes) {
		operator := parser.previous()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{
			Left:     expr,
			Operator: operator,
			Right:    right,
		}
	}
	return expr, nil
}

// term parses addition and subtraction expressions.
func (parser *Parser) term() (ast.Expression, error) {
	expr, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(termTokenTypes) {
		operator := parser.previous()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{
			Left:     expr,
			Operator: operator,
			Right:    right,
		}
	}
	return expr, nil
}

// factor parses multiplication and division expressions.
func (parser *Parser) factor() (ast.Expression, error) {
	expr, err := parser.unary()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(factorTokenTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{
			Left:     expr,
			Operator: operator,
			Right:    right,
		}
	}
	return expr, nil
}

// unary parses unary prefix expressions using the "-" operator.
// Unary minus is right-associative and binds tighter than any binary
// operator: "-a * b" parses as "(-a) * b".
func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.SUB}) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{
			Operator: operator,
			Right:    right,
		}, nil
	}
	return parser.primary()
}

// primary parses the most basic forms of expressions:
//   - NUMBER literals
//   - variable references
//   - grouping: (expression)
func (parser *Parser) primary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.NUMBER}) {
		return ast.Number{Value: parser.previous().Literal}, nil
	}

	if parser.isMatch([]token.TokenType{token.IDENTIFIER}) {
		return ast.Variable{Name: parser.previous()}, nil
	}

	if parser.isMatch([]token.TokenType{token.LPA}) {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RPA, "closing grouped expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	currentToken := parser.peek()
	message := fmt.Sprintf("expected an expression, found '%s'", currentToken.Lexeme)
	if currentToken.TokenType == token.EOF {
		message = "expected an expression, found end of input"
	}
	return nil, parser.newError(currentToken, message)
}
