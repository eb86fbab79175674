// Package parser builds an ast.Program from a token slice.
//
// Statements have the form `name = expression ;`. Expressions are parsed by
// precedence climbing: every infix operator has a left and a right binding
// power, and a sub-expression keeps absorbing operators as long as their left
// binding power is at least the minimum it was called with.
//
//	construct                       lbp  rbp  assoc
//	== != < <= > >=                   5    6  left
//	+ -                              10   11  left
//	* /                              20   21  left
//	^                                30   29  right
//	application (juxtaposition)      50   51  left
//
// Application binds tighter than any operator, so `f x + 1` is `(f x) + 1`
// and `f x y` is `(f x) y`. A lambda body extends as far to the right as
// possible, so `L a. a + 1` is `L a. (a + 1)`.
package parser

import (
	"go.skia.org/lambent/lambent/go/ast"
	"go.skia.org/lambent/lambent/go/token"
)

const (
	lowestBP = 0

	applicationLBP = 50
	applicationRBP = 51

	// negateRBP is the binding power of the operand of unary minus, so that
	// `-f x` is `-(f x)` but `-2 ^ 2` is `(-2) ^ 2`.
	negateRBP = 50
)

type infix struct {
	lbp int
	rbp int
	op  ast.BinaryOperator
}

var infixOperators = map[token.Kind]infix{
	token.Equal:              {5, 6, ast.Equal},
	token.NotEqual:           {5, 6, ast.NotEqual},
	token.LessThan:           {5, 6, ast.LessThan},
	token.LessThanOrEqual:    {5, 6, ast.LessThanOrEqual},
	token.GreaterThan:        {5, 6, ast.GreaterThan},
	token.GreaterThanOrEqual: {5, 6, ast.GreaterThanOrEqual},
	token.Add:                {10, 11, ast.Add},
	token.Sub:                {10, 11, ast.Sub},
	token.Mul:                {20, 21, ast.Mul},
	token.Div:                {20, 21, ast.Div},
	token.Expo:               {30, 29, ast.Expo},
}

type parser struct {
	tokens []token.Token
	pos    int
}

// ParseProgram parses a whole program. tokens should end with a token.EOF.
// On error no partial Program is returned.
func ParseProgram(tokens []token.Token) (*ast.Program, error) {
	p := &parser{tokens: tokens}
	prog := &ast.Program{}
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind == token.EOF {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// ParseExpression parses tokens that hold exactly one expression followed by
// token.EOF.
func ParseExpression(tokens []token.Token) (ast.Expression, error) {
	p := &parser{tokens: tokens}
	expr, err := p.parseExpression(lowestBP)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF, "EOF"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) peek() (token.Token, bool) {
	if p.pos >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

// next consumes a token. The EOF marker is never consumed so that every later
// lookup still sees it.
func (p *parser) next() (token.Token, bool) {
	tok, ok := p.peek()
	if ok && tok.Kind != token.EOF {
		p.pos++
	}
	return tok, ok
}

// expect consumes a token of the given kind or returns a ParseError naming
// expected.
func (p *parser) expect(kind token.Kind, expected string) (token.Token, error) {
	tok, ok := p.next()
	if !ok {
		return tok, &ParseError{Kind: NoTokenFound, Expected: expected}
	}
	if tok.Kind == kind {
		return tok, nil
	}
	if tok.Kind == token.EOF {
		return tok, &ParseError{Kind: UnexpectedEOF, Expected: expected}
	}
	return tok, &ParseError{Kind: UnexpectedToken, Expected: expected, Found: tok, Line: tok.Line}
}

func (p *parser) parseStatement() (*ast.Statement, error) {
	name, err := p.expect(token.Identifier, "Identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign, "="); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(lowestBP)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon, ";"); err != nil {
		return nil, err
	}
	return &ast.Statement{Name: name.Text, Value: value, Line: name.Line}, nil
}

func (p *parser) parseExpression(minBP int) (ast.Expression, error) {
	lhs, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok {
			break
		}

		if tok.Kind.StartsTerm() {
			if applicationLBP < minBP {
				break
			}
			arg, err := p.parseExpression(applicationRBP)
			if err != nil {
				return nil, err
			}
			lhs = &ast.Application{Function: lhs, Argument: arg}
			continue
		}

		in, ok := infixOperators[tok.Kind]
		if !ok || in.lbp < minBP {
			break
		}
		p.next()
		rhs, err := p.parseExpression(in.rbp)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryOperation{Left: lhs, Operator: in.op, Right: rhs}
	}

	return lhs, nil
}

func (p *parser) parsePrefix() (ast.Expression, error) {
	tok, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: NoTokenFound, Expected: "Expression"}
	}

	switch tok.Kind {
	case token.Number:
		return &ast.Number{Value: tok.Value}, nil
	case token.Identifier:
		return &ast.Name{Value: tok.Text}, nil
	case token.LeftParen:
		return p.parseParenthesized(tok)
	case token.Lambda:
		return p.parseLambda()
	case token.Sub:
		operand, err := p.parseExpression(negateRBP)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOperation{Operator: ast.Negate, Operand: operand}, nil
	case token.EOF:
		return nil, &ParseError{Kind: UnexpectedEOF, Expected: "Expression"}
	}
	return nil, &ParseError{Kind: UnexpectedPrefix, Found: tok, Line: tok.Line}
}

func (p *parser) parseParenthesized(open token.Token) (ast.Expression, error) {
	expr, err := p.parseExpression(lowestBP)
	if err != nil {
		return nil, err
	}
	tok, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: NoTokenFound, Expected: ")"}
	}
	if tok.Kind != token.RightParen {
		return nil, &ParseError{Kind: UnbalancedParen, Expected: ")", Found: tok, Line: open.Line}
	}
	return expr, nil
}

// parseLambda parses `param . body` after the lambda marker.
func (p *parser) parseLambda() (ast.Expression, error) {
	param, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: NoTokenFound, Expected: "Identifier"}
	}
	if param.Kind != token.Identifier {
		return nil, &ParseError{Kind: MalformedLambda, Expected: "Identifier", Found: param, Line: param.Line}
	}
	dot, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: NoTokenFound, Expected: "."}
	}
	if dot.Kind != token.Dot {
		return nil, &ParseError{Kind: MalformedLambda, Expected: ".", Found: dot, Line: dot.Line}
	}
	body, err := p.parseExpression(lowestBP)
	if err != nil {
		return nil, err
	}
	return &ast.Abstraction{Param: param.Text, Body: body}, nil
}
