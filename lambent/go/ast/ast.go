// Package ast declares the types used to represent lambent programs.
//
// Trees are built once by the parser and never modified afterwards, so
// sub-trees may be shared freely, e.g. between closures and a program cache.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// UnaryOperator is an operator taking a single operand.
type UnaryOperator int

const (
	// Negate is numeric negation, written as a prefix '-'.
	Negate UnaryOperator = iota
)

// String implements fmt.Stringer.
func (op UnaryOperator) String() string {
	if op == Negate {
		return "Neg"
	}
	return fmt.Sprintf("UnaryOperator(%d)", int(op))
}

// BinaryOperator is an infix operator.
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Expo

	Equal
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

var binaryOperatorNames = []string{
	Add:                "Add",
	Sub:                "Sub",
	Mul:                "Mul",
	Div:                "Div",
	Expo:               "Expo",
	Equal:              "Equal",
	NotEqual:           "NotEqual",
	LessThan:           "LessThan",
	LessThanOrEqual:    "LessThanOrEqual",
	GreaterThan:        "GreaterThan",
	GreaterThanOrEqual: "GreaterThanOrEqual",
}

// String implements fmt.Stringer.
func (op BinaryOperator) String() string {
	if op >= 0 && int(op) < len(binaryOperatorNames) {
		return binaryOperatorNames[op]
	}
	return fmt.Sprintf("BinaryOperator(%d)", int(op))
}

// IsRelational returns true for the comparison operators, whose result is a
// Church encoded boolean rather than a number.
func (op BinaryOperator) IsRelational() bool {
	return op >= Equal && op <= GreaterThanOrEqual
}

// Expression is implemented by all expression nodes.
type Expression interface {
	fmt.Stringer
	expressionNode()
}

// Name is a reference to a binding.
type Name struct {
	Value string
}

// Number is a numeric literal.
type Number struct {
	Value float32
}

// Abstraction is a single parameter function, `L Param. Body`.
type Abstraction struct {
	Param string
	Body  Expression
}

// Application applies Function to Argument, written as juxtaposition.
type Application struct {
	Function Expression
	Argument Expression
}

// BinaryOperation is `Left Operator Right`.
type BinaryOperation struct {
	Left     Expression
	Operator BinaryOperator
	Right    Expression
}

// UnaryOperation is `Operator Operand`.
type UnaryOperation struct {
	Operator UnaryOperator
	Operand  Expression
}

func (*Name) expressionNode()            {}
func (*Number) expressionNode()          {}
func (*Abstraction) expressionNode()     {}
func (*Application) expressionNode()     {}
func (*BinaryOperation) expressionNode() {}
func (*UnaryOperation) expressionNode()  {}

// FormatNumber formats a number literal or value the same way everywhere,
// i.e. the shortest decimal, without an exponent, that round trips through
// float32.
func FormatNumber(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// The String methods render a compact prefix form, e.g. `1+2*3` is
// "Add(1, Mul(2, 3))".

func (n *Name) String() string {
	return n.Value
}

func (n *Number) String() string {
	return FormatNumber(n.Value)
}

func (a *Abstraction) String() string {
	return fmt.Sprintf("Abstraction(%s, %s)", a.Param, a.Body)
}

func (a *Application) String() string {
	return fmt.Sprintf("Application(%s, %s)", a.Function, a.Argument)
}

func (b *BinaryOperation) String() string {
	return fmt.Sprintf("%s(%s, %s)", b.Operator, b.Left, b.Right)
}

func (u *UnaryOperation) String() string {
	return fmt.Sprintf("%s(%s)", u.Operator, u.Operand)
}

// Statement binds the value of an expression to a name at the top level.
type Statement struct {
	Name  string
	Value Expression

	// Line is the source line of the statement's name, 0 if unknown.
	Line int
}

// Program is an ordered list of statements. Order matters: a statement can
// only refer to names bound by statements before it.
type Program struct {
	Statements []*Statement
}

// String renders one statement per line as `name = <expression>`.
func (p *Program) String() string {
	var b strings.Builder
	for _, s := range p.Statements {
		fmt.Fprintf(&b, "%s = %s\n", s.Name, s.Value)
	}
	return b.String()
}

// Inspect traverses expr in depth-first order, calling f for each node. If f
// returns false the children of that node are skipped.
func Inspect(expr Expression, f func(Expression) bool) {
	if expr == nil || !f(expr) {
		return
	}
	switch e := expr.(type) {
	case *Abstraction:
		Inspect(e.Body, f)
	case *Application:
		Inspect(e.Function, f)
		Inspect(e.Argument, f)
	case *BinaryOperation:
		Inspect(e.Left, f)
		Inspect(e.Right, f)
	case *UnaryOperation:
		Inspect(e.Operand, f)
	}
}

// UsesRelational returns true if any statement in the program contains a
// relational operator.
func (p *Program) UsesRelational() bool {
	found := false
	for _, s := range p.Statements {
		Inspect(s.Value, func(e Expression) bool {
			if b, ok := e.(*BinaryOperation); ok && b.Operator.IsRelational() {
				found = true
			}
			return !found
		})
		if found {
			return true
		}
	}
	return false
}
