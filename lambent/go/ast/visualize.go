package ast

import (
	"fmt"
	"strings"
)

const indentWidth = 2

// Visualize returns an indented tree dump of the program, one node per line.
//
//	Statement: f
//	  Function (param: x)
//	    BinaryOperation: Add
//	      Name: x
//	      Number: 1
func Visualize(p *Program) string {
	var b strings.Builder
	for _, s := range p.Statements {
		fmt.Fprintf(&b, "Statement: %s\n", s.Name)
		visualizeExpression(&b, s.Value, 1)
	}
	return b.String()
}

func visualizeExpression(b *strings.Builder, expr Expression, depth int) {
	b.WriteString(strings.Repeat(" ", depth*indentWidth))
	switch e := expr.(type) {
	case *Name:
		fmt.Fprintf(b, "Name: %s\n", e.Value)
	case *Number:
		fmt.Fprintf(b, "Number: %s\n", FormatNumber(e.Value))
	case *Abstraction:
		fmt.Fprintf(b, "Function (param: %s)\n", e.Param)
		visualizeExpression(b, e.Body, depth+1)
	case *Application:
		b.WriteString("Application:\n")
		visualizeExpression(b, e.Function, depth+1)
		visualizeExpression(b, e.Argument, depth+1)
	case *BinaryOperation:
		fmt.Fprintf(b, "BinaryOperation: %s\n", e.Operator)
		visualizeExpression(b, e.Left, depth+1)
		visualizeExpression(b, e.Right, depth+1)
	case *UnaryOperation:
		fmt.Fprintf(b, "UnaryOperation: %s\n", e.Operator)
		visualizeExpression(b, e.Operand, depth+1)
	default:
		fmt.Fprintf(b, "Unknown: %T\n", expr)
	}
}
