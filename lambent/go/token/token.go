// Package token defines the lexical tokens of the lambent language.
package token

import (
	"fmt"
	"strconv"
)

// Kind is the type of a Token.
type Kind int

const (
	EOF Kind = iota
	LeftParen
	RightParen
	Dot
	Assign
	Semicolon
	Identifier
	Number
	Add
	Sub
	Mul
	Div
	Expo
	Lambda

	Equal
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

var kindNames = map[Kind]string{
	EOF:                "EOF",
	LeftParen:          "(",
	RightParen:         ")",
	Dot:                ".",
	Assign:             "=",
	Semicolon:          ";",
	Identifier:         "Identifier",
	Number:             "Number",
	Add:                "+",
	Sub:                "-",
	Mul:                "*",
	Div:                "/",
	Expo:               "^",
	Lambda:             "L",
	Equal:              "==",
	NotEqual:           "!=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
}

// String returns the source spelling of punctuation kinds and a descriptive
// name for the others.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// StartsTerm returns true if a token of this kind can begin a prefix term
// that is allowed as the argument of an application.
func (k Kind) StartsTerm() bool {
	switch k {
	case Number, Identifier, LeftParen, Lambda:
		return true
	}
	return false
}

// Token is a single lexical unit.
type Token struct {
	Kind Kind

	// Line is the 1-based source line the token starts on.
	Line int

	// Text is the identifier name for Identifier tokens.
	Text string

	// Value is the literal value for Number tokens.
	Value float32
}

// String is used in diagnostics, e.g. `Identifier(foo)` or `Number(1.5)`.
func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return fmt.Sprintf("Identifier(%s)", t.Text)
	case Number:
		return fmt.Sprintf("Number(%s)", strconv.FormatFloat(float64(t.Value), 'f', -1, 32))
	}
	return t.Kind.String()
}
