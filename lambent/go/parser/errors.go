package parser

import (
	"fmt"

	"go.skia.org/lambent/lambent/go/token"
)

// ErrorKind distinguishes the ways parsing can fail.
type ErrorKind int

const (
	// NoTokenFound means the token slice ran out, i.e. it had no EOF marker.
	NoTokenFound ErrorKind = iota

	// UnexpectedToken means a specific token was required but another was
	// found.
	UnexpectedToken

	// UnexpectedPrefix means the token cannot start an expression.
	UnexpectedPrefix

	// UnexpectedEOF means the EOF marker was reached in the middle of a
	// construct.
	UnexpectedEOF

	// MalformedLambda means a lambda marker was not followed by a parameter
	// name and a '.'.
	MalformedLambda

	// UnbalancedParen means a '(' was not closed by a matching ')'.
	UnbalancedParen
)

func (k ErrorKind) String() string {
	switch k {
	case NoTokenFound:
		return "NoTokenFound"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedPrefix:
		return "UnexpectedPrefix"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case MalformedLambda:
		return "MalformedLambda"
	case UnbalancedParen:
		return "UnbalancedParen"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is returned for all malformed input. Which fields are set depends
// on Kind.
type ParseError struct {
	Kind ErrorKind

	// Expected describes what the parser was looking for, e.g. "=" or
	// "Expression".
	Expected string

	// Found is the offending token. Unset for NoTokenFound and UnexpectedEOF.
	Found token.Token

	// Line of the offending token, or for UnbalancedParen the line of the
	// opening '('. 0 if unknown.
	Line int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case NoTokenFound:
		return fmt.Sprintf("Expected a token %q but found nothing", e.Expected)
	case UnexpectedToken:
		return fmt.Sprintf("Expected token %q but found %s on line %d", e.Expected, e.Found, e.Line)
	case UnexpectedPrefix:
		return fmt.Sprintf("Unexpected token in prefix position at line %d: %s", e.Line, e.Found)
	case UnexpectedEOF:
		return fmt.Sprintf("Expected %q found EOF", e.Expected)
	case MalformedLambda:
		return fmt.Sprintf("Malformed lambda on line %d: expected %q but found %s", e.Line, e.Expected, e.Found)
	case UnbalancedParen:
		return fmt.Sprintf("Unbalanced parenthesis opened on line %d: expected %q but found %s", e.Line, e.Expected, e.Found)
	}
	return fmt.Sprintf("%s: expected %q", e.Kind, e.Expected)
}
