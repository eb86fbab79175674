package eval

import (
	"fmt"
)

// RuntimeErrorKind distinguishes the ways evaluation can fail.
type RuntimeErrorKind int

const (
	// UndefinedVariable means a name was looked up that has no binding.
	UndefinedVariable RuntimeErrorKind = iota

	// BinaryOperationOnNonNumbers means an operand of a binary operator was a
	// function.
	BinaryOperationOnNonNumbers

	// ApplyNonFunction means a number was applied to an argument.
	ApplyNonFunction

	// StackOverflow means evaluation needed more than the configured number of
	// continuation frames.
	StackOverflow

	// Cancelled means the context passed to the Runner was cancelled or hit its
	// deadline.
	Cancelled
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case BinaryOperationOnNonNumbers:
		return "BinaryOperationOnNonNumbers"
	case ApplyNonFunction:
		return "ApplyNonFunction"
	case StackOverflow:
		return "StackOverflow"
	case Cancelled:
		return "Cancelled"
	}
	return fmt.Sprintf("RuntimeErrorKind(%d)", int(k))
}

// RuntimeError is returned when evaluation of a well formed program fails.
type RuntimeError struct {
	Kind RuntimeErrorKind

	// Name is the undefined name for UndefinedVariable.
	Name string

	// Limit is the stack depth that was exceeded for StackOverflow.
	Limit int

	// Err is the context error for Cancelled.
	Err error

	// Statement and Line identify the statement that failed. They are only set
	// by Runner.Run.
	Statement string
	Line      int
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	var msg string
	switch e.Kind {
	case UndefinedVariable:
		msg = fmt.Sprintf("Undefined variable: %q", e.Name)
	case BinaryOperationOnNonNumbers:
		msg = "Binary operation performed on non-number values"
	case ApplyNonFunction:
		msg = "Attempted to apply a non-function"
	case StackOverflow:
		msg = fmt.Sprintf("Evaluation exceeded the maximum stack depth of %d", e.Limit)
	case Cancelled:
		msg = fmt.Sprintf("Evaluation cancelled: %s", e.Err)
	default:
		msg = e.Kind.String()
	}
	if e.Statement != "" {
		msg = fmt.Sprintf("%s (in statement %q on line %d)", msg, e.Statement, e.Line)
	}
	return msg
}

// Unwrap returns the context error of a Cancelled error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ConfigError means the Runner was not set up correctly for the program, as
// opposed to the program itself being wrong.
type ConfigError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.Message
}

// ErrBooleansMissing is returned when a relational operator is evaluated but
// the `true` and `false` functions were never installed with Bootstrap.
var ErrBooleansMissing = &ConfigError{
	Message: "relational operators need the builtin true and false functions; load the builtins before running",
}
