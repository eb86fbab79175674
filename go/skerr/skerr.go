// Package skerr provides errors that carry the call site where they were
// created or wrapped, plus any context added along the way.
package skerr

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// StackTrace identifies a single frame in a call stack.
type StackTrace struct {
	File string
	Line int
}

// String returns "file:line" with the directory stripped.
func (st *StackTrace) String() string {
	return fmt.Sprintf("%s:%d", st.File, st.Line)
}

// CallStack returns at most height frames starting at startAt frames above the
// caller of CallStack.
func CallStack(height, startAt int) []StackTrace {
	stack := []StackTrace{}
	for i := 0; i < height; i++ {
		_, file, line, ok := runtime.Caller(startAt + 1 + i)
		if !ok {
			break
		}
		stack = append(stack, StackTrace{
			File: filepath.Base(file),
			Line: line,
		})
	}
	return stack
}

// ErrorWithContext wraps an error with the call stack at the point the error
// was first wrapped and any additional context.
type ErrorWithContext struct {
	// Wrapped is the original error.
	Wrapped error
	// CallStack is the stack where Wrapped was first seen by this package.
	CallStack []StackTrace
	// Context holds messages added by Wrapf, outermost first.
	Context []string
}

// Error implements the error interface. The format is:
//
//	<context>: <context>: <wrapped error>. At <file:line> <file:line> ...
func (err *ErrorWithContext) Error() string {
	var b strings.Builder
	for _, c := range err.Context {
		b.WriteString(c)
		b.WriteString(": ")
	}
	b.WriteString(err.Wrapped.Error())
	b.WriteString(". At")
	for _, st := range err.CallStack {
		b.WriteString(" ")
		b.WriteString(st.String())
	}
	return b.String()
}

// Unwrap allows errors.Is and errors.As to see the wrapped error.
func (err *ErrorWithContext) Unwrap() error {
	return err.Wrapped
}

const stackHeight = 5

// Wrap adds stack information to err. If err is already an ErrorWithContext the
// existing stack is kept.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if ewc, ok := err.(*ErrorWithContext); ok {
		return ewc
	}
	return &ErrorWithContext{
		Wrapped:   err,
		CallStack: CallStack(stackHeight, 1),
	}
}

// Wrapf is Wrap plus a context message formatted with fmt.Sprintf.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if ewc, ok := err.(*ErrorWithContext); ok {
		return &ErrorWithContext{
			Wrapped:   ewc.Wrapped,
			CallStack: ewc.CallStack,
			Context:   append([]string{msg}, ewc.Context...),
		}
	}
	return &ErrorWithContext{
		Wrapped:   err,
		CallStack: CallStack(stackHeight, 1),
		Context:   []string{msg},
	}
}

// Fmt creates a new error with the current stack attached.
func Fmt(format string, args ...interface{}) error {
	return &ErrorWithContext{
		Wrapped:   fmt.Errorf(format, args...),
		CallStack: CallStack(stackHeight, 1),
	}
}

// Unwrap returns the original error if err is an ErrorWithContext, otherwise
// err itself.
func Unwrap(err error) error {
	if ewc, ok := err.(*ErrorWithContext); ok {
		return ewc.Wrapped
	}
	return err
}
