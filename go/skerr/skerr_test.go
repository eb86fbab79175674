package skerr

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kindError struct {
	kind string
}

func (e *kindError) Error() string {
	return e.kind
}

func TestWrap_NilError_ReturnsNil(t *testing.T) {
	require.NoError(t, Wrap(nil))
	require.NoError(t, Wrapf(nil, "context %d", 1))
}

func TestWrapf_AddsContextAndStack(t *testing.T) {
	err := Wrapf(io.EOF, "reading %s", "prog.lambent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading prog.lambent: EOF. At skerr_test.go:")
	assert.Equal(t, io.EOF, Unwrap(err))
	assert.True(t, errors.Is(err, io.EOF))
}

func TestWrapf_Twice_OuterContextFirstStackKept(t *testing.T) {
	inner := Wrapf(io.EOF, "inner")
	outer := Wrapf(inner, "outer")
	assert.Contains(t, outer.Error(), "outer: inner: EOF. At")
	assert.Equal(t, inner.(*ErrorWithContext).CallStack, outer.(*ErrorWithContext).CallStack)
}

func TestWrap_TypedErrorReachableWithErrorsAs(t *testing.T) {
	err := Wrapf(&kindError{kind: "undefined"}, "evaluating")
	var ke *kindError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, "undefined", ke.kind)
}

func TestFmt_CreatesErrorWithStack(t *testing.T) {
	err := Fmt("bad %s", "thing")
	assert.Contains(t, err.Error(), "bad thing. At skerr_test.go:")
}
