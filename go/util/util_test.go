package util

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrunc(t *testing.T) {
	assert.Equal(t, "abc", Trunc("abc", 3))
	assert.Equal(t, "ab...", Trunc("abc", 2))
	assert.Equal(t, "", Trunc("", 2))
	assert.Equal(t, "", Trunc("", 0))
}

func TestTrunc_MultiByteRunes_CutsOnRuneBoundary(t *testing.T) {
	assert.Equal(t, "λx...", Trunc("λx.x", 2))
	assert.Equal(t, "λ...", Trunc("λλ", 1))
	assert.Equal(t, "λλ", Trunc("λλ", 2))
	assert.True(t, utf8.ValidString(Trunc("f = λx.x;", 5)))
}

func TestAddParams(t *testing.T) {
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, AddParams(nil, map[string]string{"a": "1"}, map[string]string{"b": "2"}))
	assert.Equal(t, map[string]string{"a": "2"}, AddParams(map[string]string{"a": "1"}, map[string]string{"a": "2"}))
}

func TestWithReadFile_FileExists_CallbackSeesContents(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "prog.lambent")
	require.NoError(t, os.WriteFile(filename, []byte("result = 1;"), 0644))

	var got string
	err := WithReadFile(filename, func(r io.Reader) error {
		b, err := io.ReadAll(r)
		got = string(b)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "result = 1;", got)
}

func TestWithReadFile_MissingFile_ReturnsError(t *testing.T) {
	err := WithReadFile(filepath.Join(t.TempDir(), "nope"), func(r io.Reader) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
