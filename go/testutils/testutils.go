// Convenience utilities for testing.
package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// TestingT is the subset of testing.TB used by the helpers in this package.
type TestingT interface {
	require.TestingT
	Helper()
}

// AssertDeepEqual fails the test if the two objects do not pass reflect.DeepEqual.
func AssertDeepEqual(t TestingT, a, b interface{}) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		require.FailNow(t, fmt.Sprintf("Objects do not match: \na:\n%s\n\nb:\n%s\n", spew.Sdump(a), spew.Sdump(b)))
	}
}

// TestDataDir returns the path to the caller's testdata directory, which
// is assumed to be "<path to caller dir>/testdata".
func TestDataDir(t TestingT) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller() failed")
	for skip := 1; ; skip++ {
		_, file, _, ok := runtime.Caller(skip)
		require.True(t, ok, "Could not find test data dir: runtime.Caller() failed")
		if file != thisFile {
			return filepath.Join(filepath.Dir(file), "testdata")
		}
	}
}

// ReadFile reads a file from the caller's testdata directory.
func ReadFile(t TestingT, filename string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(TestDataDir(t), filename))
	require.NoError(t, err, "Could not read %s", filename)
	return string(b)
}

// WriteTempFile writes contents to a file named filename in a new temporary
// directory and returns its path. The directory is removed when the test ends.
func WriteTempFile(t interface {
	TestingT
	TempDir() string
}, filename, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0644))
	return p
}
