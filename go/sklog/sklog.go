// Package sklog is the logging API used by the rest of the module. Output goes
// to whatever sklogimpl.Logger is installed, stderr by default.
package sklog

import (
	"os"

	"go.skia.org/lambent/go/sklog/sklogimpl"
	"go.skia.org/lambent/go/sklog/stdlogging"
)

// SetLogger must happen in init, callers may log before main runs.
func init() {
	sklogimpl.SetLogger(stdlogging.New(os.Stderr))
}

// The f functions format their arguments with fmt.Sprintf.

func Debugf(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Debug, format, v...)
}

func Infof(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Info, format, v...)
}

func Warningf(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Warning, format, v...)
}

func Errorf(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Error, format, v...)
}

// ErrorfWithDepth is Errorf reported depth frames above the caller.
func ErrorfWithDepth(depth int, format string, v ...interface{}) {
	sklogimpl.Log(1+depth, sklogimpl.Error, format, v...)
}

// Fatalf exits the program after logging.
func Fatalf(format string, v ...interface{}) {
	sklogimpl.Log(1, sklogimpl.Fatal, format, v...)
}

func Flush() {
	sklogimpl.Flush()
}
