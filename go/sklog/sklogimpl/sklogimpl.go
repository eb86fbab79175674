// Package sklogimpl holds the pluggable Logger used by sklog. Only code that
// installs a logger needs to import it; everything else uses sklog.
package sklogimpl

import (
	"fmt"
	"os"
	"sync"
)

// Severity of a log line.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
	Fatal
)

// String returns the upper case name of the severity.
func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Logger is the interface a logging backend implements.
type Logger interface {
	// Log writes one entry. depth is the number of stack frames between the
	// original caller and this call. An empty format means the args are
	// formatted with fmt.Sprint.
	Log(depth int, severity Severity, format string, args ...interface{})

	// Flush any buffered entries.
	Flush()
}

var (
	mutex    sync.RWMutex
	logger   Logger
	suppress bool
)

// SetLogger replaces the global Logger.
func SetLogger(lg Logger) {
	mutex.Lock()
	defer mutex.Unlock()
	logger = lg
}

// SuppressLogs turns every log call below Fatal into a noop. Useful in tests
// that deliberately exercise error paths.
func SuppressLogs(b bool) {
	mutex.Lock()
	defer mutex.Unlock()
	suppress = b
}

// Log sends a log entry to the current Logger. Fatal entries exit the process
// after the Logger has been flushed.
func Log(depth int, severity Severity, format string, args ...interface{}) {
	mutex.RLock()
	lg, quiet := logger, suppress
	mutex.RUnlock()

	if lg != nil && !(quiet && severity < Fatal) {
		lg.Log(depth+1, severity, format, args...)
	}
	if severity == Fatal {
		if lg != nil {
			lg.Flush()
		}
		os.Exit(1)
	}
}

// Flush the current Logger.
func Flush() {
	mutex.RLock()
	lg := logger
	mutex.RUnlock()
	if lg != nil {
		lg.Flush()
	}
}
