// timer makes timing operations easier.
package timer

import (
	"time"

	"go.skia.org/lambent/go/sklog"
)

// Timer is for timing events. When finished the duration is reported
// via sklog.
//
// The standard way to use Timer is at the top of the func you
// want to measure:
//
//	defer timer.New("database sync time").Stop()
type Timer struct {
	Begin time.Time
	Name  string
}

// New starts a Timer.
func New(name string) *Timer {
	return &Timer{
		Begin: time.Now(),
		Name:  name,
	}
}

// Stop logs the elapsed time at Debug level and returns it.
func (t Timer) Stop() time.Duration {
	d := time.Since(t.Begin)
	sklog.Debugf("%s %v", t.Name, d)
	return d
}
