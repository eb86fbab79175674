package sklog

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.skia.org/lambent/go/sklog/sklogimpl"
	"go.skia.org/lambent/go/sklog/stdlogging"
)

type line struct {
	depth    int
	severity sklogimpl.Severity
	msg      string
}

type capture struct {
	lines   []line
	flushes int
}

func (c *capture) Log(depth int, severity sklogimpl.Severity, format string, args ...interface{}) {
	c.lines = append(c.lines, line{depth: depth, severity: severity, msg: fmt.Sprintf(format, args...)})
}

func (c *capture) Flush() {
	c.flushes++
}

func TestLevels_RouteToInstalledLogger(t *testing.T) {
	c := &capture{}
	sklogimpl.SetLogger(c)
	defer sklogimpl.SetLogger(stdlogging.New(os.Stderr))

	Debugf("d %d", 1)
	Infof("i %d", 2)
	Warningf("w %d", 3)
	Errorf("e %d", 4)
	ErrorfWithDepth(2, "deep %s", "error")
	Flush()

	assert.Equal(t, []line{
		{2, sklogimpl.Debug, "d 1"},
		{2, sklogimpl.Info, "i 2"},
		{2, sklogimpl.Warning, "w 3"},
		{2, sklogimpl.Error, "e 4"},
		{4, sklogimpl.Error, "deep error"},
	}, c.lines)
	assert.Equal(t, 1, c.flushes)
}
