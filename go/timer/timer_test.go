package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer_Stop_ReturnsElapsed(t *testing.T) {
	tm := New("sleep")
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, tm.Stop(), time.Millisecond)
	assert.Equal(t, "sleep", tm.Name)
}
