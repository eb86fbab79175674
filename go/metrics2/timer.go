package metrics2

import (
	"time"
)

// Timer measures elapsed time. Unlike the other metrics it reports a single
// observation, in milliseconds, when Stop is called.
//
// The standard way to use Timer is at the top of the func you want to
// measure:
//
//	defer metrics2.NewTimer("lambent_run_latency_ms").Stop()
type Timer struct {
	begin   time.Time
	summary Float64SummaryMetric
}

func newTimer(c Client, name string, tags ...map[string]string) *Timer {
	return &Timer{
		begin:   time.Now(),
		summary: c.GetFloat64SummaryMetric(name, tags...),
	}
}

// Stop reports the elapsed time and returns it.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.begin)
	t.summary.Observe(float64(d) / float64(time.Millisecond))
	return d
}
