package metrics2

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.skia.org/lambent/go/util"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "a_b_c", clean("a.b-c"))
}

func getPromClient() *promClient {
	prometheus.DefaultRegisterer = prometheus.NewRegistry()
	return newPromClient()
}

// get returns the first exposition line value for metric, or "" if there is
// none.
func get(t *testing.T, metric string) string {
	req := httptest.NewRequest("GET", "/metrics", nil)
	rw := httptest.NewRecorder()
	promhttp.HandlerFor(prometheus.DefaultRegisterer.(*prometheus.Registry), promhttp.HandlerOpts{
		ErrorHandling:      promhttp.PanicOnError,
		DisableCompression: true,
	}).ServeHTTP(rw, req)
	resp := rw.Result()
	defer util.Close(resp.Body)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	for _, s := range strings.Split(string(b), "\n") {
		if strings.HasPrefix(s, metric+" ") {
			return strings.Split(s, " ")[1]
		}
	}
	return ""
}

func TestInt64(t *testing.T) {
	c := getPromClient()
	check := func(m Int64Metric, metric string, expect int64) {
		actual, err := strconv.ParseInt(get(t, metric), 10, 64)
		require.NoError(t, err)
		assert.Equal(t, expect, actual)
		assert.Equal(t, expect, m.Get())
	}
	g := c.GetInt64Metric("a.b", map[string]string{"some_key": "some-value"})
	require.NotNil(t, g)
	assert.NotNil(t, c.int64GaugeVecs["a_b [some_key]"])
	assert.NotNil(t, c.int64Gauges["a_b-some_key-some-value"])
	assert.Nil(t, c.int64GaugeVecs["a.b"])
	check(g, `a_b{some_key="some-value"}`, 0)

	g.Update(3)
	check(g, `a_b{some_key="some-value"}`, 3)

	g2 := c.GetInt64Metric("a.b", map[string]string{"some_key": "some-new-value"})
	g2.Update(4)
	check(g, `a_b{some_key="some-value"}`, 3)
	check(g2, `a_b{some_key="some-new-value"}`, 4)

	// Metric with two tags.
	g = c.GetInt64Metric("metric_name", map[string]string{"a": "2", "b": "1"})
	assert.NotNil(t, c.int64GaugeVecs["metric_name [a b]"])
	assert.NotNil(t, c.int64Gauges["metric_name-a-2-b-1"])
	check(g, `metric_name{a="2",b="1"}`, 0)
}

func TestCounter_SameNameAndTags_SharesValue(t *testing.T) {
	c := getPromClient()
	check := func(m Counter, metric string, expect int64) {
		actual, err := strconv.ParseInt(get(t, metric), 10, 64)
		require.NoError(t, err)
		assert.Equal(t, expect, actual)
		assert.Equal(t, expect, m.Get())
	}
	g := c.GetCounter("c", map[string]string{"some_key": "some-value"})
	g.Inc(3)
	g = c.GetCounter("c", map[string]string{"some_key": "some-value"})
	check(g, `c{some_key="some-value"}`, 3)

	g.Dec(2)
	check(g, `c{some_key="some-value"}`, 1)

	g.Reset()
	check(g, `c{some_key="some-value"}`, 0)
}

func TestSummary(t *testing.T) {
	c := getPromClient()
	s := c.GetFloat64SummaryMetric("lambent.latency", map[string]string{"outcome": "ok"})
	s.Observe(1)
	s.Observe(3)
	assert.Same(t, s, c.GetFloat64SummaryMetric("lambent.latency", map[string]string{"outcome": "ok"}))
	assert.Equal(t, "2", get(t, `lambent_latency_count{outcome="ok"}`))
	assert.Equal(t, "4", get(t, `lambent_latency_sum{outcome="ok"}`))
}

func TestTimer_Stop_ObservesMilliseconds(t *testing.T) {
	c := getPromClient()
	timer := c.NewTimer("op_ms")
	time.Sleep(2 * time.Millisecond)
	d := timer.Stop()
	assert.GreaterOrEqual(t, d, 2*time.Millisecond)
	assert.Equal(t, "1", get(t, "op_ms_count"))

	sum, err := strconv.ParseFloat(get(t, "op_ms_sum"), 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum, 2.0)
}

func TestRegister_AlreadyRegistered_ReusesExisting(t *testing.T) {
	getPromClient()
	first := newPromClient().GetCounter("shared")
	first.Inc(1)
	second := newPromClient().GetCounter("shared")
	second.Inc(1)
	// Each client tracks its own value but both write to the same gauge.
	assert.Equal(t, "1", get(t, "shared"))
}
