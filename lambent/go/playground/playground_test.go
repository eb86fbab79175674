package playground

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.skia.org/lambent/lambent/go/config"
)

func newHandler(t *testing.T, cfg config.PlaygroundConfig) http.Handler {
	h, err := New(cfg)
	require.NoError(t, err)
	return h
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", path, strings.NewReader(body)))
	return w
}

func runRequest(t *testing.T, code string) string {
	b, err := json.Marshal(RunRequest{Code: code})
	require.NoError(t, err)
	return string(b)
}

func TestRun_Success(t *testing.T) {
	h := newHandler(t, config.DefaultPlaygroundConfig())
	w := post(t, h, "/api/run", runRequest(t, "inc = L x. x + 1;\nresult = inc 41;"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp RunResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, RunResponse{Result: "42"}, resp)
}

func TestRun_ProgramError_IsReportedInBody(t *testing.T) {
	h := newHandler(t, config.DefaultPlaygroundConfig())
	w := post(t, h, "/api/run", runRequest(t, "result = nope;"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp RunResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Result)
	assert.Equal(t, `Undefined variable: "nope" (in statement "result" on line 1)`, resp.Error)
}

func TestRun_NonTerminating_TimesOut(t *testing.T) {
	cfg := config.DefaultPlaygroundConfig()
	cfg.Timeout = config.Duration{Duration: 20 * time.Millisecond}
	h := newHandler(t, cfg)
	w := post(t, h, "/api/run", runRequest(t, "result = (L x. x x) (L x. x x);"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp RunResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "Evaluation cancelled")
}

func TestRun_BadJSON_BadRequest(t *testing.T) {
	h := newHandler(t, config.DefaultPlaygroundConfig())
	w := post(t, h, "/api/run", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Failed to decode JSON.\n", w.Body.String())
}

func TestRun_BodyTooLarge_BadRequest(t *testing.T) {
	cfg := config.DefaultPlaygroundConfig()
	cfg.MaxRequestBytes = 16
	h := newHandler(t, cfg)
	w := post(t, h, "/api/run", runRequest(t, "result = 1 + 2 + 3 + 4 + 5;"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRun_GET_MethodNotAllowed(t *testing.T) {
	h := newHandler(t, config.DefaultPlaygroundConfig())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/run", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestVisualize(t *testing.T) {
	h := newHandler(t, config.DefaultPlaygroundConfig())
	w := post(t, h, "/api/visualize", runRequest(t, "f = L x. x;"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp VisualizeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, VisualizeResponse{AST: "Statement: f\n  Function (param: x)\n    Name: x\n"}, resp)

	w = post(t, h, "/api/visualize", runRequest(t, "f = L 1. x;"))
	require.Equal(t, http.StatusOK, w.Code)
	resp = VisualizeResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.AST)
	assert.Contains(t, resp.Error, "Malformed lambda")
}

func TestBuiltins(t *testing.T) {
	h := newHandler(t, config.DefaultPlaygroundConfig())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/builtins", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "true = L a. L b. a;")
}

func TestHealthzAndMetrics(t *testing.T) {
	h := newHandler(t, config.DefaultPlaygroundConfig())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Make sure there is at least one run recorded.
	post(t, h, "/api/run", runRequest(t, "result = 1;"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lambent_runs")
}

func TestRun_SetsSecurityHeaders(t *testing.T) {
	h := newHandler(t, config.DefaultPlaygroundConfig())
	w := post(t, h, "/api/run", runRequest(t, "result = 1;"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRun_CORS_OnlyAllowedOrigins(t *testing.T) {
	cfg := config.DefaultPlaygroundConfig()
	cfg.AllowedOrigins = []string{"https://lambent.example.com"}
	h := newHandler(t, cfg)

	send := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/api/run", strings.NewReader(runRequest(t, "result = 1;")))
		r.Header.Set("Origin", origin)
		h.ServeHTTP(w, r)
		return w
	}

	w := send("https://lambent.example.com")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://lambent.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = send("https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
