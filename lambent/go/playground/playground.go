// Package playground serves an HTTP API for running lambent programs.
package playground

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/unrolled/secure"

	"go.skia.org/lambent/go/httputils"
	"go.skia.org/lambent/go/skerr"
	"go.skia.org/lambent/go/sklog"
	"go.skia.org/lambent/lambent/go/builtins"
	"go.skia.org/lambent/lambent/go/config"
	"go.skia.org/lambent/lambent/go/interp"
)

// RunRequest is the body of POST /api/run and POST /api/visualize.
type RunRequest struct {
	Code string `json:"code"`
}

// RunResponse is the response of POST /api/run. Exactly one of Result and
// Error is set.
type RunResponse struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

// VisualizeResponse is the response of POST /api/visualize.
type VisualizeResponse struct {
	AST   string `json:"ast"`
	Error string `json:"error"`
}

// api handles the playground routes.
type api struct {
	interp          *interp.Interpreter
	timeout         time.Duration
	maxRequestBytes int64
}

// New returns the playground's http.Handler.
func New(cfg config.PlaygroundConfig) (http.Handler, error) {
	i, err := interp.New(cfg.InterpreterConfig)
	if err != nil {
		return nil, skerr.Wrap(err)
	}
	a := &api{
		interp:          i,
		timeout:         cfg.Timeout.Duration,
		maxRequestBytes: cfg.MaxRequestBytes,
	}
	if a.timeout <= 0 {
		a.timeout = config.DefaultTimeout
	}

	router := chi.NewRouter()
	a.RegisterHandlers(router)
	router.HandleFunc("/healthz", httputils.HealthCheckHandler)
	router.Handle("/metrics", promhttp.Handler())

	h := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
	h = secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	}).Handler(h)
	return httputils.LoggingRequestResponse(h), nil
}

// RegisterHandlers registers the api handlers for their respective routes.
func (a *api) RegisterHandlers(router *chi.Mux) {
	router.Post("/api/run", a.runHandler)
	router.Post("/api/visualize", a.visualizeHandler)
	router.Get("/api/builtins", a.builtinsHandler)
}

// decodeRequest reads a RunRequest from r, reporting an error to w if that
// fails.
func (a *api) decodeRequest(w http.ResponseWriter, r *http.Request) (RunRequest, bool) {
	var req RunRequest
	body := io.Reader(r.Body)
	if a.maxRequestBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, a.maxRequestBytes)
	}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		httputils.ReportError(w, err, "Failed to decode JSON.", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		sklog.Errorf("Failed to write JSON response: %s", err)
	}
}

// runHandler runs the program and returns its result. Errors in the program
// are not HTTP errors, they are reported in RunResponse.Error.
func (a *api) runHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
	defer cancel()

	var resp RunResponse
	result, err := a.interp.RunSource(ctx, req.Code)
	if err != nil {
		resp.Error = interp.ErrorMessage(err)
	} else {
		resp.Result = result
	}
	writeJSON(w, resp)
}

func (a *api) visualizeHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}
	var resp VisualizeResponse
	tree, err := a.interp.Visualize(req.Code)
	if err != nil {
		resp.Error = interp.ErrorMessage(err)
	} else {
		resp.AST = tree
	}
	writeJSON(w, resp)
}

// builtinsHandler returns the source of the builtin definitions.
func (a *api) builtinsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, builtins.Source()); err != nil {
		sklog.Errorf("Failed to write builtins: %s", err)
	}
}
