// Package interp runs lambent source text: it lexes, parses, loads the
// builtins and evaluates, and reports the value of the result binding.
package interp

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"go.skia.org/lambent/go/metrics2"
	"go.skia.org/lambent/go/skerr"
	"go.skia.org/lambent/go/sklog"
	"go.skia.org/lambent/go/util"
	"go.skia.org/lambent/lambent/go/ast"
	"go.skia.org/lambent/lambent/go/builtins"
	"go.skia.org/lambent/lambent/go/config"
	"go.skia.org/lambent/lambent/go/eval"
	"go.skia.org/lambent/lambent/go/lexer"
	"go.skia.org/lambent/lambent/go/parser"
)

// ErrNoResult is returned when a program runs to completion without binding
// the result name.
var ErrNoResult = errors.New("program did not bind a result")

// Outcomes used to tag the lambent_runs metric.
const (
	OutcomeOK           = "ok"
	OutcomeLexError     = "lex_error"
	OutcomeParseError   = "parse_error"
	OutcomeRuntimeError = "runtime_error"
	OutcomeConfigError  = "config_error"
	OutcomeNoResult     = "no_result"
	OutcomeOther        = "other"
)

// Result of a successful run.
type Result struct {
	// Value of the result binding.
	Value eval.Value

	// Globals after the run, including the builtins.
	Globals *eval.Env

	// Statements is the number of statements in the program.
	Statements int

	// Steps taken by the evaluator, including loading the builtins.
	Steps int64

	Duration time.Duration
}

// Interpreter runs programs. It is safe for concurrent use; every run gets its
// own eval.Runner.
type Interpreter struct {
	cfg   config.InterpreterConfig
	cache *lru.Cache

	cacheHits   metrics2.Counter
	cacheMisses metrics2.Counter
}

// New returns an Interpreter configured by cfg.
func New(cfg config.InterpreterConfig) (*Interpreter, error) {
	if cfg.ResultBinding == "" {
		cfg.ResultBinding = config.DefaultResultBinding
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = config.DefaultCacheSize
	}
	c, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, skerr.Wrapf(err, "failed to create program cache of size: %d", cfg.CacheSize)
	}
	return &Interpreter{
		cfg:         cfg,
		cache:       c,
		cacheHits:   metrics2.GetCounter("lambent_program_cache", map[string]string{"result": "hit"}),
		cacheMisses: metrics2.GetCounter("lambent_program_cache", map[string]string{"result": "miss"}),
	}, nil
}

// Config returns the configuration the Interpreter was built with, with
// defaults filled in.
func (i *Interpreter) Config() config.InterpreterConfig {
	return i.cfg
}

// Parse lexes and parses src. Parsed programs are cached by the hash of their
// source; they are immutable so the same *ast.Program may be returned to many
// callers.
func (i *Interpreter) Parse(src string) (*ast.Program, error) {
	key := sha256.Sum256([]byte(src))
	if v, ok := i.cache.Get(key); ok {
		i.cacheHits.Inc(1)
		return v.(*ast.Program), nil
	}
	i.cacheMisses.Inc(1)

	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	prog, err := parser.ParseProgram(toks)
	if err != nil {
		return nil, err
	}
	i.cache.Add(key, prog)
	return prog, nil
}

// Visualize returns the indented tree dump of the program in src.
func (i *Interpreter) Visualize(src string) (string, error) {
	prog, err := i.Parse(src)
	if err != nil {
		return "", err
	}
	return ast.Visualize(prog), nil
}

// Run runs the program in src and returns the value of the result binding.
// If the configured timeout is non-zero the run is bounded by it.
func (i *Interpreter) Run(ctx context.Context, src string) (*Result, error) {
	if i.cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout.Duration)
		defer cancel()
	}

	timer := metrics2.NewTimer("lambent_run_latency_ms")
	res, err := i.run(ctx, src)
	d := timer.Stop()

	outcome := Outcome(err)
	metrics2.GetCounter("lambent_runs", map[string]string{"outcome": outcome}).Inc(1)
	if err != nil {
		sklog.Debugf("Run of %q failed after %s (%s): %s", util.Trunc(src, 40), d, outcome, err)
		return nil, err
	}
	res.Duration = d
	sklog.Debugf("Run took %s and %d steps", d, res.Steps)
	return res, nil
}

func (i *Interpreter) run(ctx context.Context, src string) (*Result, error) {
	prog, err := i.Parse(src)
	if err != nil {
		return nil, err
	}

	r := eval.New(i.cfg.MaxStackDepth)
	if !i.cfg.NoBuiltins {
		if err := builtins.Load(ctx, r); err != nil {
			return nil, err
		}
	}
	if err := r.Run(ctx, prog); err != nil {
		var rerr *eval.RuntimeError
		if errors.As(err, &rerr) && rerr.Kind == eval.UndefinedVariable {
			if s := Suggest(rerr.Name, r.Globals().Names()); s != "" {
				return nil, &SuggestionError{Err: err, Suggestion: s}
			}
		}
		return nil, err
	}

	v, ok := r.Lookup(i.cfg.ResultBinding)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoResult, i.cfg.ResultBinding)
	}
	return &Result{
		Value:      v,
		Globals:    r.Globals(),
		Statements: len(prog.Statements),
		Steps:      r.Steps(),
	}, nil
}

// RunSource runs the program in src and returns the rendered value of the
// result binding.
func (i *Interpreter) RunSource(ctx context.Context, src string) (string, error) {
	res, err := i.Run(ctx, src)
	if err != nil {
		return "", err
	}
	return res.Value.String(), nil
}

// Outcome classifies err for metrics.
func Outcome(err error) string {
	var lexErr *lexer.LexError
	var parseErr *parser.ParseError
	var runtimeErr *eval.RuntimeError
	var configErr *eval.ConfigError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &lexErr):
		return OutcomeLexError
	case errors.As(err, &parseErr):
		return OutcomeParseError
	case errors.As(err, &runtimeErr):
		return OutcomeRuntimeError
	case errors.As(err, &configErr):
		return OutcomeConfigError
	case errors.Is(err, ErrNoResult):
		return OutcomeNoResult
	}
	return OutcomeOther
}

// ErrorMessage returns the message to show a user for err, without the call
// stacks that skerr attaches.
func ErrorMessage(err error) string {
	var lexErr *lexer.LexError
	var parseErr *parser.ParseError
	var runtimeErr *eval.RuntimeError
	var configErr *eval.ConfigError
	var suggestionErr *SuggestionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &suggestionErr):
		return fmt.Sprintf("%s; did you mean %q?", ErrorMessage(suggestionErr.Err), suggestionErr.Suggestion)
	case errors.As(err, &lexErr):
		return lexErr.Error()
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.As(err, &runtimeErr):
		return runtimeErr.Error()
	case errors.As(err, &configErr):
		return configErr.Error()
	}
	return skerr.Unwrap(err).Error()
}
