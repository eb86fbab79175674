// Package repl implements an interactive session whose global environment
// persists between inputs.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.skia.org/lambent/go/skerr"
	"go.skia.org/lambent/go/sklog"
	"go.skia.org/lambent/lambent/go/ast"
	"go.skia.org/lambent/lambent/go/builtins"
	"go.skia.org/lambent/lambent/go/config"
	"go.skia.org/lambent/lambent/go/eval"
	"go.skia.org/lambent/lambent/go/interp"
	"go.skia.org/lambent/lambent/go/lexer"
	"go.skia.org/lambent/lambent/go/parser"
	"go.skia.org/lambent/lambent/go/token"
)

const (
	// Prompt is shown when a new input starts.
	Prompt = "λ> "

	// ContinuationPrompt is shown while an input is incomplete.
	ContinuationPrompt = ".. "
)

const helpText = `Enter statements (name = expression;) or a bare expression to print its value.
Commands:
  :globals  list the names bound in this session
  :reset    forget every binding except the builtins
  :help     show this message
  :quit     leave the session
`

// LineReader reads one line of input after showing a prompt. It returns
// io.EOF when there is no more input. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type historyAppender interface {
	AppendHistory(item string)
}

// Session holds the global environment of an interactive session.
type Session struct {
	cfg    config.InterpreterConfig
	runner *eval.Runner
}

// New returns a Session with the builtins loaded, unless cfg.NoBuiltins is
// set.
func New(ctx context.Context, cfg config.InterpreterConfig) (*Session, error) {
	s := &Session{cfg: cfg}
	if err := s.Reset(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset drops every binding made in the session.
func (s *Session) Reset(ctx context.Context) error {
	r := eval.New(s.cfg.MaxStackDepth)
	if !s.cfg.NoBuiltins {
		if err := builtins.Load(ctx, r); err != nil {
			return skerr.Wrapf(err, "loading builtins")
		}
	}
	s.runner = r
	return nil
}

// Globals returns the names bound in the session, sorted.
func (s *Session) Globals() []string {
	names := s.runner.Globals().Names()
	sort.Strings(names)
	return names
}

// Eval runs src against the session's globals. src is either a program, in
// which case every statement's binding is reported as "name = value", or a
// single expression, whose value is returned.
func (s *Session) Eval(ctx context.Context, src string) (string, error) {
	if s.cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout.Duration)
		defer cancel()
	}

	toks, err := lexer.Lex(src)
	if err != nil {
		return "", err
	}
	prog, progErr := parser.ParseProgram(toks)
	if progErr == nil {
		if !s.runner.Bootstrapped() && prog.UsesRelational() {
			return "", eval.ErrBooleansMissing
		}
		// One statement at a time so that a rebound name is reported with the
		// value each statement gave it.
		lines := make([]string, 0, len(prog.Statements))
		for _, stmt := range prog.Statements {
			if err := s.runner.Run(ctx, &ast.Program{Statements: []*ast.Statement{stmt}}); err != nil {
				return "", err
			}
			v, _ := s.runner.Lookup(stmt.Name)
			lines = append(lines, fmt.Sprintf("%s = %s", stmt.Name, v))
		}
		return strings.Join(lines, "\n"), nil
	}

	expr, exprErr := parser.ParseExpression(toks)
	if exprErr != nil {
		// A statement is the more likely intent once an `=` has been typed.
		if hasAssign(toks) {
			return "", progErr
		}
		return "", exprErr
	}
	v, err := s.runner.Evaluate(ctx, expr, s.runner.Globals())
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func hasAssign(toks []token.Token) bool {
	for _, tok := range toks {
		if tok.Kind == token.Assign {
			return true
		}
	}
	return false
}

// Complete returns true if src is worth evaluating, i.e. it either parses or
// it has an error that more input cannot fix.
func Complete(src string) bool {
	toks, err := lexer.Lex(src)
	if err != nil {
		return true
	}
	_, progErr := parser.ParseProgram(toks)
	if progErr == nil {
		return true
	}
	_, exprErr := parser.ParseExpression(toks)
	if exprErr == nil {
		return true
	}
	return !needsMoreInput(progErr) && !needsMoreInput(exprErr)
}

// needsMoreInput returns true for parse errors caused by the input ending
// too early.
func needsMoreInput(err error) bool {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		return false
	}
	switch perr.Kind {
	case parser.UnexpectedEOF, parser.NoTokenFound:
		return true
	case parser.UnbalancedParen, parser.MalformedLambda:
		return perr.Found.Kind == token.EOF
	}
	return false
}

// read collects lines from in until they form a complete input. ok is false
// at the end of input.
func read(in LineReader) (src string, ok bool) {
	var b strings.Builder
	for {
		prompt := Prompt
		if b.Len() > 0 {
			prompt = ContinuationPrompt
		}
		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C abandons the current input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if strings.TrimSpace(b.String()) == "" || Complete(b.String()) {
			return b.String(), true
		}
	}
}

// Loop reads inputs from in and writes their results to out until the input
// ends or the user quits.
func (s *Session) Loop(ctx context.Context, in LineReader, out io.Writer) error {
	history, _ := in.(historyAppender)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, ok := read(in)
		if !ok {
			return nil
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		if history != nil {
			history.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}

		if strings.HasPrefix(src, ":") {
			quit, err := s.command(ctx, src, out)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			continue
		}

		start := time.Now()
		res, err := s.evalRecovered(ctx, src)
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", interp.ErrorMessage(err))
			continue
		}
		sklog.Debugf("Evaluated %q in %s", src, time.Since(start))
		fmt.Fprintln(out, res)
	}
}

// evalRecovered is Eval, except that a panic in the evaluator, e.g. negating
// a function, is returned as an error so the session and its bindings
// survive.
func (s *Session) evalRecovered(ctx context.Context, src string) (res string, err error) {
	defer func() {
		if r := recover(); r != nil {
			sklog.Errorf("Panic evaluating %q: %v", src, r)
			err = skerr.Fmt("internal error: %v", r)
		}
	}()
	return s.Eval(ctx, src)
}

// command runs a ':' command and returns true if the session should end.
func (s *Session) command(ctx context.Context, src string, out io.Writer) (bool, error) {
	switch strings.Fields(src)[0] {
	case ":quit", ":exit":
		return true, nil
	case ":help":
		fmt.Fprint(out, helpText)
	case ":globals":
		fmt.Fprintln(out, strings.Join(s.Globals(), " "))
	case ":reset":
		if err := s.Reset(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(out, "Session reset.")
	default:
		fmt.Fprintf(out, "Unknown command %s. Type :help for help.\n", src)
	}
	return false, nil
}
