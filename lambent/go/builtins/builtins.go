// Package builtins installs the functions every lambent program can use.
//
// Loading happens in two steps: first `true` and `false` are defined and the
// Runner is bootstrapped with them, then the rest of the builtins, some of
// which use relational operators, are evaluated.
package builtins

import (
	"context"
	_ "embed"
	"sync"

	"go.skia.org/lambent/go/skerr"
	"go.skia.org/lambent/lambent/go/ast"
	"go.skia.org/lambent/lambent/go/eval"
	"go.skia.org/lambent/lambent/go/lexer"
	"go.skia.org/lambent/lambent/go/parser"
)

//go:embed booleans.lambent
var booleansSource string

//go:embed builtins.lambent
var builtinsSource string

var (
	parseOnce sync.Once
	booleans  *ast.Program
	builtins  *ast.Program
	parseErr  error
)

func parseSource(name, src string) (*ast.Program, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, skerr.Wrapf(err, "lexing %s", name)
	}
	prog, err := parser.ParseProgram(toks)
	if err != nil {
		return nil, skerr.Wrapf(err, "parsing %s", name)
	}
	return prog, nil
}

// Programs returns the parsed builtin programs, in the order they must run.
func Programs() ([]*ast.Program, error) {
	parseOnce.Do(func() {
		booleans, parseErr = parseSource("booleans.lambent", booleansSource)
		if parseErr != nil {
			return
		}
		builtins, parseErr = parseSource("builtins.lambent", builtinsSource)
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return []*ast.Program{booleans, builtins}, nil
}

// Source returns the text of all builtin definitions.
func Source() string {
	return booleansSource + "\n" + builtinsSource
}

// Load evaluates the builtins into the global environment of r and
// bootstraps r.
func Load(ctx context.Context, r *eval.Runner) error {
	progs, err := Programs()
	if err != nil {
		return err
	}
	if err := r.Run(ctx, progs[0]); err != nil {
		return skerr.Wrapf(err, "evaluating booleans")
	}
	if err := r.Bootstrap(); err != nil {
		return skerr.Wrap(err)
	}
	if err := r.Run(ctx, progs[1]); err != nil {
		return skerr.Wrapf(err, "evaluating builtins")
	}
	return nil
}
