// Package eval evaluates lambent programs.
//
// Function arguments are passed by need: an argument is bound as a Thunk and
// evaluated the first time the parameter is used, at most once. Evaluation is
// done by a small abstract machine with an explicit continuation stack, so deep
// recursion in a lambent program grows a slice on the heap instead of the Go
// stack, and the depth can be limited.
package eval

import (
	"context"
	"math"

	"go.skia.org/lambent/lambent/go/ast"
)

const (
	// DefaultMaxStackDepth is the number of continuation frames a single
	// evaluation may use if no other limit is given.
	DefaultMaxStackDepth = 1 << 20

	// checkContextEvery is how many machine steps are taken between checks of
	// ctx.Err().
	checkContextEvery = 1024

	trueName  = "true"
	falseName = "false"
)

// Runner evaluates programs against a global environment that grows by one
// binding per executed statement.
//
// A Runner is not safe for concurrent use.
type Runner struct {
	globals       *Env
	trueValue     *Closure
	falseValue    *Closure
	maxStackDepth int
	steps         int64
}

// New returns a Runner with an empty global environment. If maxStackDepth is
// <= 0 then DefaultMaxStackDepth is used.
func New(maxStackDepth int) *Runner {
	if maxStackDepth <= 0 {
		maxStackDepth = DefaultMaxStackDepth
	}
	return &Runner{
		maxStackDepth: maxStackDepth,
	}
}

// Globals returns the current global environment. Later statements do not
// change the returned Env.
func (r *Runner) Globals() *Env {
	return r.globals
}

// Lookup returns the value of a global binding. Globals are always fully
// evaluated, so the result is a Number or a *Closure.
func (r *Runner) Lookup(name string) (Value, bool) {
	return r.globals.Lookup(name)
}

// Steps returns the number of machine steps taken by this Runner so far.
func (r *Runner) Steps() int64 {
	return r.steps
}

// Bootstrap resolves the `true` and `false` functions from the global
// environment. It must be called after the builtins are loaded and before any
// program that uses a relational operator is run.
func (r *Runner) Bootstrap() error {
	t, ok := r.globals.Lookup(trueName)
	if !ok {
		return ErrBooleansMissing
	}
	f, ok := r.globals.Lookup(falseName)
	if !ok {
		return ErrBooleansMissing
	}
	tc, ok := t.(*Closure)
	if !ok {
		return ErrBooleansMissing
	}
	fc, ok := f.(*Closure)
	if !ok {
		return ErrBooleansMissing
	}
	r.trueValue, r.falseValue = tc, fc
	return nil
}

// Bootstrapped returns true once Bootstrap has succeeded.
func (r *Runner) Bootstrapped() bool {
	return r.trueValue != nil && r.falseValue != nil
}

// Run executes the statements of prog in order, binding each result in the
// global environment under the statement's name. The first failing statement
// stops the run; bindings made by earlier statements are kept.
func (r *Runner) Run(ctx context.Context, prog *ast.Program) error {
	if !r.Bootstrapped() && prog.UsesRelational() {
		return ErrBooleansMissing
	}
	for _, stmt := range prog.Statements {
		v, err := r.Evaluate(ctx, stmt.Value, r.globals)
		if err != nil {
			if rerr, ok := err.(*RuntimeError); ok {
				rerr.Statement = stmt.Name
				rerr.Line = stmt.Line
			}
			return err
		}
		r.globals = r.globals.Bind(stmt.Name, v)
	}
	return nil
}

// Force returns the value of v, evaluating it first if it is an unforced
// Thunk.
func (r *Runner) Force(ctx context.Context, v Value) (Value, error) {
	t, ok := v.(*Thunk)
	if !ok {
		return v, nil
	}
	if t.Forced() {
		return t.result, nil
	}
	m := r.newMachine()
	m.push(frame{kind: updateThunk, thunk: t})
	return m.run(ctx, t.expr, t.env)
}

// Evaluate returns the value of expr in env. The result is never a Thunk.
func (r *Runner) Evaluate(ctx context.Context, expr ast.Expression, env *Env) (Value, error) {
	return r.newMachine().run(ctx, expr, env)
}

func (r *Runner) newMachine() *machine {
	return &machine{runner: r}
}

type frameKind int

const (
	// binaryLeft waits for the left operand, then evaluates expr in env.
	binaryLeft frameKind = iota

	// binaryRight holds the left operand in value and waits for the right.
	binaryRight

	// unary waits for the operand of op.
	unary

	// applyFunction waits for the function, then applies it to a thunk of
	// expr in env.
	applyFunction

	// updateThunk stores the value it receives into thunk.
	updateThunk
)

type frame struct {
	kind     frameKind
	binaryOp ast.BinaryOperator
	unaryOp  ast.UnaryOperator
	expr     ast.Expression
	env      *Env
	value    Value
	thunk    *Thunk
}

type machine struct {
	runner *Runner
	stack  []frame
}

func (m *machine) push(f frame) {
	m.stack = append(m.stack, f)
}

func (m *machine) pop() frame {
	f := m.stack[len(m.stack)-1]
	m.stack[len(m.stack)-1] = frame{}
	m.stack = m.stack[:len(m.stack)-1]
	return f
}

// run alternates between two modes: with expr != nil it decomposes expr,
// pushing frames for the work left to do; otherwise it hands ret to the
// topmost frame. It stops when a value is returned to an empty stack.
func (m *machine) run(ctx context.Context, expr ast.Expression, env *Env) (Value, error) {
	r := m.runner
	var ret Value
	for {
		r.steps++
		if r.steps%checkContextEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &RuntimeError{Kind: Cancelled, Err: err}
			}
		}
		if len(m.stack) > r.maxStackDepth {
			return nil, &RuntimeError{Kind: StackOverflow, Limit: r.maxStackDepth}
		}

		if expr != nil {
			switch e := expr.(type) {
			case *ast.Number:
				ret, expr = Number(e.Value), nil
			case *ast.Name:
				v, ok := env.Lookup(e.Value)
				if !ok {
					return nil, &RuntimeError{Kind: UndefinedVariable, Name: e.Value}
				}
				t, ok := v.(*Thunk)
				if !ok {
					ret, expr = v, nil
				} else if t.Forced() {
					ret, expr = t.result, nil
				} else {
					m.push(frame{kind: updateThunk, thunk: t})
					expr, env = t.expr, t.env
				}
			case *ast.Abstraction:
				ret, expr = &Closure{Param: e.Param, Body: e.Body, Env: env}, nil
			case *ast.Application:
				m.push(frame{kind: applyFunction, expr: e.Argument, env: env})
				expr = e.Function
			case *ast.BinaryOperation:
				m.push(frame{kind: binaryLeft, binaryOp: e.Operator, expr: e.Right, env: env})
				expr = e.Left
			case *ast.UnaryOperation:
				m.push(frame{kind: unary, unaryOp: e.Operator})
				expr = e.Operand
			default:
				panic("eval: unknown expression type")
			}
			continue
		}

		if len(m.stack) == 0 {
			return ret, nil
		}

		f := m.pop()
		switch f.kind {
		case binaryLeft:
			m.push(frame{kind: binaryRight, binaryOp: f.binaryOp, value: ret})
			expr, env = f.expr, f.env
		case binaryRight:
			v, err := r.binary(f.binaryOp, f.value, ret)
			if err != nil {
				return nil, err
			}
			ret = v
		case unary:
			ret = negate(f.unaryOp, ret)
		case applyFunction:
			c, ok := ret.(*Closure)
			if !ok {
				return nil, &RuntimeError{Kind: ApplyNonFunction}
			}
			expr, env = c.Body, c.Env.Bind(c.Param, NewThunk(f.expr, f.env))
		case updateThunk:
			f.thunk.memoize(ret)
		}
	}
}

func (r *Runner) binary(op ast.BinaryOperator, left, right Value) (Value, error) {
	a, ok := left.(Number)
	if !ok {
		return nil, &RuntimeError{Kind: BinaryOperationOnNonNumbers}
	}
	b, ok := right.(Number)
	if !ok {
		return nil, &RuntimeError{Kind: BinaryOperationOnNonNumbers}
	}

	switch op {
	case ast.Add:
		return a + b, nil
	case ast.Sub:
		return a - b, nil
	case ast.Mul:
		return a * b, nil
	case ast.Div:
		return a / b, nil
	case ast.Expo:
		return Number(math.Pow(float64(a), float64(b))), nil
	}

	if !r.Bootstrapped() {
		return nil, ErrBooleansMissing
	}
	var result bool
	switch op {
	case ast.Equal:
		result = a == b
	case ast.NotEqual:
		result = a != b
	case ast.LessThan:
		result = a < b
	case ast.LessThanOrEqual:
		result = a <= b
	case ast.GreaterThan:
		result = a > b
	case ast.GreaterThanOrEqual:
		result = a >= b
	default:
		panic("eval: unknown binary operator")
	}
	if result {
		return r.trueValue, nil
	}
	return r.falseValue, nil
}

// negate panics on a non-number operand. Negating a function is a contract
// violation rather than a RuntimeError.
func negate(op ast.UnaryOperator, v Value) Value {
	n, ok := v.(Number)
	if op != ast.Negate || !ok {
		panic("eval: negation of a non-number value " + v.String())
	}
	return -n
}
