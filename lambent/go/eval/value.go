package eval

import (
	"fmt"

	"go.skia.org/lambent/lambent/go/ast"
)

// Value is the result of evaluating an expression. It is one of Number,
// *Closure or *Thunk.
type Value interface {
	fmt.Stringer
	value()
}

// Number is a 32-bit float.
type Number float32

// Closure is a function value: an abstraction together with the environment
// it was created in.
type Closure struct {
	Param string
	Body  ast.Expression
	Env   *Env
}

// Thunk is an unevaluated function argument. It is evaluated at most once, the
// first time the parameter it is bound to is looked up.
type Thunk struct {
	expr ast.Expression
	env  *Env

	// result is nil until the thunk has been forced.
	result Value
}

// NewThunk returns a Thunk that evaluates expr in env when forced.
func NewThunk(expr ast.Expression, env *Env) *Thunk {
	return &Thunk{expr: expr, env: env}
}

// Forced returns true if the thunk has already been evaluated.
func (t *Thunk) Forced() bool {
	return t.result != nil
}

func (t *Thunk) memoize(v Value) {
	t.result = v
	t.expr = nil
	t.env = nil
}

func (Number) value()   {}
func (*Closure) value() {}
func (*Thunk) value()   {}

func (n Number) String() string {
	return ast.FormatNumber(float32(n))
}

func (*Closure) String() string {
	return "<Function>"
}

func (*Thunk) String() string {
	return "<Thunk>"
}
