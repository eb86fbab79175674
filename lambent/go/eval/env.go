package eval

// Env maps names to values. It is persistent: Bind returns a new Env that
// shares all existing bindings with its parent, and an Env is never modified
// after it is created. A closure can therefore hold on to the Env it was
// created in without copying it.
//
// The nil *Env is the empty environment.
type Env struct {
	name   string
	value  Value
	parent *Env
	size   int
}

// Bind returns a new Env where name is bound to v. An existing binding of name
// is shadowed, not replaced.
func (e *Env) Bind(name string, v Value) *Env {
	return &Env{
		name:   name,
		value:  v,
		parent: e,
		size:   e.Len() + 1,
	}
}

// Lookup returns the innermost binding of name.
func (e *Env) Lookup(name string) (Value, bool) {
	for ; e != nil; e = e.parent {
		if e.name == name {
			return e.value, true
		}
	}
	return nil, false
}

// Len returns the number of bindings, including shadowed ones.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return e.size
}

// Names returns the visible names, most recently bound first.
func (e *Env) Names() []string {
	seen := map[string]bool{}
	ret := []string{}
	for ; e != nil; e = e.parent {
		if seen[e.name] {
			continue
		}
		seen[e.name] = true
		ret = append(ret, e.name)
	}
	return ret
}
