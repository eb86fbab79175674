package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv_Nil_IsEmpty(t *testing.T) {
	var env *Env
	_, ok := env.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, env.Len())
	assert.Empty(t, env.Names())
}

func TestEnv_Bind_DoesNotModifyParent(t *testing.T) {
	var empty *Env
	one := empty.Bind("x", Number(1))
	two := one.Bind("x", Number(2))
	withY := one.Bind("y", Number(3))

	v, ok := one.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Number(1), v)

	v, ok = two.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Number(2), v)

	_, ok = one.Lookup("y")
	assert.False(t, ok)
	v, ok = withY.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, Number(3), v)

	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())
	assert.Equal(t, []string{"x"}, two.Names())
	assert.Equal(t, []string{"y", "x"}, withY.Names())
}
