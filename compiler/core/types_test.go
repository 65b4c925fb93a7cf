package core_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/core"
)

func TestIntegerBounds(t *testing.T) {
	t.Parallel()
	c := core.New(nil)

	_, err := c.Integer().Min(12).Max(10).Build()
	require.Error(t, err)
	var maxErr *typegraph.InvalidMaxValueError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(t, float64(12), maxErr.Min)
	assert.Equal(t, float64(10), maxErr.Max)

	_, err = c.Integer().ExclusiveMin(12).ExclusiveMax(12).Build()
	require.Error(t, err)
	assert.ErrorAs(t, err, &maxErr)

	_, err = c.Integer().Min(12).Max(44).Build()
	require.NoError(t, err)

	_, err = c.Float().Min(1.5).Max(0.5).Build()
	require.Error(t, err)
}

func TestStringLengthBounds(t *testing.T) {
	t.Parallel()
	c := core.New(nil)

	_, err := c.String().MinLength(10).MaxLength(4).Build()
	require.Error(t, err)

	_, err = c.String().MinLength(4).MaxLength(10).Build()
	require.NoError(t, err)
}

func TestStructPropKeys(t *testing.T) {
	t.Parallel()
	c := core.New(nil)

	intID, err := c.Integer().Build()
	require.NoError(t, err)

	for _, key := range []string{"", "has space", "9starts_with_digit", "trailing!"} {
		_, err := c.Struct().Prop(key, intID).Build()
		assert.Errorf(t, err, "key %q", key)
	}

	_, err = c.Struct().Prop("fine", intID).Prop("_also_fine9", intID).Build()
	require.NoError(t, err)

	_, err = c.Struct().Prop("twice", intID).Prop("twice", intID).Build()
	require.Error(t, err)
	var dup *typegraph.DuplicateKeyError
	assert.ErrorAs(t, err, &dup)
}

func TestFuncInputMustBeStruct(t *testing.T) {
	t.Parallel()
	c := core.New(nil)

	intID, err := c.Integer().Build()
	require.NoError(t, err)
	input, err := c.Struct().Build()
	require.NoError(t, err)
	mat := c.RegisterMaterializer("function",
		c.RegisterRuntime("deno", nil),
		typegraph.Effect{Effect: typegraph.EffectNone, Idempotent: true}, nil)

	_, err = c.Func(intID, intID, mat).Build()
	require.Error(t, err)
	var inputErr *typegraph.InvalidInputTypeError
	assert.ErrorAs(t, err, &inputErr)

	_, err = c.Func(input, intID, mat).Build()
	require.NoError(t, err)
}

func TestSynthesizedWrapperNames(t *testing.T) {
	t.Parallel()
	c := core.New(nil)

	user, err := c.Struct().Named("User").Build()
	require.NoError(t, err)

	arr, err := c.Array(user).Build()
	require.NoError(t, err)
	name, err := c.Store().TypeName(arr)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("_%d_User[]", arr), name)

	opt, err := c.Optional(user).Default(nil).Build()
	require.NoError(t, err)
	name, err = c.Store().TypeName(opt)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("_%d_User?", opt), name)

	// Explicit names are kept as given.
	named, err := c.Array(user).Named("UserList").Build()
	require.NoError(t, err)
	name, err = c.Store().TypeName(named)
	require.NoError(t, err)
	assert.Equal(t, "UserList", name)

	// Wrappers over anonymous elements stay anonymous.
	anon, err := c.Integer().Build()
	require.NoError(t, err)
	arr, err = c.Array(anon).Build()
	require.NoError(t, err)
	name, err = c.Store().TypeName(arr)
	require.NoError(t, err)
	assert.Empty(t, name)
}
