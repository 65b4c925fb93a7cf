package typegraph_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typegraph"
)

func intp(i int) *int { return &i }

func TestPropertiesOrder(t *testing.T) {
	props := typegraph.Properties{
		{Key: "zeta", Type: 3},
		{Key: "alpha", Type: 1},
		{Key: "mid", Type: 2},
	}

	data, err := json.Marshal(props)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":3,"alpha":1,"mid":2}`, string(data))

	var decoded typegraph.Properties
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, props, decoded)

	idx, ok := decoded.Get("mid")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.False(t, decoded.Has("missing"))
}

func TestPropertiesRejectNonObject(t *testing.T) {
	var props typegraph.Properties
	err := json.Unmarshal([]byte(`[1,2]`), &props)
	assert.Error(t, err)
}

func TestPolicyIndicesEncoding(t *testing.T) {
	t.Run("Simple", func(t *testing.T) {
		data, err := json.Marshal(typegraph.PolicyIndices{Policy: intp(4)})
		require.NoError(t, err)
		assert.Equal(t, "4", string(data))

		var p typegraph.PolicyIndices
		require.NoError(t, json.Unmarshal(data, &p))
		require.NotNil(t, p.Policy)
		assert.Equal(t, 4, *p.Policy)
		assert.Nil(t, p.PerEffect)
	})

	t.Run("PerEffect", func(t *testing.T) {
		in := typegraph.PolicyIndices{PerEffect: &typegraph.PolicyIndicesByEffect{
			Create: intp(1),
			Delete: intp(2),
		}}
		data, err := json.Marshal(in)
		require.NoError(t, err)
		assert.JSONEq(t, `{"create":1,"delete":2}`, string(data))

		var p typegraph.PolicyIndices
		require.NoError(t, json.Unmarshal(data, &p))
		require.NotNil(t, p.PerEffect)
		assert.Nil(t, p.Policy)
		assert.Equal(t, 1, *p.PerEffect.Create)
		assert.Nil(t, p.PerEffect.Update)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := json.Marshal(typegraph.PolicyIndices{})
		assert.Error(t, err)
	})
}

func TestTypegraphBinaryRoundTrip(t *testing.T) {
	tg := &typegraph.Typegraph{
		ID: "tg://example",
		Types: []*typegraph.TypeNode{
			{
				Kind:    typegraph.KindObject,
				Title:   "example",
				Runtime: 0,
				Properties: typegraph.Properties{
					{Key: "getUser", Type: 1},
				},
			},
			{
				Kind:         typegraph.KindFunction,
				Title:        "func_1",
				Input:        intp(2),
				Output:       intp(3),
				Materializer: intp(0),
			},
		},
		Runtimes:      []*typegraph.Runtime{{Name: "deno"}},
		Materializers: []*typegraph.Materializer{{Name: "function", Runtime: 0, Effect: typegraph.Effect{Effect: typegraph.EffectNone, Idempotent: true}}},
		Meta: typegraph.Meta{
			Secrets: []string{"TG_SECRET"},
			Version: typegraph.Version,
		},
	}

	data, err := tg.MarshalBinary()
	require.NoError(t, err)

	decoded := &typegraph.Typegraph{}
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, tg.ID, decoded.ID)
	require.Len(t, decoded.Types, 2)
	assert.Equal(t, "example", decoded.Types[0].Title)
	require.NotNil(t, decoded.Types[1].Input)
	assert.Equal(t, 2, *decoded.Types[1].Input)
	assert.Equal(t, []string{"TG_SECRET"}, decoded.Meta.Secrets)
}
