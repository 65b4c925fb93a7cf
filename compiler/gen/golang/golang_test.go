package golang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typegraph"
	"github.com/syssam/typegraph/compiler/gen/golang"
)

func ref(i int) *int { return &i }

func blogDocument() *typegraph.Typegraph {
	return &typegraph.Typegraph{
		ID: "blog",
		Types: []*typegraph.TypeNode{
			{Kind: typegraph.KindObject, Title: "blog", Properties: typegraph.Properties{
				{Key: "findUsers", Type: 1},
			}},
			{Kind: typegraph.KindFunction, Title: "func_1", Input: ref(2), Output: ref(7)},
			{Kind: typegraph.KindObject, Title: "object_2"},
			{Kind: typegraph.KindObject, Title: "User", Properties: typegraph.Properties{
				{Key: "id", Type: 4},
				{Key: "nickname", Type: 5},
				{Key: "posts", Type: 7},
				{Key: "score", Type: 9},
				{Key: "active", Type: 10},
				{Key: "meta", Type: 11},
			}},
			{Kind: typegraph.KindInteger, Title: "integer_4"},
			{Kind: typegraph.KindOptional, Title: "optional_5", Item: ref(6)},
			{Kind: typegraph.KindString, Title: "string_6"},
			{Kind: typegraph.KindArray, Title: "array_7", Items: ref(8)},
			{Kind: typegraph.KindObject, Title: "Post", Properties: typegraph.Properties{
				{Key: "id", Type: 4},
			}},
			{Kind: typegraph.KindFloat, Title: "float_9"},
			{Kind: typegraph.KindBoolean, Title: "boolean_10"},
			{Kind: typegraph.KindUnion, Title: "union_11", AnyOf: []int{4, 6}},
		},
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	src, err := golang.Generate(blogDocument(), "models")
	require.NoError(t, err)

	assert.Contains(t, src, "package models")
	assert.Contains(t, src, `Code generated from typegraph "blog". DO NOT EDIT.`)

	assert.Contains(t, src, "type User struct")
	assert.Contains(t, src, "type Post struct")
	assert.Regexp(t, `Id\s+int64\s+`+"`"+`json:"id"`+"`", src)
	assert.Regexp(t, `Nickname\s+\*string\s+`+"`"+`json:"nickname,omitempty"`+"`", src)
	assert.Regexp(t, `Posts\s+\[\]Post`, src)
	assert.Regexp(t, `Score\s+float64`, src)
	assert.Regexp(t, `Active\s+bool`, src)
	assert.Regexp(t, `Meta\s+any`, src)

	// Anonymous function inputs still render, under their fallback name.
	assert.Contains(t, src, "type Object2 struct")
	// The root namespace is not a model.
	assert.NotContains(t, src, "type Blog struct")
	assert.NotContains(t, src, "FindUsers")
}

func TestGenerateFunctionPropSkipped(t *testing.T) {
	t.Parallel()
	tg := &typegraph.Typegraph{
		ID: "svc",
		Types: []*typegraph.TypeNode{
			{Kind: typegraph.KindObject, Title: "svc"},
			{Kind: typegraph.KindObject, Title: "Handle", Properties: typegraph.Properties{
				{Key: "id", Type: 3},
				{Key: "refresh", Type: 2},
			}},
			{Kind: typegraph.KindFunction, Title: "func_2", Input: ref(0), Output: ref(3)},
			{Kind: typegraph.KindInteger, Title: "integer_3"},
		},
	}

	src, err := golang.Generate(tg, "svc")
	require.NoError(t, err)
	assert.Contains(t, src, "type Handle struct")
	assert.Regexp(t, `Id\s+int64`, src)
	assert.NotContains(t, src, "Refresh")
}

func TestGenerateOptionalArray(t *testing.T) {
	t.Parallel()
	tg := &typegraph.Typegraph{
		ID: "tags",
		Types: []*typegraph.TypeNode{
			{Kind: typegraph.KindObject, Title: "tags"},
			{Kind: typegraph.KindObject, Title: "Entry", Properties: typegraph.Properties{
				{Key: "labels", Type: 2},
			}},
			{Kind: typegraph.KindOptional, Title: "optional_2", Item: ref(3)},
			{Kind: typegraph.KindArray, Title: "array_3", Items: ref(4)},
			{Kind: typegraph.KindString, Title: "string_4"},
		},
	}

	src, err := golang.Generate(tg, "tags")
	require.NoError(t, err)
	// Optional arrays stay slices instead of pointers to slices.
	assert.Regexp(t, `Labels\s+\[\]string\s+`+"`"+`json:"labels,omitempty"`+"`", src)
}

func TestGenerateEmptyDocument(t *testing.T) {
	t.Parallel()
	_, err := golang.Generate(&typegraph.Typegraph{ID: "empty"}, "models")
	require.Error(t, err)
}
