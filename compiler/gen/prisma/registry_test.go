package prisma_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/typegraph/compiler/gen/prisma"
	"github.com/syssam/typegraph/compiler/store"
)

func intType(s *store.Store) store.TypeID {
	return s.AddType(func(id store.TypeID) store.Type { return &store.Integer{} })
}

func strType(s *store.Store) store.TypeID {
	return s.AddType(func(id store.TypeID) store.Type { return &store.StringT{} })
}

func proxyTo(s *store.Store, name string) store.TypeID {
	return s.AddType(func(id store.TypeID) store.Type { return &store.Proxy{To: name} })
}

func optionalOf(s *store.Store, of store.TypeID) store.TypeID {
	return s.AddType(func(id store.TypeID) store.Type { return &store.Optional{Of: of} })
}

func arrayOf(s *store.Store, of store.TypeID) store.TypeID {
	return s.AddType(func(id store.TypeID) store.Type { return &store.Array{Of: of} })
}

func structType(s *store.Store, name string, props ...store.Prop) store.TypeID {
	return s.AddType(func(id store.TypeID) store.Type {
		return &store.Struct{Attrs: store.Base{Name: name}, Props: props}
	})
}

func TestImplicitRelationship(t *testing.T) {
	t.Parallel()
	s := store.New()

	user := structType(s, "User",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "name", Type: strType(s)},
		store.Prop{Key: "posts", Type: arrayOf(s, proxyTo(s, "Post"))},
	)
	post := structType(s, "Post",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "title", Type: strType(s)},
		store.Prop{Key: "author", Type: proxyTo(s, "User")},
	)

	reg := prisma.NewRegistry(s)
	require.NoError(t, reg.Manage(user))
	require.NoError(t, reg.Manage(post))

	require.Equal(t, 1, reg.Len())
	rel, ok := reg.Get(reg.Names()[0])
	require.True(t, ok)

	// Post carries the foreign key: it occurs many times per user.
	assert.Equal(t, "User", rel.Left.ModelName)
	assert.Equal(t, prisma.One, rel.Left.Cardinality)
	assert.Equal(t, "posts", rel.Left.Field)
	assert.Equal(t, "Post", rel.Right.ModelName)
	assert.Equal(t, prisma.Many, rel.Right.Cardinality)
	assert.Equal(t, "author", rel.Right.Field)
}

func TestManageIsIdempotent(t *testing.T) {
	t.Parallel()
	s := store.New()

	user := structType(s, "User",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "profile", Type: optionalOf(s, proxyTo(s, "Profile"))},
	)
	profile := structType(s, "Profile",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "user", Type: optionalOf(s, proxyTo(s, "User"))},
	)

	reg := prisma.NewRegistry(s)
	require.NoError(t, reg.Manage(user))
	require.NoError(t, reg.Manage(profile))
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, reg.Manage(user))
	assert.Equal(t, 1, reg.Len())
}

func TestOptionalOptionalTieBreak(t *testing.T) {
	t.Parallel()

	// The side with the lexicographically smaller model name owns the
	// foreign key, independent of management order.
	build := func() (*store.Store, store.TypeID, store.TypeID) {
		s := store.New()
		user := structType(s, "User",
			store.Prop{Key: "id", Type: intType(s)},
			store.Prop{Key: "profile", Type: optionalOf(s, proxyTo(s, "Profile"))},
		)
		profile := structType(s, "Profile",
			store.Prop{Key: "id", Type: intType(s)},
			store.Prop{Key: "user", Type: optionalOf(s, proxyTo(s, "User"))},
		)
		return s, user, profile
	}

	s1, user1, profile1 := build()
	reg1 := prisma.NewRegistry(s1)
	require.NoError(t, reg1.Manage(user1))
	require.NoError(t, reg1.Manage(profile1))

	s2, user2, profile2 := build()
	reg2 := prisma.NewRegistry(s2)
	require.NoError(t, reg2.Manage(profile2))
	require.NoError(t, reg2.Manage(user2))

	for _, reg := range []*prisma.Registry{reg1, reg2} {
		require.Equal(t, 1, reg.Len())
		rel, _ := reg.Get(reg.Names()[0])
		assert.Equal(t, "Profile", rel.Right.ModelName)
		assert.Equal(t, prisma.Optional, rel.Left.Cardinality)
		assert.Equal(t, prisma.Optional, rel.Right.Cardinality)
	}
	assert.Equal(t, reg1.Names(), reg2.Names())
}

func TestExplicitRelationshipName(t *testing.T) {
	t.Parallel()
	s := store.New()

	user := structType(s, "User",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "posts", Type: arrayOf(s, proxyTo(s, "Post"))},
	)
	post := structType(s, "Post",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "author", Type: prisma.LinkName(s, "User").Name("PostAuthor").Build()},
	)

	reg := prisma.NewRegistry(s)
	require.NoError(t, reg.Manage(user))
	require.NoError(t, reg.Manage(post))

	rel, ok := reg.Get("PostAuthor")
	require.True(t, ok)
	assert.Equal(t, "Post", rel.Right.ModelName)
}

func TestFkeyAttribute(t *testing.T) {
	t.Parallel()
	s := store.New()

	user := structType(s, "User",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "profile", Type: optionalOf(s, prisma.LinkName(s, "Profile").Fkey(true).Build())},
	)
	profile := structType(s, "Profile",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "user", Type: optionalOf(s, proxyTo(s, "User"))},
	)

	reg := prisma.NewRegistry(s)
	require.NoError(t, reg.Manage(user))
	require.NoError(t, reg.Manage(profile))

	require.Equal(t, 1, reg.Len())
	rel, _ := reg.Get(reg.Names()[0])

	// fkey(true) on User.profile puts the key on User, overriding the
	// lexicographic default.
	assert.Equal(t, "User", rel.Right.ModelName)
	assert.Equal(t, "profile", rel.Right.Field)
}

func TestTargetFieldAttribute(t *testing.T) {
	t.Parallel()
	s := store.New()

	person := structType(s, "Person",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "written", Type: arrayOf(s, prisma.LinkName(s, "Book").Field("author").Build())},
		store.Prop{Key: "reviewed", Type: arrayOf(s, prisma.LinkName(s, "Book").Field("reviewer").Build())},
	)
	structType(s, "Book",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "author", Type: prisma.LinkName(s, "Person").Field("written").Build()},
		store.Prop{Key: "reviewer", Type: prisma.LinkName(s, "Person").Field("reviewed").Build()},
	)

	reg := prisma.NewRegistry(s)
	require.NoError(t, reg.Manage(person))
	assert.Equal(t, 2, reg.Len())

	opposite := reg.OppositeOf(person, "written")
	require.NotNil(t, opposite)
	assert.Equal(t, "Book", opposite.ModelName)
	assert.Equal(t, "author", opposite.Field)
}

func TestSelfRelationship(t *testing.T) {
	t.Parallel()
	s := store.New()

	node := structType(s, "Node",
		store.Prop{Key: "id", Type: strType(s)},
		store.Prop{Key: "children", Type: arrayOf(s, proxyTo(s, "Node"))},
		store.Prop{Key: "parent", Type: proxyTo(s, "Node")},
	)

	reg := prisma.NewRegistry(s)
	require.NoError(t, reg.Manage(node))

	require.Equal(t, 1, reg.Len())
	rel, _ := reg.Get(reg.Names()[0])
	assert.Equal(t, rel.Left.ModelType, rel.Right.ModelType)

	fields := []string{rel.Left.Field, rel.Right.Field}
	assert.ElementsMatch(t, []string{"children", "parent"}, fields)

	// Opposite lookups disambiguate by field name.
	opposite := reg.OppositeOf(node, "children")
	require.NotNil(t, opposite)
	assert.Equal(t, "parent", opposite.Field)

	opposite = reg.OppositeOf(node, "parent")
	require.NotNil(t, opposite)
	assert.Equal(t, "children", opposite.Field)
}

func TestAmbiguousSide(t *testing.T) {
	t.Parallel()

	t.Run("SymmetricCardinality", func(t *testing.T) {
		s := store.New()
		user := structType(s, "User",
			store.Prop{Key: "id", Type: intType(s)},
			store.Prop{Key: "profile", Type: proxyTo(s, "Profile")},
		)
		structType(s, "Profile",
			store.Prop{Key: "id", Type: intType(s)},
			store.Prop{Key: "user", Type: proxyTo(s, "User")},
		)

		reg := prisma.NewRegistry(s)
		err := reg.Manage(user)
		require.Error(t, err)
		assert.True(t, prisma.IsRelationshipError(err))

		var ambiguous *prisma.AmbiguousSideError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, "Profile", ambiguous.TargetModel)
		assert.Equal(t, []string{"user"}, ambiguous.TargetFields)
		assert.Equal(t, "User", ambiguous.SourceModel)
		assert.Equal(t, "profile", ambiguous.SourceField)
	})

	t.Run("MultipleCandidates", func(t *testing.T) {
		s := store.New()
		user := structType(s, "User",
			store.Prop{Key: "id", Type: intType(s)},
			store.Prop{Key: "profile", Type: proxyTo(s, "Profile")},
		)
		structType(s, "Profile",
			store.Prop{Key: "id", Type: intType(s)},
			store.Prop{Key: "user", Type: proxyTo(s, "User")},
			store.Prop{Key: "user2", Type: proxyTo(s, "User")},
		)

		reg := prisma.NewRegistry(s)
		err := reg.Manage(user)
		require.Error(t, err)

		var ambiguous *prisma.AmbiguousSideError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, "Profile", ambiguous.TargetModel)
		assert.ElementsMatch(t, []string{"user", "user2"}, ambiguous.TargetFields)
	})
}

func TestConflictingAttributes(t *testing.T) {
	t.Parallel()

	for _, fkey := range []bool{true, false} {
		s := store.New()
		user := structType(s, "User",
			store.Prop{Key: "id", Type: intType(s)},
			store.Prop{Key: "profile", Type: optionalOf(s, prisma.LinkName(s, "Profile").Fkey(fkey).Build())},
		)
		structType(s, "Profile",
			store.Prop{Key: "id", Type: intType(s)},
			store.Prop{Key: "user", Type: optionalOf(s, prisma.LinkName(s, "User").Fkey(fkey).Build())},
		)

		reg := prisma.NewRegistry(s)
		err := reg.Manage(user)
		require.Error(t, err)

		var conflict *prisma.ConflictingAttributesError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "fkey", conflict.Attr)
		assert.Equal(t, "Profile", conflict.ModelA)
		assert.Equal(t, "user", conflict.FieldA)
		assert.Equal(t, "User", conflict.ModelB)
		assert.Equal(t, "profile", conflict.FieldB)
	}
}

func TestNoRelationshipTarget(t *testing.T) {
	t.Parallel()
	s := store.New()

	user := structType(s, "User",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "profile", Type: optionalOf(s, proxyTo(s, "Profile"))},
	)
	structType(s, "Profile",
		store.Prop{Key: "id", Type: intType(s)},
	)

	reg := prisma.NewRegistry(s)
	err := reg.Manage(user)
	require.Error(t, err)

	var missing *prisma.NoRelationshipTargetError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "User", missing.Model)
	assert.Equal(t, "profile", missing.Field)
	assert.Equal(t, "Profile", missing.Target)
}

func TestRelationshipNameConflict(t *testing.T) {
	t.Parallel()
	s := store.New()

	a := structType(s, "A",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "b", Type: optionalOf(s, prisma.LinkName(s, "B").Name("Shared").Build())},
	)
	structType(s, "B",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "a", Type: optionalOf(s, proxyTo(s, "A"))},
	)
	c := structType(s, "C",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "d", Type: optionalOf(s, prisma.LinkName(s, "D").Name("Shared").Build())},
	)
	structType(s, "D",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "c", Type: optionalOf(s, proxyTo(s, "C"))},
	)

	reg := prisma.NewRegistry(s)
	require.NoError(t, reg.Manage(a))

	err := reg.Manage(c)
	require.Error(t, err)

	var conflict *prisma.NameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Shared", conflict.Name)
}

func TestUnnamedModel(t *testing.T) {
	t.Parallel()
	s := store.New()

	anon := s.AddType(func(id store.TypeID) store.Type {
		return &store.Struct{}
	})

	reg := prisma.NewRegistry(s)
	err := reg.Manage(anon)
	require.Error(t, err)
	assert.True(t, prisma.IsRelationshipError(err))
}

func TestSideOfType(t *testing.T) {
	t.Parallel()
	s := store.New()

	postsWrapper := arrayOf(s, proxyTo(s, "Post"))
	user := structType(s, "User",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "posts", Type: postsWrapper},
	)
	structType(s, "Post",
		store.Prop{Key: "id", Type: intType(s)},
		store.Prop{Key: "author", Type: proxyTo(s, "User")},
	)

	reg := prisma.NewRegistry(s)
	require.NoError(t, reg.Manage(user))

	rel, side, ok := reg.SideOfType(postsWrapper)
	require.True(t, ok)
	assert.Equal(t, prisma.Left, side)
	assert.Equal(t, "posts", rel.Get(side).Field)
	assert.Equal(t, "author", rel.Get(side.Opposite()).Field)

	_, _, ok = reg.SideOfType(user)
	assert.False(t, ok)
}
