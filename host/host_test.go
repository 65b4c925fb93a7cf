package host_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/typegraph/host"
)

func TestOSGlob(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	files := []string{
		"queries/users.graphql",
		"queries/nested/posts.gql",
		"queries/readme.md",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("query { ok }"), 0o644))
	}

	h := host.NewOS(nil)
	matches, err := h.Glob(filepath.Join(dir, "queries", "**", "*"), []string{"graphql", "gql"})
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Contains(t, matches, filepath.Join(dir, "queries", "users.graphql"))
	assert.Contains(t, matches, filepath.Join(dir, "queries", "nested", "posts.gql"))
}

func TestOSReadWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "tg.json")

	h := host.NewOS(nil)
	require.NoError(t, h.WriteFile(path, []byte(`{"types":[]}`)))

	content, err := h.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"types":[]}`, string(content))

	_, err = h.ReadFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestOSLog(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.InfoLevel)
	h := host.NewOS(zap.New(core))

	h.Log("session started")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "session started", logs.All()[0].Message)
}
