package tagorg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/tagorg"
)

func TestCleanup(t *testing.T) {
	t.Parallel()

	// d holds a file and an empty subdir e. the file keeps d alive but e
	// is deletable on its own
	root := t.TempDir()
	d := filepath.Join(root, "d")
	e := filepath.Join(d, "e")
	f := filepath.Join(d, "f.txt")
	require.NoError(t, os.MkdirAll(e, 0o755))
	require.NoError(t, os.WriteFile(f, nil, 0o644))

	c := tagorg.Cleanup{Root: root}
	c.Check(nil)
	require.Len(t, c.Deletions, 1)
	assert.Equal(t, e, c.Deletions[0].Path)

	// with the file gone, e and then d go in one pass, children first
	require.NoError(t, os.Remove(f))
	c = tagorg.Cleanup{Root: root}
	c.Check(nil)
	require.Len(t, c.Deletions, 2)
	assert.Equal(t, e, c.Deletions[0].Path)
	assert.Equal(t, d, c.Deletions[1].Path)

	c.Execute(func(_ tagorg.DirDeletion, err error) { assert.NoError(t, err) })
	assert.NoDirExists(t, d)
}

func TestCleanupVisits(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c"), 0o755))

	var visited []string
	c := tagorg.Cleanup{Root: root}
	c.Check(func(dir string) { visited = append(visited, dir) })
	assert.Len(t, visited, 3)
}

func TestCleanupLeavesFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(deep, "x.mp3"), nil, 0o644))

	c := tagorg.Cleanup{Root: root}
	c.Check(nil)
	assert.Empty(t, c.Deletions)
}
