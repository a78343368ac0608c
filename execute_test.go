package tagorg_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/tagorg"
	"go.senan.xyz/tagorg/musicindex"
)

type recordWriter struct {
	paths []string
	err   error
}

func (w *recordWriter) WriteUpdate(path string, _ *tagorg.TagUpdate) error {
	w.paths = append(w.paths, path)
	return w.err
}

func touch(t *testing.T, path string, mode fs.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), mode))
}

func TestExecuteSongMove(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src", "a.mp3")
	dest := filepath.Join(root, "dest", "a.mp3")
	touch(t, src, 0o600)
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))

	s := song(0, []string{"A"}, "R", "T")
	s.Path = src
	changes := &tagorg.Changes{
		Index: &musicindex.Index{Songs: []musicindex.Song{s}},
		SongOperations: []*tagorg.SongOperation{{
			SongID:  0,
			NewPath: dest,
			Tag:     &tagorg.TagUpdate{Release: tagorg.Update("R")},
			Mode:    0o755,
		}},
	}

	w := &recordWriter{}
	changes.ExecuteSongOperations(tagorg.Move{}, w, func(_ *tagorg.SongOperation, err error) {
		assert.NoError(t, err)
	})

	assert.NoFileExists(t, src)
	assert.FileExists(t, dest)
	// the tag rewrite happens on the final path, after the move
	assert.Equal(t, []string{dest}, w.paths)
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o755), info.Mode().Perm())
}

func TestExecuteSongCopy(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src", "a.mp3")
	dest := filepath.Join(root, "dest", "a.mp3")
	touch(t, src, 0o644)
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))

	s := song(0, []string{"A"}, "R", "T")
	s.Path = src
	changes := &tagorg.Changes{
		Index:          &musicindex.Index{Songs: []musicindex.Song{s}},
		SongOperations: []*tagorg.SongOperation{{SongID: 0, NewPath: dest}},
	}

	changes.ExecuteSongOperations(tagorg.Copy{}, &recordWriter{}, func(_ *tagorg.SongOperation, err error) {
		assert.NoError(t, err)
	})
	assert.FileExists(t, src)
	assert.FileExists(t, dest)
}

func TestExecuteDryRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "a.mp3")
	touch(t, src, 0o644)

	s := song(0, []string{"A"}, "R", "T")
	s.Path = src
	changes := &tagorg.Changes{
		Index:        &musicindex.Index{Songs: []musicindex.Song{s}},
		DirCreations: []tagorg.DirCreation{{Path: filepath.Join(root, "new")}},
		SongOperations: []*tagorg.SongOperation{{
			SongID:  0,
			NewPath: filepath.Join(root, "new", "a.mp3"),
			Tag:     &tagorg.TagUpdate{Release: tagorg.Update("R")},
		}},
	}

	op := tagorg.Move{DryRun: true}
	w := &recordWriter{}
	changes.ExecuteDirCreations(op, func(_ tagorg.DirCreation, err error) { assert.NoError(t, err) })
	changes.ExecuteSongOperations(op, w, func(_ *tagorg.SongOperation, err error) { assert.NoError(t, err) })

	assert.FileExists(t, src)
	assert.NoDirExists(t, filepath.Join(root, "new"))
	assert.Empty(t, w.paths)
}

func TestExecuteFailureIsolation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	changes := &tagorg.Changes{
		Index: &musicindex.Index{},
		DirCreations: []tagorg.DirCreation{
			{Path: filepath.Join(root, "missing", "parent", "dir")},
			{Path: filepath.Join(root, "ok")},
		},
	}

	var errs []error
	changes.ExecuteDirCreations(tagorg.Move{}, func(_ tagorg.DirCreation, err error) {
		errs = append(errs, err)
	})
	require.Len(t, errs, 2)
	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
	assert.DirExists(t, filepath.Join(root, "ok"))
}

func TestExecuteFileOperations(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src", "cover.jpg")
	dest := filepath.Join(root, "dest", "cover.jpg")
	touch(t, src, 0o644)
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))

	changes := &tagorg.Changes{
		Index:          &musicindex.Index{},
		FileOperations: []tagorg.FileOperation{{OldPath: src, NewPath: dest}},
	}
	changes.ExecuteFileOperations(tagorg.Move{}, func(_ tagorg.FileOperation, err error) {
		assert.NoError(t, err)
	})
	assert.NoFileExists(t, src)
	assert.FileExists(t, dest)
}
