package tagorg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.senan.xyz/tagorg"
)

func TestValueStates(t *testing.T) {
	t.Parallel()

	var unchanged tagorg.Value[string]
	assert.True(t, unchanged.IsUnchanged())
	assert.False(t, unchanged.IsUpdate())
	assert.False(t, unchanged.IsRemove())

	update := tagorg.Update("x")
	v, ok := update.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.True(t, update.IsUpdate())

	remove := tagorg.Remove[string]()
	_, ok = remove.Get()
	assert.False(t, ok)
	assert.True(t, remove.IsRemove())
	assert.False(t, remove.IsUnchanged())
}

func TestValueOr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "new", tagorg.Update("new").Or("old"))
	assert.Equal(t, "old", tagorg.Unchanged[string]().Or("old"))
	// a removal clears the tag but paths still derive from the old value
	assert.Equal(t, "old", tagorg.Remove[string]().Or("old"))
}

func TestOperationsMerge(t *testing.T) {
	t.Parallel()

	var ops tagorg.Operations
	ops.UpdateTag(3, func(tu *tagorg.TagUpdate) { tu.Release = tagorg.Update("R") })
	ops.UpdateTag(3, func(tu *tagorg.TagUpdate) { tu.TotalTracks = tagorg.Update(10) })
	ops.Update(3, func(op *tagorg.SongOperation) { op.NewPath = "/x" })

	assert.Equal(t, 1, ops.Len())
	op := ops.Get(3)
	assert.Equal(t, "/x", op.NewPath)
	assert.True(t, op.Tag.Release.IsUpdate())
	assert.True(t, op.Tag.TotalTracks.IsUpdate())
	assert.Nil(t, ops.Get(4))
}
