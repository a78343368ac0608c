package tagorg

import (
	"io"
	"io/fs"
	"os"
)

// TagUpdate is the set of pending tag edits for one song. The zero value
// changes nothing.
type TagUpdate struct {
	TrackNumber Value[int]
	TotalTracks Value[int]
	DiscNumber  Value[int]
	TotalDiscs  Value[int]

	Artists        Value[[]string]
	ReleaseArtists Value[[]string]
	Release        Value[string]
	Title          Value[string]

	Artwork Value[[]byte]
}

// SongOperation accumulates everything pending for one song: tag edits,
// a permission fix, and a new location.
type SongOperation struct {
	SongID  int
	Tag     *TagUpdate
	Mode    fs.FileMode // non-zero: chmod the song to these bits
	NewPath string      // non-empty: relocate the song here
}

// Operations is the pending per-song operation set, keyed by song id so
// later stages fold their edits into earlier ones.
type Operations struct {
	byID  map[int]*SongOperation
	order []int
}

// Update applies f to the song's operation, creating it first if needed.
func (o *Operations) Update(id int, f func(*SongOperation)) {
	if o.byID == nil {
		o.byID = map[int]*SongOperation{}
	}
	op, ok := o.byID[id]
	if !ok {
		op = &SongOperation{SongID: id}
		o.byID[id] = op
		o.order = append(o.order, id)
	}
	f(op)
}

// UpdateTag is Update scoped to the song's tag edits.
func (o *Operations) UpdateTag(id int, f func(*TagUpdate)) {
	o.Update(id, func(op *SongOperation) {
		if op.Tag == nil {
			op.Tag = &TagUpdate{}
		}
		f(op.Tag)
	})
}

// Get returns the song's pending operation, or nil when it has none.
func (o *Operations) Get(id int) *SongOperation {
	return o.byID[id]
}

func (o *Operations) Len() int {
	return len(o.order)
}

// All returns every pending operation in insertion order.
func (o *Operations) All() []*SongOperation {
	ops := make([]*SongOperation, 0, len(o.order))
	for _, id := range o.order {
		ops = append(ops, o.byID[id])
	}
	return ops
}

type DirCreation struct {
	Path string
}

type FileOperation struct {
	OldPath string
	NewPath string
}

type DirDeletion struct {
	Path string
}

// FileSystemOperation relocates one file. ReadOnly implementations
// report what would happen without touching anything, and the executor
// skips tag and permission writes for them too.
type FileSystemOperation interface {
	Name() string
	ReadOnly() bool
	ProcessFile(src, dest string) error
}

type Move struct {
	DryRun bool
}

func (Move) Name() string     { return "move" }
func (m Move) ReadOnly() bool { return m.DryRun }
func (m Move) ProcessFile(src, dest string) error {
	if m.DryRun {
		return nil
	}
	return os.Rename(src, dest)
}

type Copy struct {
	DryRun bool
}

func (Copy) Name() string     { return "copy" }
func (c Copy) ReadOnly() bool { return c.DryRun }
func (c Copy) ProcessFile(src, dest string) error {
	if c.DryRun {
		return nil
	}
	return copyFile(src, dest)
}

func copyFile(src, dest string) error {
	srcf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcf.Close()

	info, err := srcf.Stat()
	if err != nil {
		return err
	}
	destf, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(destf, srcf); err != nil {
		destf.Close()
		return err
	}
	return destf.Close()
}
