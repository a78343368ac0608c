package tagorg

import (
	"fmt"
	"os"
)

// TagWriter applies a pending tag update to the file at path.
type TagWriter interface {
	WriteUpdate(path string, tu *TagUpdate) error
}

// ExecuteDirCreations creates the planned directories in recorded order,
// parents before children. Each outcome is reported independently, a
// failed parent doesn't stop the rest.
func (c *Changes) ExecuteDirCreations(op FileSystemOperation, f func(DirCreation, error)) {
	for _, d := range c.DirCreations {
		var err error
		if !op.ReadOnly() {
			err = os.Mkdir(d.Path, 0o755)
		}
		f(d, err)
	}
}

// ExecuteSongOperations relocates each song, then rewrites its tags and
// permissions on the final path. A failed relocation leaves the song
// untouched where it is.
func (c *Changes) ExecuteSongOperations(op FileSystemOperation, tw TagWriter, f func(*SongOperation, error)) {
	for _, so := range c.SongOperations {
		f(so, c.executeSongOperation(so, op, tw))
	}
}

func (c *Changes) executeSongOperation(so *SongOperation, op FileSystemOperation, tw TagWriter) error {
	song := &c.Index.Songs[so.SongID]

	path := song.Path
	if so.NewPath != "" {
		if err := op.ProcessFile(path, so.NewPath); err != nil {
			return fmt.Errorf("%s to %q: %w", op.Name(), so.NewPath, err)
		}
		path = so.NewPath
	}
	if op.ReadOnly() {
		return nil
	}
	if so.Tag != nil {
		if err := tw.WriteUpdate(path, so.Tag); err != nil {
			return fmt.Errorf("update tags: %w", err)
		}
	}
	if so.Mode != 0 {
		if err := os.Chmod(path, so.Mode.Perm()); err != nil {
			return fmt.Errorf("chmod: %w", err)
		}
	}
	return nil
}

// ExecuteFileOperations relocates the non-song files, images and the
// unknown bucket.
func (c *Changes) ExecuteFileOperations(op FileSystemOperation, f func(FileOperation, error)) {
	for _, fo := range c.FileOperations {
		err := op.ProcessFile(fo.OldPath, fo.NewPath)
		if err != nil {
			err = fmt.Errorf("%s to %q: %w", op.Name(), fo.NewPath, err)
		}
		f(fo, err)
	}
}
