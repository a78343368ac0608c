package tagorg

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Cleanup finds and removes directories left without any files after a
// reorganisation. A directory is deletable when its whole subtree holds
// no files, deletions are recorded children before parents so each
// os.Remove acts on an already emptied directory.
type Cleanup struct {
	Root      string
	Deletions []DirDeletion
}

// Check walks Root and records every deletable directory. onVisit is
// called once per directory considered, read errors make a directory
// non-deletable.
func (c *Cleanup) Check(onVisit func(dir string)) {
	entries, err := os.ReadDir(c.Root)
	if err != nil {
		return
	}
	for _, ent := range entries {
		c.emptyDir(filepath.Join(c.Root, ent.Name()), ent, onVisit)
	}
}

func (c *Cleanup) emptyDir(path string, ent fs.DirEntry, onVisit func(string)) bool {
	if !ent.IsDir() {
		return false
	}
	if onVisit != nil {
		onVisit(path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	empty := true
	for _, e := range entries {
		// keep going even under a non-empty parent, deeper empty
		// directories are still deletable on their own
		if !c.emptyDir(filepath.Join(path, e.Name()), e, onVisit) {
			empty = false
		}
	}
	if !empty {
		return false
	}
	c.Deletions = append(c.Deletions, DirDeletion{Path: path})
	return true
}

// Execute removes the recorded directories, deepest first, reporting
// each outcome independently.
func (c *Cleanup) Execute(f func(DirDeletion, error)) {
	for _, d := range c.Deletions {
		f(d, os.Remove(d.Path))
	}
}
