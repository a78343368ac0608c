package tagorg

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.senan.xyz/tagorg/fileutil"
	"go.senan.xyz/tagorg/musicindex"
)

// UnknownDir is the output bucket for files whose metadata wasn't enough
// to place them.
const UnknownDir = "unknown"

// Changes is the full plan for one run: directories to create, song
// operations to apply, and other files to relocate.
type Changes struct {
	Index          *musicindex.Index
	DirCreations   []DirCreation
	SongOperations []*SongOperation
	FileOperations []FileOperation
}

// Plan derives the canonical layout under outputDir and fills in the
// relocations needed to reach it. Pending tag updates take precedence
// over the values on disk, so a song is planned against the tags it will
// end up with. The index is already in natural path order, making the
// plan deterministic.
func Plan(idx *musicindex.Index, ops *Operations, outputDir string) *Changes {
	c := &Changes{Index: idx}
	c.planSongs(idx, ops, outputDir)
	c.planImages(idx, ops)
	c.planUnrecognized(idx, outputDir)

	c.SongOperations = ops.All()
	slices.SortFunc(c.SongOperations, func(a, b *SongOperation) int { return a.SongID - b.SongID })
	return c
}

func (c *Changes) IsEmpty() bool {
	return len(c.DirCreations) == 0 && len(c.SongOperations) == 0 && len(c.FileOperations) == 0
}

func (c *Changes) planSongs(idx *musicindex.Index, ops *Operations, outputDir string) {
	c.dirCreation(outputDir)

	claimed := map[string]struct{}{}
	for i := range idx.Songs {
		song := &idx.Songs[i]
		tu := &TagUpdate{}
		if op := ops.Get(song.ID); op != nil && op.Tag != nil {
			tu = op.Tag
		}

		releaseArtists := fileutil.SafePartDots(strings.Join(tu.ReleaseArtists.Or(song.ReleaseArtists), ", "))
		release := fileutil.SafePartDots(tu.Release.Or(song.Release))
		artists := fileutil.SafePart(strings.Join(tu.Artists.Or(song.Artists), ", "))
		title := fileutil.SafePart(tu.Title.Or(song.Title))

		artistDir := filepath.Join(outputDir, releaseArtists)
		c.dirCreation(artistDir)
		releaseDir := filepath.Join(artistDir, release)
		c.dirCreation(releaseDir)

		var name strings.Builder
		if tu.TotalDiscs.Or(song.TotalDiscs) > 1 {
			fmt.Fprintf(&name, "%d ", tu.DiscNumber.Or(song.DiscNumber))
		}
		fmt.Fprintf(&name, "%02d - %s - %s", tu.TrackNumber.Or(song.TrackNumber), artists, title)
		ext := filepath.Ext(song.Path)

		// two songs resolving to the same target must never overwrite
		// each other
		path := filepath.Join(releaseDir, name.String()+ext)
		for n := 2; ; n++ {
			if _, taken := claimed[path]; !taken {
				break
			}
			path = filepath.Join(releaseDir, fmt.Sprintf("%s (%d)%s", name.String(), n, ext))
		}
		claimed[path] = struct{}{}

		if path != song.Path {
			ops.Update(song.ID, func(op *SongOperation) { op.NewPath = path })
		}
	}
}

// planImages relocates a sidecar image only when every song sharing its
// directory is headed to the same new directory.
func (c *Changes) planImages(idx *musicindex.Index, ops *Operations) {
	for _, image := range idx.Images {
		dir := filepath.Dir(image)

		var newDir string
		var found, conflict bool
		for i := range idx.Songs {
			song := &idx.Songs[i]
			if filepath.Dir(song.Path) != dir {
				continue
			}
			songDir := filepath.Dir(newSongPath(song, ops))
			if !found {
				newDir, found = songDir, true
				continue
			}
			if songDir != newDir {
				conflict = true
				break
			}
		}
		if !found || conflict || newDir == dir {
			continue
		}
		c.FileOperations = append(c.FileOperations, FileOperation{
			OldPath: image,
			NewPath: filepath.Join(newDir, filepath.Base(image)),
		})
	}
}

func (c *Changes) planUnrecognized(idx *musicindex.Index, outputDir string) {
	if len(idx.Unrecognized) == 0 {
		return
	}
	unknownDir := filepath.Join(outputDir, UnknownDir)
	c.dirCreation(unknownDir)
	for _, p := range idx.Unrecognized {
		newPath := filepath.Join(unknownDir, filepath.Base(p))
		if newPath == p {
			continue
		}
		c.FileOperations = append(c.FileOperations, FileOperation{OldPath: p, NewPath: newPath})
	}
}

// dirCreation records path once, and not at all when it already exists
// on disk.
func (c *Changes) dirCreation(path string) {
	for _, d := range c.DirCreations {
		if d.Path == path {
			return
		}
	}
	if _, err := os.Stat(path); err == nil {
		return
	}
	c.DirCreations = append(c.DirCreations, DirCreation{Path: path})
}

func newSongPath(song *musicindex.Song, ops *Operations) string {
	if op := ops.Get(song.ID); op != nil && op.NewPath != "" {
		return op.NewPath
	}
	return song.Path
}
