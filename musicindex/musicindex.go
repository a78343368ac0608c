// Package musicindex builds an in-memory model of a music directory tree:
// songs with usable metadata, sidecar images, and files that couldn't be
// placed.
package musicindex

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Song is one indexed audio file. Optional numeric tags are zero when
// absent. Mode is zero when the file couldn't be stat'd.
type Song struct {
	ID   int
	Path string
	Mode fs.FileMode

	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int

	ReleaseArtists []string
	Artists        []string
	Release        string
	Title          string

	HasArtwork bool
}

// Index is a one-shot snapshot of everything found under Root. Song ids
// index into Songs and stay valid for the life of the snapshot.
type Index struct {
	Root         string
	Songs        []Song
	Images       []string
	Unrecognized []string
}

// Meta is one file's normalised tag record as read from disk, before the
// artist fallbacks are applied.
type Meta struct {
	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int

	Artists        []string
	ReleaseArtists []string
	Release        string
	Title          string

	HasArtwork bool
}

// Each artist list falls back to the other when its own tag is missing,
// so a file tagged only with a track artist still lands somewhere sane.
func (m *Meta) releaseArtists() []string {
	if len(m.ReleaseArtists) > 0 {
		return m.ReleaseArtists
	}
	return m.Artists
}

func (m *Meta) songArtists() []string {
	if len(m.Artists) > 0 {
		return m.Artists
	}
	return m.ReleaseArtists
}

// Reader extracts a Meta from one audio file.
type Reader interface {
	CanRead(absPath string) bool
	ReadMeta(absPath string) (Meta, error)
}

func IsImage(path string) bool {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".jpg", ".jpeg", ".bmp", ".gif":
		return true
	}
	return false
}
