package tags

import (
	"fmt"
	"strings"

	"go.senan.xyz/tagorg"
)

// Writer applies pending tag updates to files on disk, implementing the
// executor's TagWriter.
type Writer struct{}

func (Writer) WriteUpdate(path string, tu *tagorg.TagUpdate) error {
	f, err := Read(path)
	if err != nil {
		return fmt.Errorf("read tag file: %w", err)
	}

	applyMulti(f, tu.ReleaseArtists, AlbumArtist, AlbumArtists)
	applyMulti(f, tu.Artists, Artist, Artists)
	applyStr(f, tu.Release, Album)
	applyStr(f, tu.Title, Title)
	applyNum(f, tu.TrackNumber, TrackNumber)
	applyNum(f, tu.TotalTracks, TrackTotal)
	applyNum(f, tu.DiscNumber, DiscNumber)
	applyNum(f, tu.TotalDiscs, DiscTotal)

	if err := f.Save(); err != nil {
		f.Close()
		return fmt.Errorf("save: %w", err)
	}
	f.Close()

	// pictures are rewritten out of band, taglib's property map doesn't
	// carry them
	switch {
	case tu.Artwork.IsRemove():
		if err := StripArtwork(path); err != nil {
			return fmt.Errorf("strip artwork: %w", err)
		}
	case tu.Artwork.IsUpdate():
		data, _ := tu.Artwork.Get()
		if err := EmbedArtwork(path, data); err != nil {
			return fmt.Errorf("embed artwork: %w", err)
		}
	}
	return nil
}

func applyStr(f *File, v tagorg.Value[string], key string) {
	switch {
	case v.IsUpdate():
		val, _ := v.Get()
		f.Write(key, val)
	case v.IsRemove():
		f.Clear(key)
	}
}

func applyNum(f *File, v tagorg.Value[int], key string) {
	switch {
	case v.IsUpdate():
		val, _ := v.Get()
		f.WriteNum(key, val)
	case v.IsRemove():
		f.Clear(key)
	}
}

func applyMulti(f *File, v tagorg.Value[[]string], single, multi string) {
	switch {
	case v.IsUpdate():
		vals, _ := v.Get()
		f.Write(single, strings.Join(vals, ", "))
		f.Write(multi, vals...)
	case v.IsRemove():
		f.Clear(single)
		f.Clear(multi)
	}
}
