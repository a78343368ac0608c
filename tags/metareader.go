package tags

import (
	"go.senan.xyz/tagorg/musicindex"
)

// MetaReader adapts this package to the indexer's reader interface.
type MetaReader struct{}

func (MetaReader) CanRead(absPath string) bool { return CanRead(absPath) }

func (MetaReader) ReadMeta(absPath string) (musicindex.Meta, error) {
	f, err := Read(absPath)
	if err != nil {
		return musicindex.Meta{}, err
	}
	defer f.Close()

	var m musicindex.Meta
	m.Artists = multiOr(f, Artists, Artist)
	m.ReleaseArtists = multiOr(f, AlbumArtists, AlbumArtist)
	m.Release = f.Read(Album)
	m.Title = f.Read(Title)

	track, pairTotal := f.ReadPairNum(TrackNumber)
	m.TrackNumber = track
	m.TotalTracks = f.ReadNum(TrackTotal)
	if m.TotalTracks == 0 {
		m.TotalTracks = pairTotal
	}
	disc, pairTotal := f.ReadPairNum(DiscNumber)
	m.DiscNumber = disc
	m.TotalDiscs = f.ReadNum(DiscTotal)
	if m.TotalDiscs == 0 {
		m.TotalDiscs = pairTotal
	}

	m.HasArtwork = f.HasImage()
	return m, nil
}

// multiOr prefers the multi-valued tag, falling back to the single
// valued one.
func multiOr(f *File, multi, single string) []string {
	if vs := f.ReadMulti(multi); len(vs) > 0 {
		return vs
	}
	if v := f.Read(single); v != "" {
		return []string{v}
	}
	return nil
}
