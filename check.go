package tagorg

import (
	"io/fs"
	"slices"
	"strings"

	"github.com/rainycape/unidecode"

	"go.senan.xyz/tagorg/musicindex"
)

// CanonicalMode is the permission set every indexed song should carry.
const CanonicalMode fs.FileMode = 0o755

// ArtistGroup clusters the releases credited to one exact list of
// release artists. Songs are referenced by id into the Index.
type ArtistGroup struct {
	Names    []string
	Releases []*ReleaseGroup
}

// ReleaseGroup is one release within an ArtistGroup.
type ReleaseGroup struct {
	Name  string
	Songs []int
}

// GroupIndex builds the release-artists → release → songs view from the
// index and any pending operations, so edits staged by an earlier check
// are visible to later ones. Grouping is by exact name.
func GroupIndex(idx *musicindex.Index, ops *Operations) []*ArtistGroup {
	var groups []*ArtistGroup
	for i := range idx.Songs {
		song := &idx.Songs[i]
		names, release := effectiveNames(song, ops.Get(song.ID))

		gi := slices.IndexFunc(groups, func(g *ArtistGroup) bool { return slices.Equal(g.Names, names) })
		if gi < 0 {
			gi = len(groups)
			groups = append(groups, &ArtistGroup{Names: slices.Clone(names)})
		}
		g := groups[gi]

		ri := slices.IndexFunc(g.Releases, func(r *ReleaseGroup) bool { return r.Name == release })
		if ri < 0 {
			ri = len(g.Releases)
			g.Releases = append(g.Releases, &ReleaseGroup{Name: release})
		}
		g.Releases[ri].Songs = append(g.Releases[ri].Songs, song.ID)
	}
	return groups
}

func effectiveNames(song *musicindex.Song, op *SongOperation) ([]string, string) {
	names, release := song.ReleaseArtists, song.Release
	if op != nil && op.Tag != nil {
		names = op.Tag.ReleaseArtists.Or(names)
		release = op.Tag.Release.Or(release)
	}
	return names, release
}

// ObservedTotal is one distinct total-tracks or total-discs value within
// a release, with the songs carrying it. Total is zero when the tag is
// absent.
type ObservedTotal struct {
	Total int
	Songs []int
}

// Resolver decides the conflicts the checks can't settle themselves.
// Front ends implement it interactively or from a resolutions file. An
// Unchanged return leaves both sides alone.
type Resolver interface {
	ResolveReleaseArtists(a, b *ArtistGroup) Value[[]string]
	ResolveReleaseName(artists *ArtistGroup, a, b *ReleaseGroup) Value[string]
	ResolveTotalTracks(artists *ArtistGroup, release *ReleaseGroup, observed []ObservedTotal) Value[int]
	ResolveTotalDiscs(artists *ArtistGroup, release *ReleaseGroup, observed []ObservedTotal) Value[int]
}

// Checker runs the consistency checks over an index, folding the
// resolver's decisions into ops.
type Checker struct {
	Resolver    Resolver
	KeepArtwork bool
}

func (c *Checker) Check(idx *musicindex.Index, ops *Operations) {
	c.checkReleaseArtists(idx, ops)
	c.checkReleaseNames(idx, ops)
	c.checkTotalTracks(idx, ops)
	c.checkTotalDiscs(idx, ops)
	c.checkModes(idx, ops)
	if !c.KeepArtwork {
		c.checkArtwork(idx, ops)
	}
}

// checkReleaseArtists finds artist groups whose name lists differ only
// in case or accents. Each unordered pair is visited once.
func (c *Checker) checkReleaseArtists(idx *musicindex.Index, ops *Operations) {
	groups := GroupIndex(idx, ops)
	for i := range groups {
		for j := i + 1; j < len(groups); j++ {
			a, b := groups[i], groups[j]
			if !namesCollide(a.Names, b.Names) {
				continue
			}
			switch v := c.Resolver.ResolveReleaseArtists(a, b); {
			case v.IsUpdate():
				names, _ := v.Get()
				for _, g := range []*ArtistGroup{a, b} {
					if slices.Equal(g.Names, names) {
						continue
					}
					for _, id := range groupSongs(g) {
						ops.UpdateTag(id, func(tu *TagUpdate) {
							tu.ReleaseArtists = Update(slices.Clone(names))
						})
					}
				}
			case v.IsRemove():
				for _, g := range []*ArtistGroup{a, b} {
					for _, id := range groupSongs(g) {
						ops.UpdateTag(id, func(tu *TagUpdate) {
							tu.ReleaseArtists = Remove[[]string]()
						})
					}
				}
			}
		}
	}
}

// checkReleaseNames finds releases within one artist group whose names
// differ only in case or accents.
func (c *Checker) checkReleaseNames(idx *musicindex.Index, ops *Operations) {
	for _, g := range GroupIndex(idx, ops) {
		for i := range g.Releases {
			for j := i + 1; j < len(g.Releases); j++ {
				a, b := g.Releases[i], g.Releases[j]
				if a.Name == b.Name || foldName(a.Name) != foldName(b.Name) {
					continue
				}
				switch v := c.Resolver.ResolveReleaseName(g, a, b); {
				case v.IsUpdate():
					name, _ := v.Get()
					for _, r := range []*ReleaseGroup{a, b} {
						if r.Name == name {
							continue
						}
						for _, id := range r.Songs {
							ops.UpdateTag(id, func(tu *TagUpdate) {
								tu.Release = Update(name)
							})
						}
					}
				case v.IsRemove():
					for _, r := range []*ReleaseGroup{a, b} {
						for _, id := range r.Songs {
							ops.UpdateTag(id, func(tu *TagUpdate) {
								tu.Release = Remove[string]()
							})
						}
					}
				}
			}
		}
	}
}

func (c *Checker) checkTotalTracks(idx *musicindex.Index, ops *Operations) {
	c.checkTotals(idx, ops,
		func(song *musicindex.Song, tu *TagUpdate) int {
			if tu != nil {
				return tu.TotalTracks.Or(song.TotalTracks)
			}
			return song.TotalTracks
		},
		func(g *ArtistGroup, r *ReleaseGroup, observed []ObservedTotal) Value[int] {
			return c.Resolver.ResolveTotalTracks(g, r, observed)
		},
		func(tu *TagUpdate, v Value[int]) { tu.TotalTracks = v },
	)
}

func (c *Checker) checkTotalDiscs(idx *musicindex.Index, ops *Operations) {
	c.checkTotals(idx, ops,
		func(song *musicindex.Song, tu *TagUpdate) int {
			if tu != nil {
				return tu.TotalDiscs.Or(song.TotalDiscs)
			}
			return song.TotalDiscs
		},
		func(g *ArtistGroup, r *ReleaseGroup, observed []ObservedTotal) Value[int] {
			return c.Resolver.ResolveTotalDiscs(g, r, observed)
		},
		func(tu *TagUpdate, v Value[int]) { tu.TotalDiscs = v },
	)
}

// checkTotals flags releases whose songs disagree on a per-release total
// and applies the resolver's decision to every song of the release.
func (c *Checker) checkTotals(idx *musicindex.Index, ops *Operations,
	read func(*musicindex.Song, *TagUpdate) int,
	resolve func(*ArtistGroup, *ReleaseGroup, []ObservedTotal) Value[int],
	write func(*TagUpdate, Value[int]),
) {
	for _, g := range GroupIndex(idx, ops) {
		for _, r := range g.Releases {
			var observed []ObservedTotal
			for _, id := range r.Songs {
				song := &idx.Songs[id]
				var tu *TagUpdate
				if op := ops.Get(id); op != nil {
					tu = op.Tag
				}
				total := read(song, tu)
				oi := slices.IndexFunc(observed, func(o ObservedTotal) bool { return o.Total == total })
				if oi < 0 {
					oi = len(observed)
					observed = append(observed, ObservedTotal{Total: total})
				}
				observed[oi].Songs = append(observed[oi].Songs, id)
			}
			if len(observed) < 2 {
				continue
			}
			v := resolve(g, r, observed)
			if v.IsUnchanged() {
				continue
			}
			for _, id := range r.Songs {
				ops.UpdateTag(id, func(tu *TagUpdate) { write(tu, v) })
			}
		}
	}
}

// checkModes stages a chmod for songs whose permission bits drifted from
// the canonical set. Files the indexer couldn't stat are left alone.
func (c *Checker) checkModes(idx *musicindex.Index, ops *Operations) {
	for i := range idx.Songs {
		song := &idx.Songs[i]
		if song.Mode == 0 || song.Mode.Perm() == CanonicalMode {
			continue
		}
		ops.Update(song.ID, func(op *SongOperation) { op.Mode = CanonicalMode })
	}
}

func (c *Checker) checkArtwork(idx *musicindex.Index, ops *Operations) {
	for i := range idx.Songs {
		song := &idx.Songs[i]
		if !song.HasArtwork {
			continue
		}
		ops.UpdateTag(song.ID, func(tu *TagUpdate) { tu.Artwork = Remove[[]byte]() })
	}
}

// namesCollide reports whether two distinct name lists are equal after
// folding. Grouping is by exact name, so fold-equal lists on different
// groups always mean an inconsistency.
func namesCollide(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if foldName(a[i]) != foldName(b[i]) {
			return false
		}
	}
	return true
}

func foldName(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}

func groupSongs(g *ArtistGroup) []int {
	var ids []int
	for _, r := range g.Releases {
		ids = append(ids, r.Songs...)
	}
	return ids
}
