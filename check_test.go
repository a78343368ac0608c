package tagorg_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/tagorg"
	"go.senan.xyz/tagorg/musicindex"
)

// stubResolver returns canned decisions and counts how often each
// conflict class was raised.
type stubResolver struct {
	artists      tagorg.Value[[]string]
	releaseName  tagorg.Value[string]
	totalTracks  tagorg.Value[int]
	totalDiscs   tagorg.Value[int]
	artistCalls  int
	releaseCalls int
	trackCalls   int
	discCalls    int

	observedTracks []tagorg.ObservedTotal
}

func (r *stubResolver) ResolveReleaseArtists(a, b *tagorg.ArtistGroup) tagorg.Value[[]string] {
	r.artistCalls++
	return r.artists
}

func (r *stubResolver) ResolveReleaseName(_ *tagorg.ArtistGroup, a, b *tagorg.ReleaseGroup) tagorg.Value[string] {
	r.releaseCalls++
	return r.releaseName
}

func (r *stubResolver) ResolveTotalTracks(_ *tagorg.ArtistGroup, _ *tagorg.ReleaseGroup, observed []tagorg.ObservedTotal) tagorg.Value[int] {
	r.trackCalls++
	r.observedTracks = observed
	return r.totalTracks
}

func (r *stubResolver) ResolveTotalDiscs(_ *tagorg.ArtistGroup, _ *tagorg.ReleaseGroup, observed []tagorg.ObservedTotal) tagorg.Value[int] {
	r.discCalls++
	return r.totalDiscs
}

func song(id int, artists []string, release, title string) musicindex.Song {
	return musicindex.Song{
		ID:             id,
		Path:           "/m/" + title + ".mp3",
		Mode:           0o755,
		ReleaseArtists: artists,
		Artists:        artists,
		Release:        release,
		Title:          title,
	}
}

func TestGroupIndex(t *testing.T) {
	t.Parallel()

	idx := &musicindex.Index{Songs: []musicindex.Song{
		song(0, []string{"A"}, "R1", "s0"),
		song(1, []string{"A"}, "R1", "s1"),
		song(2, []string{"A"}, "R2", "s2"),
		song(3, []string{"B"}, "R1", "s3"),
	}}

	var ops tagorg.Operations
	groups := tagorg.GroupIndex(idx, &ops)
	require.Len(t, groups, 2)
	require.Len(t, groups[0].Releases, 2)
	assert.Equal(t, []int{0, 1}, groups[0].Releases[0].Songs)

	// a staged release artist edit moves the song between groups
	ops.UpdateTag(3, func(tu *tagorg.TagUpdate) {
		tu.ReleaseArtists = tagorg.Update([]string{"A"})
	})
	groups = tagorg.GroupIndex(idx, &ops)
	require.Len(t, groups, 1)
}

func TestCheckReleaseArtistsUnchanged(t *testing.T) {
	t.Parallel()

	idx := &musicindex.Index{Songs: []musicindex.Song{
		song(0, []string{"Artist A"}, "R", "s0"),
		song(1, []string{"artist a"}, "R", "s1"),
	}}

	r := &stubResolver{}
	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: r, KeepArtwork: true}
	c.Check(idx, &ops)

	// the near-identical pair is raised exactly once, and leaving it
	// unchanged stages nothing
	assert.Equal(t, 1, r.artistCalls)
	assert.Equal(t, 0, ops.Len())
}

func TestCheckReleaseArtistsUpdate(t *testing.T) {
	t.Parallel()

	idx := &musicindex.Index{Songs: []musicindex.Song{
		song(0, []string{"Artist A"}, "R", "s0"),
		song(1, []string{"artist a"}, "R", "s1"),
		song(2, []string{"artist a"}, "R2", "s2"),
	}}

	r := &stubResolver{artists: tagorg.Update([]string{"Artist A"})}
	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: r, KeepArtwork: true}
	c.Check(idx, &ops)

	// only the songs of the differing group get an edit
	assert.Nil(t, ops.Get(0))
	for _, id := range []int{1, 2} {
		op := ops.Get(id)
		require.NotNil(t, op)
		names, ok := op.Tag.ReleaseArtists.Get()
		require.True(t, ok)
		assert.Equal(t, []string{"Artist A"}, names)
	}
}

func TestCheckReleaseArtistsRemove(t *testing.T) {
	t.Parallel()

	idx := &musicindex.Index{Songs: []musicindex.Song{
		song(0, []string{"Artist A"}, "R", "s0"),
		song(1, []string{"artist a"}, "R", "s1"),
	}}

	r := &stubResolver{artists: tagorg.Remove[[]string]()}
	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: r, KeepArtwork: true}
	c.Check(idx, &ops)

	for _, id := range []int{0, 1} {
		op := ops.Get(id)
		require.NotNil(t, op)
		assert.True(t, op.Tag.ReleaseArtists.IsRemove())
	}
}

func TestCheckAccentFolding(t *testing.T) {
	t.Parallel()

	idx := &musicindex.Index{Songs: []musicindex.Song{
		song(0, []string{"Rähinä"}, "R", "s0"),
		song(1, []string{"Rahina"}, "R", "s1"),
	}}

	r := &stubResolver{}
	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: r, KeepArtwork: true}
	c.Check(idx, &ops)
	assert.Equal(t, 1, r.artistCalls)
}

func TestCheckReleaseNames(t *testing.T) {
	t.Parallel()

	idx := &musicindex.Index{Songs: []musicindex.Song{
		song(0, []string{"A"}, "Album X", "s0"),
		song(1, []string{"A"}, "album x", "s1"),
		song(2, []string{"A"}, "Other", "s2"),
	}}

	r := &stubResolver{releaseName: tagorg.Update("Album X")}
	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: r, KeepArtwork: true}
	c.Check(idx, &ops)

	assert.Equal(t, 1, r.releaseCalls)
	assert.Nil(t, ops.Get(0))
	assert.Nil(t, ops.Get(2))
	op := ops.Get(1)
	require.NotNil(t, op)
	name, ok := op.Tag.Release.Get()
	require.True(t, ok)
	assert.Equal(t, "Album X", name)
}

func TestCheckTotalTracks(t *testing.T) {
	t.Parallel()

	s0 := song(0, []string{"A"}, "R", "s0")
	s0.TotalTracks = 10
	s1 := song(1, []string{"A"}, "R", "s1")
	s1.TotalTracks = 12
	s2 := song(2, []string{"A"}, "R", "s2")
	s2.TotalTracks = 10
	idx := &musicindex.Index{Songs: []musicindex.Song{s0, s1, s2}}

	r := &stubResolver{totalTracks: tagorg.Update(12)}
	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: r, KeepArtwork: true}
	c.Check(idx, &ops)

	assert.Equal(t, 1, r.trackCalls)
	require.Len(t, r.observedTracks, 2)
	assert.Equal(t, 10, r.observedTracks[0].Total)
	assert.Equal(t, []int{0, 2}, r.observedTracks[0].Songs)
	assert.Equal(t, 12, r.observedTracks[1].Total)

	// the decision lands on every song of the release
	for id := range 3 {
		op := ops.Get(id)
		require.NotNil(t, op)
		total, ok := op.Tag.TotalTracks.Get()
		require.True(t, ok)
		assert.Equal(t, 12, total)
	}
}

func TestCheckTotalTracksAgree(t *testing.T) {
	t.Parallel()

	s0 := song(0, []string{"A"}, "R", "s0")
	s0.TotalTracks = 10
	s1 := song(1, []string{"A"}, "R", "s1")
	s1.TotalTracks = 10
	idx := &musicindex.Index{Songs: []musicindex.Song{s0, s1}}

	r := &stubResolver{}
	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: r, KeepArtwork: true}
	c.Check(idx, &ops)
	assert.Equal(t, 0, r.trackCalls)
}

func TestCheckModes(t *testing.T) {
	t.Parallel()

	drifted := song(0, []string{"A"}, "R", "s0")
	drifted.Mode = 0o644
	canonical := song(1, []string{"A"}, "R", "s1")
	unknown := song(2, []string{"A"}, "R", "s2")
	unknown.Mode = 0
	idx := &musicindex.Index{Songs: []musicindex.Song{drifted, canonical, unknown}}

	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: &stubResolver{}, KeepArtwork: true}
	c.Check(idx, &ops)

	op := ops.Get(0)
	require.NotNil(t, op)
	assert.Equal(t, fs.FileMode(0o755), op.Mode)
	assert.Nil(t, ops.Get(1))
	assert.Nil(t, ops.Get(2))
}

func TestCheckArtwork(t *testing.T) {
	t.Parallel()

	withArt := song(0, []string{"A"}, "R", "s0")
	withArt.HasArtwork = true
	idx := &musicindex.Index{Songs: []musicindex.Song{withArt}}

	var ops tagorg.Operations
	c := tagorg.Checker{Resolver: &stubResolver{}}
	c.Check(idx, &ops)
	op := ops.Get(0)
	require.NotNil(t, op)
	assert.True(t, op.Tag.Artwork.IsRemove())

	// unless artwork is kept on purpose
	var kept tagorg.Operations
	ck := tagorg.Checker{Resolver: &stubResolver{}, KeepArtwork: true}
	ck.Check(idx, &kept)
	assert.Equal(t, 0, kept.Len())
}
