package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"

	"go.senan.xyz/tagorg"
	"go.senan.xyz/tagorg/musicindex"
)

var dmp = diffmatchpatch.New()

// dialogResolver settles conflicts by asking on the terminal. onPrompt
// runs once before the first question, so a long unattended run can
// notify that it's stuck waiting.
type dialogResolver struct {
	index    *musicindex.Index
	in       *bufio.Scanner
	out      io.Writer
	onPrompt func()
	once     sync.Once
}

var _ tagorg.Resolver = (*dialogResolver)(nil)

func (d *dialogResolver) ResolveReleaseArtists(a, b *tagorg.ArtistGroup) tagorg.Value[[]string] {
	d.prompt()

	fmt.Fprintln(d.out, "these release artists are named almost identically:")
	d.printArtistGroup(a)
	d.printArtistGroup(b)
	fmt.Fprintln(d.out, fmtDiff(joinNames(a.Names), joinNames(b.Names)))

	switch d.options(
		"don't do anything",
		fmt.Sprintf("use %q everywhere", joinNames(a.Names)),
		fmt.Sprintf("use %q everywhere", joinNames(b.Names)),
		"enter other names",
	) {
	case 1:
		return tagorg.Update(slices.Clone(a.Names))
	case 2:
		return tagorg.Update(slices.Clone(b.Names))
	case 3:
		return tagorg.Update(splitNames(d.line("new names, separated by \";\"")))
	}
	return tagorg.Unchanged[[]string]()
}

func (d *dialogResolver) ResolveReleaseName(artists *tagorg.ArtistGroup, a, b *tagorg.ReleaseGroup) tagorg.Value[string] {
	d.prompt()

	fmt.Fprintf(d.out, "%s has releases named almost identically:\n", joinNames(artists.Names))
	d.printReleaseGroup(a)
	d.printReleaseGroup(b)
	fmt.Fprintln(d.out, fmtDiff(a.Name, b.Name))

	switch d.options(
		"don't do anything",
		fmt.Sprintf("use %q everywhere", a.Name),
		fmt.Sprintf("use %q everywhere", b.Name),
		"enter another name",
	) {
	case 1:
		return tagorg.Update(a.Name)
	case 2:
		return tagorg.Update(b.Name)
	case 3:
		return tagorg.Update(strings.TrimSpace(d.line("new name")))
	}
	return tagorg.Unchanged[string]()
}

func (d *dialogResolver) ResolveTotalTracks(artists *tagorg.ArtistGroup, release *tagorg.ReleaseGroup, observed []tagorg.ObservedTotal) tagorg.Value[int] {
	return d.resolveTotal("total tracks", artists, release, observed)
}

func (d *dialogResolver) ResolveTotalDiscs(artists *tagorg.ArtistGroup, release *tagorg.ReleaseGroup, observed []tagorg.ObservedTotal) tagorg.Value[int] {
	return d.resolveTotal("total discs", artists, release, observed)
}

func (d *dialogResolver) resolveTotal(what string, artists *tagorg.ArtistGroup, release *tagorg.ReleaseGroup, observed []tagorg.ObservedTotal) tagorg.Value[int] {
	d.prompt()

	fmt.Fprintf(d.out, "%s / %s disagrees on %s:\n", joinNames(artists.Names), release.Name, what)

	opts := []string{"don't do anything"}
	for _, o := range observed {
		label := "none"
		if o.Total > 0 {
			label = strconv.Itoa(o.Total)
		}
		opts = append(opts, fmt.Sprintf("use %s (seen on %s)", label, d.sampleSongs(o.Songs)))
	}
	opts = append(opts, "remove the value", "enter another value")

	switch n := d.options(opts...); {
	case n == 0:
	case n <= len(observed):
		if t := observed[n-1].Total; t > 0 {
			return tagorg.Update(t)
		}
		return tagorg.Remove[int]()
	case n == len(observed)+1:
		return tagorg.Remove[int]()
	default:
		if t, err := strconv.Atoi(strings.TrimSpace(d.line("new value"))); err == nil && t > 0 {
			return tagorg.Update(t)
		}
	}
	return tagorg.Unchanged[int]()
}

func (d *dialogResolver) prompt() {
	d.once.Do(func() {
		if d.onPrompt != nil {
			d.onPrompt()
		}
	})
}

func (d *dialogResolver) printArtistGroup(g *tagorg.ArtistGroup) {
	fmt.Fprintf(d.out, "  %s\n", joinNames(g.Names))
	for _, r := range g.Releases {
		fmt.Fprintf(d.out, "    %s (%d songs)\n", r.Name, len(r.Songs))
	}
}

func (d *dialogResolver) printReleaseGroup(r *tagorg.ReleaseGroup) {
	fmt.Fprintf(d.out, "  %s (%d songs, eg %s)\n", r.Name, len(r.Songs), d.sampleSongs(r.Songs))
}

func (d *dialogResolver) sampleSongs(ids []int) string {
	var titles []string
	for _, id := range ids[:min(3, len(ids))] {
		titles = append(titles, d.index.Songs[id].Title)
	}
	if len(ids) > 3 {
		titles = append(titles, "…")
	}
	return strings.Join(titles, ", ")
}

// options prints a numbered menu and loops until a valid choice comes in.
func (d *dialogResolver) options(opts ...string) int {
	for i, o := range opts {
		fmt.Fprintf(d.out, "  [%d] %s\n", i, o)
	}
	for {
		line, ok := d.readLine("choice")
		if !ok {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 0 && n < len(opts) {
			return n
		}
		fmt.Fprintf(d.out, "enter a number between 0 and %d\n", len(opts)-1)
	}
}

func (d *dialogResolver) line(prompt string) string {
	line, _ := d.readLine(prompt)
	return line
}

func (d *dialogResolver) readLine(prompt string) (string, bool) {
	fmt.Fprintf(d.out, "%s > ", prompt)
	if !d.in.Scan() {
		return "", false
	}
	return d.in.Text(), true
}

func fmtDiff(a, b string) string {
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffPrettyText(diffs)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ";") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
