// Package resolvefile implements a resolver that reads predetermined
// conflict decisions from a YAML file, for non-interactive runs.
// Conflicts with no matching decision are left unchanged.
package resolvefile

import (
	"fmt"
	"os"
	"strings"

	"github.com/rainycape/unidecode"
	"gopkg.in/yaml.v2"

	"go.senan.xyz/tagorg"
)

type Resolver struct {
	file File
}

// File is the on-disk shape of a resolutions file. Match keys are
// compared case- and accent-insensitively.
type File struct {
	ReleaseArtists []NameDecision  `yaml:"release-artists"`
	Releases       []NameDecision  `yaml:"releases"`
	TotalTracks    []TotalDecision `yaml:"total-tracks"`
	TotalDiscs     []TotalDecision `yaml:"total-discs"`
}

type NameDecision struct {
	Match  string `yaml:"match"`
	Use    string `yaml:"use"`
	Remove bool   `yaml:"remove"`
}

type TotalDecision struct {
	Release string `yaml:"release"`
	Use     int    `yaml:"use"`
	Remove  bool   `yaml:"remove"`
}

func Parse(path string) (*Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var r Resolver
	if err := yaml.NewDecoder(f).Decode(&r.file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &r, nil
}

var _ tagorg.Resolver = (*Resolver)(nil)

func (r *Resolver) ResolveReleaseArtists(a, b *tagorg.ArtistGroup) tagorg.Value[[]string] {
	// the two groups fold to the same key, so one match covers both
	d, ok := findName(r.file.ReleaseArtists, strings.Join(a.Names, ", "))
	if !ok {
		return tagorg.Unchanged[[]string]()
	}
	if d.Remove {
		return tagorg.Remove[[]string]()
	}
	return tagorg.Update(splitNames(d.Use))
}

func (r *Resolver) ResolveReleaseName(_ *tagorg.ArtistGroup, a, _ *tagorg.ReleaseGroup) tagorg.Value[string] {
	d, ok := findName(r.file.Releases, a.Name)
	if !ok {
		return tagorg.Unchanged[string]()
	}
	if d.Remove {
		return tagorg.Remove[string]()
	}
	return tagorg.Update(d.Use)
}

func (r *Resolver) ResolveTotalTracks(_ *tagorg.ArtistGroup, release *tagorg.ReleaseGroup, _ []tagorg.ObservedTotal) tagorg.Value[int] {
	return findTotal(r.file.TotalTracks, release.Name)
}

func (r *Resolver) ResolveTotalDiscs(_ *tagorg.ArtistGroup, release *tagorg.ReleaseGroup, _ []tagorg.ObservedTotal) tagorg.Value[int] {
	return findTotal(r.file.TotalDiscs, release.Name)
}

func findName(decisions []NameDecision, name string) (NameDecision, bool) {
	for _, d := range decisions {
		if fold(d.Match) == fold(name) {
			return d, true
		}
	}
	return NameDecision{}, false
}

func findTotal(decisions []TotalDecision, release string) tagorg.Value[int] {
	for _, d := range decisions {
		if fold(d.Release) != fold(release) {
			continue
		}
		if d.Remove {
			return tagorg.Remove[int]()
		}
		return tagorg.Update(d.Use)
	}
	return tagorg.Unchanged[int]()
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

func fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}
