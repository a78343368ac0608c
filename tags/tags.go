// Package tags reads and writes audio file metadata through taglib,
// normalising known tag variants.
package tags

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sentriz/audiotags"
)

var ErrWrite = errors.New("error writing tags")

// https://picard-docs.musicbrainz.org/downloads/MusicBrainz_Picard_Tag_Map.html

const (
	Album        = "album"
	AlbumArtist  = "albumartist"  // alts "album_artist"
	AlbumArtists = "albumartists" // alts "album_artists"
	Date         = "date"         // alts "year"
	Genre        = "genre"

	Title       = "title"
	Artist      = "artist"
	Artists     = "artists"
	TrackNumber = "tracknumber" // alts "track" "trackc"
	TrackTotal  = "tracktotal"  // alts "totaltracks"
	DiscNumber  = "discnumber"  // alts "disc"
	DiscTotal   = "disctotal"   // alts "totaldiscs"
)

var alternatives = map[string]string{
	"album_artist":  AlbumArtist,
	"album_artists": AlbumArtists,
	"year":          Date,
	"track":         TrackNumber,
	"trackc":        TrackNumber,
	"totaltracks":   TrackTotal,
	"disc":          DiscNumber,
	"totaldiscs":    DiscTotal,
}

func CanRead(absPath string) bool {
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".mp3", ".flac", ".aac", ".m4a", ".m4b", ".ogg", ".opus", ".wma", ".wav", ".wv":
		return true
	}
	return false
}

type File struct {
	raw            map[string][]string
	properties     *audiotags.AudioProperties
	propertiesOnce sync.Once
	file           *audiotags.File
	path           string
	dirty          bool
}

func Read(path string) (*File, error) {
	f, err := audiotags.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	raw := f.ReadTags()
	normalise(raw, alternatives) // tag replacements, case normalisation, etc

	return &File{raw: raw, file: f, path: path}, nil
}

func (f *File) initProperties() {
	f.propertiesOnce.Do(func() {
		f.properties = f.file.ReadAudioProperties()
	})
}

func (f *File) Read(t string) string        { return first(f.raw[t]) }
func (f *File) ReadMulti(t string) []string { return f.raw[t] }
func (f *File) ReadNum(t string) int        { return anyNum(first(f.raw[t])) }
func (f *File) ReadTime(t string) time.Time { return anyTime(first(f.raw[t])) }

// ReadPairNum reads the "5/12" style of tag some encoders use for track
// and disc numbers, returning both halves.
func (f *File) ReadPairNum(t string) (int, int) {
	num, total, _ := strings.Cut(first(f.raw[t]), "/")
	return anyNum(num), anyNum(total)
}

func (f *File) ReadAll(fn func(k string, vs []string) bool) {
	keys := make([]string, 0, len(f.raw))
	for k := range f.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !fn(k, f.raw[k]) {
			break
		}
	}
}

func (f *File) Write(t string, v ...string) {
	v = deleteZero(v)
	if len(v) == 0 {
		f.Clear(t)
		return
	}
	f.raw[t] = v
	f.dirty = true
}
func (f *File) WriteNum(t string, v int) { f.Write(t, intStr(v)) }

func (f *File) Clear(t string) {
	if _, ok := f.raw[t]; ok {
		delete(f.raw, t)
		f.dirty = true
	}
}
func (f *File) ClearAll() {
	if len(f.raw) > 0 {
		clear(f.raw)
		f.dirty = true
	}
}

// HasImage reports whether the file carries any embedded picture.
func (f *File) HasImage() bool {
	img, err := f.file.ReadImage()
	return err == nil && img != nil
}

func (f *File) Length() time.Duration {
	f.initProperties()
	return time.Duration(f.properties.LengthMs) * time.Millisecond
}
func (f *File) Bitrate() int     { f.initProperties(); return f.properties.Bitrate }
func (f *File) SampleRate() int  { f.initProperties(); return f.properties.Samplerate }
func (f *File) NumChannels() int { f.initProperties(); return f.properties.Channels }

// Save writes the tags back out, avoiding the filesystem write when
// nothing changed.
func (f *File) Save() error {
	if !f.dirty {
		return nil
	}
	if !f.file.WriteTags(f.raw) {
		return ErrWrite
	}
	f.dirty = false
	return nil
}

func (f *File) Close() {
	f.file.Close()
}

func (f *File) Path() string {
	return f.path
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func intStr(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

var numExpr = regexp.MustCompile(`\d+`)

func anyNum(in string) int {
	match := numExpr.FindString(in)
	i, _ := strconv.Atoi(match)
	return i
}

func anyTime(str string) time.Time {
	t, _ := dateparse.ParseAny(str)
	return t
}

func normalise(raw map[string][]string, alternatives map[string]string) {
	for kbad, kgood := range alternatives {
		if _, ok := raw[kgood]; ok {
			continue
		}
		if v, ok := raw[kbad]; ok {
			raw[kgood] = v
			delete(raw, kbad)
			continue
		}
	}
}

func deleteZero(elms []string) []string {
	var out []string
	for _, e := range elms {
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
