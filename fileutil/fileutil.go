package fileutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

func GlobEscape(path string) string {
	var r strings.Builder
	for _, c := range path {
		switch c {
		case '*', '?', '[':
			r.WriteRune('[')
			r.WriteRune(c)
			r.WriteRune(']')
		default:
			r.WriteRune(c)
		}
	}
	return r.String()
}

func GlobBase(dir, pattern string) ([]string, error) {
	return filepath.Glob(filepath.Join(GlobEscape(dir), pattern))
}

var safePartReplacer = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "", "/", "", `\`, "", "|", "", "?", "", "*", "", "\x00", "",
)

// SafePart makes a string usable as a single path component, stripping
// the characters no common filesystem accepts.
func SafePart(part string) string {
	part = norm.NFC.String(part)
	part = safePartReplacer.Replace(part)
	part = strings.TrimSpace(part)
	return part
}

// SafePartDots additionally replaces a leading or trailing period, so a
// directory component can't come out hidden or trip trailing-dot
// filesystems.
func SafePartDots(part string) string {
	part = SafePart(part)
	if strings.HasPrefix(part, ".") {
		part = "_" + part[1:]
	}
	if strings.HasSuffix(part, ".") {
		part = part[:len(part)-1] + "_"
	}
	return part
}
