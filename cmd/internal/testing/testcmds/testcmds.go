package testcmds

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"go.senan.xyz/tagorg/fileutil"
)

func Find() {
	maxDepth := flag.Int("max-depth", -1, "")
	flag.Parse()

	paths := flag.Args()
	sort.Strings(paths)

	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			path = filepath.Clean(path)
			if *maxDepth != -1 && countSep(path) > *maxDepth {
				return nil
			}
			fmt.Println(path)
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	}
}

func Touch() {
	flag.Parse()

	for _, p := range flag.Args() {
		if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
			log.Fatalf("mkdirall: %v", err)
		}
		if _, err := os.Create(p); err != nil {
			log.Fatalf("err creating: %v", err)
		}
	}
}

func Mode() {
	flag.Parse()

	pat := flag.Arg(0)
	paths := parsePattern(pat)
	if len(paths) == 0 {
		log.Fatalf("no paths to match pattern")
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			log.Fatalf("error stating: %v", err)
		}
		fmt.Printf("%04o\n", info.Mode().Perm())
	}
}

func Chmod() {
	flag.Parse()

	modeStr := flag.Arg(0)
	var mode fs.FileMode
	if _, err := fmt.Sscanf(modeStr, "%o", &mode); err != nil {
		log.Fatalf("bad mode %q: %v", modeStr, err)
	}
	for _, p := range flag.Args()[1:] {
		if err := os.Chmod(p, mode); err != nil {
			log.Fatalf("chmod: %v", err)
		}
	}
}

func parsePattern(pat string) []string {
	// assume the file exists if the pattern doesn't look like a glob
	if fileutil.GlobEscape(pat) == pat {
		return []string{pat}
	}
	paths, _ := filepath.Glob(pat)
	return paths
}

func countSep(path string) int {
	var n int
	for _, c := range path {
		if c == filepath.Separator {
			n++
		}
	}
	return n
}
