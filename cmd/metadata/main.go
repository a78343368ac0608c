// Command metadata dumps, writes, and clears raw tags on audio files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.senan.xyz/tagorg/tags"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage:\n")
		fmt.Fprintf(os.Stderr, "  $ %s read  [<tag>...] -- <path>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  $ %s write [<tag> <value>... ,]... -- <path>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  $ %s clear [<tag>...] -- <path>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  $ %s props -- <path>...\n", os.Args[0])
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "paths can be files or directories, directories are walked\n")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "examples:\n")
		fmt.Fprintf(os.Stderr, "  $ %s read -- song.mp3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  $ %s read albumartists album -- album/\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  $ %s write tracknumber 4 , title \"Interlude\" -- song.mp3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  $ %s clear albumartist -- album/\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  $ %s props -- collection/\n", os.Args[0])
	}
	flag.Parse()

	command := flag.Arg(0)

	switch command {
	case "read", "write", "clear", "props":
	default:
		flag.Usage()
		os.Exit(1)
	}

	rest := flag.Args()[1:]

	var args, paths []string
	if i := slices.Index(rest, "--"); i >= 0 {
		args, paths = rest[:i], rest[i+1:]
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "no paths provided\n")
		fmt.Fprintln(os.Stderr)
		flag.Usage()
		os.Exit(1)
	}

	var err error
	switch command {
	case "read":
		keys := keySet(args)
		err = forEachFile(paths, func(p string) error {
			return read(p, keys)
		})
	case "write":
		raw := tagArgs(args)
		err = forEachFile(paths, func(p string) error {
			return write(p, raw)
		})
	case "clear":
		keys := keySet(args)
		err = forEachFile(paths, func(p string) error {
			return clear(p, keys)
		})
	case "props":
		err = forEachFile(paths, props)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func read(path string, keys map[string]struct{}) error {
	file, err := tags.Read(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	defer file.Close()
	file.ReadAll(func(k string, vs []string) bool {
		if len(keys) > 0 {
			if _, ok := keys[k]; !ok {
				return true
			}
		}
		for _, v := range vs {
			fmt.Printf("%s\t%s\t%s\n", path, k, v)
		}
		return true
	})
	return nil
}

func write(path string, raw map[string][]string) error {
	file, err := tags.Read(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	defer file.Close()
	for k, vs := range raw {
		file.Write(k, vs...)
	}
	if err := file.Save(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func clear(path string, keys map[string]struct{}) error {
	file, err := tags.Read(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	defer file.Close()
	if len(keys) == 0 {
		file.ClearAll()
	} else {
		for k := range keys {
			file.Clear(k)
		}
	}
	if err := file.Save(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func props(path string) error {
	file, err := tags.Read(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	defer file.Close()

	var year string
	if t := file.ReadTime(tags.Date); !t.IsZero() {
		year = fmt.Sprint(t.Year())
	}
	fmt.Printf("%s\t%s\t%d kbps\t%d Hz\t%s\n",
		path, file.Length(), file.Bitrate(), file.SampleRate(), year)
	return nil
}

func keySet(args []string) map[string]struct{} {
	keys := map[string]struct{}{}
	for _, k := range args {
		keys[k] = struct{}{}
	}
	return keys
}

// tagArgs parses "tag v1 v2 , tag v1" into a tag → values map.
func tagArgs(args []string) map[string][]string {
	r := make(map[string][]string)
	var k string
	for _, v := range args {
		switch {
		case v == ",":
			k = ""
		case k == "":
			k = v
			r[k] = nil
		default:
			r[k] = append(r[k], v)
		}
	}
	return r
}

// forEachFile calls f for every named file, walking directories down to
// their readable audio files. Per-file errors are collected so one bad
// file doesn't stop the rest, anything else aborts.
func forEachFile(paths []string, f func(p string) error) error {
	var fileErrs []error
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := f(p); err != nil {
				fileErrs = append(fileErrs, err)
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			switch {
			case err != nil:
				return err
			case !d.Type().IsRegular(), !tags.CanRead(path):
				return nil
			}
			if err := f(path); err != nil {
				fileErrs = append(fileErrs, err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("walk: %w", err)
		}
	}
	return errors.Join(fileErrs...)
}
