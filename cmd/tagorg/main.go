// Command tagorg reorganises a music collection into a canonical
// artist/release layout derived from its tags, fixing inconsistent
// names, permissions and embedded artwork along the way.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.senan.xyz/table/table"

	"go.senan.xyz/tagorg"
	"go.senan.xyz/tagorg/cmd/internal/cmds"
	"go.senan.xyz/tagorg/hook"
	"go.senan.xyz/tagorg/musicindex"
	"go.senan.xyz/tagorg/notifications"
	"go.senan.xyz/tagorg/resolvefile"
	"go.senan.xyz/tagorg/tags"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage:\n")
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [options] -music-dir <dir>\n\n", flag.CommandLine.Name())
		fmt.Fprintf(flag.CommandLine.Output(), "options:\n")
		flag.PrintDefaults()
	}
}

func main() {
	exit := cmds.Logging()
	defer exit()

	cfg := cmds.FlagConfig()
	var (
		musicDir    = flag.String("music-dir", "", "directory searched for music files")
		copyFiles   = flag.Bool("copy", false, "copy files instead of moving them")
		yes         = flag.Bool("yes", false, "apply changes without confirming")
		dryRun      = flag.Bool("dry-run", false, "report changes without touching the filesystem")
		verbose     = flag.Bool("verbose", false, "print every file and operation")
		resolutions = flag.String("resolutions", "", "yaml file of predetermined conflict decisions")
	)
	cmds.FlagParse()

	if *musicDir == "" {
		slog.Error("no music dir provided")
		return
	}
	root, err := filepath.Abs(*musicDir)
	if err != nil {
		slog.Error("make music dir absolute", "err", err)
		return
	}
	outputDir := root
	if cfg.OutputDir != "" {
		if outputDir, err = filepath.Abs(cfg.OutputDir); err != nil {
			slog.Error("make output dir absolute", "err", err)
			return
		}
	}

	ctx := context.Background()
	pr := newProgress(os.Stdout, *verbose)

	indexer := musicindex.Indexer{
		TagReader: tags.MetaReader{},
		OnFile:    func(path string) { pr.Linef("indexing %s", path) },
	}
	idx, err := indexer.Index(root)
	if err != nil {
		slog.Error("index music dir", "err", err)
		return
	}
	pr.Done()
	slog.Info("indexed", "songs", len(idx.Songs), "images", len(idx.Images), "unrecognised", len(idx.Unrecognized))

	var resolver tagorg.Resolver
	if *resolutions != "" {
		if resolver, err = resolvefile.Parse(*resolutions); err != nil {
			slog.Error("parse resolutions", "err", err)
			return
		}
	} else {
		resolver = &dialogResolver{
			index:    idx,
			in:       bufio.NewScanner(os.Stdin),
			out:      os.Stdout,
			onPrompt: func() { cfg.Notifications.Send(ctx, notifications.NeedsInput, "waiting for conflict decisions") },
		}
	}

	var ops tagorg.Operations
	checker := tagorg.Checker{Resolver: resolver, KeepArtwork: cfg.KeepArtwork}
	checker.Check(idx, &ops)

	changes := tagorg.Plan(idx, &ops, outputDir)
	if changes.IsEmpty() {
		slog.Info("nothing to do")
		cfg.Notifications.Send(ctx, notifications.Complete, "nothing to do")
		return
	}

	var op tagorg.FileSystemOperation = tagorg.Move{DryRun: *dryRun}
	if *copyFiles {
		op = tagorg.Copy{DryRun: *dryRun}
	}

	printChanges(os.Stdout, idx, changes, op)
	if !*dryRun && !*yes && !confirm(os.Stdin, os.Stdout) {
		return
	}

	var errs int
	changes.ExecuteDirCreations(op, func(d tagorg.DirCreation, err error) {
		if err != nil {
			errs++
			slog.Error("create dir", "path", d.Path, "err", err)
			return
		}
		pr.Linef("created %s", d.Path)
	})
	changes.ExecuteSongOperations(op, tags.Writer{}, func(so *tagorg.SongOperation, err error) {
		song := &idx.Songs[so.SongID]
		if err != nil {
			errs++
			slog.Error("process song", "path", song.Path, "err", err)
			return
		}
		pr.Linef("processed %s", song.Path)
	})
	changes.ExecuteFileOperations(op, func(fo tagorg.FileOperation, err error) {
		if err != nil {
			errs++
			slog.Error("process file", "path", fo.OldPath, "err", err)
			return
		}
		pr.Linef("processed %s", fo.OldPath)
	})
	pr.Done()

	if !op.ReadOnly() {
		var cleanup tagorg.Cleanup
		cleanup.Root = root
		cleanup.Check(func(dir string) { pr.Linef("checking %s", dir) })
		cleanup.Execute(func(d tagorg.DirDeletion, err error) {
			if err != nil {
				errs++
				slog.Error("remove dir", "path", d.Path, "err", err)
				return
			}
			pr.Linef("removed %s", d.Path)
		})
		pr.Done()
	}

	if errs > 0 {
		cfg.Notifications.Sendf(ctx, notifications.RunError, "finished with %d errors", errs)
		slog.Error("finished with errors", "count", errs)
		return
	}

	cfg.Notifications.Send(ctx, notifications.Complete, "finished")
	if cfg.Hook != "" {
		if err := hook.Run(ctx, cfg.Hook); err != nil {
			slog.Error("run hook", "err", err)
			return
		}
	}
	slog.Info("done")
}

func printChanges(w *os.File, idx *musicindex.Index, c *tagorg.Changes, op tagorg.FileSystemOperation) {
	t := table.NewStringWriter()
	for _, d := range c.DirCreations {
		fmt.Fprintf(t, "mkdir\t\t%s\n", d.Path)
	}
	for _, so := range c.SongOperations {
		song := &idx.Songs[so.SongID]
		switch {
		case so.NewPath != "":
			fmt.Fprintf(t, "%s\t%s\t%s\n", op.Name(), song.Path, so.NewPath)
		default:
			fmt.Fprintf(t, "%s\t%s\t\n", describeInPlace(so), song.Path)
		}
	}
	for _, fo := range c.FileOperations {
		fmt.Fprintf(t, "%s\t%s\t%s\n", op.Name(), fo.OldPath, fo.NewPath)
	}
	for _, row := range strings.Split(strings.TrimRight(t.String(), "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", row)
	}
	fmt.Fprintf(w, "%d dirs, %d songs, %d other files\n",
		len(c.DirCreations), len(c.SongOperations), len(c.FileOperations))
}

func describeInPlace(so *tagorg.SongOperation) string {
	var parts []string
	if so.Tag != nil {
		parts = append(parts, "retag")
	}
	if so.Mode != 0 {
		parts = append(parts, "chmod")
	}
	if len(parts) == 0 {
		return "noop"
	}
	return strings.Join(parts, "+")
}

func confirm(in *os.File, out *os.File) bool {
	fmt.Fprintf(out, "continue? [y/N] ")
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
