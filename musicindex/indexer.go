package musicindex

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.senan.xyz/natcmp"
)

const numWorkers = 8

// Indexer walks a directory tree with a fixed worker pool and classifies
// every visible file as a song, an image, or unrecognised. Other files
// still count towards progress. Per-entry errors are swallowed so one
// unreadable file never aborts a run.
type Indexer struct {
	TagReader Reader
	OnFile    func(path string) // once per file visited, may be nil
}

type resultKind uint8

const (
	kindSong resultKind = iota
	kindImage
	kindUnrecognized
	kindIgnored
)

type result struct {
	kind resultKind
	path string
	song Song
}

// Index scans root and returns a snapshot sorted in natural path order,
// so downstream plans don't depend on discovery order. Only the caller's
// goroutine ever touches the returned Index.
func (ix *Indexer) Index(root string) (*Index, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	q := newDirQueue(root)
	results := make(chan result)

	var workers errgroup.Group
	for range numWorkers {
		workers.Go(func() error {
			for {
				dir, ok := q.pop()
				if !ok {
					return nil
				}
				ix.scanDir(dir, q, results)
				q.done()
			}
		})
	}
	go func() {
		_ = workers.Wait()
		close(results)
	}()

	idx := &Index{Root: root}
	for r := range results {
		if ix.OnFile != nil {
			ix.OnFile(r.path)
		}
		switch r.kind {
		case kindSong:
			idx.Songs = append(idx.Songs, r.song)
		case kindImage:
			idx.Images = append(idx.Images, r.path)
		case kindUnrecognized:
			idx.Unrecognized = append(idx.Unrecognized, r.path)
		}
	}

	slices.SortFunc(idx.Songs, func(a, b Song) int { return natcmp.Compare(a.Path, b.Path) })
	slices.SortFunc(idx.Images, natcmp.Compare)
	slices.SortFunc(idx.Unrecognized, natcmp.Compare)
	for i := range idx.Songs {
		idx.Songs[i].ID = i
	}
	return idx, nil
}

func (ix *Indexer) scanDir(dir string, q *dirQueue, results chan<- result) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, ent := range entries {
		if strings.HasPrefix(ent.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		isDir := ent.IsDir()
		if ent.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			isDir = info.IsDir()
		}
		if isDir {
			q.push(path)
			continue
		}
		switch {
		case ix.TagReader.CanRead(path):
			results <- ix.scanSong(path)
		case IsImage(path):
			results <- result{kind: kindImage, path: path}
		default:
			results <- result{kind: kindIgnored, path: path}
		}
	}
}

func (ix *Indexer) scanSong(path string) result {
	meta, err := ix.TagReader.ReadMeta(path)
	if err != nil {
		return result{kind: kindUnrecognized, path: path}
	}

	releaseArtists := meta.releaseArtists()
	artists := meta.songArtists()
	if len(releaseArtists) == 0 || len(artists) == 0 || meta.Release == "" || meta.Title == "" {
		return result{kind: kindUnrecognized, path: path}
	}

	var mode fs.FileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}

	return result{kind: kindSong, path: path, song: Song{
		Path:           path,
		Mode:           mode,
		TrackNumber:    meta.TrackNumber,
		TotalTracks:    meta.TotalTracks,
		DiscNumber:     meta.DiscNumber,
		TotalDiscs:     meta.TotalDiscs,
		ReleaseArtists: releaseArtists,
		Artists:        artists,
		Release:        meta.Release,
		Title:          meta.Title,
		HasArtwork:     meta.HasArtwork,
	}}
}

// dirQueue is an unbounded multi-producer multi-consumer queue of
// directories left to scan. pending counts directories queued or in
// flight; pop blocks until work arrives and returns false once pending
// hits zero, which is the workers' only exit signal.
type dirQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	dirs    []string
	pending int
}

func newDirQueue(root string) *dirQueue {
	q := &dirQueue{dirs: []string{root}, pending: 1}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *dirQueue) push(dir string) {
	q.mu.Lock()
	q.dirs = append(q.dirs, dir)
	q.pending++
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *dirQueue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.dirs) == 0 && q.pending > 0 {
		q.cond.Wait()
	}
	if len(q.dirs) == 0 {
		return "", false
	}
	dir := q.dirs[0]
	q.dirs = q.dirs[1:]
	return dir, true
}

// done marks one popped directory fully scanned, its children queued.
func (q *dirQueue) done() {
	q.mu.Lock()
	q.pending--
	if q.pending == 0 {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}
