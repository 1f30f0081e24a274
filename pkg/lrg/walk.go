package lrg

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charlievieth/fastwalk"
)

// WalkFunc is called for every reported entry, in traversal order.
// A non-nil error stops the walk and is returned by Walk.
type WalkFunc func(Entry) error

// Summary holds aggregate statistics for a walk.
type Summary struct {
	// Root is the path the walk started from.
	Root string `json:"root"`
	// Files is the number of regular files reported.
	Files int64 `json:"files"`
	// Dirs is the number of directories reported.
	Dirs int64 `json:"dirs"`
	// Links is the number of unresolved symbolic links reported.
	Links int64 `json:"links"`
	// TotalBytes is the cumulative size of all reported entries.
	TotalBytes uint64 `json:"total_bytes"`
	// Skipped holds the errors of subtrees that could not be read.
	Skipped []error `json:"-"`
	// Elapsed is the total time taken by the walk.
	Elapsed time.Duration `json:"elapsed"`
}

// Count returns the number of reported entries.
func (s *Summary) Count() int64 {
	return s.Files + s.Dirs + s.Links
}

// walker holds the state of a single depth-first traversal.
type walker struct {
	opts     Options
	fn       WalkFunc
	log      Logger
	parents  []fs.FileInfo
	summary  *Summary
	interval time.Duration
	reported time.Time
}

// Walk traverses the tree rooted at root depth-first and calls fn for every
// entry selected by opts.
//
// If root is a file, fn is called exactly once for it, whatever the options.
// A missing or unreadable root is fatal and reported as ErrNotFound or
// ErrPermissionDenied. Unreadable directories below the root are skipped:
// their errors are collected in Summary.Skipped and the walk continues with
// their siblings.
func Walk(root string, opts Options, fn WalkFunc) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if root == "" {
		root = "."
	}

	if fn == nil {
		fn = func(Entry) error { return nil }
	}

	start := time.Now()

	w := &walker{
		opts:     opts,
		fn:       fn,
		log:      opts.Logger,
		summary:  &Summary{Root: root},
		interval: opts.ProgressInterval,
		reported: start,
	}

	if w.log == nil {
		w.log = nopLogger{}
	}

	if w.interval <= 0 {
		w.interval = DefaultProgressInterval
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, classify("accessing path", root, err)
	}

	if info.IsDir() {
		err = w.walkRoot(root, info)
	} else {
		err = w.report(newEntry(root, info, 0))
	}

	if err != nil {
		return nil, err
	}

	w.summary.Elapsed = time.Since(start)

	return w.summary, nil
}

// walkRoot lists the root directory. Unlike nested directories, a root that
// cannot be listed fails the walk.
func (w *walker) walkRoot(root string, info fs.FileInfo) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return classify("reading directory", root, err)
	}

	w.enter(info)
	defer w.leave()

	return w.walkDir(root, entries, 0)
}

func (w *walker) walkDir(dir string, entries []fs.DirEntry, depth int) error {
	for _, de := range entries {
		if err := w.visit(filepath.Join(dir, de.Name()), de, depth); err != nil {
			return err
		}
	}

	return nil
}

//nolint:varnamelen // de is standard for DirEntry
func (w *walker) visit(path string, de fs.DirEntry, depth int) error {
	typ := de.Type()

	switch {
	case typ&fs.ModeSymlink != 0:
		return w.visitLink(path, de, depth)
	case typ.IsDir():
		info, err := de.Info()
		if err != nil {
			w.skip(path, err)

			return nil
		}

		return w.visitDir(path, info, depth)
	case !typ.IsRegular():
		w.log.Debugf("skipping %s (not a regular file)", path)

		return nil
	}

	info, err := de.Info()
	if err != nil {
		w.skip(path, err)

		return nil
	}

	return w.emit(newEntry(path, info, depth))
}

// visitLink records a symbolic link. When links are followed it is treated
// as its target; otherwise, or if the target cannot be resolved, the link's
// own metadata is recorded.
//
//nolint:varnamelen // de is standard for DirEntry
func (w *walker) visitLink(path string, de fs.DirEntry, depth int) error {
	if w.opts.FollowLinks {
		target, err := fastwalk.StatDirEntry(path, de)
		switch {
		case err != nil:
			w.log.Debugf("cannot resolve link %s: %s", path, Reason(err))
		case target.IsDir():
			return w.visitDir(path, target, depth)
		case target.Mode().IsRegular():
			return w.emit(newEntry(path, target, depth))
		default:
			w.log.Debugf("skipping %s (link to a non-regular file)", path)

			return nil
		}
	}

	info, err := de.Info()
	if err != nil {
		w.skip(path, err)

		return nil
	}

	return w.emit(newEntry(path, info, depth))
}

func (w *walker) visitDir(path string, info fs.FileInfo, depth int) error {
	if w.opts.IncludeDirs {
		if err := w.emit(newEntry(path, info, depth)); err != nil {
			return err
		}
	}

	if !w.opts.descends(depth) {
		return nil
	}

	if w.loops(info) {
		w.log.Debugf("skipping %s (link to one of its parent directories)", path)

		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		w.skip(path, err)

		return nil
	}

	w.enter(info)
	defer w.leave()

	return w.walkDir(path, entries, depth+1)
}

// enter pushes a directory onto the stack of directories being listed.
// The stack is only kept when links are followed.
func (w *walker) enter(info fs.FileInfo) {
	if w.opts.FollowLinks {
		w.parents = append(w.parents, info)
	}
}

func (w *walker) leave() {
	if w.opts.FollowLinks {
		w.parents = w.parents[:len(w.parents)-1]
	}
}

// loops reports whether info is a directory currently being listed.
// A directory reached again through another branch is not a loop and is
// walked again.
func (w *walker) loops(info fs.FileInfo) bool {
	for _, parent := range w.parents {
		if os.SameFile(parent, info) {
			return true
		}
	}

	return false
}

// skip records a subtree that could not be read.
func (w *walker) skip(path string, err error) {
	w.log.Warnf("error opening '%s': %s", path, Reason(err))
	w.summary.Skipped = append(w.summary.Skipped, classify("opening", path, err))
}

// emit reports e unless it is shallower than the minimum depth.
func (w *walker) emit(e Entry) error {
	if !w.opts.reports(e.Depth) {
		return nil
	}

	return w.report(e)
}

func (w *walker) report(e Entry) error {
	switch {
	case e.IsDir:
		w.summary.Dirs++
	case e.IsSymlink:
		w.summary.Links++
	default:
		w.summary.Files++
	}

	w.summary.TotalBytes += e.Size

	w.progress()

	return w.fn(e)
}

// progress invokes the progress hook at most once per interval.
func (w *walker) progress() {
	if w.opts.Progress == nil {
		return
	}

	now := time.Now()
	if now.Sub(w.reported) < w.interval {
		return
	}

	w.reported = now
	w.opts.Progress(w.summary.Count(), w.summary.TotalBytes)
}
