package lrg

import (
	"io/fs"
	"path/filepath"
)

// Entry describes one filesystem object found during a walk.
type Entry struct {
	// Path is the root joined with the object's path relative to it.
	Path string `json:"path"`
	// Size is the raw metadata size in bytes. Directories report their own
	// size, not the size of their contents.
	Size uint64 `json:"size"`
	// IsDir indicates whether the object is a directory.
	IsDir bool `json:"is_dir"`
	// IsSymlink indicates whether the object is a symbolic link that was not resolved.
	IsSymlink bool `json:"is_symlink"`
	// Depth is the depth below the root, starting at 0 for its direct children.
	Depth int `json:"depth"`
}

// Name returns the last element of the entry's path.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// newEntry builds an Entry from a path and its file info.
func newEntry(path string, info fs.FileInfo, depth int) Entry {
	size := info.Size()
	if size < 0 {
		size = 0
	}

	return Entry{
		Path:      path,
		Size:      uint64(size),
		IsDir:     info.IsDir(),
		IsSymlink: info.Mode()&fs.ModeSymlink != 0,
		Depth:     depth,
	}
}
