package lrg

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

type mockLogger struct {
	debugs []string
	warns  []string
}

func (m *mockLogger) Debugf(format string, _ ...any) { m.debugs = append(m.debugs, format) }
func (m *mockLogger) Warnf(format string, _ ...any)  { m.warns = append(m.warns, format) }

func writeFile(t *testing.T, path string, size int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}

	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func symlink(t *testing.T, target, link string) {
	t.Helper()

	if err := os.Symlink(target, link); err != nil {
		t.Skipf("Symlinks not supported: %v", err)
	}
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}

	return out
}

func mustNew(t *testing.T, root string, opts Options) *Lrg {
	t.Helper()

	l, err := New(root, opts)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", root, err)
	}

	return l
}

// referenceTree creates:
//
//	root/
//	├── evensmallerfile   10240
//	├── smallerfile       51200
//	├── somefile          1024000
//	└── subdir/
//	    ├── link_somefile -> ../somefile
//	    ├── subsmallerfile 20480
//	    ├── subsomefile    102400
//	    └── subsubdir/
//	        └── subsubsomefile 204800
func referenceTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	writeFile(t, filepath.Join(root, "evensmallerfile"), 10240)
	writeFile(t, filepath.Join(root, "smallerfile"), 51200)
	writeFile(t, filepath.Join(root, "somefile"), 1024000)
	writeFile(t, filepath.Join(root, "subdir", "subsmallerfile"), 20480)
	writeFile(t, filepath.Join(root, "subdir", "subsomefile"), 102400)
	writeFile(t, filepath.Join(root, "subdir", "subsubdir", "subsubsomefile"), 204800)
	symlink(t, filepath.Join("..", "somefile"), filepath.Join(root, "subdir", "link_somefile"))

	return root
}

func TestWalk_ReferenceTree(t *testing.T) {
	root := referenceTree(t)

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "default options",
			opts: Options{},
			want: []string{
				"somefile", "subsubsomefile", "subsomefile", "smallerfile",
				"subsmallerfile", "evensmallerfile", "link_somefile",
			},
		},
		{
			name: "max depth zero",
			opts: Options{MaxDepth: Depth(0)},
			want: []string{"somefile", "smallerfile", "evensmallerfile"},
		},
		{
			name: "max depth one",
			opts: Options{MaxDepth: Depth(1)},
			want: []string{
				"somefile", "subsomefile", "smallerfile",
				"subsmallerfile", "evensmallerfile", "link_somefile",
			},
		},
		{
			name: "no recursion overrides max depth",
			opts: Options{NoRecursion: true, MaxDepth: Depth(5)},
			want: []string{"somefile", "smallerfile", "evensmallerfile"},
		},
		{
			name: "follow links",
			opts: Options{FollowLinks: true},
			want: []string{
				"somefile", "link_somefile", "subsubsomefile", "subsomefile",
				"smallerfile", "subsmallerfile", "evensmallerfile",
			},
		},
		{
			name: "min depth one",
			opts: Options{MinDepth: 1},
			want: []string{"subsubsomefile", "subsomefile", "subsmallerfile", "link_somefile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(mustNew(t, root, tt.opts).SortDescending().Entries())
			if !slices.Equal(got, tt.want) {
				t.Errorf("SortDescending().Entries() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalk_Sizes(t *testing.T) {
	root := referenceTree(t)

	entries := mustNew(t, root, Options{}).SortDescending().Entries()
	want := []uint64{1024000, 204800, 102400, 51200, 20480, 10240, uint64(len(filepath.Join("..", "somefile")))}

	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}

	for i, e := range entries {
		if e.Size != want[i] {
			t.Errorf("Entry %d (%s): size = %d, want %d", i, e.Path, e.Size, want[i])
		}
	}

	link := entries[len(entries)-1]
	if !link.IsSymlink || link.IsDir {
		t.Errorf("Unfollowed link should be recorded as a link: %+v", link)
	}

	followed := mustNew(t, root, Options{FollowLinks: true}).SortDescending().Entries()
	if followed[1].Name() != "link_somefile" || followed[1].Size != 1024000 || followed[1].IsSymlink {
		t.Errorf("Followed link should report its target: %+v", followed[1])
	}
}

func TestWalk_IncludeDirs(t *testing.T) {
	root := referenceTree(t)

	without := mustNew(t, root, Options{})
	for _, e := range without.Entries() {
		if e.IsDir {
			t.Errorf("Directory %s reported without IncludeDirs", e.Path)
		}
	}

	with := mustNew(t, root, Options{IncludeDirs: true})
	if with.Len() != 9 {
		t.Errorf("Expected 9 entries with directories, got %d: %v", with.Len(), names(with.Entries()))
	}

	var dirs []string

	for _, e := range with.Entries() {
		if e.IsDir {
			dirs = append(dirs, e.Name())
		}
	}

	if !slices.Equal(dirs, []string{"subdir", "subsubdir"}) {
		t.Errorf("Directories = %v, want [subdir subsubdir]", dirs)
	}

	if with.Summary().Dirs != 2 || with.Summary().Files != 6 || with.Summary().Links != 1 {
		t.Errorf("Unexpected summary: %+v", with.Summary())
	}
}

func TestWalk_Scenarios(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 10)
	writeFile(t, filepath.Join(root, "sub", "b.txt"), 100)

	t.Run("default options", func(t *testing.T) {
		entries := mustNew(t, root, Options{}).SortDescending().Entries()
		if got := names(entries); !slices.Equal(got, []string{"b.txt", "a.txt"}) {
			t.Fatalf("Entries = %v, want [b.txt a.txt]", got)
		}

		if entries[0].Size != 100 || entries[1].Size != 10 {
			t.Errorf("Unexpected sizes: %d, %d", entries[0].Size, entries[1].Size)
		}

		if entries[0].Depth != 1 || entries[1].Depth != 0 {
			t.Errorf("Unexpected depths: %d, %d", entries[0].Depth, entries[1].Depth)
		}
	})

	t.Run("no recursion", func(t *testing.T) {
		entries := mustNew(t, root, Options{NoRecursion: true}).Entries()
		if got := names(entries); !slices.Equal(got, []string{"a.txt"}) {
			t.Errorf("Entries = %v, want [a.txt]", got)
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "f.txt")
		writeFile(t, file, 42)

		for _, opts := range []Options{
			{},
			{IncludeDirs: true},
			{NoRecursion: true},
			{MaxDepth: Depth(0), MinDepth: 3},
			{FollowLinks: true},
		} {
			entries := mustNew(t, file, opts).Entries()
			if len(entries) != 1 || entries[0].Path != file || entries[0].Size != 42 {
				t.Errorf("Options %+v: entries = %+v, want [f.txt(42)]", opts, entries)
			}
		}
	})
}

func TestWalk_SymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f.txt"), 7)
	symlink(t, root, filepath.Join(root, "link"))

	var visited []string

	summary, err := Walk(root, Options{FollowLinks: true, IncludeDirs: true}, func(e Entry) error {
		visited = append(visited, e.Name())

		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if !slices.Equal(visited, []string{"f.txt", "link"}) {
		t.Errorf("Visited = %v, want [f.txt link]", visited)
	}

	if summary.Files != 1 || summary.Dirs != 1 || len(summary.Skipped) != 0 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
}

func TestWalk_DuplicateLinkedDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data", "big.bin"), 64)
	symlink(t, filepath.Join(root, "data"), filepath.Join(root, "zlink"))

	l := mustNew(t, root, Options{FollowLinks: true})

	var got []string
	for _, e := range l.Entries() {
		rel, err := filepath.Rel(root, e.Path)
		if err != nil {
			t.Fatalf("Failed to relativize %s: %v", e.Path, err)
		}

		got = append(got, filepath.ToSlash(rel))
	}

	if want := []string{"data/big.bin", "zlink/big.bin"}; !slices.Equal(got, want) {
		t.Errorf("Entries = %v, want %v", got, want)
	}
}

func TestWalk_LinkedDirectoryReachedDeeperFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "x", "y.txt"), 50)

	if err := os.Mkdir(filepath.Join(root, "a"), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	symlink(t, filepath.Join(root, "b"), filepath.Join(root, "a", "link"))

	for _, follow := range []bool{false, true} {
		l := mustNew(t, root, Options{MaxDepth: Depth(2), FollowLinks: follow})

		var files []string
		for _, e := range l.Entries() {
			if !e.IsSymlink {
				files = append(files, e.Path)
			}
		}

		want := []string{filepath.Join(root, "b", "x", "y.txt")}
		if !slices.Equal(files, want) {
			t.Errorf("FollowLinks=%v: files = %v, want %v", follow, files, want)
		}
	}
}

func TestWalk_NestedSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "f.txt"), 3)
	symlink(t, filepath.Join(root, "a"), filepath.Join(root, "a", "back"))

	logger := &mockLogger{}

	l := mustNew(t, root, Options{FollowLinks: true, Logger: logger})
	if got := names(l.Entries()); !slices.Equal(got, []string{"f.txt"}) {
		t.Errorf("Entries = %v, want [f.txt]", got)
	}

	if len(logger.debugs) == 0 {
		t.Error("Expected the loop to be logged")
	}
}

func TestWalk_NotFound(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), Options{})
	if err == nil {
		t.Fatal("Expected an error for a missing root")
	}

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected the error to wrap fs.ErrNotExist, got %v", err)
	}
}

func skipIfPermissionsIgnored(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Permission bits are not enforced on Windows")
	}

	if os.Geteuid() == 0 {
		t.Skip("Permission bits are not enforced for root")
	}
}

func TestWalk_PermissionDenied(t *testing.T) {
	skipIfPermissionsIgnored(t)

	t.Run("nested directory is skipped", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.txt"), 10)
		writeFile(t, filepath.Join(root, "locked", "secret.txt"), 1000)
		writeFile(t, filepath.Join(root, "open", "b.txt"), 20)

		locked := filepath.Join(root, "locked")
		if err := os.Chmod(locked, 0o000); err != nil {
			t.Fatalf("Failed to chmod: %v", err)
		}
		t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

		logger := &mockLogger{}

		l, err := New(root, Options{Logger: logger})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		if got := names(l.SortDescending().Entries()); !slices.Equal(got, []string{"b.txt", "a.txt"}) {
			t.Errorf("Entries = %v, want [b.txt a.txt]", got)
		}

		skipped := l.Summary().Skipped
		if len(skipped) != 1 || !errors.Is(skipped[0], ErrPermissionDenied) {
			t.Errorf("Skipped = %v, want one permission error", skipped)
		}

		if len(logger.warns) != 1 {
			t.Errorf("Expected 1 warning, got %d", len(logger.warns))
		}
	})

	t.Run("unreadable root is fatal", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.txt"), 10)

		if err := os.Chmod(root, 0o000); err != nil {
			t.Fatalf("Failed to chmod: %v", err)
		}
		t.Cleanup(func() { _ = os.Chmod(root, 0o755) })

		_, err := New(root, Options{})
		if !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("Expected ErrPermissionDenied, got %v", err)
		}
	})
}

func TestWalk_CallbackError(t *testing.T) {
	root := referenceTree(t)
	stop := errors.New("stop")

	calls := 0

	_, err := Walk(root, Options{}, func(Entry) error {
		calls++
		if calls == 2 {
			return stop
		}

		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("Expected the callback error, got %v", err)
	}

	if calls != 2 {
		t.Errorf("Expected the walk to stop after 2 calls, got %d", calls)
	}
}

func TestWalk_Progress(t *testing.T) {
	root := referenceTree(t)

	var last int64

	_, err := Walk(root, Options{
		ProgressInterval: 1,
		Progress: func(files int64, _ uint64) {
			if files < last {
				t.Errorf("Progress went backwards: %d < %d", files, last)
			}
			last = files
		},
	}, nil)
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if last == 0 {
		t.Error("Expected at least one progress report")
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "defaults", opts: Options{}},
		{name: "zero max depth", opts: Options{MaxDepth: Depth(0)}},
		{name: "negative max depth", opts: Options{MaxDepth: Depth(-1)}, wantErr: true},
		{name: "negative min depth", opts: Options{MinDepth: -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}
