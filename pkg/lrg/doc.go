// Package lrg finds the largest (or smallest) files in a directory tree.
//
// A walk runs once, depth-first and on the calling goroutine, collecting an
// Entry for every file (and optionally every directory) below the root.
// The resulting collection can then be ranked in place by size or by any
// caller-supplied comparator and truncated to the top N entries:
//
//	l, err := lrg.New(".", lrg.Options{MaxDepth: lrg.Depth(2)})
//	if err != nil {
//		return err
//	}
//
//	for _, e := range l.SortDescending().Top(5) {
//		fmt.Println(e.Size, e.Path)
//	}
//
// For trees too large to hold in memory, Walk can stream entries into a
// TopN, which keeps only the best N entries.
package lrg
