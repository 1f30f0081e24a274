package lrg

import (
	"github.com/tidwall/btree"
)

// ranked is an entry tagged with its position in the walk, which breaks ties
// the same way a stable sort does.
type ranked struct {
	Entry

	seq uint64
}

// TopN keeps the best n entries of a stream in a B-tree, so memory stays
// bounded by n however many entries a walk produces.
//
// For the same stream of entries, Entries returns the same result as
// New(...).SortBy(order).Top(n).
type TopN struct {
	n    int
	seq  uint64
	less func(a, b ranked) bool
	tree *btree.BTreeG[ranked]
}

// NewTopN creates a TopN keeping n entries ranked by size in the given order.
func NewTopN(n int, order Order) *TopN {
	compare := order.compare()

	less := func(a, b ranked) bool {
		if c := compare(a.Entry, b.Entry); c != 0 {
			return c < 0
		}

		return a.seq < b.seq
	}

	return &TopN{
		n:    max(n, 0),
		less: less,
		tree: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true}),
	}
}

// Add offers e to the ranking. It is dropped if n better entries are already held.
func (t *TopN) Add(e Entry) {
	if t.n == 0 {
		return
	}

	item := ranked{Entry: e, seq: t.seq}
	t.seq++

	if t.tree.Len() >= t.n {
		worst, _ := t.tree.Max()
		if !t.less(item, worst) {
			return
		}

		t.tree.PopMax()
	}

	t.tree.Set(item)
}

// Len returns the number of entries held.
func (t *TopN) Len() int {
	return t.tree.Len()
}

// Entries returns the held entries, best first.
func (t *TopN) Entries() []Entry {
	entries := make([]Entry, 0, t.tree.Len())

	t.tree.Scan(func(item ranked) bool {
		entries = append(entries, item.Entry)

		return true
	})

	return entries
}
