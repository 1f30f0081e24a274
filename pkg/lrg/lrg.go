package lrg

import (
	"slices"
)

// Lrg holds the entries collected by a walk and ranks them in place.
// Entries keep traversal order until one of the sort methods is called;
// every sort is stable, so equal entries keep their relative order.
type Lrg struct {
	entries []Entry
	summary *Summary
}

// New walks the tree rooted at root and collects every selected entry.
func New(root string, opts Options) (*Lrg, error) {
	l := &Lrg{}

	summary, err := Walk(root, opts, func(e Entry) error {
		l.entries = append(l.entries, e)

		return nil
	})
	if err != nil {
		return nil, err
	}

	l.summary = summary

	return l, nil
}

// SortBy sorts the entries by size in the given order.
func (l *Lrg) SortBy(order Order) *Lrg {
	if order == Ascending {
		return l.SortAscending()
	}

	return l.SortDescending()
}

// SortAscending sorts the entries by size, smallest first.
func (l *Lrg) SortAscending() *Lrg {
	return l.SortByCustom(BySize)
}

// SortDescending sorts the entries by size, largest first.
func (l *Lrg) SortDescending() *Lrg {
	return l.SortByCustom(Reverse(BySize))
}

// SortByCustom sorts the entries with cmp, which must return a negative
// number when a sorts before b, a positive number when a sorts after b and
// zero when their order does not matter.
func (l *Lrg) SortByCustom(cmp func(a, b Entry) int) *Lrg {
	slices.SortStableFunc(l.entries, cmp)

	return l
}

// Entries returns a copy of the entries in their current order.
func (l *Lrg) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Top returns a copy of the first n entries in their current order.
// If n exceeds the number of entries all of them are returned.
func (l *Lrg) Top(n int) []Entry {
	n = max(0, min(n, len(l.entries)))

	return slices.Clone(l.entries[:n])
}

// Len returns the number of collected entries.
func (l *Lrg) Len() int {
	return len(l.entries)
}

// Summary returns the statistics of the walk that produced the entries.
func (l *Lrg) Summary() *Summary {
	return l.summary
}
