package lrg

import (
	"cmp"
	"fmt"
	"strings"
)

// Order selects the direction of a size ranking.
type Order int

const (
	// Descending ranks the largest entries first.
	Descending Order = iota
	// Ascending ranks the smallest entries first.
	Ascending
)

func (o Order) String() string {
	switch o {
	case Descending:
		return "descending"
	case Ascending:
		return "ascending"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses "asc", "ascending", "desc" or "descending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	default:
		return Descending, fmt.Errorf("%w: unknown order %q", ErrInvalidArgument, s)
	}
}

// compare returns the size comparator for the order.
func (o Order) compare() func(a, b Entry) int {
	if o == Ascending {
		return BySize
	}

	return Reverse(BySize)
}

// BySize orders entries by size, smallest first.
func BySize(a, b Entry) int {
	return cmp.Compare(a.Size, b.Size)
}

// ByPath orders entries lexically by path.
func ByPath(a, b Entry) int {
	return strings.Compare(a.Path, b.Path)
}

// ByName orders entries lexically by base name.
func ByName(a, b Entry) int {
	return strings.Compare(a.Name(), b.Name())
}

// Reverse inverts a comparator.
func Reverse(fn func(a, b Entry) int) func(a, b Entry) int {
	return func(a, b Entry) int {
		return fn(b, a)
	}
}
