package command

import "strconv"

// Allocator hands out kind-scoped command ids: m1, m2, … and t1, t2, ….
// Counters are independent per kind and never rewind.
type Allocator struct {
	next map[Kind]int
}

// NewAllocator returns an allocator whose counters start at 1.
func NewAllocator() *Allocator {
	return &Allocator{next: make(map[Kind]int)}
}

// Next returns the next id for kind and advances that kind's counter only.
func (a *Allocator) Next(kind Kind) string {
	if a.next == nil {
		a.next = make(map[Kind]int)
	}
	seq := a.next[kind] + 1
	a.next[kind] = seq
	return kind.Prefix() + strconv.Itoa(seq)
}
