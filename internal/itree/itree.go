// Package itree implements a per-chromosome, augmented, static interval
// tree: given a sorted set of intervals, it returns the set of distinct
// record indices whose interval overlaps a query range, which every
// database in this module needs.
//
// A Tree is built once via repeated Insert calls followed by a single call
// to Index; inserting after Index is a programming error. Every database
// in this module builds its interval trees once during loading and never
// mutates them afterward.
package itree

import (
	"sort"

	"github.com/bio-sv/svquery/internal/coord"
)

type entry struct {
	r       coord.Range
	payload uint32
}

// node is one node of an implicit, array-backed, centered interval tree:
// node i's children are at 2i+1 and 2i+2 (a classic augmented BST laid out
// breadth-first so the whole tree lives in one contiguous slice, avoiding a
// pointer-chasing allocation per node).
type node struct {
	entry
	maxEnd coord.Pos
	valid  bool
}

// Tree is an augmented interval tree over a single chromosome's records.
// The zero value is ready for Insert calls.
type Tree struct {
	pending []entry
	nodes   []node
	indexed bool
}

// Insert adds an interval with an opaque payload (almost always an index
// into the owning database's record vector) to the tree. It must not be
// called after Index.
func (t *Tree) Insert(r coord.Range, payload uint32) {
	if t.indexed {
		panic("itree: Insert after Index")
	}
	t.pending = append(t.pending, entry{r: r, payload: payload})
}

// Index builds the tree from every interval inserted so far. It must be
// called exactly once, after all Insert calls and before any Query. It is a
// no-op (but still marks the tree as indexed) if nothing was ever inserted.
func (t *Tree) Index() {
	if t.indexed {
		panic("itree: Index called twice")
	}
	t.indexed = true
	entries := t.pending
	t.pending = nil
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].r.Start != entries[j].r.Start {
			return entries[i].r.Start < entries[j].r.Start
		}
		return entries[i].r.End < entries[j].r.End
	})
	n := len(entries)
	if n == 0 {
		return
	}
	t.nodes = make([]node, treeSize(n))
	t.build(0, entries)
}

// treeSize returns the number of slots needed for a complete implicit
// binary tree holding n leaves built by the recursive midpoint split below.
func treeSize(n int) int {
	if n == 0 {
		return 0
	}
	height := 0
	for sz := 1; sz < n; sz *= 2 {
		height++
	}
	return 1<<uint(height+1) - 1
}

// build recursively places entries into the implicit tree rooted at index
// idx, choosing the median entry as the node's interval so the tree stays
// balanced (entries is sorted by start on entry).
func (t *Tree) build(idx int, entries []entry) coord.Pos {
	if len(entries) == 0 {
		return coord.Pos(0)
	}
	mid := len(entries) / 2
	maxEnd := entries[mid].r.End
	if lo := 2*idx + 1; mid > 0 {
		if m := t.build(lo, entries[:mid]); m > maxEnd {
			maxEnd = m
		}
	}
	if hi := 2*idx + 2; mid+1 < len(entries) {
		if m := t.build(hi, entries[mid+1:]); m > maxEnd {
			maxEnd = m
		}
	}
	t.nodes[idx] = node{entry: entries[mid], maxEnd: maxEnd, valid: true}
	return maxEnd
}

// Query returns every payload whose stored interval overlaps r. The order
// of returned payloads is unspecified.
func (t *Tree) Query(r coord.Range) []uint32 {
	if !t.indexed {
		panic("itree: Query before Index")
	}
	if len(t.nodes) == 0 {
		return nil
	}
	var out []uint32
	t.query(0, r, &out)
	return out
}

func (t *Tree) query(idx int, r coord.Range, out *[]uint32) {
	if idx >= len(t.nodes) || !t.nodes[idx].valid {
		return
	}
	n := &t.nodes[idx]
	if r.Start >= n.maxEnd {
		return
	}
	t.query(2*idx+1, r, out)
	if n.r.Overlaps(r) {
		*out = append(*out, n.payload)
	}
	if r.End > n.r.Start {
		t.query(2*idx+2, r, out)
	}
}

// Len returns the number of intervals stored in the tree.
func (t *Tree) Len() int {
	if !t.indexed {
		return len(t.pending)
	}
	n := 0
	for _, nd := range t.nodes {
		if nd.valid {
			n++
		}
	}
	return n
}
