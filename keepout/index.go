package keepout

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/openfluidics/fluidroute/geom"
)

// Index is the live spatial keepout index. It is exclusively owned by
// one Router during a resolution pass; see the package documentation
// for the concurrency contract.
type Index struct {
	tree    *rtreego.Rtree
	byOwner map[string][]*Entry
}

// NewIndex returns an empty three-dimensional keepout index.
func NewIndex() *Index {
	return &Index{
		tree:    rtreego.NewTree(3, 2, 16),
		byOwner: make(map[string][]*Entry),
	}
}

// Insert registers box under owner with the given role and returns the
// created entry. Returns ErrEmptyOwner for an empty owner identifier.
// Complexity: O(log N) amortized.
func (ix *Index) Insert(owner string, role Role, box geom.AABB) (*Entry, error) {
	if owner == "" {
		return nil, ErrEmptyOwner
	}
	e := &Entry{Owner: owner, Role: role, Box: box, rect: toRect(box)}
	ix.tree.Insert(e)
	ix.byOwner[owner] = append(ix.byOwner[owner], e)

	return e, nil
}

// RemoveOwner deletes every entry registered under owner and returns
// the removed entries in insertion order so the caller can Restore them
// later. Removing an unknown owner returns nil.
// Complexity: O(k log N) for k removed entries.
func (ix *Index) RemoveOwner(owner string) []*Entry {
	entries := ix.byOwner[owner]
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		ix.tree.Delete(e)
	}
	delete(ix.byOwner, owner)

	return entries
}

// Restore reinserts entries previously returned by RemoveOwner. The
// entries keep their original boxes; restoration must always pair with
// the removal on every exit path of a resolution attempt.
func (ix *Index) Restore(entries []*Entry) {
	for _, e := range entries {
		ix.tree.Insert(e)
		ix.byOwner[e.Owner] = append(ix.byOwner[e.Owner], e)
	}
}

// Query returns every entry whose box intersects box.
// Complexity: O(log N + k).
func (ix *Index) Query(box geom.AABB) []*Entry {
	hits := ix.tree.SearchIntersect(toRect(box))
	out := make([]*Entry, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*Entry))
	}

	return out
}

// Hits returns, for each query box, the number of intersecting entries.
// This is the batched variant used to validate every segment of a
// candidate channel in one pass.
// Complexity: O(B·(log N + k)).
func (ix *Index) Hits(boxes []geom.AABB) []int {
	counts := make([]int, len(boxes))
	for i, b := range boxes {
		counts[i] = len(ix.tree.SearchIntersect(toRect(b)))
	}

	return counts
}

// Len returns the number of live entries.
func (ix *Index) Len() int { return ix.tree.Size() }

// Owners returns the sorted owner identifiers with at least one live
// entry. Sorted so cache snapshots are reproducible.
func (ix *Index) Owners() []string {
	owners := make([]string, 0, len(ix.byOwner))
	for o := range ix.byOwner {
		owners = append(owners, o)
	}
	sort.Strings(owners)

	return owners
}

// EntriesOf returns the live entries of one owner in insertion order.
func (ix *Index) EntriesOf(owner string) []*Entry {
	return ix.byOwner[owner]
}

// toRect converts an AABB to the R-tree's rectangle type, inflating
// zero extents to minExtent because the tree rejects degenerate
// rectangles. The inflation affects the tree only, never the stored Box.
func toRect(b geom.AABB) rtreego.Rect {
	p := rtreego.Point{b.Min[0], b.Min[1], b.Min[2]}
	lengths := make([]float64, 3)
	for i := 0; i < 3; i++ {
		l := b.Max[i] - b.Min[i]
		if l < minExtent {
			l = minExtent
		}
		lengths[i] = l
	}
	// Lengths are clamped positive, so construction cannot fail.
	r, err := rtreego.NewRect(p, lengths)
	if err != nil {
		panic("keepout: invalid rectangle: " + err.Error())
	}

	return r
}
