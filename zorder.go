package canopy

import "slices"

// ZOrderIndex lists, for one z-context root, every descendant with a non-zero
// z-index that lies in its scope: the descendants not below a nested z-context
// root. Entries are kept sorted by (z-index, insertion order) and re-sorted
// incrementally: only entries flagged since the last sort are sorted, then
// merged into the unchanged ones.
type ZOrderIndex struct {
	owner   *Node
	entries []*Node
	pending []*Node // flagged since the last sort; may hold stale duplicates
	buf     []*Node // merge scratch
	fresh   []*Node
	dirty   bool

	resorts int
}

// zStampCounter gives every resort a unique stamp used to drop duplicates.
var zStampCounter uint64

// Entries returns the sorted entries, re-sorting first if needed.
func (l *ZOrderIndex) Entries() []*Node {
	l.resort()
	return l.entries
}

// Resorts returns how many times the index has been re-sorted.
func (l *ZOrderIndex) Resorts() int {
	return l.resorts
}

func zLess(a, b *Node) bool {
	if a.zIndex != b.zIndex {
		return a.zIndex < b.zIndex
	}
	return a.insertOrder < b.insertOrder
}

// resort partitions the entries in one pass into unchanged and flagged ones,
// sorts the flagged ones and merges the two runs. Stale entries (moved to
// another index or back to z-index 0) and duplicates are dropped.
func (l *ZOrderIndex) resort() {
	if !l.dirty {
		return
	}
	zStampCounter++
	stamp := zStampCounter

	keep := l.entries[:0]
	for _, e := range l.entries {
		if e.zOwner != l.owner || e.zFlagged || e.zStamp == stamp {
			continue
		}
		e.zStamp = stamp
		keep = append(keep, e)
	}

	fresh := l.fresh[:0]
	for _, e := range l.pending {
		if e.zOwner != l.owner || e.zStamp == stamp {
			continue
		}
		e.zStamp = stamp
		e.zFlagged = false
		fresh = append(fresh, e)
	}
	slices.SortFunc(fresh, func(a, b *Node) int {
		switch {
		case zLess(a, b):
			return -1
		case zLess(b, a):
			return 1
		}
		return 0
	})

	merged := l.buf[:0]
	i, j := 0, 0
	for i < len(keep) && j < len(fresh) {
		if zLess(fresh[j], keep[i]) {
			merged = append(merged, fresh[j])
			j++
		} else {
			merged = append(merged, keep[i])
			i++
		}
	}
	merged = append(merged, keep[i:]...)
	merged = append(merged, fresh[j:]...)

	clear(l.pending)
	l.pending = l.pending[:0]
	clear(fresh)
	l.fresh = fresh[:0]
	l.buf = l.entries[:0]
	l.entries = merged
	l.dirty = false
	l.resorts++
}

// --- z-context bookkeeping ---

// isZContextRoot reports whether n anchors z-ordering for its descendants.
func (n *Node) isZContextRoot() bool {
	return n.zIndex != 0 || n.forceZContext || n.renderToTexture || n.parent == nil
}

// zContext returns the nearest proper ancestor that is a z-context root.
func (n *Node) zContext() *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.isZContextRoot() {
			return p
		}
	}
	return nil
}

// ZOrder returns n's z-order index, or nil if no descendant in its scope has
// a non-zero z-index.
func (n *Node) ZOrder() *ZOrderIndex {
	return n.zList
}

func (n *Node) zIndexList() *ZOrderIndex {
	if n.zList == nil {
		n.zList = &ZOrderIndex{owner: n}
	}
	return n.zList
}

// zFlag lists n in ctx's index for re-sorting.
func zFlag(n, ctx *Node) {
	if n.zOwner != nil && n.zOwner != ctx && n.zOwner.zList != nil {
		n.zOwner.zList.dirty = true
	}
	l := ctx.zIndexList()
	n.zOwner = ctx
	n.zFlagged = true
	l.pending = append(l.pending, n)
	l.dirty = true
}

// zUnlist removes n from the index that lists it. The stale entry is dropped
// at the next resort.
func zUnlist(n *Node) {
	if n.zOwner != nil {
		if n.zOwner.zList != nil {
			n.zOwner.zList.dirty = true
		}
		n.zOwner = nil
	}
	n.zFlagged = false
}

// zRegister lists n and the descendants in its scope in ctx's index.
func zRegister(n, ctx *Node) {
	if n.zIndex != 0 {
		zFlag(n, ctx)
	} else if n.zOwner != nil {
		zUnlist(n)
	}
	if n.isZContextRoot() {
		return
	}
	n.zList = nil
	for _, c := range n.children {
		zRegister(c, ctx)
	}
}

// zAttach registers a freshly attached subtree in its new z-context.
func zAttach(n *Node) {
	if ctx := n.zContext(); ctx != nil {
		zRegister(n, ctx)
	}
}

// zDetach runs after n lost its parent: n becomes a z-context root and takes
// over the descendants in its scope.
func zDetach(n *Node) {
	zUnlist(n)
	for _, c := range n.children {
		zRegister(c, n)
	}
}

// zRootChanged re-registers n's descendants after n started or stopped being
// a z-context root.
func (n *Node) zRootChanged() {
	ctx := n
	if !n.isZContextRoot() {
		n.zList = nil
		ctx = n.zContext()
	}
	if ctx == nil {
		return
	}
	for _, c := range n.children {
		zRegister(c, ctx)
	}
}

// zOrderChanged records a draw order change in n's z-context.
func (n *Node) zOrderChanged() {
	if ctx := n.zContext(); ctx != nil {
		ctx.setDirty(DirtyChildren)
	}
}

// ZIndex returns the node's z-index.
func (n *Node) ZIndex() int { return n.zIndex }

// SetZIndex sets the node's stacking order within its z-context. Non-zero
// values make the node a z-context root and draw it after (positive) or
// before (negative) its z-context's z-index 0 content. Ties keep attach order.
func (n *Node) SetZIndex(z int) {
	if n.zIndex == z {
		return
	}
	wasRoot := n.isZContextRoot()
	n.zIndex = z
	if ctx := n.zContext(); ctx != nil {
		if z != 0 {
			zFlag(n, ctx)
		} else {
			zUnlist(n)
		}
	}
	if wasRoot != n.isZContextRoot() {
		n.zRootChanged()
	}
	n.zOrderChanged()
}

// ForceZContext reports whether the node is forced to be a z-context root.
func (n *Node) ForceZContext() bool { return n.forceZContext }

// SetForceZContext makes the node a z-context root even with z-index 0, so
// z-indexed descendants are ordered among themselves inside it.
func (n *Node) SetForceZContext(f bool) {
	if n.forceZContext == f {
		return
	}
	wasRoot := n.isZContextRoot()
	n.forceZContext = f
	if wasRoot != n.isZContextRoot() {
		n.zRootChanged()
	}
	n.zOrderChanged()
}
