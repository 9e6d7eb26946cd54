package canopy

import "strings"

// DirtyFlags is the set of pending recalculations on a node. Flags only
// accumulate between update passes; the update pass clears the ones it has
// fully applied.
type DirtyFlags uint8

const (
	DirtyAlpha     DirtyFlags = 1 << iota // world alpha must be recomputed
	DirtyTranslate                        // world translation must be recomputed
	DirtyTransform                        // world 2x2 matrix must be recomputed
	DirtyLayout                           // flex layout must be resolved
	DirtyVisible                          // node became visible; recompute everything
	DirtyHook                             // custom update hook must run
	DirtyChildren                         // child list changed
)

// propagatedFlags are inherited by children during the update walk. Layout,
// hook and structural flags describe the node itself and stay local.
const propagatedFlags = DirtyAlpha | DirtyTranslate | DirtyTransform | DirtyVisible

// Has reports whether any of the flags in f are set.
func (d DirtyFlags) Has(f DirtyFlags) bool {
	return d&f != 0
}

// With returns d with f added.
func (d DirtyFlags) With(f DirtyFlags) DirtyFlags {
	return d | f
}

// Without returns d with f removed.
func (d DirtyFlags) Without(f DirtyFlags) DirtyFlags {
	return d &^ f
}

// Propagated returns the subset of d a child inherits from its parent.
// A changed 2x2 matrix moves every child's origin, so it implies a translate
// recalculation; becoming visible implies everything.
func (d DirtyFlags) Propagated() DirtyFlags {
	p := d & propagatedFlags
	if p.Has(DirtyTransform) {
		p |= DirtyTranslate
	}
	return p
}

// expand resolves implied flags on the node being updated.
func (d DirtyFlags) expand() DirtyFlags {
	if d.Has(DirtyVisible) {
		d |= DirtyAlpha | DirtyTranslate | DirtyTransform
	}
	if d.Has(DirtyTransform) {
		d |= DirtyTranslate
	}
	return d
}

var dirtyNames = [...]string{"alpha", "translate", "transform", "layout", "visible", "hook", "children"}

// String lists the set flags, e.g. "alpha|translate".
func (d DirtyFlags) String() string {
	if d == 0 {
		return "none"
	}
	var parts []string
	for i, name := range dirtyNames {
		if d&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// setDirty records f on n and marks the path to the root as having updates.
func (n *Node) setDirty(f DirtyFlags) {
	n.dirty |= f
	n.markHasUpdates()
}

// markHasUpdates walks up the ancestors, marking each as having pending
// updates, and stops at the first ancestor that is already marked. Reaching a
// stage root flags the stage for an update pass.
func (n *Node) markHasUpdates() {
	p := n
	for ; p != nil; p = p.parent {
		if p.hasUpdates {
			return
		}
		p.hasUpdates = true
		if p.parent == nil && p.stage != nil {
			p.stage.needsUpdate = true
		}
	}
}

// setDirtyLocal records f on n without walking the ancestors. Only valid while
// the update pass is about to visit n (layout writing its own items).
func (n *Node) setDirtyLocal(f DirtyFlags) {
	n.dirty |= f
	n.hasUpdates = true
}
