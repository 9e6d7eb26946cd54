package canopy

// renderPass walks the tree in draw order and feeds the batch builder.
//
// A z-context root draws itself, then its negative z-index entries, then its
// z-index 0 content in tree order, then its positive entries. Entries are
// drawn as z-context roots in turn.
type renderPass struct {
	b        batchBuilder
	pool     *targetPool
	useCache bool

	rebuilds int
	reuses   int
}

// drawRoot draws z-context root n and its scope into target.
func (rp *renderPass) drawRoot(n *Node, target Target) {
	if !n.visible || n.outOfBounds == FullyClipped || n.render.alpha == 0 {
		return
	}
	if n.renderToTexture {
		rp.drawOffscreen(n, target)
		return
	}
	rp.emit(n, target)
	rp.drawScope(n, target)
}

// drawScope draws the content of z-context root n, excluding n itself.
func (rp *renderPass) drawScope(n *Node, target Target) {
	var entries []*Node
	if n.zList != nil {
		entries = n.zList.Entries()
	}
	i := 0
	for ; i < len(entries) && entries[i].zIndex < 0; i++ {
		rp.drawEntry(entries[i], n, target)
	}
	rp.drawChildren(n, target)
	for ; i < len(entries); i++ {
		rp.drawEntry(entries[i], n, target)
	}
}

// drawChildren draws n's z-index 0 children in tree order.
func (rp *renderPass) drawChildren(n *Node, target Target) {
	for _, c := range n.children {
		if c.zIndex != 0 || !c.visible || c.outOfBounds == FullyClipped || c.render.alpha == 0 {
			continue
		}
		if c.isZContextRoot() {
			rp.drawRoot(c, target)
			continue
		}
		rp.emit(c, target)
		rp.drawChildren(c, target)
	}
}

// drawEntry draws a z-index entry of ctx unless an ancestor below ctx hides it.
func (rp *renderPass) drawEntry(e, ctx *Node, target Target) {
	for p := e.parent; p != nil && p != ctx; p = p.parent {
		if !p.visible {
			return
		}
	}
	rp.drawRoot(e, target)
}

// emit adds n to the current batch if it draws anything.
func (rp *renderPass) emit(n *Node, target Target) {
	if n.drawable && n.outOfBounds == InBounds {
		rp.b.add(n, target)
	}
}

// drawOffscreen draws n's subtree into its offscreen target, unless last
// frame's content is still valid, then draws n as a quad showing the target.
func (rp *renderPass) drawOffscreen(n *Node, target Target) {
	oc := n.ensureOffscreen(rp.pool)
	if oc == nil {
		return
	}
	if oc.valid && rp.useCache {
		rp.reuses++
	} else {
		rp.b.flush()
		mark := len(rp.b.batches)
		rp.drawScope(n, oc.target)
		rp.b.flush()
		rp.b.touch(oc.target, mark)
		oc.valid = true
		rp.rebuilds++
	}
	if n.outOfBounds == InBounds {
		rp.b.add(n, target)
	}
}
