package canopy

// alphaEpsilon is the world alpha below which a node is treated as fully
// transparent.
const alphaEpsilon = 1e-14

// identityContext is the render context children of an offscreen node start
// from. Never written.
var identityContext = worldContext{alpha: 1, m: identityTransform}

// updateScope is what a tree root is updated against: the view transform
// above it, the viewport it is culled against and the default bounds margin.
type updateScope struct {
	world   worldContext
	scissor Rect
	margin  Edges
}

// detachedScope is used for trees that are not attached to a stage.
var detachedScope = updateScope{
	world:   identityContext,
	scissor: Rect{X: -1e9, Y: -1e9, Width: 2e9, Height: 2e9},
	margin:  EdgeAll(defaultBoundsMargin),
}

// defaultBoundsMargin is the hysteresis band around the viewport when neither
// the node, its ancestors nor the config set one.
const defaultBoundsMargin = 100

type boundsEvent struct {
	node  *Node
	enter bool
}

// updater walks a tree once, bringing derived state up to date.
type updater struct {
	scope  *updateScope
	events []boundsEvent

	visited  int // nodes whose update ran
	consumed int // nodes that had dirty bits to apply
	layouts  int // flex roots laid out
}

func (u *updater) reset(scope *updateScope) {
	u.scope = scope
	u.events = u.events[:0]
	u.visited = 0
	u.consumed = 0
	u.layouts = 0
}

// --- parent context lookups ---

func (u *updater) parentWorld(n *Node) *worldContext {
	if n.parent == nil {
		return &u.scope.world
	}
	return &n.parent.world
}

func (u *updater) parentRender(n *Node) *worldContext {
	p := n.parent
	if p == nil {
		return &u.scope.world
	}
	if p.renderToTexture {
		return &identityContext
	}
	return p.render
}

// parentScissor returns the rect n is culled against and whether it comes
// from a clipping ancestor.
func (u *updater) parentScissor(n *Node) (Rect, bool) {
	p := n.parent
	switch {
	case p == nil:
		return u.scope.scissor, false
	case p.renderToTexture:
		return Rect{Width: p.renderW, Height: p.renderH}, false
	case p.clipping:
		return p.bbox.Intersect(p.scissor), true
	}
	return p.scissor, p.clipped
}

func (u *updater) effectiveMargin(n *Node) Edges {
	switch {
	case n.boundsMargin != nil:
		return *n.boundsMargin
	case n.parent != nil:
		return n.parent.margin
	}
	return u.scope.margin
}

// --- the update walk ---

// visit updates n with the propagated flags inherited from its parent and
// recurses into the children that need it. Reports whether anything that can
// affect rendering changed in n's subtree.
func (u *updater) visit(n *Node, inherited DirtyFlags) bool {
	if !n.visible {
		// Pending bits stay until the node is shown, which recomputes
		// everything anyway.
		n.hasUpdates = false
		return inherited != 0 || n.dirty != 0
	}
	u.visited++

	if (n.dirty|inherited).Has(DirtyHook) && n.updateHook != nil {
		// n stays marked while the hook runs so its writes do not mark the
		// ancestors already visited.
		n.hasUpdates = true
		n.updateHook(n)
	}
	n.hasUpdates = false
	flags := (n.dirty | inherited).expand()
	if flags != 0 {
		u.consumed++
	}

	// Layout may change this node's own size, so it runs first.
	sizeChanged := false
	if flags.Has(DirtyLayout) && n.isFlexContainer() && !n.participates() {
		u.layouts++
		if n.runLayout() {
			sizeChanged = true
		}
	}
	if flags.Has(DirtyTranslate) && n.resolveSize() {
		sizeChanged = true
	}
	if sizeChanged {
		flags |= DirtyTranslate
		n.relativeChildrenChanged()
	}

	pw := u.parentWorld(n)
	pr := u.parentRender(n)
	if flags.Has(DirtyAlpha | DirtyTranslate | DirtyTransform) {
		if pr == pw {
			n.render = &n.world
		} else {
			if n.renderOwned == nil {
				n.renderOwned = &worldContext{}
			}
			n.render = n.renderOwned
		}
	}

	if flags.Has(DirtyAlpha) {
		n.world.alpha = clampAlpha(pw.alpha * n.alpha)
		if n.render != &n.world {
			n.render.alpha = clampAlpha(pr.alpha * n.alpha)
		}
	}

	oob := n.outOfBounds
	if flags.Has(DirtyTranslate) {
		n.local = computeLocalTransform(n, n.renderW, n.renderH)
		n.world.m = multiplyAffine(pw.m, n.local)
		if n.render != &n.world {
			n.render.m = multiplyAffine(pr.m, n.local)
		}
		n.bbox = boundingBox(n.render.m, n.renderW, n.renderH)
		n.scissor, n.clipped = u.parentScissor(n)
		n.margin = u.effectiveMargin(n)
		u.resolveBounds(n)
	}
	changed := flags != 0 || oob != n.outOfBounds

	propagate := flags.Propagated()
	childChanged := false
	if n.outOfBounds == FullyClipped {
		for _, c := range n.children {
			c.dirty |= propagate
			u.markClipped(c, n.withinMargin)
		}
	} else {
		for _, c := range n.children {
			if c.hasUpdates || propagate != 0 {
				if u.visit(c, propagate) {
					childChanged = true
				}
			}
		}
	}

	if n.offscreen != nil && (childChanged || sizeChanged || flags.Has(DirtyChildren)) {
		n.offscreen.valid = false
	}

	n.dirty &^= flags
	return changed || childChanged
}

func clampAlpha(a float64) float64 {
	if a < alphaEpsilon {
		return 0
	}
	return a
}

// resolveBounds classifies n against its scissor and applies the bounds
// margin hysteresis: a node enters when it is in bounds and exits only once
// it leaves the scissor expanded by its margin.
func (u *updater) resolveBounds(n *Node) {
	switch {
	case n.scissor.Empty():
		n.outOfBounds = FullyClipped
	case !n.bbox.Intersects(n.scissor):
		n.outOfBounds = OutsideVisible
		// Nodes that contain their descendants cull the whole subtree.
		if n.clipping || n.renderToTexture || (n.clipbox && n.renderW != 0 && n.renderH != 0) {
			n.outOfBounds = FullyClipped
		}
	default:
		n.outOfBounds = InBounds
	}

	within := n.withinMargin
	if n.outOfBounds == InBounds {
		within = true
	} else if n.scissor.Empty() || !n.bbox.Intersects(n.scissor.Expand(n.margin)) {
		within = false
	}
	if within != n.withinMargin {
		n.withinMargin = within
		u.events = append(u.events, boundsEvent{node: n, enter: within})
	}
}

// markClipped marks n and its subtree fully clipped without recomputing
// transforms. The subtree takes the margin state of the clipped ancestor: it
// stays within while that ancestor is inside its margin band.
func (u *updater) markClipped(n *Node, within bool) {
	if n.outOfBounds == FullyClipped && n.withinMargin == within {
		return
	}
	n.outOfBounds = FullyClipped
	if n.withinMargin != within {
		n.withinMargin = within
		u.events = append(u.events, boundsEvent{node: n, enter: within})
	}
	for _, c := range n.children {
		u.markClipped(c, within)
	}
}

// resolveSize recomputes the render size. Reports whether it changed.
func (n *Node) resolveSize() bool {
	w, h := n.layoutSize()
	if w == n.renderW && h == n.renderH {
		return false
	}
	n.renderW, n.renderH = w, h
	return true
}

// layoutSize returns the size n renders at from its current attributes,
// without running a layout.
func (n *Node) layoutSize() (float64, float64) {
	switch {
	case n.layout.valid:
		return n.layout.w, n.layout.h
	case n.isFlexContainer() && n.flex.applied:
		return n.flex.resolvedW, n.flex.resolvedH
	}
	pw, ph := n.parentSize()
	return n.w.Resolve(pw), n.h.Resolve(ph)
}

// relativeChildrenChanged schedules the children whose size depends on n's
// size. Items of a flex container are handled by its layout.
func (n *Node) relativeChildrenChanged() {
	for _, c := range n.children {
		if c.participates() {
			continue
		}
		if !c.w.IsRelative() && !c.h.IsRelative() {
			continue
		}
		c.setDirtyLocal(DirtyTranslate)
		if c.isFlexContainer() {
			c.flex.dirty = true
			c.setDirtyLocal(DirtyLayout)
		}
	}
}

// --- Update hooks ---

// SetUpdateHook installs fn to run during the update pass whenever
// RequestHook was called since the last pass. fn may change n's attributes;
// the changes apply in the same pass.
func (n *Node) SetUpdateHook(fn func(*Node)) {
	n.updateHook = fn
	if fn != nil {
		n.setDirty(DirtyHook)
	}
}

// RequestHook schedules n's update hook for the next update pass.
func (n *Node) RequestHook() {
	n.setDirty(DirtyHook)
}

// --- Queries ---

// ensureLayout runs a pending layout of the flex tree n belongs to. The root's
// layout bit is cleared before running so a nested query sees nothing pending.
func (n *Node) ensureLayout() {
	var c *Node
	switch {
	case n.isFlexContainer():
		c = n
	case n.participates():
		c = n.parent
	default:
		return
	}
	r := c.flexRoot()
	if !r.dirty.Has(DirtyLayout) || !r.visible {
		return
	}
	r.dirty &^= DirtyLayout
	if r.runLayout() {
		r.relativeChildrenChanged()
	}
	r.setDirty(DirtyTranslate)
}

// RenderWidth returns the width the node renders at, running a pending flex
// layout first.
func (n *Node) RenderWidth() float64 {
	n.ensureLayout()
	w, _ := n.layoutSize()
	return w
}

// RenderHeight returns the height the node renders at, running a pending flex
// layout first.
func (n *Node) RenderHeight() float64 {
	n.ensureLayout()
	_, h := n.layoutSize()
	return h
}

// LayoutPosition returns the position of the node's top-left corner in its
// parent's space: the flex layout position for flex items, else the position
// offset by the mount point.
func (n *Node) LayoutPosition() Vec2 {
	n.ensureLayout()
	if n.layout.valid {
		return Vec2{X: n.layout.x, Y: n.layout.y}
	}
	w, h := n.layoutSize()
	return Vec2{X: n.x - n.mountX*w, Y: n.y - n.mountY*h}
}

// WorldCorners returns the node's four corners in world space, clockwise
// from the top-left. A node with pending changes is recomputed against its
// parent's last world transform.
func (n *Node) WorldCorners() [4]Vec2 {
	n.ensureLayout()
	m := n.world.m
	w, h := n.renderW, n.renderH
	if n.dirty.Has(DirtyTranslate|DirtyTransform|DirtyVisible) || n.hasUpdates {
		w, h = n.layoutSize()
		pm := identityTransform
		if n.parent != nil {
			pm = n.parent.world.m
		} else if s := n.stage; s != nil {
			pm = s.scope.world.m
		}
		m = multiplyAffine(pm, computeLocalTransform(n, w, h))
	}
	var c [4]Vec2
	c[0].X, c[0].Y = transformPoint(m, 0, 0)
	c[1].X, c[1].Y = transformPoint(m, w, 0)
	c[2].X, c[2].Y = transformPoint(m, w, h)
	c[3].X, c[3].Y = transformPoint(m, 0, h)
	return c
}

// WorldAlpha returns the node's accumulated alpha as of the last update.
func (n *Node) WorldAlpha() float64 {
	return n.world.alpha
}

// WorldTransform returns the node's world affine matrix as of the last update.
func (n *Node) WorldTransform() [6]float64 {
	return n.world.m
}

// Bounds returns the node's axis-aligned bounding box in render space as of
// the last update.
func (n *Node) Bounds() Rect {
	return n.bbox
}

// OutOfBounds returns the node's culling state as of the last update.
func (n *Node) OutOfBounds() OutOfBounds {
	return n.outOfBounds
}

// WithinBoundsMargin reports whether the node is within the bounds margin
// band as of the last update.
func (n *Node) WithinBoundsMargin() bool {
	return n.withinMargin
}

// Dirty returns the node's pending dirty flags.
func (n *Node) Dirty() DirtyFlags {
	return n.dirty
}
