package canopy

// flexSize is a size imposed on a container by its enclosing container.
// Unset axes are resolved by the container itself.
type flexSize struct {
	w, h       float64
	hasW, hasH bool
}

// flexLayout holds the state of one container's layout pass.
type flexLayout struct {
	node  *Node
	cfg   FlexConfig
	horiz bool

	contentW, contentH  float64
	mainSize, crossSize float64
	fitMain, fitCross   bool
}

// axis helpers: map (w, h) pairs to (main, cross) and back.

func (fl *flexLayout) mainCross(w, h float64) (float64, float64) {
	if fl.horiz {
		return w, h
	}
	return h, w
}

func (fl *flexLayout) widthHeight(main, cross float64) (float64, float64) {
	if fl.horiz {
		return main, cross
	}
	return cross, main
}

// resolveContainerAxis resolves one axis of a container's own size. The axis
// fits its contents when nothing imposes a size and the length is auto or
// resolves to zero.
func resolveContainerAxis(l Length, parent, assigned float64, hasAssigned bool) (size float64, fit bool) {
	if hasAssigned {
		return assigned, false
	}
	if l.IsAuto() {
		return 0, true
	}
	v := l.Resolve(parent)
	return v, v == 0
}

// layoutContainer lays out the items of container c and returns its
// border-box size. parentW and parentH are the sizes c's own relative lengths
// resolve against. With apply false the layout is only measured; with apply
// true the item boxes are written and nested containers are applied in turn.
// changed reports whether any layout box in the subtree moved or resized.
func layoutContainer(c *Node, parentW, parentH float64, assigned flexSize, apply bool) (w, h float64, changed bool) {
	e := c.flex
	cfg := e.cfg
	pad := cfg.Padding
	fl := flexLayout{node: c, cfg: cfg, horiz: cfg.Direction.horizontal()}

	var fitW, fitH bool
	w, fitW = resolveContainerAxis(c.w, parentW, assigned.w, assigned.hasW)
	h, fitH = resolveContainerAxis(c.h, parentH, assigned.h, assigned.hasH)
	if cfg.Wrap {
		// A wrapping container needs a main size to wrap against.
		if fl.horiz {
			fitW = false
		} else {
			fitH = false
		}
	}
	fl.contentW = max(0, w-pad.Horizontal())
	fl.contentH = max(0, h-pad.Vertical())
	fl.mainSize, fl.crossSize = fl.mainCross(fl.contentW, fl.contentH)
	if fl.horiz {
		fl.fitMain, fl.fitCross = fitW, fitH
	} else {
		fl.fitMain, fl.fitCross = fitH, fitW
	}

	nodes := e.Items()
	items := make([]flexItem, len(nodes))
	for i, child := range nodes {
		items[i] = fl.newItem(child)
	}

	lines := partitionLines(items, cfg.Wrap, fl.mainSize, nil)
	for li := range lines {
		fl.resolveLineMain(lines[li].items)
	}

	if fl.fitMain {
		fl.mainSize = 0
		for li := range lines {
			fl.mainSize = max(fl.mainSize, sumOuterMain(lines[li].items))
		}
	}

	fl.sizeLines(lines)
	totalCross := 0.0
	for li := range lines {
		totalCross += lines[li].cross
	}
	crossSpace := 0.0
	if fl.fitCross {
		fl.crossSize = totalCross
	} else {
		crossSpace = fl.crossSize - totalCross
	}
	alignLines(lines, crossSpace, cfg.alignContent())
	for li := range lines {
		fl.alignLine(&lines[li])
	}

	if cfg.Direction.reversed() {
		for i := range items {
			it := &items[i]
			// Mirror the margin box; margins stay on their physical sides.
			it.mainPos = fl.mainSize - (it.mainPos - it.marginMainStart) - it.outerMain() + it.marginMainStart
		}
	}

	contentW, contentH := fl.widthHeight(fl.mainSize, fl.crossSize)
	if fitW {
		w = contentW + pad.Horizontal()
	}
	if fitH {
		h = contentH + pad.Vertical()
	}

	if !apply {
		return w, h, false
	}

	for i := range items {
		it := &items[i]
		x, y := fl.widthHeight(it.mainPos, it.crossPos)
		bw, bh := fl.widthHeight(it.main, it.cross)
		box := layoutBox{x: pad.Left + x, y: pad.Top + y, w: bw, h: bh, valid: true}
		child := it.node
		if child.layout != box {
			child.layout = box
			child.setDirtyLocal(DirtyTranslate)
			changed = true
		}
		if it.container && applyNested(child, fl.contentW, fl.contentH, bw, bh) {
			child.hasUpdates = true
			changed = true
		}
	}
	e.resolvedW, e.resolvedH = w, h
	e.applied = true
	e.dirty = false
	e.lineCount = len(lines)
	if changed {
		c.hasUpdates = true
	}
	return w, h, changed
}

// applyNested applies the layout of nested container c at its assigned size.
// A cached layout is kept when nothing inside changed and the assigned size
// matches the size it was last resolved at.
func applyNested(c *Node, parentW, parentH, w, h float64) bool {
	e := c.flex
	if !e.dirty && e.applied && e.resolvedW == w && e.resolvedH == h {
		return false
	}
	_, _, changed := layoutContainer(c, parentW, parentH, flexSize{w: w, h: h, hasW: true, hasH: true}, true)
	return changed
}

// measureFit returns nested container c's fit-to-content size, cached while
// nothing inside it changed.
func measureFit(c *Node, parentW, parentH float64) (float64, float64) {
	e := c.flex
	if !e.dirty && e.hasFit && e.fitParentW == parentW && e.fitParentH == parentH {
		return e.fitW, e.fitH
	}
	w, h, _ := layoutContainer(c, parentW, parentH, flexSize{}, false)
	e.fitW, e.fitH = w, h
	e.fitParentW, e.fitParentH = parentW, parentH
	e.hasFit = true
	return w, h
}

// newItem builds the scratch state for child, measuring nested containers.
func (fl *flexLayout) newItem(child *Node) flexItem {
	cfg := child.itemConfig()
	it := flexItem{
		node:      child,
		container: child.isFlexContainer(),
		grow:      cfg.Grow,
		shrink:    cfg.Shrink,
		align:     cfg.AlignSelf,
	}
	if it.shrink == ShrinkAuto {
		it.shrink = 0
		if it.container {
			it.shrink = 1
		}
	}

	var w, h float64
	if it.container {
		w, h = measureFit(child, fl.contentW, fl.contentH)
	} else {
		w = child.w.Resolve(fl.contentW)
		h = child.h.Resolve(fl.contentH)
	}

	m := cfg.Margin
	if fl.horiz {
		it.minMain, it.maxMain = cfg.MinWidth, maxSetting(cfg.MaxWidth)
		it.minCross, it.maxCross = cfg.MinHeight, maxSetting(cfg.MaxHeight)
		it.marginMainStart, it.marginMainEnd = m.Left, m.Right
		it.marginCrossStart, it.marginCrossEnd = m.Top, m.Bottom
		it.mainAuto, it.crossAuto = child.w.IsAuto(), child.h.IsAuto()
	} else {
		it.minMain, it.maxMain = cfg.MinHeight, maxSetting(cfg.MaxHeight)
		it.minCross, it.maxCross = cfg.MinWidth, maxSetting(cfg.MaxWidth)
		it.marginMainStart, it.marginMainEnd = m.Top, m.Bottom
		it.marginCrossStart, it.marginCrossEnd = m.Left, m.Right
		it.mainAuto, it.crossAuto = child.h.IsAuto(), child.w.IsAuto()
	}
	main, cross := fl.mainCross(w, h)
	it.main = it.clampMain(main)
	it.cross = it.clampCross(cross)
	it.basis = it.main
	return it
}

// measureCross measures nested container item it at its current main size
// and returns the resulting cross size.
func (fl *flexLayout) measureCross(it *flexItem) float64 {
	var asg flexSize
	if fl.horiz {
		asg = flexSize{w: it.main, hasW: true}
	} else {
		asg = flexSize{h: it.main, hasH: true}
	}
	w, h, _ := layoutContainer(it.node, fl.contentW, fl.contentH, asg, false)
	_, cross := fl.mainCross(w, h)
	return cross
}

// measureMain measures nested container item it at its current cross size
// and returns the resulting main size.
func (fl *flexLayout) measureMain(it *flexItem) float64 {
	var asg flexSize
	if fl.horiz {
		asg = flexSize{h: it.cross, hasH: true}
	} else {
		asg = flexSize{w: it.cross, hasW: true}
	}
	w, h, _ := layoutContainer(it.node, fl.contentW, fl.contentH, asg, false)
	main, _ := fl.mainCross(w, h)
	return main
}

// parentSize returns the size n's relative lengths resolve against.
func (n *Node) parentSize() (float64, float64) {
	if n.parent != nil {
		return n.parent.renderW, n.parent.renderH
	}
	if n.stage != nil {
		return n.stage.scope.scissor.Width, n.stage.scope.scissor.Height
	}
	return 0, 0
}

// runLayout lays out the flex tree rooted at container n and updates n's
// resolved size. Reports whether n's size changed.
func (n *Node) runLayout() bool {
	pw, ph := n.parentSize()
	w, h, _ := layoutContainer(n, pw, ph, flexSize{}, true)
	if w == n.renderW && h == n.renderH {
		return false
	}
	n.renderW, n.renderH = w, h
	return true
}
