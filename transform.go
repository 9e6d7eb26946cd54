package canopy

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the node's
// transform attributes and the size w x h. Returns [a, b, c, d, tx, ty].
//
// The pivot (a fraction of the size) stays fixed under scale and rotation, and
// the mount point (also a fraction of the size) is placed at the position:
//
//	Translate(-pivot) -> Scale -> Rotate -> Translate(pivot) -> Translate(pos - mount)
//
// Nodes positioned by a flex container use the layout position and ignore
// their mount.
func computeLocalTransform(n *Node, w, h float64) [6]float64 {
	sin, cos := 0.0, 1.0
	if n.rotation != 0 {
		sin, cos = math.Sincos(n.rotation)
	}
	a := cos * n.scaleX
	b := sin * n.scaleX
	c := -sin * n.scaleY
	d := cos * n.scaleY

	px := n.pivotX * w
	py := n.pivotY * h

	var x, y float64
	if n.layout.valid {
		x, y = n.layout.x, n.layout.y
	} else {
		x = n.x - n.mountX*w
		y = n.y - n.mountY*h
	}

	return [6]float64{
		a, b, c, d,
		x + px - (a*px + c*py),
		y + py - (b*px + d*py),
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// axisAligned reports whether m maps axis-aligned rectangles to axis-aligned
// rectangles without flipping (no rotation, shear or negative scale).
func axisAligned(m [6]float64) bool {
	return m[1] == 0 && m[2] == 0 && m[0] >= 0 && m[3] >= 0
}

// boundingBox returns the axis-aligned box of the rectangle (0,0)-(w,h)
// transformed by m. Zero allocations.
func boundingBox(m [6]float64, w, h float64) Rect {
	if axisAligned(m) {
		return Rect{X: m[4], Y: m[5], Width: m[0] * w, Height: m[3] * h}
	}
	x0, y0 := m[4], m[5]
	x1, y1 := m[0]*w+m[4], m[1]*w+m[5]
	x2, y2 := m[0]*w+m[2]*h+m[4], m[1]*w+m[3]*h+m[5]
	x3, y3 := m[2]*h+m[4], m[3]*h+m[5]

	minX := min(x0, x1, x2, x3)
	minY := min(y0, y1, y2, y3)
	maxX := max(x0, x1, x2, x3)
	maxY := max(y0, y1, y2, y3)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// --- Transform attribute setters ---

// X returns the node's local X position.
func (n *Node) X() float64 { return n.x }

// Y returns the node's local Y position.
func (n *Node) Y() float64 { return n.y }

// SetPosition sets the node's local X and Y.
func (n *Node) SetPosition(x, y float64) {
	if n.x == x && n.y == y {
		return
	}
	n.x = x
	n.y = y
	n.setDirty(DirtyTranslate)
}

// SetX sets the node's local X.
func (n *Node) SetX(x float64) { n.SetPosition(x, n.y) }

// SetY sets the node's local Y.
func (n *Node) SetY(y float64) { n.SetPosition(n.x, y) }

// Width returns the node's width attribute.
func (n *Node) Width() Length { return n.w }

// Height returns the node's height attribute.
func (n *Node) Height() Length { return n.h }

// SetSize sets the node's width and height attributes.
func (n *Node) SetSize(w, h Length) {
	if n.w.equal(w) && n.h.equal(h) {
		return
	}
	n.w = w
	n.h = h
	n.sizeChanged()
}

// SetWidth sets the node's width attribute.
func (n *Node) SetWidth(w Length) { n.SetSize(w, n.h) }

// SetHeight sets the node's height attribute.
func (n *Node) SetHeight(h Length) { n.SetSize(n.w, h) }

// sizeChanged records a size attribute change. Size moves the pivot and mount
// points and the bounds, and may change a flex line.
func (n *Node) sizeChanged() {
	n.setDirty(DirtyTranslate)
	n.markLayoutChanged()
	if n.flex != nil {
		n.markFlexRootDirty()
	}
}

// ScaleX returns the horizontal scale factor.
func (n *Node) ScaleX() float64 { return n.scaleX }

// ScaleY returns the vertical scale factor.
func (n *Node) ScaleY() float64 { return n.scaleY }

// SetScale sets the node's scale factors.
func (n *Node) SetScale(sx, sy float64) {
	if n.scaleX == sx && n.scaleY == sy {
		return
	}
	n.scaleX = sx
	n.scaleY = sy
	n.setDirty(DirtyTransform)
}

// Rotation returns the rotation in radians.
func (n *Node) Rotation() float64 { return n.rotation }

// SetRotation sets the node's rotation (in radians, clockwise).
func (n *Node) SetRotation(r float64) {
	if n.rotation == r {
		return
	}
	n.rotation = r
	n.setDirty(DirtyTransform)
}

// Pivot returns the pivot as a fraction of the node's size.
func (n *Node) Pivot() (px, py float64) { return n.pivotX, n.pivotY }

// SetPivot sets the point, as a fraction of the node's size, that stays fixed
// under scale and rotation. The default is the center (0.5, 0.5).
func (n *Node) SetPivot(px, py float64) {
	if n.pivotX == px && n.pivotY == py {
		return
	}
	n.pivotX = px
	n.pivotY = py
	n.setDirty(DirtyTranslate)
}

// Mount returns the mount anchor as a fraction of the node's size.
func (n *Node) Mount() (mx, my float64) { return n.mountX, n.mountY }

// SetMount sets the point, as a fraction of the node's size, that is placed at
// the node's position. The default is the top-left corner (0, 0).
func (n *Node) SetMount(mx, my float64) {
	if n.mountX == mx && n.mountY == my {
		return
	}
	n.mountX = mx
	n.mountY = my
	n.setDirty(DirtyTranslate)
}

// Alpha returns the node's local alpha.
func (n *Node) Alpha() float64 { return n.alpha }

// SetAlpha sets the node's local alpha.
func (n *Node) SetAlpha(a float64) {
	if n.alpha == a {
		return
	}
	n.alpha = a
	n.setDirty(DirtyAlpha)
}

// Visible reports whether the node is visible.
func (n *Node) Visible() bool { return n.visible }

// SetVisible shows or hides the node and its subtree. Hidden nodes are skipped
// by the update pass and do not take part in flex layout.
func (n *Node) SetVisible(v bool) {
	if n.visible == v {
		return
	}
	n.visible = v
	if v {
		n.setDirty(DirtyVisible)
	} else {
		n.setDirty(DirtyAlpha)
	}
	if n.parent != nil && n.parent.flex != nil {
		n.parent.flex.itemsValid = false
	}
	n.markLayoutChanged()
}

// Clipping reports whether the node clips its descendants to its bounds.
func (n *Node) Clipping() bool { return n.clipping }

// SetClipping makes the node clip its descendants to its bounding box.
func (n *Node) SetClipping(c bool) {
	if n.clipping == c {
		return
	}
	n.clipping = c
	n.setDirty(DirtyTranslate)
}

// ClipBox reports whether the node's box is treated as containing its
// descendants for culling.
func (n *Node) ClipBox() bool { return n.clipbox }

// SetClipBox controls whether a sized node that lies entirely outside the
// scissor culls its whole subtree (true, the default) or keeps visiting its
// descendants because they may extend outside its box.
func (n *Node) SetClipBox(c bool) {
	if n.clipbox == c {
		return
	}
	n.clipbox = c
	n.setDirty(DirtyTranslate)
}

// BoundsMargin returns the explicit bounds margin, or nil when inherited.
func (n *Node) BoundsMargin() *Edges {
	return n.boundsMargin
}

// SetBoundsMargin sets the hysteresis band around the scissor used for
// enter/exit bounds notifications. Nil inherits the parent's margin.
func (n *Node) SetBoundsMargin(m *Edges) {
	if m != nil {
		c := *m
		m = &c
	}
	n.boundsMargin = m
	n.setDirty(DirtyTranslate)
}

// MarkDirty forces a full recomputation of the node on the next frame.
// Useful after bulk changes made through an update hook.
func (n *Node) MarkDirty() {
	n.setDirty(DirtyTranslate | DirtyTransform | DirtyAlpha)
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	inv := invertAffine(n.world.m)
	return transformPoint(inv, wx, wy)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.world.m, lx, ly)
}
