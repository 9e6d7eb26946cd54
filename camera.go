package canopy

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is the view transform a stage applies above its root: the world
// point at the camera position is shown at the center of the viewport. Once
// installed with Stage.SetCamera, world-space queries on nodes (WorldCorners,
// LocalToWorld) are in screen space.
//
// Setters record the change; the stage rebuilds the view and re-transforms
// the tree on its next Update.
type Camera struct {
	pos      Vec2
	zoom     float64
	rotation float64
	viewport Rect

	follow *cameraFollow
	scroll *cameraScroll
	limits cameraLimits

	view, inv [6]float64
	// shownInv inverts the view the tree was last updated with; the stage
	// sets it after each update pass.
	shownInv [6]float64
	dirty    bool
}

// FollowOptions configures Camera.Follow.
type FollowOptions struct {
	// Offset is added to the center of the target's bounds, in world units.
	Offset Vec2
	// Lerp is the fraction of the remaining distance covered per update.
	// Zero or one snaps.
	Lerp float64
	// DeadZone is the half size of a box around the camera position the
	// target may move in without moving the camera.
	DeadZone Vec2
}

type cameraFollow struct {
	node *Node
	opts FollowOptions
}

type cameraScroll struct {
	x, y         *gween.Tween
	doneX, doneY bool
}

// cameraLimits keeps the visible area inside a world rectangle, or inside
// the bounds of a node.
type cameraLimits struct {
	enabled bool
	rect    Rect
	node    *Node
}

// NewCamera creates a camera at the origin with zoom 1. An empty viewport is
// filled in by Stage.SetCamera.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		zoom:     1,
		viewport: viewport,
		shownInv: identityTransform,
		dirty:    true,
	}
}

// Position returns the world point shown at the viewport center.
func (c *Camera) Position() Vec2 { return c.pos }

// SetPosition moves the camera. Limits apply on the next update.
func (c *Camera) SetPosition(x, y float64) {
	if c.pos.X == x && c.pos.Y == y {
		return
	}
	c.pos = Vec2{x, y}
	c.dirty = true
}

// Move offsets the camera position by (dx, dy) world units.
func (c *Camera) Move(dx, dy float64) {
	c.SetPosition(c.pos.X+dx, c.pos.Y+dy)
}

// Zoom returns the scale factor; values above 1 zoom in.
func (c *Camera) Zoom() float64 { return c.zoom }

// SetZoom sets the scale factor. Panics if z is not positive.
func (c *Camera) SetZoom(z float64) {
	if !(z > 0) {
		panic("canopy: camera zoom must be positive")
	}
	if c.zoom != z {
		c.zoom = z
		c.dirty = true
	}
}

// Rotation returns the camera rotation in radians, clockwise.
func (c *Camera) Rotation() float64 { return c.rotation }

// SetRotation sets the camera rotation.
func (c *Camera) SetRotation(r float64) {
	if c.rotation != r {
		c.rotation = r
		c.dirty = true
	}
}

// Viewport returns the screen rectangle the camera renders into.
func (c *Camera) Viewport() Rect { return c.viewport }

// SetViewport sets the screen rectangle. Stage.SetViewport keeps it in sync
// with the stage.
func (c *Camera) SetViewport(r Rect) {
	if c.viewport != r {
		c.viewport = r
		c.dirty = true
	}
}

// Follow makes the camera track the center of n's bounds.
func (c *Camera) Follow(n *Node, opts FollowOptions) {
	c.follow = &cameraFollow{node: n, opts: opts}
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() {
	c.follow = nil
}

// Following returns the tracked node, or nil.
func (c *Camera) Following() *Node {
	if c.follow == nil {
		return nil
	}
	return c.follow.node
}

// ScrollTo animates the camera position to (x, y) over duration seconds.
// Following pauses until the scroll finishes.
func (c *Camera) ScrollTo(x, y float64, duration float32, fn ease.TweenFunc) {
	c.scroll = &cameraScroll{
		x: gween.New(float32(c.pos.X), float32(x), duration, fn),
		y: gween.New(float32(c.pos.Y), float32(y), duration, fn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// SetLimits keeps the visible area inside r, in world units. When r is
// smaller than the visible area the camera centers on it.
func (c *Camera) SetLimits(r Rect) {
	c.limits = cameraLimits{enabled: true, rect: r}
}

// LimitToNode keeps the visible area inside the current bounds of n, such as
// a level or content container.
func (c *Camera) LimitToNode(n *Node) {
	c.limits = cameraLimits{enabled: true, node: n}
}

// ClearLimits removes the limits.
func (c *Camera) ClearLimits() {
	c.limits = cameraLimits{}
}

// update advances scrolling, following and limits by dt seconds.
func (c *Camera) update(dt float32) {
	if s := c.scroll; s != nil {
		x, y := c.pos.X, c.pos.Y
		if !s.doneX {
			v, done := s.x.Update(dt)
			x, s.doneX = float64(v), done
		}
		if !s.doneY {
			v, done := s.y.Update(dt)
			y, s.doneY = float64(v), done
		}
		c.SetPosition(x, y)
		if s.doneX && s.doneY {
			c.scroll = nil
		}
	} else if f := c.follow; f != nil {
		if f.node.IsDisposed() {
			c.follow = nil
		} else {
			c.track(f)
		}
	}

	if c.limits.enabled {
		c.clamp()
	}
}

// track moves the camera toward the followed node's center.
func (c *Camera) track(f *cameraFollow) {
	b := c.worldBounds(f.node)
	tx := b.X + b.Width/2 + f.opts.Offset.X
	ty := b.Y + b.Height/2 + f.opts.Offset.Y
	dx := outside(tx-c.pos.X, f.opts.DeadZone.X)
	dy := outside(ty-c.pos.Y, f.opts.DeadZone.Y)
	if dx == 0 && dy == 0 {
		return
	}
	lerp := f.opts.Lerp
	if lerp <= 0 || lerp > 1 {
		lerp = 1
	}
	c.Move(dx*lerp, dy*lerp)
}

// outside returns how far d lies beyond [-zone, zone].
func outside(d, zone float64) float64 {
	switch {
	case d > zone:
		return d - zone
	case d < -zone:
		return d + zone
	}
	return 0
}

// worldBounds returns n's bounds in camera world space. n's world transform
// already contains the view it was last updated with.
func (c *Camera) worldBounds(n *Node) Rect {
	return boundingBox(multiplyAffine(c.shownInv, n.world.m), n.renderW, n.renderH)
}

// halfExtents returns half the size of the visible area's bounding box in
// world units.
func (c *Camera) halfExtents() (float64, float64) {
	sin, cos := math.Sincos(c.rotation)
	sin, cos = math.Abs(sin), math.Abs(cos)
	w, h := c.viewport.Width/c.zoom, c.viewport.Height/c.zoom
	return (w*cos + h*sin) / 2, (w*sin + h*cos) / 2
}

// clamp keeps the visible area inside the limits.
func (c *Camera) clamp() {
	r := c.limits.rect
	if n := c.limits.node; n != nil {
		if n.IsDisposed() {
			c.limits = cameraLimits{}
			return
		}
		r = c.worldBounds(n)
	}
	hw, hh := c.halfExtents()
	c.SetPosition(clampCenter(c.pos.X, r.X, r.Width, hw), clampCenter(c.pos.Y, r.Y, r.Height, hh))
}

// clampCenter keeps [v-half, v+half] inside [start, start+size], centering
// when it does not fit.
func clampCenter(v, start, size, half float64) float64 {
	if 2*half >= size {
		return start + size/2
	}
	return max(start+half, min(v, start+size-half))
}

// viewMatrix returns the view transform, rebuilding it after a change:
// translate to the viewport center, zoom, rotate by -rotation, then move the
// camera position to the origin.
func (c *Camera) viewMatrix() [6]float64 {
	if !c.dirty {
		return c.view
	}
	c.dirty = false
	sin, cos := math.Sincos(-c.rotation)
	z := c.zoom
	scaleRot := [6]float64{z * cos, z * sin, -z * sin, z * cos, 0, 0}
	center := [6]float64{1, 0, 0, 1, c.viewport.X + c.viewport.Width/2, c.viewport.Y + c.viewport.Height/2}
	toOrigin := [6]float64{1, 0, 0, 1, -c.pos.X, -c.pos.Y}
	c.view = multiplyAffine(center, multiplyAffine(scaleRot, toOrigin))
	c.inv = invertAffine(c.view)
	return c.view
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.viewMatrix(), wx, wy)
}

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.viewMatrix()
	return transformPoint(c.inv, sx, sy)
}

// VisibleBounds returns the world-space bounding box of the viewport.
func (c *Camera) VisibleBounds() Rect {
	c.viewMatrix()
	vp := c.viewport
	return boundingBox(multiplyAffine(c.inv, [6]float64{1, 0, 0, 1, vp.X, vp.Y}), vp.Width, vp.Height)
}

// Sees reports whether any part of n's bounds is visible through the camera.
func (c *Camera) Sees(n *Node) bool {
	return c.worldBounds(n).Intersects(c.VisibleBounds())
}
