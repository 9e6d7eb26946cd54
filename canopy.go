package canopy

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, sizes, and corner points
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlapping region of r and other. The result has a
// zero size when the rectangles are disjoint.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Expand grows the rectangle outward by the given edges.
func (r Rect) Expand(e Edges) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// Edges represents values for four sides of a box (margins, padding, bounds
// margins).
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(v float64) Edges {
	return Edges{Top: v, Right: v, Bottom: v, Left: v}
}

// EdgeSymmetric creates Edges with vertical (top/bottom) and horizontal
// (left/right) values.
func EdgeSymmetric(v, h float64) Edges {
	return Edges{Top: v, Right: h, Bottom: v, Left: h}
}

// Horizontal returns the sum of Left and Right.
func (e Edges) Horizontal() float64 {
	return e.Left + e.Right
}

// Vertical returns the sum of Top and Bottom.
func (e Edges) Vertical() float64 {
	return e.Top + e.Bottom
}

// ShaderID identifies the shader a drawable node is rendered with. Zero is the
// renderer's default shader.
type ShaderID uint16

// OutOfBounds describes how a node relates to its effective scissor.
type OutOfBounds uint8

const (
	InBounds       OutOfBounds = iota // bbox intersects the scissor
	OutsideVisible                    // outside, but descendants must still be visited
	FullyClipped                      // neither the node nor its subtree can be visible
)

// String returns a short name for the state.
func (o OutOfBounds) String() string {
	switch o {
	case InBounds:
		return "in-bounds"
	case OutsideVisible:
		return "outside"
	case FullyClipped:
		return "clipped"
	default:
		return "unknown"
	}
}
