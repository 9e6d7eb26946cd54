package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Driver supplies new attribute values before each update pass. A stage runs
// its drivers at the start of Update and drops the ones that finish.
type Driver interface {
	// Drive advances the driver by dt seconds and reports whether it is done.
	Drive(dt float64) bool
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(dt float64) bool

// Drive calls f.
func (f DriverFunc) Drive(dt float64) bool { return f(dt) }

// TweenGroup animates up to 4 values of a Node simultaneously and writes them
// through the node's setters, so every step records the right dirty flags.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenSize, TweenAlpha, TweenRotation, TweenColor) and either call Update
// each frame or add it to a stage with AddDriver. If the target node is
// disposed, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	vals   [4]float64
	apply  func(n *Node, v *[4]float64)
	target *Node
	Done   bool
}

func newTweenGroup(n *Node, apply func(*Node, *[4]float64), duration float32, fn ease.TweenFunc, from, to []float64) *TweenGroup {
	g := &TweenGroup{count: len(from), target: n, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values. If the
// target node has been disposed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.target, &g.vals)
}

// Drive implements Driver.
func (g *TweenGroup) Drive(dt float64) bool {
	g.Update(float32(dt))
	return g.Done
}

// TweenPosition animates the node's position.
func TweenPosition(n *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, func(n *Node, v *[4]float64) { n.SetPosition(v[0], v[1]) },
		duration, fn, []float64{n.x, n.y}, []float64{toX, toY})
}

// TweenScale animates the node's scale factors.
func TweenScale(n *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, func(n *Node, v *[4]float64) { n.SetScale(v[0], v[1]) },
		duration, fn, []float64{n.scaleX, n.scaleY}, []float64{toSX, toSY})
}

// TweenSize animates the node's width and height from its current render
// size to fixed lengths. Flex layouts including the node are re-run.
func TweenSize(n *Node, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, func(n *Node, v *[4]float64) { n.SetSize(Fixed(v[0]), Fixed(v[1])) },
		duration, fn, []float64{n.RenderWidth(), n.RenderHeight()}, []float64{toW, toH})
}

// TweenAlpha animates the node's alpha.
func TweenAlpha(n *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, func(n *Node, v *[4]float64) { n.SetAlpha(v[0]) },
		duration, fn, []float64{n.alpha}, []float64{to})
}

// TweenRotation animates the node's rotation.
func TweenRotation(n *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, func(n *Node, v *[4]float64) { n.SetRotation(v[0]) },
		duration, fn, []float64{n.rotation}, []float64{to})
}

// TweenColor animates all four components of the node's color.
func TweenColor(n *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := n.color
	return newTweenGroup(n, func(n *Node, v *[4]float64) { n.SetColor(Color{v[0], v[1], v[2], v[3]}) },
		duration, fn, []float64{c.R, c.G, c.B, c.A}, []float64{to.R, to.G, to.B, to.A})
}
