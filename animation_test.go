package canopy

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	n := NewNode("n")
	g := TweenPosition(n, 100, 200, 1.0, ease.Linear)

	g.Update(0.5)
	if !approxEqual(n.X(), 50, 0.01) || !approxEqual(n.Y(), 100, 0.01) {
		t.Errorf("halfway = (%f, %f), want (50, 100)", n.X(), n.Y())
	}
	if g.Done {
		t.Error("Done too early")
	}

	g.Update(0.5)
	if !approxEqual(n.X(), 100, 0.01) || !approxEqual(n.Y(), 200, 0.01) {
		t.Errorf("end = (%f, %f), want (100, 200)", n.X(), n.Y())
	}
	if !g.Done {
		t.Error("Done = false after full duration")
	}
}

func TestTweenScaleRotationAlpha(t *testing.T) {
	n := NewNode("n")
	groups := []*TweenGroup{
		TweenScale(n, 2, 3, 1, ease.Linear),
		TweenRotation(n, 1.5, 1, ease.Linear),
		TweenAlpha(n, 0.25, 1, ease.Linear),
	}
	for _, g := range groups {
		g.Update(1)
	}
	if !approxEqual(n.ScaleX(), 2, 0.01) || !approxEqual(n.ScaleY(), 3, 0.01) {
		t.Errorf("scale = (%f, %f)", n.ScaleX(), n.ScaleY())
	}
	if !approxEqual(n.Rotation(), 1.5, 0.01) {
		t.Errorf("rotation = %f", n.Rotation())
	}
	if !approxEqual(n.Alpha(), 0.25, 0.01) {
		t.Errorf("alpha = %f", n.Alpha())
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	n := NewQuad("q", 10, 10, Color{R: 0, G: 0, B: 0, A: 1})
	to := Color{R: 1, G: 0.5, B: 0.25, A: 0.5}
	g := TweenColor(n, to, 1, ease.Linear)
	g.Update(1)

	c := n.Color()
	if !approxEqual(c.R, to.R, 0.01) || !approxEqual(c.G, to.G, 0.01) ||
		!approxEqual(c.B, to.B, 0.01) || !approxEqual(c.A, to.A, 0.01) {
		t.Errorf("Color = %+v, want %+v", c, to)
	}
}

func TestTweenMarksDirty(t *testing.T) {
	tests := []struct {
		name string
		make func(n *Node) *TweenGroup
		want DirtyFlags
	}{
		{"position", func(n *Node) *TweenGroup { return TweenPosition(n, 10, 0, 1, ease.Linear) }, DirtyTranslate},
		{"rotation", func(n *Node) *TweenGroup { return TweenRotation(n, 1, 1, ease.Linear) }, DirtyTransform},
		{"alpha", func(n *Node) *TweenGroup { return TweenAlpha(n, 0, 1, ease.Linear) }, DirtyAlpha},
		{"color", func(n *Node) *TweenGroup { return TweenColor(n, Color{A: 1}, 1, ease.Linear) }, DirtyHook},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewQuad("q", 10, 10, ColorWhite)
			updateTree(n)
			tt.make(n).Update(0.5)
			if !n.Dirty().Has(tt.want) {
				t.Errorf("dirty = %v, want %v", n.Dirty(), tt.want)
			}
		})
	}
}

func TestTweenGroupDisposedNode(t *testing.T) {
	n := NewNode("n")
	g := TweenPosition(n, 100, 0, 1, ease.Linear)
	g.Update(0.25)
	x := n.X()
	n.Dispose()

	g.Update(0.25)
	if !g.Done {
		t.Error("Done = false for disposed node")
	}
	if n.X() != x {
		t.Errorf("disposed node moved: %f -> %f", x, n.X())
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	TweenPosition(a, 100, 0, 1, ease.Linear).Update(0.25)
	TweenPosition(b, 100, 0, 1, ease.InQuad).Update(0.25)
	if approxEqual(a.X(), b.X(), 0.01) {
		t.Errorf("Linear and InQuad agree at t=0.25: %f", a.X())
	}
}

// --- Drivers on a stage ---

func TestStageRunsAndDropsDrivers(t *testing.T) {
	s, _ := newTestStage(800, 600)
	n := quadAt("n", 0, 0)
	s.Root().AddChild(n)
	s.AddDriver(TweenPosition(n, 100, 0, 1, ease.Linear))

	ticks := 0
	s.AddDriver(DriverFunc(func(dt float64) bool {
		ticks++
		return ticks == 3
	}))

	s.Update(0.5)
	assertNear(t, "world x", n.WorldTransform()[4], 50)
	s.Update(0.5)
	assertNear(t, "world x", n.WorldTransform()[4], 100)
	if got := len(s.Drivers()); got != 1 {
		t.Errorf("Drivers after tween = %d, want 1", got)
	}
	s.Update(0.5)
	if got := len(s.Drivers()); got != 0 {
		t.Errorf("Drivers = %d, want 0", got)
	}
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
}

type countingDriver struct{ calls int }

func (d *countingDriver) Drive(float64) bool {
	d.calls++
	return false
}

func TestStageRemoveDriver(t *testing.T) {
	s, _ := newTestStage(800, 600)
	d := &countingDriver{}
	s.AddDriver(d)
	s.Update(0)
	s.RemoveDriver(d)
	s.Update(0)
	if d.calls != 1 {
		t.Errorf("calls = %d, want 1", d.calls)
	}
}

func TestTweenSizeRelaysOutFlex(t *testing.T) {
	s, _ := newTestStage(800, 600)
	c, items := newRow(t, 300, 100, FlexConfig{}, 100, 100)
	s.Root().AddChild(c)
	s.Update(0)

	s.AddDriver(TweenSize(items[0], 150, 10, 1, ease.Linear))
	s.Update(1)
	assertNear(t, "a.w", items[0].RenderWidth(), 150)
	assertNear(t, "b.x", items[1].LayoutPosition().X, 150)
	if s.Stats().Layouts != 1 {
		t.Errorf("Layouts = %d, want 1", s.Stats().Layouts)
	}
}
