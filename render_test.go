package canopy

import "testing"

func quadAt(name string, x, y float64) *Node {
	n := NewQuad(name, 10, 10, ColorWhite)
	n.SetPosition(x, y)
	return n
}

// --- Draw order ---

func TestRenderZOrder(t *testing.T) {
	s, r := newTestStage(800, 600)
	a := quadAt("a", 0, 0)
	b := quadAt("b", 0, 0)
	b.SetZIndex(1)
	c := quadAt("c", 0, 0)
	c.SetZIndex(-1)
	d := quadAt("d", 0, 0)
	for _, n := range []*Node{a, b, c, d} {
		s.Root().AddChild(n)
	}
	s.Frame(0)

	assertNames(t, r.Names(), []string{"c", "a", "d", "b"})
}

func TestRenderNestedZIndexDrawsInContext(t *testing.T) {
	s, r := newTestStage(800, 600)
	group := NewNode("group")
	y := quadAt("y", 0, 0)
	x := quadAt("x", 0, 0)
	x.SetZIndex(2)
	group.AddChild(y)
	group.AddChild(x)
	s.Root().AddChild(group)
	s.Root().AddChild(quadAt("q", 0, 0))
	s.Frame(0)

	assertNames(t, r.Names(), []string{"y", "q", "x"})
}

func TestRenderContextRootScopesItsDescendants(t *testing.T) {
	s, r := newTestStage(800, 600)
	s.Root().AddChild(quadAt("q", 0, 0))
	layer := NewNode("layer")
	layer.SetZIndex(1)
	x := quadAt("x", 0, 0)
	x.SetZIndex(-5)
	layer.AddChild(quadAt("y", 0, 0))
	layer.AddChild(x)
	s.Root().AddChild(layer)
	s.Frame(0)

	// x sorts before y inside layer, but layer as a whole is above q.
	assertNames(t, r.Names(), []string{"q", "x", "y"})
}

func TestRenderChildIndexChangesOrder(t *testing.T) {
	s, r := newTestStage(800, 600)
	a, b := quadAt("a", 0, 0), quadAt("b", 0, 0)
	s.Root().AddChild(a)
	s.Root().AddChild(b)
	s.Frame(0)
	assertNames(t, r.Names(), []string{"a", "b"})

	s.Root().SetChildIndex(b, 0)
	s.Frame(0)
	assertNames(t, r.Names(), []string{"b", "a"})
}

// --- Skipped nodes ---

func TestRenderSkipsHiddenTransparentAndCulled(t *testing.T) {
	s, r := newTestStage(800, 600)
	s.Root().AddChild(quadAt("a", 0, 0))

	hidden := NewNode("hidden")
	x := quadAt("x", 0, 0)
	x.SetZIndex(1)
	hidden.AddChild(x)
	hidden.AddChild(quadAt("h", 0, 0))
	hidden.SetVisible(false)
	s.Root().AddChild(hidden)

	faded := quadAt("faded", 0, 0)
	faded.SetAlpha(0)
	s.Root().AddChild(faded)

	s.Root().AddChild(quadAt("far", 2000, 0))

	s.Root().AddChild(NewNode("container"))
	s.Frame(0)

	assertNames(t, r.Names(), []string{"a"})
	if got := s.Stats().Drawables; got != 1 {
		t.Errorf("Drawables = %d, want 1", got)
	}
}

func TestRenderShowsNodeAgain(t *testing.T) {
	s, r := newTestStage(800, 600)
	n := quadAt("n", 0, 0)
	s.Root().AddChild(n)
	n.SetVisible(false)
	s.Frame(0)
	assertNames(t, r.Names())

	n.SetVisible(true)
	s.Frame(0)
	assertNames(t, r.Names(), []string{"n"})
}

// --- Batching ---

func TestRenderBatchesByShader(t *testing.T) {
	s, r := newTestStage(800, 600)
	for i, sh := range []ShaderID{0, 0, 1, 1, 0} {
		n := quadAt(string(rune('a'+i)), 0, 0)
		n.SetShader(sh)
		s.Root().AddChild(n)
	}
	s.Frame(0)

	assertNames(t, r.Names(), []string{"a", "b"}, []string{"c", "d"}, []string{"e"})
	if got := s.Stats().Batches; got != 3 {
		t.Errorf("Stats.Batches = %d, want 3", got)
	}
	if got := len(s.Batches()); got != 3 {
		t.Errorf("len(Batches()) = %d, want 3", got)
	}
}

func TestRenderBatchesByScissor(t *testing.T) {
	s, r := newTestStage(800, 600)
	s.Root().AddChild(quadAt("a", 0, 0))
	box := NewNode("box")
	box.SetSize(Fixed(100), Fixed(100))
	box.SetClipping(true)
	box.AddChild(quadAt("b", 10, 10))
	box.AddChild(quadAt("edge", 95, 95))
	box.AddChild(quadAt("outside", 150, 150))
	s.Root().AddChild(box)
	s.Root().AddChild(quadAt("d", 200, 200))
	s.Frame(0)

	assertNames(t, r.Names(), []string{"a"}, []string{"b", "edge"}, []string{"d"})
	want := Rect{Width: 100, Height: 100}
	if sc := r.Batches[1].Scissor; sc == nil || *sc != want {
		t.Errorf("scissor = %v, want %v", sc, want)
	}
	if r.Batches[2].Scissor != nil {
		t.Error("sibling after the clip should be unclipped")
	}
}

// --- Offscreen ---

func newPanelScene(s *Stage) (panel, r0, r1 *Node) {
	s.Root().AddChild(quadAt("a", 0, 0))
	panel = NewNode("panel")
	panel.SetSize(Fixed(100), Fixed(50))
	panel.SetPosition(10, 10)
	panel.SetRenderToTexture(true)
	r0 = quadAt("r0", 5, 5)
	r1 = quadAt("r1", 20, 5)
	panel.AddChild(r0)
	panel.AddChild(r1)
	s.Root().AddChild(panel)
	s.Root().AddChild(quadAt("z", 300, 0))
	return panel, r0, r1
}

func TestRenderOffscreenSubtree(t *testing.T) {
	s, r := newTestStage(800, 600)
	panel, r0, _ := newPanelScene(s)
	s.Frame(0)

	assertNames(t, r.Names(), []string{"a"}, []string{"r0", "r1"}, []string{"panel", "z"})
	tgt, ok := r.Batches[1].Target.(*RecordedTarget)
	if !ok {
		t.Fatalf("offscreen batch target = %T", r.Batches[1].Target)
	}
	if tgt.W != 128 || tgt.H != 64 {
		t.Errorf("target = %dx%d, want 128x64", tgt.W, tgt.H)
	}
	if panel.OffscreenTarget() != tgt {
		t.Error("panel should draw its target")
	}
	if w, h := panel.OffscreenSize(); w != 100 || h != 50 {
		t.Errorf("OffscreenSize = %dx%d, want 100x50", w, h)
	}

	// Descendants draw relative to the target, not the screen.
	assertNear(t, "render x", r0.RenderTransform()[4], 5)
	assertNear(t, "world x", r0.WorldTransform()[4], 15)

	st := s.Stats()
	if st.OffscreenRebuilds != 1 || st.OffscreenReuses != 0 || st.LiveTargets != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestRenderOffscreenCacheReuse(t *testing.T) {
	s, r := newTestStage(800, 600)
	_, _, r1 := newPanelScene(s)
	s.Frame(0)

	s.Frame(0)
	assertNames(t, r.Names(), []string{"a", "panel", "z"})
	if st := s.Stats(); st.OffscreenReuses != 1 || st.OffscreenRebuilds != 0 {
		t.Errorf("unchanged frame: %+v", st)
	}

	r1.SetColor(Color{R: 1, A: 1})
	s.Frame(0)
	assertNames(t, r.Names(), []string{"a"}, []string{"r0", "r1"}, []string{"panel", "z"})
	if st := s.Stats(); st.OffscreenRebuilds != 1 {
		t.Errorf("changed frame rebuilds = %d, want 1", st.OffscreenRebuilds)
	}
}

func TestRenderOffscreenEmptyRebuildClearsTarget(t *testing.T) {
	s, r := newTestStage(800, 600)
	panel, r0, r1 := newPanelScene(s)
	r1.Dispose()
	s.Frame(0)
	tgt := panel.OffscreenTarget()

	r0.SetVisible(false)
	s.Frame(0)
	if st := s.Stats(); st.OffscreenRebuilds != 1 {
		t.Fatalf("rebuilds = %d, want 1", st.OffscreenRebuilds)
	}
	// The redraw still opens a batch on the target so its old pixels go.
	assertNames(t, r.Names(), []string{"a"}, nil, []string{"panel", "z"})
	if r.Batches[1].Target != tgt {
		t.Errorf("empty batch target = %v, want the panel target", r.Batches[1].Target)
	}

	// Content drawn into the target needs no extra batch.
	r0.SetVisible(true)
	s.Frame(0)
	assertNames(t, r.Names(), []string{"a"}, []string{"r0"}, []string{"panel", "z"})
}

func TestRenderOffscreenCacheDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 800, 600
	cfg.OffscreenCache = false
	r := NewRecordingRenderer()
	s := NewStage(cfg, r)
	newPanelScene(s)

	for i := 0; i < 3; i++ {
		s.Frame(0)
		if got := s.Stats().OffscreenRebuilds; got != 1 {
			t.Errorf("frame %d rebuilds = %d, want 1", i, got)
		}
	}
	if r.Allocated != 1 {
		t.Errorf("Allocated = %d, want 1", r.Allocated)
	}
}

func TestRenderNestedOffscreen(t *testing.T) {
	s, r := newTestStage(800, 600)
	outer := NewNode("outer")
	outer.SetSize(Fixed(200), Fixed(200))
	outer.SetRenderToTexture(true)
	inner := NewNode("inner")
	inner.SetSize(Fixed(50), Fixed(50))
	inner.SetPosition(10, 10)
	inner.SetRenderToTexture(true)
	i0 := quadAt("i0", 0, 0)
	o0 := quadAt("o0", 100, 100)
	inner.AddChild(i0)
	outer.AddChild(inner)
	outer.AddChild(o0)
	s.Root().AddChild(outer)
	s.Frame(0)

	// Each target is complete before the batch that draws it.
	assertNames(t, r.Names(), []string{"i0"}, []string{"inner", "o0"}, []string{"outer"})
	t2 := r.Batches[0].Target.(*RecordedTarget)
	t1 := r.Batches[1].Target.(*RecordedTarget)
	if t2.W != 64 || t1.W != 256 {
		t.Errorf("targets = %d, %d, want 64, 256", t2.W, t1.W)
	}
	if s.Stats().OffscreenRebuilds != 2 {
		t.Errorf("rebuilds = %d, want 2", s.Stats().OffscreenRebuilds)
	}

	// A change in the outer scope keeps the inner target.
	o0.SetColor(Color{G: 1, A: 1})
	s.Frame(0)
	assertNames(t, r.Names(), []string{"inner", "o0"}, []string{"outer"})
	if st := s.Stats(); st.OffscreenRebuilds != 1 || st.OffscreenReuses != 1 {
		t.Errorf("stats = %+v", st)
	}

	// A change deep inside invalidates both.
	i0.SetAlpha(0.5)
	s.Frame(0)
	if st := s.Stats(); st.OffscreenRebuilds != 2 {
		t.Errorf("rebuilds = %d, want 2", st.OffscreenRebuilds)
	}
}

func TestRenderWithoutRenderer(t *testing.T) {
	cfg := DefaultConfig()
	s := NewStage(cfg, nil)
	newPanelScene(s)
	s.Frame(0)

	// Batches are still built; offscreen nodes need a renderer for targets.
	var names []string
	for _, b := range s.Batches() {
		for _, n := range b.Nodes {
			names = append(names, n.Name)
		}
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "z" {
		t.Errorf("names = %v, want [a z]", names)
	}
}
