package canopy

import "time"

// BoundsObserver is notified when nodes enter or leave the bounds margin band
// around the viewport. Notifications are delivered after the update pass,
// after the nodes' own OnEnterBounds/OnExitBounds callbacks.
type BoundsObserver interface {
	EnterBounds(n *Node)
	ExitBounds(n *Node)
}

// Stage is the top-level object that owns the node tree and runs the frame
// loop: Update recomputes derived state, Render builds batches and hands
// them to the renderer.
type Stage struct {
	root     *Node
	cfg      Config
	renderer Renderer
	scope    updateScope
	camera   *Camera
	drivers  []Driver
	observer BoundsObserver

	needsUpdate bool

	u     updater
	rp    renderPass
	pool  targetPool
	stats Stats
	frame uint64
}

// NewStage creates a stage with an empty root node sized to the viewport. r
// may be nil, in which case batches are built but not submitted.
func NewStage(cfg Config, r Renderer) *Stage {
	s := &Stage{cfg: cfg, renderer: r}
	s.root = NewNode("root")
	s.root.stage = s
	s.root.SetSize(Percent(100), Percent(100))
	s.pool.r = r
	s.rp.pool = &s.pool
	s.scope = updateScope{
		world:   identityContext,
		scissor: Rect{Width: cfg.Width, Height: cfg.Height},
		margin:  EdgeAll(cfg.BoundsMargin),
	}
	s.needsUpdate = true
	if cfg.Debug {
		s.SetDebugMode(true)
	}
	return s
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node {
	return s.root
}

// Config returns the stage settings.
func (s *Stage) Config() Config {
	return s.cfg
}

// Renderer returns the renderer batches are submitted to.
func (s *Stage) Renderer() Renderer {
	return s.renderer
}

// SetRenderer replaces the renderer. Offscreen targets allocated by the old
// renderer are released to it.
func (s *Stage) SetRenderer(r Renderer) {
	if r == s.renderer {
		return
	}
	s.releaseTargets(s.root)
	if s.pool.r != nil {
		s.pool.drain()
	}
	s.renderer = r
	s.pool.r = r
}

// releaseTargets returns every offscreen target held in the subtree to the
// pool.
func (s *Stage) releaseTargets(n *Node) {
	if n.offscreen != nil {
		n.releaseOffscreen()
	}
	for _, c := range n.children {
		s.releaseTargets(c)
	}
}

// Viewport returns the screen rectangle the root is culled against.
func (s *Stage) Viewport() Rect {
	return s.scope.scissor
}

// SetViewport resizes the viewport.
func (s *Stage) SetViewport(w, h float64) {
	if s.scope.scissor.Width == w && s.scope.scissor.Height == h {
		return
	}
	s.scope.scissor = Rect{Width: w, Height: h}
	s.cfg.Width, s.cfg.Height = w, h
	if s.camera != nil {
		s.camera.SetViewport(s.scope.scissor)
	}
	s.root.setDirty(DirtyTranslate)
	s.root.relativeChildrenChanged()
	if s.root.isFlexContainer() {
		s.root.markFlexRootDirty()
	}
}

// Camera returns the stage camera, or nil.
func (s *Stage) Camera() *Camera {
	return s.camera
}

// SetCamera installs a camera above the root. Nil removes it.
func (s *Stage) SetCamera(c *Camera) {
	s.camera = c
	if c != nil {
		if c.viewport.Empty() {
			c.SetViewport(s.scope.scissor)
		}
		c.shownInv = invertAffine(s.scope.world.m)
	}
	s.applyCamera()
}

// applyCamera updates the root's parent context from the camera.
func (s *Stage) applyCamera() {
	m := identityTransform
	if s.camera != nil {
		m = s.camera.viewMatrix()
	}
	if m == s.scope.world.m {
		return
	}
	s.scope.world.m = m
	s.root.setDirty(DirtyTransform)
}

// AddDriver registers an attribute driver run at the start of every Update.
func (s *Stage) AddDriver(d Driver) {
	s.drivers = append(s.drivers, d)
}

// RemoveDriver unregisters a driver. d must be comparable; a DriverFunc
// cannot be removed and runs until it reports done.
func (s *Stage) RemoveDriver(d Driver) {
	for i, x := range s.drivers {
		if x == d {
			s.drivers = append(s.drivers[:i], s.drivers[i+1:]...)
			return
		}
	}
}

// Drivers returns the registered drivers. The returned slice MUST NOT be mutated.
func (s *Stage) Drivers() []Driver {
	return s.drivers
}

// SetBoundsObserver installs o to receive enter/exit bounds notifications.
func (s *Stage) SetBoundsObserver(o BoundsObserver) {
	s.observer = o
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and per-frame
// stats are logged at debug level.
func (s *Stage) SetDebugMode(enabled bool) {
	s.cfg.Debug = enabled
	globalDebug = enabled
}

// NeedsUpdate reports whether anything changed since the last Update.
func (s *Stage) NeedsUpdate() bool {
	if c := s.camera; c != nil && (c.dirty || c.scroll != nil) {
		return true
	}
	return s.needsUpdate || s.root.hasUpdates
}

// Update runs the attribute drivers, advances the camera and brings the
// tree's derived state up to date. dt is the frame time in seconds.
func (s *Stage) Update(dt float64) {
	s.frame++
	s.stats = Stats{Frame: s.frame}
	var t0 time.Time
	if s.cfg.Debug {
		t0 = time.Now()
	}

	if len(s.drivers) > 0 {
		live := s.drivers[:0]
		for _, d := range s.drivers {
			if !d.Drive(dt) {
				live = append(live, d)
			}
		}
		clear(s.drivers[len(live):])
		s.drivers = live
	}
	if s.camera != nil {
		s.camera.update(float32(dt))
		s.applyCamera()
	}

	if s.NeedsUpdate() {
		s.needsUpdate = false
		s.u.reset(&s.scope)
		s.u.visit(s.root, 0)
		s.stats.Visited = s.u.visited
		s.stats.Consumed = s.u.consumed
		s.stats.Layouts = s.u.layouts
		if s.camera != nil {
			s.camera.shownInv = invertAffine(s.scope.world.m)
		}
		s.dispatchBounds()
	}

	if s.cfg.Debug {
		s.stats.UpdateTime = time.Since(t0)
	}
}

// dispatchBounds delivers the enter/exit notifications collected by the
// update pass.
func (s *Stage) dispatchBounds() {
	for _, ev := range s.u.events {
		n := ev.node
		if ev.enter {
			if n.OnEnterBounds != nil {
				n.OnEnterBounds(n)
			}
			if s.observer != nil {
				s.observer.EnterBounds(n)
			}
		} else {
			if n.OnExitBounds != nil {
				n.OnExitBounds(n)
			}
			if s.observer != nil {
				s.observer.ExitBounds(n)
			}
		}
	}
	clear(s.u.events)
	s.u.events = s.u.events[:0]
}

// Render walks the tree in draw order, builds batches and submits them to
// the renderer.
func (s *Stage) Render() {
	var t0 time.Time
	if s.cfg.Debug {
		t0 = time.Now()
	}

	if s.renderer != nil {
		s.renderer.ResetFrame()
	}
	rp := &s.rp
	rp.b.reset(s.renderer)
	rp.useCache = s.cfg.OffscreenCache
	rp.rebuilds, rp.reuses = 0, 0
	rp.drawRoot(s.root, nil)
	rp.b.flush()
	if s.renderer != nil {
		s.pool.endFrame()
	}

	s.stats.Batches = len(rp.b.batches)
	s.stats.Drawables = rp.b.drawableCount()
	s.stats.OffscreenRebuilds = rp.rebuilds
	s.stats.OffscreenReuses = rp.reuses
	s.stats.LiveTargets = s.pool.live

	if s.cfg.Debug {
		s.stats.RenderTime = time.Since(t0)
		debugLog(s.stats)
	}
}

// Frame runs Update then Render.
func (s *Stage) Frame(dt float64) {
	s.Update(dt)
	s.Render()
}

// Batches returns the batches built by the last Render. The slice is reused
// by the next Render.
func (s *Stage) Batches() []Batch {
	return s.rp.b.batches
}

// Stats returns the metrics of the last frame.
func (s *Stage) Stats() Stats {
	return s.stats
}

// Close releases every offscreen target to the renderer.
func (s *Stage) Close() {
	s.releaseTargets(s.root)
	if s.pool.r != nil {
		s.pool.drain()
	}
}
