package canopy

import "math"

// --- Offscreen target pool ---

// targetPool hands out renderer targets keyed by power-of-two dimensions.
// Released targets are kept for reuse and returned to the renderer once they
// sit unused through a whole frame.
type targetPool struct {
	r       Renderer
	buckets map[uint64][]pooledTarget
	frame   int
	live    int
}

type pooledTarget struct {
	t     Target
	frame int // frame the target was released in
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// acquire returns a target of at least w x h pixels, or nil without a
// renderer.
func (p *targetPool) acquire(w, h int) Target {
	if p.r == nil {
		return nil
	}
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)
	if stack := p.buckets[key]; len(stack) > 0 {
		t := stack[len(stack)-1].t
		p.buckets[key] = stack[:len(stack)-1]
		return t
	}
	p.live++
	return p.r.AllocateOffscreenTarget(pw, ph)
}

// release returns t to the pool.
func (p *targetPool) release(t Target) {
	if t == nil {
		return
	}
	if p.buckets == nil {
		p.buckets = make(map[uint64][]pooledTarget)
	}
	key := poolKey(t.Width(), t.Height())
	p.buckets[key] = append(p.buckets[key], pooledTarget{t: t, frame: p.frame})
}

// endFrame frees targets that were not reused since the previous frame.
func (p *targetPool) endFrame() {
	for key, stack := range p.buckets {
		kept := stack[:0]
		for _, pt := range stack {
			if pt.frame < p.frame {
				p.r.ReleaseOffscreenTarget(pt.t)
				p.live--
				continue
			}
			kept = append(kept, pt)
		}
		if len(kept) == 0 {
			delete(p.buckets, key)
		} else {
			p.buckets[key] = kept
		}
	}
	p.frame++
}

// drain frees every pooled target.
func (p *targetPool) drain() {
	for key, stack := range p.buckets {
		for _, pt := range stack {
			p.r.ReleaseOffscreenTarget(pt.t)
			p.live--
		}
		delete(p.buckets, key)
	}
}

// --- Per-node offscreen state ---

// offscreenCache is the target a render-to-texture node draws its subtree
// into, and whether last frame's content is still valid.
type offscreenCache struct {
	pool   *targetPool
	target Target
	w, h   int // content size in pixels
	valid  bool
}

// ensureOffscreen returns n's offscreen state with a target large enough for
// its current render size, or nil when the node has no area.
func (n *Node) ensureOffscreen(pool *targetPool) *offscreenCache {
	w := int(math.Ceil(n.renderW))
	h := int(math.Ceil(n.renderH))
	if w <= 0 || h <= 0 {
		n.releaseOffscreen()
		return nil
	}
	oc := n.offscreen
	if oc != nil && oc.pool != pool {
		n.releaseOffscreen()
		oc = nil
	}
	if oc == nil {
		oc = &offscreenCache{pool: pool}
		n.offscreen = oc
	}
	if oc.target == nil || oc.w != w || oc.h != h {
		if oc.target == nil || oc.target.Width() < w || oc.target.Height() < h {
			pool.release(oc.target)
			oc.target = pool.acquire(w, h)
			if oc.target == nil {
				n.offscreen = nil
				return nil
			}
		}
		oc.w, oc.h = w, h
		oc.valid = false
	}
	return oc
}

// releaseOffscreen returns n's target to its pool.
func (n *Node) releaseOffscreen() {
	if n.offscreen == nil {
		return
	}
	if n.offscreen.pool != nil {
		n.offscreen.pool.release(n.offscreen.target)
	}
	n.offscreen = nil
}

// OffscreenTarget returns the target holding the node's rendered subtree, or
// nil if it does not render to texture. Renderers draw this target for the
// node instead of its image.
func (n *Node) OffscreenTarget() Target {
	if n.offscreen == nil {
		return nil
	}
	return n.offscreen.target
}

// OffscreenSize returns the pixel size of the content drawn into the node's
// offscreen target, which may be smaller than the target itself.
func (n *Node) OffscreenSize() (w, h int) {
	if n.offscreen == nil {
		return 0, 0
	}
	return n.offscreen.w, n.offscreen.h
}

// RenderToTexture reports whether the node renders its subtree offscreen.
func (n *Node) RenderToTexture() bool { return n.renderToTexture }

// SetRenderToTexture makes the node render its subtree into an offscreen
// target, which is then drawn as a single quad. The target is reused while
// nothing in the subtree changes.
func (n *Node) SetRenderToTexture(on bool) {
	if n.renderToTexture == on {
		return
	}
	wasRoot := n.isZContextRoot()
	n.renderToTexture = on
	if !on {
		n.releaseOffscreen()
	}
	if wasRoot != n.isZContextRoot() {
		n.zRootChanged()
	}
	// Descendants switch between the world and the offscreen render context.
	n.setDirty(DirtyTransform | DirtyAlpha)
}

// RenderTransform returns the matrix the renderer draws the node with: the
// world transform, or the transform relative to the nearest offscreen
// ancestor.
func (n *Node) RenderTransform() [6]float64 {
	return n.render.m
}

// RenderAlpha returns the alpha the renderer draws the node with.
func (n *Node) RenderAlpha() float64 {
	return n.render.alpha
}
