package canopy

// batchKey groups drawables that can be submitted to the renderer together.
type batchKey struct {
	shader  ShaderID
	scissor Rect
	clipped bool
	target  Target
}

func nodeBatchKey(n *Node, target Target) batchKey {
	k := batchKey{shader: n.shader, target: target}
	if n.clipped {
		k.scissor = n.scissor
		k.clipped = true
	}
	return k
}

// Batch is a run of consecutive drawables sharing shader, scissor and target.
type Batch struct {
	Shader  ShaderID
	Scissor *Rect  // nil when unclipped
	Target  Target // nil for the screen
	Nodes   []*Node
}

// batchBuilder coalesces drawables emitted in draw order into batches and
// submits each batch to the renderer as soon as it is closed.
type batchBuilder struct {
	r       Renderer
	batches []Batch
	nodes   []*Node // backing store for every batch's Nodes this frame

	cur   batchKey
	start int
	open  bool
}

func (b *batchBuilder) reset(r Renderer) {
	b.r = r
	clear(b.batches)
	b.batches = b.batches[:0]
	clear(b.nodes)
	b.nodes = b.nodes[:0]
	b.open = false
}

// add appends n to the current batch, closing it first if n needs different
// renderer state.
func (b *batchBuilder) add(n *Node, target Target) {
	key := nodeBatchKey(n, target)
	if b.open && key != b.cur {
		b.flush()
	}
	if !b.open {
		b.cur = key
		b.start = len(b.nodes)
		b.open = true
	}
	b.nodes = append(b.nodes, n)
}

// flush closes the current batch, if any, and submits it.
func (b *batchBuilder) flush() {
	if !b.open {
		return
	}
	b.open = false
	nodes := b.nodes[b.start:len(b.nodes):len(b.nodes)]
	if len(nodes) == 0 {
		return
	}
	batch := Batch{Shader: b.cur.shader, Target: b.cur.target, Nodes: nodes}
	if b.cur.clipped {
		sc := b.cur.scissor
		batch.Scissor = &sc
	}
	b.submit(batch)
}

func (b *batchBuilder) submit(batch Batch) {
	b.batches = append(b.batches, batch)
	if b.r == nil {
		return
	}
	b.r.BeginBatch(batch.Shader, batch.Scissor, batch.Target)
	for _, n := range batch.Nodes {
		b.r.AddDrawable(n)
	}
	b.r.FinishBatch()
}

// touch submits an empty batch on target unless a batch since index mark
// already drew into it. Renderers clear a target on its first batch of a
// frame, so a redraw with nothing visible still leaves it blank.
func (b *batchBuilder) touch(target Target, mark int) {
	for _, bt := range b.batches[mark:] {
		if bt.Target == target {
			return
		}
	}
	b.submit(Batch{Target: target})
}

// drawableCount returns the number of drawables batched this frame.
func (b *batchBuilder) drawableCount() int {
	return len(b.nodes)
}
