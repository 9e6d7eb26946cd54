package canopy

import (
	"fmt"
	"strings"
)

// Target is an offscreen render target allocated by a Renderer.
type Target interface {
	Width() int
	Height() int
}

// Renderer executes the batches built by the render pass. Calls arrive in
// draw order: every BeginBatch is followed by one or more AddDrawable calls
// and a FinishBatch. Offscreen batches for a target are always issued before
// the batch that draws the target's node.
type Renderer interface {
	// ResetFrame starts a new frame.
	ResetFrame()
	// BeginBatch opens a batch. scissor is nil when no clipping applies;
	// target is nil for the screen.
	BeginBatch(shader ShaderID, scissor *Rect, target Target)
	// AddDrawable appends a node to the open batch. The node's RenderTransform,
	// RenderAlpha and RenderWidth/RenderHeight describe the quad; a node with
	// an OffscreenTarget draws that target instead of its image.
	AddDrawable(n *Node)
	// FinishBatch closes the open batch.
	FinishBatch()
	// AllocateOffscreenTarget creates a target of exactly w x h pixels.
	AllocateOffscreenTarget(w, h int) Target
	// ReleaseOffscreenTarget frees a target created by AllocateOffscreenTarget.
	ReleaseOffscreenTarget(t Target)
}

// RecordingRenderer is a Renderer that records the calls it receives. It
// executes nothing and is used by tests and the canopy CLI.
type RecordingRenderer struct {
	Frames    int
	Batches   []RecordedBatch
	Allocated int
	Released  int

	open   bool
	nextID int
}

// RecordedBatch is one batch seen by a RecordingRenderer.
type RecordedBatch struct {
	Shader  ShaderID
	Scissor *Rect
	Target  Target
	Nodes   []*Node
}

// RecordedTarget is the Target handed out by a RecordingRenderer.
type RecordedTarget struct {
	ID   int
	W, H int
}

func (t *RecordedTarget) Width() int  { return t.W }
func (t *RecordedTarget) Height() int { return t.H }

// NewRecordingRenderer returns an empty RecordingRenderer.
func NewRecordingRenderer() *RecordingRenderer {
	return &RecordingRenderer{}
}

func (r *RecordingRenderer) ResetFrame() {
	r.Frames++
	r.Batches = r.Batches[:0]
	r.open = false
}

func (r *RecordingRenderer) BeginBatch(shader ShaderID, scissor *Rect, target Target) {
	if r.open {
		panic("canopy: BeginBatch while a batch is open")
	}
	var sc *Rect
	if scissor != nil {
		c := *scissor
		sc = &c
	}
	r.Batches = append(r.Batches, RecordedBatch{Shader: shader, Scissor: sc, Target: target})
	r.open = true
}

func (r *RecordingRenderer) AddDrawable(n *Node) {
	if !r.open {
		panic("canopy: AddDrawable outside a batch")
	}
	b := &r.Batches[len(r.Batches)-1]
	b.Nodes = append(b.Nodes, n)
}

func (r *RecordingRenderer) FinishBatch() {
	if !r.open {
		panic("canopy: FinishBatch without BeginBatch")
	}
	r.open = false
}

func (r *RecordingRenderer) AllocateOffscreenTarget(w, h int) Target {
	r.nextID++
	r.Allocated++
	return &RecordedTarget{ID: r.nextID, W: w, H: h}
}

func (r *RecordingRenderer) ReleaseOffscreenTarget(Target) {
	r.Released++
}

// Names returns the node names of each recorded batch, for compact
// assertions and dumps.
func (r *RecordingRenderer) Names() [][]string {
	out := make([][]string, len(r.Batches))
	for i, b := range r.Batches {
		for _, n := range b.Nodes {
			out[i] = append(out[i], n.Name)
		}
	}
	return out
}

// String formats the recorded batches one per line.
func (r *RecordingRenderer) String() string {
	var sb strings.Builder
	for i, b := range r.Batches {
		fmt.Fprintf(&sb, "batch %d shader=%d", i, b.Shader)
		if b.Scissor != nil {
			fmt.Fprintf(&sb, " scissor=(%g,%g %gx%g)", b.Scissor.X, b.Scissor.Y, b.Scissor.Width, b.Scissor.Height)
		}
		if t, ok := b.Target.(*RecordedTarget); ok {
			fmt.Fprintf(&sb, " target=#%d(%dx%d)", t.ID, t.W, t.H)
		}
		sb.WriteString(":")
		for _, n := range b.Nodes {
			sb.WriteString(" ")
			sb.WriteString(n.Name)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
