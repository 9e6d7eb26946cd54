package canopy

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- ID counters ---

// nodeIDCounter is a plain counter; canopy is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// insertCounter orders attachments; equal z-index nodes draw in this order.
var insertCounter uint64

func nextInsertOrder() uint64 {
	insertCounter++
	return insertCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used for
// containers and drawables alike to avoid interface dispatch on the hot path.
//
// Attributes are set through methods so that every write records the dirty
// flags the next update pass needs.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy. parent is a non-owning back reference; children are owned.
	parent   *Node
	children []*Node
	stage    *Stage // only set on a stage root

	// Local attributes
	x, y            float64
	w, h            Length
	scaleX, scaleY  float64
	rotation        float64
	pivotX, pivotY  float64
	mountX, mountY  float64
	alpha           float64
	visible         bool
	clipping        bool
	clipbox         bool
	zIndex          int
	forceZContext   bool
	renderToTexture bool
	boundsMargin    *Edges

	// Drawable fields
	drawable bool
	shader   ShaderID
	image    *ebiten.Image
	color    Color
	UserData any

	// Derived state, rebuilt by the update pass
	renderW, renderH float64
	local            [6]float64
	world            worldContext
	render           *worldContext // aliases &world unless under an offscreen ancestor
	renderOwned      *worldContext // lazily allocated backing for render
	bbox             Rect
	scissor          Rect // rect this node is culled against, in render coordinates
	clipped          bool // scissor comes from a clipping ancestor
	outOfBounds      OutOfBounds
	withinMargin     bool
	margin           Edges // effective bounds margin

	dirty      DirtyFlags
	hasUpdates bool

	// Layout (optional, owned)
	flex     *LayoutEngine
	flexItem *LayoutItem
	layout   layoutBox

	// Z-order
	insertOrder uint64
	zOwner      *Node // z-context root whose index lists this node
	zFlagged    bool
	zStamp      uint64
	zList       *ZOrderIndex // non-nil on z-context roots that have ordered descendants

	// Offscreen rendering
	offscreen *offscreenCache

	// Per-node callbacks (nil by default; zero cost when unused)
	OnEnterBounds func(*Node)
	OnExitBounds  func(*Node)
	updateHook    func(*Node)

	disposed bool
}

// worldContext is an accumulated alpha and affine transform.
type worldContext struct {
	alpha float64
	m     [6]float64
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.scaleX = 1
	n.scaleY = 1
	n.alpha = 1
	n.pivotX = 0.5
	n.pivotY = 0.5
	n.color = ColorWhite
	n.visible = true
	n.clipbox = true
	n.world = worldContext{alpha: 1, m: identityTransform}
	n.render = &n.world
	n.local = identityTransform
	n.dirty = DirtyVisible
}

// NewNode creates a container node with no visual representation.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewQuad creates a drawable solid-color rectangle of the given size.
func NewQuad(name string, w, h float64, c Color) *Node {
	n := &Node{Name: name, drawable: true, w: Fixed(w), h: Fixed(h)}
	nodeDefaults(n)
	n.color = c
	return n
}

// NewSprite creates a drawable node that renders img. The node is sized to
// the image bounds.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, drawable: true, image: img}
	nodeDefaults(n)
	if img != nil {
		b := img.Bounds()
		n.w = Fixed(float64(b.Dx()))
		n.h = Fixed(float64(b.Dy()))
	}
	return n
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Stage returns the stage this node is attached to, or nil.
func (n *Node) Stage() *Stage {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r.stage
}

// Drawable reports whether the node emits a draw call.
func (n *Node) Drawable() bool {
	return n.drawable
}

// SetDrawable toggles whether the node emits a draw call.
func (n *Node) SetDrawable(d bool) {
	if n.drawable == d {
		return
	}
	n.drawable = d
	n.setDirty(DirtyHook)
}

// Shader returns the shader used to draw this node.
func (n *Node) Shader() ShaderID {
	return n.shader
}

// SetShader sets the shader used to draw this node.
func (n *Node) SetShader(s ShaderID) {
	if n.shader == s {
		return
	}
	n.shader = s
	n.setDirty(DirtyHook)
}

// Image returns the image drawn by this node, or nil for a solid quad.
func (n *Node) Image() *ebiten.Image {
	return n.image
}

// SetImage sets the image drawn by this node.
func (n *Node) SetImage(img *ebiten.Image) {
	n.image = img
	n.setDirty(DirtyHook)
}

// Color returns the node's tint.
func (n *Node) Color() Color {
	return n.color
}

// SetColor sets the node's tint.
func (n *Node) SetColor(c Color) {
	if n.color == c {
		return
	}
	n.color = c
	n.setDirty(DirtyHook)
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	n.AddChildAt(child, -1)
}

// AddChildAt inserts child at the given index; -1 appends.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic("canopy: adding child would create a cycle")
	}
	if child.parent != nil {
		child.parent.detach(child)
	}
	if index == -1 {
		index = len(n.children)
	}
	if index < 0 || index > len(n.children) {
		panic("canopy: child index out of range")
	}
	child.stage = nil
	child.parent = n
	child.insertOrder = nextInsertOrder()
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.attached(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child's parent is not n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.parent != n {
		panic("canopy: child's parent is not this node")
	}
	n.detach(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("canopy: child index out of range")
	}
	child := n.children[index]
	n.detach(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		n.detach(n.children[len(n.children)-1])
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetChildIndex moves child to a new index among its siblings. The child's
// z-order tiebreak is not affected; only natural (z-index 0) order changes.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.parent != n {
		panic("canopy: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("canopy: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	n.structureChanged()
}

// attached wires a freshly inserted child into the dirty, layout and z-order
// bookkeeping.
func (n *Node) attached(child *Node) {
	// The child may carry a stale has-updates mark from its previous tree, so
	// it is set directly and the walk starts at the new parent.
	child.dirty |= DirtyVisible
	child.hasUpdates = true
	n.structureChanged()
	zAttach(child)
}

// detach removes child from n.children and clears the child's back reference.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) detach(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			break
		}
	}
	child.parent = nil
	child.layout = layoutBox{}
	child.dirty |= DirtyVisible
	zDetach(child)
	n.structureChanged()
}

// structureChanged records a child list change on n.
func (n *Node) structureChanged() {
	if n.flex != nil {
		n.flex.itemsValid = false
	}
	n.setDirty(DirtyChildren)
	n.markLayoutChanged()
	if n.flex != nil {
		n.markFlexRootDirty()
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Offscreen targets owned by the
// subtree are returned to their pool.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.parent = nil
		child.dispose()
	}
	n.children = nil
	n.parent = nil
	n.stage = nil
	n.flex = nil
	n.flexItem = nil
	n.zList = nil
	n.zOwner = nil
	n.releaseOffscreen()
	n.image = nil
	n.renderOwned = nil
	n.render = &n.world
	n.UserData = nil
	n.OnEnterBounds = nil
	n.OnExitBounds = nil
	n.updateHook = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node (or node itself).
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}
