package canopy

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- White pixel singleton (no sync.Once; canopy is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used as
// the source of solid quads.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// ebitenTarget is an offscreen target backed by an ebiten image.
type ebitenTarget struct {
	img *ebiten.Image
}

func (t *ebitenTarget) Width() int  { return t.img.Bounds().Dx() }
func (t *ebitenTarget) Height() int { return t.img.Bounds().Dy() }

// Image returns the backing image.
func (t *ebitenTarget) Image() *ebiten.Image { return t.img }

// EbitenRenderer draws batches with ebiten. Every run of drawables sharing a
// source image within a batch becomes one DrawTriangles32 call.
type EbitenRenderer struct {
	screen  *ebiten.Image
	shaders map[ShaderID]*ebiten.Shader
	cleared map[*ebiten.Image]bool // targets redrawn this frame

	dst    *ebiten.Image
	shader *ebiten.Shader
	src    *ebiten.Image
	verts  []ebiten.Vertex
	inds   []uint32

	// DrawCalls counts the triangle submissions of the current frame.
	DrawCalls int
}

// NewEbitenRenderer returns a renderer with only the default shader.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{
		shaders: make(map[ShaderID]*ebiten.Shader),
		cleared: make(map[*ebiten.Image]bool),
	}
}

// SetScreen sets the image batches without a target are drawn into.
func (r *EbitenRenderer) SetScreen(screen *ebiten.Image) {
	r.screen = screen
}

// RegisterShader makes s available to nodes under id. Id 0 is reserved for
// the default shader.
func (r *EbitenRenderer) RegisterShader(id ShaderID, s *ebiten.Shader) {
	if id == 0 {
		panic("canopy: shader id 0 is the default shader")
	}
	r.shaders[id] = s
}

// CompileShader compiles Kage source and registers it under id.
func (r *EbitenRenderer) CompileShader(id ShaderID, src []byte) error {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return err
	}
	r.RegisterShader(id, s)
	return nil
}

func (r *EbitenRenderer) ResetFrame() {
	r.DrawCalls = 0
	clear(r.cleared)
}

func (r *EbitenRenderer) BeginBatch(shader ShaderID, scissor *Rect, target Target) {
	dst := r.screen
	if t, ok := target.(*ebitenTarget); ok {
		dst = t.img
		// Targets are reused across frames and sizes; the first batch of a
		// redraw starts from a clean image.
		if !r.cleared[dst] {
			dst.Clear()
			r.cleared[dst] = true
		}
	}
	if dst != nil && scissor != nil {
		rect := image.Rect(int(scissor.X), int(scissor.Y),
			int(scissor.X+scissor.Width+0.5), int(scissor.Y+scissor.Height+0.5))
		dst = dst.SubImage(rect).(*ebiten.Image)
	}
	r.dst = dst
	r.shader = r.shaders[shader]
	r.src = nil
}

func (r *EbitenRenderer) AddDrawable(n *Node) {
	src := n.image
	sw, sh := n.renderW, n.renderH
	if t, ok := n.OffscreenTarget().(*ebitenTarget); ok {
		w, h := n.OffscreenSize()
		src = t.img.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
		sw, sh = float64(w), float64(h)
	} else if src == nil {
		src = ensureWhitePixel()
		sw, sh = 1, 1
	} else {
		b := src.Bounds()
		sw, sh = float64(b.Dx()), float64(b.Dy())
	}
	if src != r.src {
		r.flush()
		r.src = src
	}
	r.appendQuad(n, float32(sw), float32(sh))
}

// appendQuad appends 4 vertices and 6 indices for n's render quad.
func (r *EbitenRenderer) appendQuad(n *Node, sw, sh float32) {
	m := n.render.m
	w, h := n.renderW, n.renderH

	// 4 local positions: TL, TR, BL, BR
	lx := [4]float64{0, w, 0, w}
	ly := [4]float64{0, 0, h, h}

	ox := float32(r.src.Bounds().Min.X)
	oy := float32(r.src.Bounds().Min.Y)
	sx := [4]float32{ox, ox + sw, ox, ox + sw}
	sy := [4]float32{oy, oy, oy + sh, oy + sh}

	// Premultiplied RGBA.
	c := n.color
	ca := float32(c.A * n.render.alpha)
	cr := float32(c.R) * ca
	cg := float32(c.G) * ca
	cb := float32(c.B) * ca

	base := uint32(len(r.verts))
	for i := 0; i < 4; i++ {
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   float32(m[0]*lx[i] + m[2]*ly[i] + m[4]),
			DstY:   float32(m[1]*lx[i] + m[3]*ly[i] + m[5]),
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	// Two triangles: TL-TR-BL, TR-BR-BL
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

func (r *EbitenRenderer) FinishBatch() {
	r.flush()
	r.src = nil
}

// flush submits the accumulated vertices.
func (r *EbitenRenderer) flush() {
	if len(r.verts) == 0 {
		return
	}
	if r.dst != nil && r.src != nil {
		if r.shader != nil {
			var op ebiten.DrawTrianglesShaderOptions
			op.Images[0] = r.src
			r.dst.DrawTrianglesShader32(r.verts, r.inds, r.shader, &op)
		} else {
			var op ebiten.DrawTrianglesOptions
			op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
			r.dst.DrawTriangles32(r.verts, r.inds, r.src, &op)
		}
		r.DrawCalls++
	}
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

func (r *EbitenRenderer) AllocateOffscreenTarget(w, h int) Target {
	return &ebitenTarget{img: ebiten.NewImage(w, h)}
}

func (r *EbitenRenderer) ReleaseOffscreenTarget(t Target) {
	if et, ok := t.(*ebitenTarget); ok {
		et.img.Deallocate()
	}
}

// --- ebiten.Game adapter ---

// Game runs a stage as an ebiten.Game. UpdateFunc, when set, is called before
// each stage update.
type Game struct {
	Stage      *Stage
	Renderer   *EbitenRenderer
	UpdateFunc func() error
}

// NewGame creates a stage drawn by a new EbitenRenderer.
func NewGame(cfg Config) *Game {
	r := NewEbitenRenderer()
	return &Game{Stage: NewStage(cfg, r), Renderer: r}
}

func (g *Game) Update() error {
	if g.UpdateFunc != nil {
		if err := g.UpdateFunc(); err != nil {
			return err
		}
	}
	g.Stage.Update(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.Renderer.SetScreen(screen)
	g.Stage.Render()
}

func (g *Game) Layout(_, _ int) (int, int) {
	vp := g.Stage.Viewport()
	return int(vp.Width), int(vp.Height)
}

// Run opens a window sized to the stage viewport and runs g until the window
// is closed or UpdateFunc returns an error.
func Run(title string, g *Game) error {
	vp := g.Stage.Viewport()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(vp.Width), int(vp.Height))
	defer g.Stage.Close()
	return ebiten.RunGame(g)
}
