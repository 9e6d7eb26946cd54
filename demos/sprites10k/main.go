// sprites10k spawns 10,000 sprites that rotate, scale, fade and bounce
// around the screen simultaneously. A stress test for the canopy update and
// batching passes; frame stats are shown in the window title.
package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/canopy"
)

const (
	screenW = 1280
	screenH = 720
	count   = 10_000
	size    = 32
)

type sprite struct {
	node       *canopy.Node
	dx, dy     float64
	rotSpeed   float64
	scaleSpeed float64
	scaleBase  float64
	scaleAmp   float64
	alphaSpeed float64
	phase      float64
}

func main() {
	img := ebiten.NewImage(size, size)
	img.Fill(color.White)

	cfg := canopy.DefaultConfig()
	cfg.Width, cfg.Height = screenW, screenH
	g := canopy.NewGame(cfg)
	root := g.Stage.Root()

	sprites := make([]sprite, count)
	for i := range sprites {
		sp := canopy.NewSprite("sprite", img)
		sp.SetPosition(rand.Float64()*screenW, rand.Float64()*screenH)
		base := 0.5 + rand.Float64()*0.8
		sp.SetScale(base, base)
		sp.SetColor(canopy.Color{
			R: 0.5 + rand.Float64()*0.5,
			G: 0.5 + rand.Float64()*0.5,
			B: 0.5 + rand.Float64()*0.5,
			A: 1,
		})
		root.AddChild(sp)

		sprites[i] = sprite{
			node:       sp,
			dx:         (rand.Float64() - 0.5) * 4,
			dy:         (rand.Float64() - 0.5) * 4,
			rotSpeed:   (rand.Float64() - 0.5) * 0.08,
			scaleSpeed: 1 + rand.Float64()*2,
			scaleBase:  base,
			scaleAmp:   0.1 + rand.Float64()*0.2,
			alphaSpeed: 0.5 + rand.Float64()*2,
			phase:      rand.Float64() * math.Pi * 2,
		}
	}

	var t float64
	g.Stage.AddDriver(canopy.DriverFunc(func(dt float64) bool {
		t += dt
		for i := range sprites {
			s := &sprites[i]
			n := s.node

			x, y := n.X()+s.dx, n.Y()+s.dy
			half := s.scaleBase * size / 2
			if x < -half || x > screenW-half {
				s.dx = -s.dx
				x = math.Max(-half, math.Min(x, screenW-half))
			}
			if y < -half || y > screenH-half {
				s.dy = -s.dy
				y = math.Max(-half, math.Min(y, screenH-half))
			}
			n.SetPosition(x, y)
			n.SetRotation(n.Rotation() + s.rotSpeed)

			sc := s.scaleBase + s.scaleAmp*math.Sin(t*s.scaleSpeed+s.phase)
			n.SetScale(sc, sc)
			n.SetAlpha(0.5 + 0.5*math.Sin(t*s.alphaSpeed+s.phase))
		}
		return false
	}))

	var frames int
	g.UpdateFunc = func() error {
		frames++
		if frames%60 == 0 {
			st := g.Stage.Stats()
			ebiten.SetWindowTitle(fmt.Sprintf("canopy 10k sprites  fps=%.0f batches=%d drawables=%d",
				ebiten.ActualFPS(), st.Batches, st.Drawables))
		}
		return nil
	}

	if err := canopy.Run("canopy 10k sprites", g); err != nil {
		log.Fatal(err)
	}
}
