package cli

import (
	"fmt"

	"github.com/phanxgames/canopy"
)

var (
	colorPanel  = canopy.Color{R: 0.15, G: 0.18, B: 0.22, A: 1}
	colorAccent = canopy.Color{R: 0.3, G: 0.7, B: 1, A: 1}
	colorWarm   = canopy.Color{R: 1, G: 0.6, B: 0.2, A: 1}
)

// buildDemo fills the stage with a small scene that exercises flex layout,
// z-ordering, shaders, clipping and an offscreen subtree.
func buildDemo(s *canopy.Stage) error {
	root := s.Root()

	bar := canopy.NewQuad("bar", 0, 60, colorPanel)
	bar.SetWidth(canopy.Percent(100))
	if err := bar.EnableFlex(canopy.FlexConfig{
		JustifyContent: canopy.SpaceBetween,
		AlignItems:     canopy.Center,
		Padding:        canopy.EdgeSymmetric(10, 20),
	}); err != nil {
		return err
	}
	root.AddChild(bar)
	for _, name := range []string{"home", "search", "settings"} {
		bar.AddChild(canopy.NewQuad(name, 100, 40, colorAccent))
	}

	// Z-indexed nodes draw relative to the root's tree-ordered content.
	badge := canopy.NewQuad("badge", 16, 16, colorWarm)
	badge.SetPosition(90, -4)
	badge.SetZIndex(1)
	bar.ChildAt(1).AddChild(badge)

	shadow := canopy.NewQuad("shadow", 200, 150, canopy.Color{A: 0.4})
	shadow.SetPosition(46, 106)
	shadow.SetZIndex(-1)
	root.AddChild(shadow)

	panel := canopy.NewQuad("panel", 200, 150, colorPanel)
	panel.SetPosition(40, 100)
	panel.SetRenderToTexture(true)
	root.AddChild(panel)
	for i := range 3 {
		item := canopy.NewQuad(fmt.Sprintf("row%d", i), 180, 30, colorAccent)
		item.SetPosition(10, 10+float64(i)*40)
		panel.AddChild(item)
	}

	viewport := canopy.NewNode("viewport")
	viewport.SetPosition(300, 100)
	viewport.SetSize(canopy.Fixed(200), canopy.Fixed(100))
	viewport.SetClipping(true)
	root.AddChild(viewport)
	glow := canopy.NewQuad("glow", 150, 150, colorWarm)
	glow.SetShader(1)
	viewport.AddChild(glow)
	viewport.AddChild(canopy.NewQuad("label", 120, 20, colorAccent))

	return nil
}

// buildGrid adds a wrapping flex grid of cols x rows cells and returns the
// cells.
func buildGrid(s *canopy.Stage, cols, rows int) ([]*canopy.Node, error) {
	grid := canopy.NewNode("grid")
	grid.SetWidth(canopy.Percent(100))
	if err := grid.EnableFlex(canopy.FlexConfig{
		Wrap:         true,
		AlignContent: canopy.FlexStart,
	}); err != nil {
		return nil, err
	}
	s.Root().AddChild(grid)

	cellW := s.Viewport().Width / float64(cols)
	cells := make([]*canopy.Node, 0, cols*rows)
	for i := range cols * rows {
		c := canopy.NewQuad(fmt.Sprintf("cell%d", i), cellW-4, 16, colorAccent)
		if err := c.SetFlexItem(canopy.ItemConfig{
			Grow:   1,
			Shrink: canopy.ShrinkAuto,
			Margin: canopy.EdgeAll(2),
		}); err != nil {
			return nil, err
		}
		if i%7 == 0 {
			c.SetShader(1)
		}
		grid.AddChild(c)
		cells = append(cells, c)
	}
	return cells, nil
}
