// Package canopy is a retained-mode 2D scene graph for [Ebitengine] with
// incremental updates, flexbox layout and batched rendering.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	g := canopy.NewGame(canopy.DefaultConfig())
//	// ... add nodes to g.Stage.Root() ...
//	canopy.Run("My Game", g)
//
// For full control, implement [ebiten.Game] yourself and call [Stage.Update]
// and [Stage.Render] with an [EbitenRenderer] pointed at the screen, or any
// other [Renderer].
//
// # Scene graph
//
// Every element is a [Node]. Nodes form a tree rooted at [Stage.Root].
// Children inherit their parent's transform and alpha. Attributes are set
// through methods (SetPosition, SetScale, SetAlpha, SetVisible, ...), and
// every write records what the next update has to recompute:
//
//	panel := canopy.NewNode("panel")
//	stage.Root().AddChild(panel)
//
//	box := canopy.NewQuad("box", 80, 40, canopy.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//	box.SetPosition(100, 50)
//	panel.AddChild(box)
//
// Sizes are [Length] values: [Fixed] pixels, a [Percent] of the parent's
// size, a [Func] of it, or [Auto].
//
// # Updates
//
// [Stage.Update] visits only the paths that changed since the last update.
// Alpha, translation and transform changes propagate to descendants; nodes
// outside the viewport are culled, and those leaving the bounds margin around
// it fire OnExitBounds (OnEnterBounds when they come back).
//
// # Flex layout
//
// [Node.EnableFlex] turns a node into a flexbox container. Its visible
// children are laid out along a main axis with wrapping, grow and shrink,
// justification and alignment, configured by [FlexConfig] and per child by
// [ItemConfig]. Containers nest; only changed containers are laid out again.
//
//	row := canopy.NewNode("row")
//	row.SetSize(canopy.Percent(100), canopy.Auto())
//	row.EnableFlex(canopy.FlexConfig{JustifyContent: canopy.SpaceBetween})
//
// # Drawing
//
// [Stage.Render] draws each z-context in order: the context root, its
// negative z-index descendants, its z-index 0 content in tree order, then its
// positive z-index descendants. Consecutive drawables sharing shader, scissor
// and target are submitted as one [Batch]. Nodes with [Node.SetRenderToTexture]
// draw their subtree into a pooled offscreen target that is reused while the
// subtree is unchanged.
//
// Tweens (via [gween]) drive attributes over time through [Stage.AddDriver],
// and the canopy/ecs module mirrors bounds events into [Donburi].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package canopy
