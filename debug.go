package canopy

import (
	"fmt"
	"time"
)

// globalDebug mirrors the most recently set Stage debug flag so that node
// operations (which lack a Stage pointer) can check it cheaply. Only valid
// with a single Stage; multiple Stages with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// Stats holds per-frame metrics. Timings are only measured in debug mode.
type Stats struct {
	Frame      uint64
	UpdateTime time.Duration
	RenderTime time.Duration

	Visited  int // nodes updated
	Consumed int // nodes that had dirty bits to apply
	Layouts  int // flex roots laid out

	Batches           int
	Drawables         int
	OffscreenRebuilds int
	OffscreenReuses   int
	LiveTargets       int
}

// debugLog reports the frame stats at debug level.
func debugLog(s Stats) {
	logger.Debug("frame",
		"frame", s.Frame,
		"update", s.UpdateTime,
		"render", s.RenderTime,
		"visited", s.Visited,
		"consumed", s.Consumed,
		"layouts", s.Layouts,
		"batches", s.Batches,
		"drawables", s.Drawables,
		"offscreen_rebuilds", s.OffscreenRebuilds,
		"offscreen_reuses", s.OffscreenReuses,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("canopy debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger.Warn("child count exceeds threshold", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
