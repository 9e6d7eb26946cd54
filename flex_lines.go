package canopy

import "math"

// layoutEpsilon is the threshold below which leftover free space is ignored
// by grow/shrink distribution and line partitioning.
const layoutEpsilon = 1e-5

// flexItem is the per-layout scratch state of one participating child.
// Sizes are border-box sizes along the container's main and cross axes.
type flexItem struct {
	node      *Node
	container bool

	grow, shrink       float64
	minMain, maxMain   float64
	minCross, maxCross float64

	marginMainStart, marginMainEnd   float64
	marginCrossStart, marginCrossEnd float64

	basis     float64
	main      float64
	cross     float64
	mainAuto  bool
	crossAuto bool
	flexed    bool // main size changed by grow or shrink

	mainPos  float64
	crossPos float64
	align    FlexMode
}

func (it *flexItem) outerMain() float64 {
	return it.main + it.marginMainStart + it.marginMainEnd
}

func (it *flexItem) outerCross() float64 {
	return it.cross + it.marginCrossStart + it.marginCrossEnd
}

func (it *flexItem) clampMain(v float64) float64 {
	return clampSize(v, it.minMain, it.maxMain)
}

func (it *flexItem) clampCross(v float64) float64 {
	return clampSize(v, it.minCross, it.maxCross)
}

// clampSize clamps v to [lo, hi] and to non-negative values.
func clampSize(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	if v < 0 {
		v = 0
	}
	return v
}

// maxSetting converts an unset (zero) max size to +Inf.
func maxSetting(v float64) float64 {
	if v <= 0 {
		return math.Inf(1)
	}
	return v
}

// flexLine is a run of items laid out together.
type flexLine struct {
	items    []flexItem
	cross    float64
	crossPos float64
}

func sumOuterMain(items []flexItem) float64 {
	total := 0.0
	for i := range items {
		total += items[i].outerMain()
	}
	return total
}

// partitionLines splits items into lines. Without wrapping all items share
// one line. With wrapping, an item that would overflow mainSize starts a new
// line unless it is the first item of the current one.
func partitionLines(items []flexItem, wrap bool, mainSize float64, lines []flexLine) []flexLine {
	if len(items) == 0 {
		return lines
	}
	start := 0
	used := 0.0
	for i := range items {
		size := items[i].outerMain()
		if wrap && i > start && used+size > mainSize+layoutEpsilon {
			lines = append(lines, flexLine{items: items[start:i]})
			start = i
			used = 0
		}
		used += size
	}
	return append(lines, flexLine{items: items[start:]})
}
