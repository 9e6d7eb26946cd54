package canopy

import "math"

// growItems distributes space among items with a positive grow weight, in
// proportion to the weights. Items reaching their max size are frozen and the
// rest is redistributed until less than layoutEpsilon remains or no item can
// grow. Returns the space actually distributed.
func growItems(items []flexItem, space float64) float64 {
	active := make([]int, 0, len(items))
	for i := range items {
		if items[i].grow > 0 {
			active = append(active, i)
		}
	}
	remaining := space
	for remaining > layoutEpsilon && len(active) > 0 {
		total := 0.0
		for _, i := range active {
			total += items[i].grow
		}
		frozen := false
		used := 0.0
		next := active[:0]
		for _, i := range active {
			it := &items[i]
			share := remaining * it.grow / total
			room := it.maxMain - it.main
			if share >= room {
				room = math.Max(room, 0)
				it.main += room
				used += room
				frozen = true
				continue
			}
			it.main += share
			used += share
			next = append(next, i)
		}
		remaining -= used
		active = next
		if !frozen {
			break
		}
	}
	markFlexed(items)
	return space - remaining
}

// shrinkItems removes overflow from items with a positive shrink weight, in
// proportion to the weights, never taking an item below its min size.
// Returns the space actually removed.
func shrinkItems(items []flexItem, overflow float64) float64 {
	active := make([]int, 0, len(items))
	for i := range items {
		if items[i].shrink > 0 {
			active = append(active, i)
		}
	}
	remaining := overflow
	for remaining > layoutEpsilon && len(active) > 0 {
		total := 0.0
		for _, i := range active {
			total += items[i].shrink
		}
		frozen := false
		used := 0.0
		next := active[:0]
		for _, i := range active {
			it := &items[i]
			share := remaining * it.shrink / total
			room := it.main - math.Max(it.minMain, 0)
			if share >= room {
				room = math.Max(room, 0)
				it.main -= room
				used += room
				frozen = true
				continue
			}
			it.main -= share
			used += share
			next = append(next, i)
		}
		remaining -= used
		active = next
		if !frozen {
			break
		}
	}
	markFlexed(items)
	return overflow - remaining
}

func markFlexed(items []flexItem) {
	for i := range items {
		if items[i].main != items[i].basis {
			items[i].flexed = true
		}
	}
}

// spacing returns the offset before the first of n items and the gap between
// consecutive items for the given free space. A single item gets no gap.
// Space-between with negative space behaves as flex-start; space-around and
// space-evenly behave as center.
func spacing(mode FlexMode, space float64, n int) (before, between float64) {
	if n == 0 {
		return 0, 0
	}
	switch mode {
	case FlexEnd:
		return space, 0
	case Center:
		return space / 2, 0
	case SpaceBetween:
		if space < 0 || n == 1 {
			return 0, 0
		}
		return 0, space / float64(n-1)
	case SpaceAround:
		if space < 0 {
			return space / 2, 0
		}
		gap := space / float64(n)
		return gap / 2, gap
	case SpaceEvenly:
		if space < 0 {
			return space / 2, 0
		}
		gap := space / float64(n+1)
		return gap, gap
	}
	return 0, 0
}

// resolveLineMain sizes the items of one line along the main axis and
// positions them.
func (fl *flexLayout) resolveLineMain(items []flexItem) {
	if !fl.fitMain {
		space := fl.mainSize - sumOuterMain(items)
		switch {
		case space > 0:
			growItems(items, space)
		case space < 0:
			shrinkItems(items, -space)
		}
		for i := range items {
			it := &items[i]
			if it.container && it.flexed && it.crossAuto {
				// A nested container given a new main size may wrap differently.
				it.cross = it.clampCross(fl.measureCross(it))
			}
		}
	}
	fl.positionMain(items)
}

// positionMain places the items of one line along the main axis using the
// justify-content spacing model.
func (fl *flexLayout) positionMain(items []flexItem) {
	space := 0.0
	if !fl.fitMain {
		space = fl.mainSize - sumOuterMain(items)
	}
	before, between := spacing(fl.cfg.justify(), space, len(items))
	pos := before
	for i := range items {
		it := &items[i]
		pos += it.marginMainStart
		it.mainPos = pos
		pos += it.main + it.marginMainEnd + between
	}
}
