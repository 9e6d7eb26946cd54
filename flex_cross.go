package canopy

// sizeLines computes each line's cross size: the largest outer cross size of
// its items, or the container's full cross size for a single line when the
// cross axis is not fitted to the contents.
func (fl *flexLayout) sizeLines(lines []flexLine) {
	for li := range lines {
		l := &lines[li]
		l.cross = 0
		for i := range l.items {
			l.cross = max(l.cross, l.items[i].outerCross())
		}
	}
	if len(lines) == 1 && !fl.fitCross {
		lines[0].cross = fl.crossSize
	}
}

// alignLines positions lines along the cross axis per align-content. Stretch
// grows every line by an equal share of positive free space.
func alignLines(lines []flexLine, space float64, mode FlexMode) {
	var before, between float64
	if mode == Stretch {
		if space > 0 {
			add := space / float64(len(lines))
			for li := range lines {
				lines[li].cross += add
			}
		}
	} else {
		before, between = spacing(mode, space, len(lines))
	}
	pos := before
	for li := range lines {
		lines[li].crossPos = pos
		pos += lines[li].cross + between
	}
}

// alignLine positions each item of a line along the cross axis per
// align-self or align-items. Stretched nested containers may change their
// main size; the line is then re-positioned along the main axis once.
func (fl *flexLayout) alignLine(l *flexLine) {
	reposition := false
	for i := range l.items {
		it := &l.items[i]
		mode := it.align
		if mode == FlexAuto {
			mode = fl.cfg.alignItems()
		}
		avail := l.cross - it.marginCrossStart - it.marginCrossEnd
		// Inherited stretch leaves sized items alone; an explicit
		// align-self stretch resizes them too.
		if mode == Stretch && (it.crossAuto || it.align == Stretch) {
			if c := it.clampCross(avail); c != it.cross {
				it.cross = c
				if it.container && it.mainAuto && !it.flexed {
					if m := it.clampMain(fl.measureMain(it)); m != it.main {
						it.main = m
						reposition = true
					}
				}
			}
		}
		var off float64
		switch mode {
		case FlexEnd:
			off = avail - it.cross
		case Center:
			off = (avail - it.cross) / 2
		}
		it.crossPos = l.crossPos + it.marginCrossStart + off
	}
	if reposition {
		fl.positionMain(l.items)
	}
}
