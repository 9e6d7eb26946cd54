package canopy

// Length is a node dimension: a literal value, a function of the parent's
// size, or unset (auto). The zero value is auto.
type Length struct {
	value float64
	fn    func(parent float64) float64
	set   bool
}

// Fixed returns a literal length.
func Fixed(v float64) Length {
	return Length{value: v, set: true}
}

// Percent returns a length that is p percent of the parent's size.
func Percent(p float64) Length {
	return Length{fn: func(parent float64) float64 { return parent * p / 100 }, set: true}
}

// Func returns a length computed from the parent's size on every resolve.
func Func(fn func(parent float64) float64) Length {
	if fn == nil {
		return Length{}
	}
	return Length{fn: fn, set: true}
}

// Auto returns the unset length. Auto sizes resolve to zero, or to the fitted
// size when the node is a flex container.
func Auto() Length {
	return Length{}
}

// IsAuto reports whether the length is unset.
func (l Length) IsAuto() bool {
	return !l.set
}

// IsRelative reports whether the length depends on the parent's size.
func (l Length) IsRelative() bool {
	return l.fn != nil
}

// Resolve returns the length against the given parent size.
func (l Length) Resolve(parent float64) float64 {
	if l.fn != nil {
		return l.fn(parent)
	}
	return l.value
}

// equal reports whether two lengths are known to resolve identically. Function
// lengths are never considered equal, so re-assigning one always marks dirty.
func (l Length) equal(o Length) bool {
	if l.fn != nil || o.fn != nil {
		return false
	}
	return l.set == o.set && l.value == o.value
}
