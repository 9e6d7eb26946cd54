package canopy

import "testing"

// --- Rect ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"right edge", 110, 40, true},
		{"outside left", 9, 40, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"adjacent top", Rect{10, -50, 50, 60}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint above", Rect{10, -100, 50, 50}, false},
		{"zero-size at corner", Rect{110, 110, 0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 100, 100}, Rect{50, 25, 100, 100}, Rect{50, 25, 50, 75}},
		{"contained", Rect{0, 0, 100, 100}, Rect{10, 10, 5, 5}, Rect{10, 10, 5, 5}},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 30, 10, 10}, Rect{20, 30, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		r    Rect
		want bool
	}{
		{Rect{}, true},
		{Rect{X: 5, Width: 10}, true},
		{Rect{Width: -1, Height: 10}, true},
		{Rect{Width: 1, Height: 1}, false},
	}
	for _, tt := range tests {
		if got := tt.r.Empty(); got != tt.want {
			t.Errorf("Rect%v.Empty() = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestRectExpand(t *testing.T) {
	r := Rect{10, 10, 100, 50}
	got := r.Expand(Edges{Top: 1, Right: 2, Bottom: 3, Left: 4})
	want := Rect{6, 9, 106, 54}
	if got != want {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

// --- Edges ---

func TestEdgesHelpers(t *testing.T) {
	all := EdgeAll(5)
	if all != (Edges{5, 5, 5, 5}) {
		t.Errorf("EdgeAll = %+v", all)
	}
	sym := EdgeSymmetric(2, 7)
	if sym.Top != 2 || sym.Bottom != 2 || sym.Left != 7 || sym.Right != 7 {
		t.Errorf("EdgeSymmetric = %+v", sym)
	}
	if sym.Horizontal() != 14 || sym.Vertical() != 4 {
		t.Errorf("Horizontal, Vertical = %v, %v", sym.Horizontal(), sym.Vertical())
	}
}

func TestOutOfBoundsString(t *testing.T) {
	tests := map[OutOfBounds]string{
		InBounds:        "in-bounds",
		OutsideVisible:  "outside",
		FullyClipped:    "clipped",
		OutOfBounds(42): "unknown",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", o, got, want)
		}
	}
}

func TestColorWhite(t *testing.T) {
	if ColorWhite != (Color{1, 1, 1, 1}) {
		t.Errorf("ColorWhite = %+v", ColorWhite)
	}
}
