package canopy

import "testing"

func TestDirtyFlagsPropagated(t *testing.T) {
	tests := []struct {
		in, want DirtyFlags
	}{
		{0, 0},
		{DirtyAlpha, DirtyAlpha},
		{DirtyTranslate, DirtyTranslate},
		{DirtyTransform, DirtyTransform | DirtyTranslate},
		{DirtyVisible, DirtyVisible},
		{DirtyLayout | DirtyHook | DirtyChildren, 0},
		{DirtyAlpha | DirtyLayout, DirtyAlpha},
	}
	for _, tt := range tests {
		if got := tt.in.Propagated(); got != tt.want {
			t.Errorf("%v.Propagated() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDirtyFlagsExpand(t *testing.T) {
	tests := []struct {
		in, want DirtyFlags
	}{
		{DirtyAlpha, DirtyAlpha},
		{DirtyTransform, DirtyTransform | DirtyTranslate},
		{DirtyVisible, DirtyVisible | DirtyAlpha | DirtyTranslate | DirtyTransform},
		{DirtyHook, DirtyHook},
	}
	for _, tt := range tests {
		if got := tt.in.expand(); got != tt.want {
			t.Errorf("%v.expand() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDirtyFlagsSetOps(t *testing.T) {
	d := DirtyAlpha.With(DirtyLayout)
	if !d.Has(DirtyAlpha) || !d.Has(DirtyLayout) || d.Has(DirtyHook) {
		t.Errorf("With: %v", d)
	}
	if !d.Has(DirtyHook | DirtyLayout) {
		t.Error("Has should match any of the given flags")
	}
	if got := d.Without(DirtyAlpha); got != DirtyLayout {
		t.Errorf("Without = %v, want layout", got)
	}
}

func TestDirtyFlagsString(t *testing.T) {
	tests := []struct {
		in   DirtyFlags
		want string
	}{
		{0, "none"},
		{DirtyAlpha, "alpha"},
		{DirtyTranslate | DirtyChildren, "translate|children"},
		{DirtyLayout | DirtyVisible | DirtyHook, "layout|visible|hook"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSetDirtyMarksPathToRoot(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	sibling := NewNode("sibling")
	root.AddChild(a)
	root.AddChild(sibling)
	a.AddChild(b)
	updateTree(root)

	b.SetAlpha(0.5)
	if b.Dirty() != DirtyAlpha {
		t.Errorf("b dirty = %v, want alpha", b.Dirty())
	}
	for _, n := range []*Node{root, a, b} {
		if !n.hasUpdates {
			t.Errorf("%s.hasUpdates = false, want true", n.Name)
		}
		if n != b && n.Dirty() != 0 {
			t.Errorf("%s dirty = %v, want none", n.Name, n.Dirty())
		}
	}
	if sibling.hasUpdates {
		t.Error("sibling should not be marked")
	}

	updateTree(root)
	for _, n := range []*Node{root, a, b, sibling} {
		if n.hasUpdates || n.Dirty() != 0 {
			t.Errorf("%s not clean after update: %v", n.Name, n.Dirty())
		}
	}
}

func TestDirtyFlagsAccumulate(t *testing.T) {
	n := NewNode("n")
	updateTree(n)
	n.SetAlpha(0.5)
	n.SetPosition(1, 1)
	n.SetRotation(0.1)
	want := DirtyAlpha | DirtyTranslate | DirtyTransform
	if n.Dirty() != want {
		t.Errorf("dirty = %v, want %v", n.Dirty(), want)
	}
}

func TestMarkDirtyRecomputes(t *testing.T) {
	n := NewNode("n")
	updateTree(n)
	n.MarkDirty()
	want := DirtyAlpha | DirtyTranslate | DirtyTransform
	if n.Dirty() != want {
		t.Errorf("dirty = %v, want %v", n.Dirty(), want)
	}
}
