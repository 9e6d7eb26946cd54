package canopy

import (
	"fmt"
	"math"
)

// FlexDirection is the main axis of a flex container.
type FlexDirection uint8

const (
	Row FlexDirection = iota
	RowReverse
	Column
	ColumnReverse
)

var directionNames = []string{"row", "row-reverse", "column", "column-reverse"}

// String returns the CSS-style name of the direction.
func (d FlexDirection) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("FlexDirection(%d)", d)
}

func (d FlexDirection) horizontal() bool { return d == Row || d == RowReverse }
func (d FlexDirection) reversed() bool   { return d == RowReverse || d == ColumnReverse }

// ParseDirection parses "row", "row-reverse", "column" or "column-reverse".
func ParseDirection(s string) (FlexDirection, error) {
	for i, name := range directionNames {
		if s == name {
			return FlexDirection(i), nil
		}
	}
	return 0, &EnumError{Kind: "flex-direction", Value: s, Valid: directionNames}
}

// FlexMode is the shared vocabulary of justify-content, align-content,
// align-items and align-self. Each setting accepts a subset; FlexAuto selects
// the setting's default.
type FlexMode uint8

const (
	FlexAuto FlexMode = iota
	FlexStart
	FlexEnd
	Center
	SpaceBetween
	SpaceAround
	SpaceEvenly
	Stretch
)

var flexModeNames = []string{
	"auto", "flex-start", "flex-end", "center",
	"space-between", "space-around", "space-evenly", "stretch",
}

// String returns the CSS-style name of the mode.
func (m FlexMode) String() string {
	if int(m) < len(flexModeNames) {
		return flexModeNames[m]
	}
	return fmt.Sprintf("FlexMode(%d)", m)
}

var (
	justifyModes      = []FlexMode{FlexStart, FlexEnd, Center, SpaceBetween, SpaceAround, SpaceEvenly}
	alignContentModes = []FlexMode{FlexStart, FlexEnd, Center, SpaceBetween, SpaceAround, SpaceEvenly, Stretch}
	alignItemsModes   = []FlexMode{FlexStart, FlexEnd, Center, Stretch}
	alignSelfModes    = []FlexMode{FlexAuto, FlexStart, FlexEnd, Center, Stretch}
)

func modeNames(modes []FlexMode) []string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}

func parseMode(kind, s string, modes []FlexMode) (FlexMode, error) {
	for _, m := range modes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, &EnumError{Kind: kind, Value: s, Valid: modeNames(modes)}
}

// checkMode validates m for a setting. FlexAuto is accepted everywhere and
// means the setting's default.
func checkMode(kind string, m FlexMode, modes []FlexMode) error {
	if m == FlexAuto {
		return nil
	}
	for _, v := range modes {
		if v == m {
			return nil
		}
	}
	return &EnumError{Kind: kind, Value: m.String(), Valid: modeNames(modes)}
}

// ParseJustifyContent parses a justify-content mode. "stretch" is rejected.
func ParseJustifyContent(s string) (FlexMode, error) {
	return parseMode("justify-content", s, justifyModes)
}

// ParseAlignContent parses an align-content mode.
func ParseAlignContent(s string) (FlexMode, error) {
	return parseMode("align-content", s, alignContentModes)
}

// ParseAlignItems parses an align-items mode.
func ParseAlignItems(s string) (FlexMode, error) {
	return parseMode("align-items", s, alignItemsModes)
}

// ParseAlignSelf parses an align-self mode; "auto" defers to align-items.
func ParseAlignSelf(s string) (FlexMode, error) {
	return parseMode("align-self", s, alignSelfModes)
}

// --- Container settings ---

// FlexConfig holds the settings of a flex container. The zero value is a
// non-wrapping row with flex-start justification and stretched items.
type FlexConfig struct {
	Direction      FlexDirection
	Wrap           bool
	JustifyContent FlexMode // default flex-start
	AlignItems     FlexMode // default stretch
	AlignContent   FlexMode // default flex-start
	Padding        Edges
}

// Validate reports the first setting outside its vocabulary.
func (c FlexConfig) Validate() error {
	if int(c.Direction) >= len(directionNames) {
		return &EnumError{Kind: "flex-direction", Value: c.Direction.String(), Valid: directionNames}
	}
	if err := checkMode("justify-content", c.JustifyContent, justifyModes); err != nil {
		return err
	}
	if err := checkMode("align-items", c.AlignItems, alignItemsModes); err != nil {
		return err
	}
	return checkMode("align-content", c.AlignContent, alignContentModes)
}

func (c FlexConfig) justify() FlexMode {
	if c.JustifyContent == FlexAuto {
		return FlexStart
	}
	return c.JustifyContent
}

func (c FlexConfig) alignItems() FlexMode {
	if c.AlignItems == FlexAuto {
		return Stretch
	}
	return c.AlignItems
}

func (c FlexConfig) alignContent() FlexMode {
	if c.AlignContent == FlexAuto {
		return FlexStart
	}
	return c.AlignContent
}

// ShrinkAuto selects the default shrink weight: 1 for items that are flex
// containers themselves, 0 otherwise.
const ShrinkAuto = -1

// ItemConfig holds the settings of a flex item. Min and max sizes of 0 are
// unset.
type ItemConfig struct {
	Grow      float64
	Shrink    float64
	AlignSelf FlexMode
	MinWidth  float64
	MaxWidth  float64
	MinHeight float64
	MaxHeight float64
	Margin    Edges
}

// DefaultItemConfig returns the settings children of a flex container use
// until configured: no grow, automatic shrink, aligned per the container.
func DefaultItemConfig() ItemConfig {
	return ItemConfig{Shrink: ShrinkAuto}
}

// Validate reports an invalid align-self mode or a negative weight.
func (c ItemConfig) Validate() error {
	if err := checkMode("align-self", c.AlignSelf, alignSelfModes); err != nil {
		return err
	}
	if c.Grow < 0 || math.IsNaN(c.Grow) {
		return fmt.Errorf("canopy: invalid grow %v: must be >= 0", c.Grow)
	}
	if (c.Shrink < 0 && c.Shrink != ShrinkAuto) || math.IsNaN(c.Shrink) {
		return fmt.Errorf("canopy: invalid shrink %v: must be >= 0 or ShrinkAuto", c.Shrink)
	}
	return nil
}

// LayoutEngine turns its node into a flex container.
type LayoutEngine struct {
	owner   *Node
	cfg     FlexConfig
	enabled bool

	items      []*Node
	itemsValid bool

	// dirty is set on every container between a change and its flex root.
	dirty bool

	// Cached fit-to-content size, reused as a basis while not dirty.
	fitW, fitH             float64
	fitParentW, fitParentH float64
	hasFit                 bool

	// Size of the last applied layout.
	resolvedW, resolvedH float64
	applied              bool
	lineCount            int
}

// Config returns the container settings.
func (e *LayoutEngine) Config() FlexConfig { return e.cfg }

// LineCount returns the number of lines produced by the last layout.
func (e *LayoutEngine) LineCount() int { return e.lineCount }

// Items returns the children currently taking part in the layout.
func (e *LayoutEngine) Items() []*Node {
	if !e.itemsValid {
		e.items = e.items[:0]
		for _, c := range e.owner.children {
			if c.participates() {
				e.items = append(e.items, c)
			}
		}
		e.itemsValid = true
	}
	return e.items
}

// LayoutItem holds a child's flex item settings.
type LayoutItem struct {
	cfg      ItemConfig
	disabled bool
}

// Config returns the item settings.
func (it *LayoutItem) Config() ItemConfig { return it.cfg }

// layoutBox is the position and size assigned to a flex item, relative to its
// container's origin.
type layoutBox struct {
	x, y, w, h float64
	valid      bool
}

// --- Node API ---

// EnableFlex makes n a flex container with the given settings. Settings
// retained from an earlier DisableFlex are replaced.
func (n *Node) EnableFlex(cfg FlexConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if n.flex == nil {
		n.flex = &LayoutEngine{owner: n}
	}
	n.flex.cfg = cfg
	n.flex.enabled = true
	n.flex.itemsValid = false
	n.flexChanged()
	return nil
}

// DisableFlex stops n from laying out its children. The settings are kept and
// children keep their last layout positions until they are moved.
func (n *Node) DisableFlex() {
	if !n.isFlexContainer() {
		return
	}
	n.markLayoutChanged()
	n.flex.enabled = false
	n.flex.applied = false
	n.flex.hasFit = false
	for _, c := range n.children {
		if c.layout.valid {
			c.layout = layoutBox{}
			c.setDirty(DirtyTranslate)
		}
	}
	n.setDirty(DirtyTranslate)
}

// Flex returns n's layout engine, or nil if n is not a flex container.
func (n *Node) Flex() *LayoutEngine {
	if n.isFlexContainer() {
		return n.flex
	}
	return nil
}

// UpdateFlex applies fn to a copy of the container settings and installs the
// result if it validates.
func (n *Node) UpdateFlex(fn func(*FlexConfig)) error {
	if !n.isFlexContainer() {
		return fmt.Errorf("canopy: node %q is not a flex container", n.Name)
	}
	cfg := n.flex.cfg
	fn(&cfg)
	return n.EnableFlex(cfg)
}

// SetFlexDirection sets the main axis of a flex container.
func (n *Node) SetFlexDirection(d FlexDirection) error {
	return n.UpdateFlex(func(c *FlexConfig) { c.Direction = d })
}

// SetFlexWrap enables or disables wrapping of a flex container.
func (n *Node) SetFlexWrap(wrap bool) error {
	return n.UpdateFlex(func(c *FlexConfig) { c.Wrap = wrap })
}

// SetJustifyContent sets the main-axis spacing of a flex container.
func (n *Node) SetJustifyContent(m FlexMode) error {
	return n.UpdateFlex(func(c *FlexConfig) { c.JustifyContent = m })
}

// SetAlignItems sets the default cross-axis alignment of a flex container.
func (n *Node) SetAlignItems(m FlexMode) error {
	return n.UpdateFlex(func(c *FlexConfig) { c.AlignItems = m })
}

// SetAlignContent sets the line spacing of a wrapping flex container.
func (n *Node) SetAlignContent(m FlexMode) error {
	return n.UpdateFlex(func(c *FlexConfig) { c.AlignContent = m })
}

// SetPadding sets the padding of a flex container.
func (n *Node) SetPadding(p Edges) error {
	return n.UpdateFlex(func(c *FlexConfig) { c.Padding = p })
}

// SetFlexItem sets n's item settings. They apply whenever n's parent is a flex
// container.
func (n *Node) SetFlexItem(cfg ItemConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if n.flexItem == nil {
		n.flexItem = &LayoutItem{}
	}
	n.flexItem.cfg = cfg
	n.markLayoutChanged()
	return nil
}

// FlexItem returns n's item settings, or nil if none were set.
func (n *Node) FlexItem() *LayoutItem {
	return n.flexItem
}

// SetFlexItemEnabled controls whether n takes part in its parent's flex
// layout. Children of a flex container take part by default; an opted-out
// child is positioned by its own x/y and mount.
func (n *Node) SetFlexItemEnabled(enabled bool) {
	if n.flexItem == nil {
		if enabled {
			return
		}
		n.flexItem = &LayoutItem{cfg: DefaultItemConfig()}
	}
	if n.flexItem.disabled == !enabled {
		return
	}
	n.flexItem.disabled = !enabled
	if n.parent != nil && n.parent.flex != nil {
		n.parent.flex.itemsValid = false
	}
	n.markLayoutChanged()
	if !enabled && n.layout.valid {
		n.layout = layoutBox{}
		n.setDirty(DirtyTranslate)
	}
}

// itemConfig returns n's effective item settings.
func (n *Node) itemConfig() ItemConfig {
	if n.flexItem != nil {
		return n.flexItem.cfg
	}
	return DefaultItemConfig()
}

// --- Layout bookkeeping ---

func (n *Node) isFlexContainer() bool {
	return n.flex != nil && n.flex.enabled
}

// participates reports whether n is laid out by its parent.
func (n *Node) participates() bool {
	if n.parent == nil || !n.parent.isFlexContainer() || !n.visible {
		return false
	}
	return n.flexItem == nil || !n.flexItem.disabled
}

// flexRoot returns the outermost container whose layout includes n's, where
// n is a container.
func (n *Node) flexRoot() *Node {
	r := n
	for r.participates() {
		r = r.parent
	}
	return r
}

// markLayoutChanged records that n's size, visibility or item settings
// changed, which invalidates its parent's layout.
func (n *Node) markLayoutChanged() {
	if n.parent != nil && n.parent.isFlexContainer() {
		n.parent.markFlexRootDirty()
	}
}

// markFlexRootDirty invalidates the cached layouts from n up to its flex root
// and schedules the root for layout.
func (n *Node) markFlexRootDirty() {
	r := n
	for {
		if r.flex != nil {
			r.flex.dirty = true
		}
		if !r.participates() {
			break
		}
		r = r.parent
	}
	if r.isFlexContainer() {
		r.setDirty(DirtyLayout)
	}
}

// flexChanged records a container settings change on n.
func (n *Node) flexChanged() {
	n.markFlexRootDirty()
}
