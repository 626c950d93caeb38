package simplifier

import (
	"math"

	"github.com/kataras/figma-mcp/pkg/figma"
)

// Layout is the CSS-flavored rendering of a node's auto-layout and
// positioning participation. The transformer computes the full value;
// the simplifier filters it down before interning it into the layout
// slot (mode, alignment, gap, padding, wrap survive; geometry does not).
type Layout struct {
	Mode           string `json:"mode,omitempty" yaml:"mode,omitempty"`
	JustifyContent string `json:"justifyContent,omitempty" yaml:"justifyContent,omitempty"`
	AlignItems     string `json:"alignItems,omitempty" yaml:"alignItems,omitempty"`
	AlignSelf      string `json:"alignSelf,omitempty" yaml:"alignSelf,omitempty"`
	Wrap           bool   `json:"wrap,omitempty" yaml:"wrap,omitempty"`
	Gap            string `json:"gap,omitempty" yaml:"gap,omitempty"`
	Padding        string `json:"padding,omitempty" yaml:"padding,omitempty"`

	Sizing                   *Sizing     `json:"sizing,omitempty" yaml:"sizing,omitempty"`
	Dimensions               *Dimensions `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	LocationRelativeToParent *Location   `json:"locationRelativeToParent,omitempty" yaml:"locationRelativeToParent,omitempty"`
	Position                 string      `json:"position,omitempty" yaml:"position,omitempty"`
	OverflowScroll           []string    `json:"overflowScroll,omitempty" yaml:"overflowScroll,omitempty"`
}

// Sizing describes how the node sizes itself on each axis within an
// auto-layout flow.
type Sizing struct {
	Horizontal string `json:"horizontal,omitempty" yaml:"horizontal,omitempty"`
	Vertical   string `json:"vertical,omitempty" yaml:"vertical,omitempty"`
}

// Dimensions carries the node's pixel-rounded size, plus the aspect ratio
// when the node preserves it.
type Dimensions struct {
	Width       int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int     `json:"height,omitempty" yaml:"height,omitempty"`
	AspectRatio float64 `json:"aspectRatio,omitempty" yaml:"aspectRatio,omitempty"`
}

// Location is a pixel-rounded position relative to the parent's origin.
type Location struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// alignmentCSS maps Figma's axis-alignment vocabulary to flexbox terms.
// MIN is absent: it is flexbox's default (flex-start) and is omitted.
var alignmentCSS = map[string]string{
	"CENTER":        "center",
	"MAX":           "flex-end",
	"SPACE_BETWEEN": "space-between",
	"BASELINE":      "baseline",
}

// transformLayout converts a node's auto-layout fields, per-child layout
// participation and geometry into the full Layout rendering, consulting
// the parent for flow membership and relative positioning. Returns nil if
// the node participates in no layout-relevant way at all.
func transformLayout(n figma.Node, parent *figma.Node) *Layout {
	l := &Layout{Mode: "none"}
	has := false

	isFlow := n.LayoutMode == "HORIZONTAL" || n.LayoutMode == "VERTICAL"
	if isFlow {
		has = true
		if n.LayoutMode == "HORIZONTAL" {
			l.Mode = "row"
		} else {
			l.Mode = "column"
		}
		l.JustifyContent = alignmentCSS[n.PrimaryAxisAlignItems]
		l.AlignItems = alignmentCSS[n.CounterAxisAlignItems]
		if counterAxisStretches(n) {
			l.AlignItems = "stretch"
		}
		l.Wrap = n.LayoutWrap == "WRAP"
		if n.ItemSpacing != 0 {
			l.Gap = px(n.ItemSpacing)
		}
		if p := paddingCSS(n); p != "" {
			l.Padding = p
		}
	}

	if as := alignSelfCSS(n.LayoutAlign); as != "" {
		has = true
		l.AlignSelf = as
	}

	if n.LayoutSizingHorizontal != "" || n.LayoutSizingVertical != "" {
		has = true
		l.Sizing = &Sizing{
			Horizontal: sizingCSS(n.LayoutSizingHorizontal),
			Vertical:   sizingCSS(n.LayoutSizingVertical),
		}
	}

	if n.LayoutPositioning == "ABSOLUTE" {
		has = true
		l.Position = "absolute"
	}

	if scroll := overflowScroll(n.OverflowDirection); len(scroll) > 0 {
		has = true
		l.OverflowScroll = scroll
	}

	if dims := transformDimensions(n, parent); dims != nil {
		has = true
		l.Dimensions = dims
	}

	if loc := locationRelativeToParent(n, parent); loc != nil {
		has = true
		l.LocationRelativeToParent = loc
	}

	if !has {
		return nil
	}
	return l
}

// counterAxisStretches reports whether every visible child of a flow
// container is either absolutely positioned or fills the counter axis, in
// which case the container's alignItems is upgraded to stretch.
func counterAxisStretches(n figma.Node) bool {
	children := visibleChildren(n)
	if len(children) == 0 {
		return false
	}
	for _, c := range children {
		if c.LayoutPositioning == "ABSOLUTE" {
			continue
		}
		fill := c.LayoutSizingVertical
		if n.LayoutMode == "VERTICAL" {
			fill = c.LayoutSizingHorizontal
		}
		if fill != "FILL" {
			return false
		}
	}
	return true
}

func alignSelfCSS(layoutAlign string) string {
	switch layoutAlign {
	case "STRETCH":
		return "stretch"
	case "MAX":
		return "flex-end"
	case "CENTER":
		return "center"
	default:
		return ""
	}
}

func sizingCSS(mode string) string {
	switch mode {
	case "FIXED":
		return "fixed"
	case "HUG":
		return "hug"
	case "FILL":
		return "fill"
	default:
		return ""
	}
}

func overflowScroll(dir string) []string {
	switch dir {
	case "HORIZONTAL_SCROLLING":
		return []string{"x"}
	case "VERTICAL_SCROLLING":
		return []string{"y"}
	case "BOTH_SCROLLING":
		return []string{"x", "y"}
	default:
		return nil
	}
}

// transformDimensions emits a size per axis only where the node would not
// grow on that axis: outside any auto-layout flow, or fixed-sized with no
// layoutGrow. Values are pixel-rounded; aspectRatio is added when the
// node preserves its ratio inside a column flow.
func transformDimensions(n figma.Node, parent *figma.Node) *Dimensions {
	if n.AbsoluteBoundingBox == nil {
		return nil
	}
	inFlow := parent != nil && (parent.LayoutMode == "HORIZONTAL" || parent.LayoutMode == "VERTICAL") &&
		n.LayoutPositioning != "ABSOLUTE"

	d := &Dimensions{}
	has := false
	if !inFlow || (n.LayoutSizingHorizontal == "FIXED" && n.LayoutGrow == 0) {
		d.Width = pxRound(n.AbsoluteBoundingBox.Width)
		has = true
	}
	if !inFlow || (n.LayoutSizingVertical == "FIXED" && n.LayoutGrow == 0) {
		d.Height = pxRound(n.AbsoluteBoundingBox.Height)
		has = true
	}
	if !has {
		return nil
	}
	if n.PreserveRatio && n.LayoutMode == "VERTICAL" && n.AbsoluteBoundingBox.Height != 0 {
		d.AspectRatio = n.AbsoluteBoundingBox.Width / n.AbsoluteBoundingBox.Height
	}
	return d
}

// locationRelativeToParent emits the node's offset from its parent only
// when the parent is not an auto-layout flow, or the node itself opted
// out of the flow via absolute positioning.
func locationRelativeToParent(n figma.Node, parent *figma.Node) *Location {
	if n.AbsoluteBoundingBox == nil || parent == nil || parent.AbsoluteBoundingBox == nil {
		return nil
	}
	parentIsFlow := parent.LayoutMode == "HORIZONTAL" || parent.LayoutMode == "VERTICAL"
	if parentIsFlow && n.LayoutPositioning != "ABSOLUTE" {
		return nil
	}
	return &Location{
		X: pxRound(n.AbsoluteBoundingBox.X - parent.AbsoluteBoundingBox.X),
		Y: pxRound(n.AbsoluteBoundingBox.Y - parent.AbsoluteBoundingBox.Y),
	}
}

// filterLayoutForSlot reduces a full Layout to the subset worth interning
// on the node's layout slot: mode, alignment, gap, padding, wrap. Geometry
// (sizing, dimensions, position) is dropped at this layer. Returns nil if
// nothing but a bare "none" mode survives.
func filterLayoutForSlot(l *Layout) *Layout {
	if l == nil {
		return nil
	}
	out := &Layout{
		Mode:           l.Mode,
		JustifyContent: l.JustifyContent,
		AlignItems:     l.AlignItems,
		Gap:            l.Gap,
		Padding:        l.Padding,
		Wrap:           l.Wrap,
	}
	if out.Mode == "none" && out.JustifyContent == "" && out.AlignItems == "" &&
		out.Gap == "" && out.Padding == "" && !out.Wrap {
		return nil
	}
	return out
}

// pxRound rounds a pixel value to the nearest integer with a small
// positive bias so values sitting exactly on .5 never flap downward.
func pxRound(v float64) int {
	return int(math.Floor(v + 0.5 + 1e-9))
}

// paddingCSS renders a node's four padding values using minimal CSS
// shorthand, same collapsing rule as stroke weight.
func paddingCSS(n figma.Node) string {
	if n.PaddingTop == 0 && n.PaddingRight == 0 && n.PaddingBottom == 0 && n.PaddingLeft == 0 {
		return ""
	}
	return edgeShorthand(n.PaddingTop, n.PaddingRight, n.PaddingBottom, n.PaddingLeft)
}
