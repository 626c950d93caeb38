package simplifier

import (
	"fmt"

	"github.com/kataras/figma-mcp/pkg/figma"
)

// Stroke is the CSS-flavored rendering of a node's stroke(s): the paints,
// a CSS-shorthand weight (e.g. "2px" when uniform, "1px 2px 3px 4px" per
// edge when not), and the dash pattern when the stroke is dashed.
type Stroke struct {
	Colors       []Fill    `json:"colors,omitempty" yaml:"colors,omitempty"`
	StrokeWeight string    `json:"strokeWeight,omitempty" yaml:"strokeWeight,omitempty"`
	StrokeDashes []float64 `json:"strokeDashes,omitempty" yaml:"strokeDashes,omitempty"`
}

// transformStroke converts a node's strokes into their CSS-flavored
// rendering. Returns nil if the node has no visible strokes and no
// individual edge weights worth reporting.
func transformStroke(n figma.Node) *Stroke {
	colors := transformFills(n.Strokes)
	weight := strokeWeightCSS(n)
	if len(colors) == 0 && weight == "" {
		return nil
	}
	return &Stroke{
		Colors:       colors,
		StrokeWeight: weight,
		StrokeDashes: n.StrokeDashes,
	}
}

// strokeWeightCSS renders the stroke weight using CSS shorthand rules: a
// single value when uniform across all four edges, otherwise the
// minimal 2/3/4-value shorthand (top/right/bottom/left, collapsing
// vertical and horizontal pairs where they match).
func strokeWeightCSS(n figma.Node) string {
	if n.IndividualStrokeWeights == nil {
		if n.StrokeWeight <= 0 {
			return ""
		}
		return px(n.StrokeWeight)
	}

	w := n.IndividualStrokeWeights
	return edgeShorthand(w.Top, w.Right, w.Bottom, w.Left)
}

// edgeShorthand renders four per-edge pixel values using minimal CSS
// shorthand, collapsing to 1/2/3 values where edges match.
func edgeShorthand(t, r, b, l float64) string {
	top, right, bottom, left := px(t), px(r), px(b), px(l)
	if top == right && right == bottom && bottom == left {
		return top
	}
	if top == bottom && right == left {
		return fmt.Sprintf("%s %s", top, right)
	}
	if right == left {
		return fmt.Sprintf("%s %s %s", top, right, bottom)
	}
	return fmt.Sprintf("%s %s %s %s", top, right, bottom, left)
}

// px renders a pixel-rounded CSS length; zero stays a bare "0".
func px(v float64) string {
	n := pxRound(v)
	if n == 0 {
		return "0"
	}
	return fmt.Sprintf("%dpx", n)
}
