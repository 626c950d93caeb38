package simplifier

import "github.com/kataras/figma-mcp/pkg/figma"

// Fill is the simplified rendering of one paint entry, a tagged variant:
// SOLID carries hex + opacity, IMAGE carries the imageRef and scale mode,
// gradients preserve their type, handle positions, and converted stops.
type Fill struct {
	Type string `json:"type" yaml:"type"`

	Hex     string  `json:"hex,omitempty" yaml:"hex,omitempty"`
	Opacity float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`

	ImageRef  string `json:"imageRef,omitempty" yaml:"imageRef,omitempty"`
	ScaleMode string `json:"scaleMode,omitempty" yaml:"scaleMode,omitempty"`

	GradientHandlePositions []figma.Vector `json:"gradientHandlePositions,omitempty" yaml:"gradientHandlePositions,omitempty"`
	GradientStops           []GradientStop `json:"gradientStops,omitempty" yaml:"gradientStops,omitempty"`
}

// GradientStop is one stop of a gradient fill with its color already
// converted to hex + opacity.
type GradientStop struct {
	Position float64 `json:"position" yaml:"position"`
	Hex      string  `json:"hex" yaml:"hex"`
	Opacity  float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// transformFills converts the visible, non-zero-opacity paints of a fills
// list into their simplified rendering. Returns nil if nothing remains.
func transformFills(paints []figma.Paint) []Fill {
	var out []Fill
	for _, p := range paints {
		if !p.IsVisible() || p.EffectiveOpacity() == 0 {
			continue
		}
		f := Fill{Type: p.Type}
		switch p.Type {
		case "SOLID":
			if p.Color == nil {
				continue
			}
			f.Hex = colorToHex(*p.Color)
			f.Opacity = combinedOpacity(p.Color.A, p.EffectiveOpacity())
		case "IMAGE":
			f.ImageRef = p.ImageRef
			f.ScaleMode = p.ScaleMode
		case "GRADIENT_LINEAR", "GRADIENT_RADIAL", "GRADIENT_ANGULAR", "GRADIENT_DIAMOND":
			f.GradientHandlePositions = p.GradientHandlePositions
			f.GradientStops = gradientStops(p)
		}
		out = append(out, f)
	}
	return out
}

func gradientStops(p figma.Paint) []GradientStop {
	out := make([]GradientStop, 0, len(p.GradientStops))
	for _, s := range p.GradientStops {
		out = append(out, GradientStop{
			Position: s.Position,
			Hex:      colorToHex(s.Color),
			Opacity:  combinedOpacity(s.Color.A, p.EffectiveOpacity()),
		})
	}
	return out
}
