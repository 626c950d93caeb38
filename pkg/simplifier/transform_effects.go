package simplifier

import (
	"fmt"
	"strings"

	"github.com/kataras/figma-mcp/pkg/figma"
)

// Effects is the CSS-flavored rendering of a node's effect stack, split
// the way CSS splits visual effects: boxShadow composes drop and inner
// shadows, filter composes layer blur, backdropFilter composes
// background blur.
type Effects struct {
	BoxShadow      string `json:"boxShadow,omitempty" yaml:"boxShadow,omitempty"`
	Filter         string `json:"filter,omitempty" yaml:"filter,omitempty"`
	BackdropFilter string `json:"backdropFilter,omitempty" yaml:"backdropFilter,omitempty"`
}

// transformEffects converts a node's visible effects into CSS-flavored
// properties. Returns nil if there is nothing to report.
func transformEffects(effects []figma.Effect) *Effects {
	var shadows, filters, backdrops []string

	for _, e := range effects {
		if !e.IsVisible() {
			continue
		}
		switch e.Type {
		case "DROP_SHADOW", "INNER_SHADOW":
			shadows = append(shadows, boxShadowCSS(e))
		case "LAYER_BLUR":
			filters = append(filters, fmt.Sprintf("blur(%gpx)", e.Radius))
		case "BACKGROUND_BLUR":
			backdrops = append(backdrops, fmt.Sprintf("blur(%gpx)", e.Radius))
		}
	}

	if len(shadows) == 0 && len(filters) == 0 && len(backdrops) == 0 {
		return nil
	}
	return &Effects{
		BoxShadow:      strings.Join(shadows, ", "),
		Filter:         strings.Join(filters, " "),
		BackdropFilter: strings.Join(backdrops, " "),
	}
}

func boxShadowCSS(e figma.Effect) string {
	var offsetX, offsetY float64
	if e.Offset != nil {
		offsetX, offsetY = e.Offset.X, e.Offset.Y
	}
	color := "rgba(0, 0, 0, 1)"
	if e.Color != nil {
		color = rgbaCSS(*e.Color, 1)
	}
	prefix := ""
	if e.Type == "INNER_SHADOW" {
		prefix = "inset "
	}
	return fmt.Sprintf("%s%gpx %gpx %gpx %gpx %s", prefix, offsetX, offsetY, e.Radius, e.Spread, color)
}
