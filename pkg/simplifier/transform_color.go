package simplifier

import (
	"fmt"
	"math"

	"github.com/kataras/figma-mcp/pkg/figma"
)

// colorToHex renders the RGB channels of a Figma color as an uppercase
// CSS hex string "#RRGGBB". Alpha is carried separately as an opacity
// value, never embedded in the hex.
func colorToHex(c figma.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", clamp255(c.R), clamp255(c.G), clamp255(c.B))
}

func clamp255(v float64) int {
	n := int(math.Round(v * 255))
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

// combinedOpacity composes a color's own alpha with its paint's opacity,
// rounded to two decimals.
func combinedOpacity(colorAlpha, paintOpacity float64) float64 {
	return round2(colorAlpha * paintOpacity)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rgbaCSS renders a color plus composed opacity in CSS rgba() function
// syntax, used inside box-shadow strings.
func rgbaCSS(c figma.Color, opacity float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", clamp255(c.R), clamp255(c.G), clamp255(c.B), round2(c.A*opacity))
}
