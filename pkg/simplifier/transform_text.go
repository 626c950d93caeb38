package simplifier

import (
	"fmt"
	"strings"

	"github.com/kataras/figma-mcp/pkg/figma"
)

// TextStyleInfo is the CSS-flavored rendering of a TEXT node's typography:
// line height in em units, letter spacing as a percentage, and the rest
// passed through with CSS-familiar names.
type TextStyleInfo struct {
	FontFamily        string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontWeight        float64 `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	FontSize          float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	LineHeight        string  `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	LetterSpacing     string  `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty"`
	TextCase          string  `json:"textCase,omitempty" yaml:"textCase,omitempty"`
	TextAlign         string  `json:"textAlign,omitempty" yaml:"textAlign,omitempty"`
	TextAlignVertical string  `json:"textAlignVertical,omitempty" yaml:"textAlignVertical,omitempty"`
}

// transformTextStyle converts a node's type style into its CSS-flavored
// rendering. Returns nil for non-text nodes or a nil style.
func transformTextStyle(style *figma.TypeStyle) *TextStyleInfo {
	if style == nil {
		return nil
	}
	return &TextStyleInfo{
		FontFamily:        style.FontFamily,
		FontWeight:        style.FontWeight,
		FontSize:          style.FontSize,
		LineHeight:        lineHeightCSS(*style),
		LetterSpacing:     letterSpacingCSS(*style),
		TextCase:          strings.ToLower(style.TextCase),
		TextAlign:         strings.ToLower(style.TextAlignHorizontal),
		TextAlignVertical: strings.ToLower(style.TextAlignVertical),
	}
}

// lineHeightCSS renders line height in em units relative to font size,
// Figma's native PIXELS unit converted via fontSize, and FONT_SIZE_%
// converted directly to an em multiplier (150 → "1.50em"). Any other unit
// renders as "normal".
func lineHeightCSS(style figma.TypeStyle) string {
	switch style.LineHeightUnit {
	case "PIXELS":
		if style.FontSize == 0 {
			return ""
		}
		return fmt.Sprintf("%.2fem", style.LineHeightPx/style.FontSize)
	case "FONT_SIZE_%":
		return fmt.Sprintf("%.2fem", style.LineHeightPercent/100)
	default:
		return "normal"
	}
}

// letterSpacingCSS renders letter spacing as a percentage of font size,
// Figma's native absolute-pixel unit converted via fontSize.
func letterSpacingCSS(style figma.TypeStyle) string {
	if style.LetterSpacing == 0 || style.FontSize == 0 {
		return ""
	}
	pct := style.LetterSpacing / style.FontSize * 100
	return fmt.Sprintf("%.2f%%", pct)
}
