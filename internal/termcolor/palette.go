package termcolor

import (
	"github.com/phyten/ppcheck/internal/colorutil"
)

type categoryColor struct {
	dark, light colorutil.RGB
	basic       int
	bold        bool
	underline   bool
}

var categoryPalette = map[string]categoryColor{
	"directive":  {dark: colorutil.MustHex("#c678dd"), light: colorutil.MustHex("#7c3aed"), basic: 5, bold: true},
	"identifier": {dark: colorutil.MustHex("#61afef"), light: colorutil.MustHex("#1d4ed8"), basic: 6},
	"number":     {dark: colorutil.MustHex("#d19a66"), light: colorutil.MustHex("#b45309"), basic: 3},
	"operator":   {dark: colorutil.MustHex("#56b6c2"), light: colorutil.MustHex("#0e7490"), basic: 4},
	"code":       {dark: colorutil.MustHex("#98c379"), light: colorutil.MustHex("#15803d"), basic: 2},
	"error":      {dark: colorutil.MustHex("#f87171"), light: colorutil.MustHex("#b91c1c"), basic: 1, bold: true, underline: true},
}

// MinContrast is the WCAG AA ratio enforced for true/256-color output.
const MinContrast = 4.5

func HeaderStyle() Style {
	return Style{Bold: true, Underline: true}
}

func LocationStyle() Style {
	return Style{Dim: true}
}

// CategoryStyle returns the style of a span category. Unknown categories are plain.
func CategoryStyle(category string, scheme Scheme, profile Profile) Style {
	c, ok := categoryPalette[category]
	if !ok {
		return Style{}
	}
	s := Style{Bold: c.bold, Underline: c.underline}
	fg := c.dark
	if scheme == SchemeLight {
		fg = c.light
	}
	fg = colorutil.EnsureContrast(fg, scheme.Background(), MinContrast)
	switch profile {
	case ProfileTrueColor:
		rgb := [3]uint8{fg.R, fg.G, fg.B}
		s.FGTrue = &rgb
	case ProfileANSI256:
		idx := rgbToANSI256(fg.R, fg.G, fg.B)
		s.FG256 = &idx
	default:
		basic := c.basic
		s.FGBasic = &basic
	}
	return s
}

// TokenStyle refines the code style by host lexer token type.
func TokenStyle(token string, scheme Scheme, profile Profile) Style {
	switch token {
	case "keyword":
		s := CategoryStyle("directive", scheme, profile)
		s.Bold = false
		return s
	case "number":
		return CategoryStyle("number", scheme, profile)
	case "comment", "whitespace":
		return Style{Dim: true}
	case "invalid":
		return CategoryStyle("error", scheme, profile)
	default:
		return CategoryStyle("code", scheme, profile)
	}
}

func rgbToANSI256(r, g, b uint8) int {
	if r == g && g == b {
		if r < 8 {
			return 16
		}
		if r > 248 {
			return 231
		}
		return 232 + (int(r)-8)*24/247
	}
	rr := int(r) * 5 / 255
	gg := int(g) * 5 / 255
	bb := int(b) * 5 / 255
	return 16 + 36*rr + 6*gg + bb
}
