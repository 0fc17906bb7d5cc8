package colorutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type RGB struct {
	R uint8
	G uint8
	B uint8
}

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// ParseHex accepts "#rrggbb", "rrggbb" and the short "#rgb" form.
func ParseHex(s string) (RGB, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) == 3 {
		raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
	}
	if len(raw) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color: %q", s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color: %q", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is ParseHex for package-level palettes.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Luminance は WCAG 2.x の相対輝度です。
func Luminance(c RGB) float64 {
	return 0.2126*srgbToLinear(float64(c.R)/255) +
		0.7152*srgbToLinear(float64(c.G)/255) +
		0.0722*srgbToLinear(float64(c.B)/255)
}

func ContrastRatio(fg, bg RGB) float64 {
	hi, lo := Luminance(fg), Luminance(bg)
	if hi < lo {
		hi, lo = lo, hi
	}
	return (hi + 0.05) / (lo + 0.05)
}

// Mix blends a toward b; t=0 is a, t=1 is b.
func Mix(a, b RGB, t float64) RGB {
	t = math.Max(0, math.Min(1, t))
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

// AutoTextColor picks black or white, whichever reads better on bg.
func AutoTextColor(bg RGB) RGB {
	if ContrastRatio(Black, bg) >= ContrastRatio(White, bg) {
		return Black
	}
	return White
}

// EnsureContrast は fg を背景と逆側の極 (黒か白) へ少しずつ寄せ、minRatio を満たした最初の色を返します。
// 色相をなるべく残すため、いきなり黒白には置き換えません。
func EnsureContrast(fg, bg RGB, minRatio float64) RGB {
	if minRatio <= 0 {
		minRatio = 4.5
	}
	if ContrastRatio(fg, bg) >= minRatio {
		return fg
	}
	target := AutoTextColor(bg)
	for step := 1; step <= 20; step++ {
		candidate := Mix(fg, target, float64(step)/20)
		if ContrastRatio(candidate, bg) >= minRatio {
			return candidate
		}
	}
	return target
}
