package termcolor

import (
	"fmt"
	"os"
	"strings"
)

type Style struct {
	Bold      bool
	Underline bool
	Dim       bool
	FGBasic   *int
	FG256     *int
	FGTrue    *[3]uint8
}

func Apply(s Style, text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	codes := sgrCodes(s)
	if len(codes) == 0 {
		return text
	}
	return "\x1b[" + strings.Join(codes, ";") + "m" + text + "\x1b[0m"
}

func sgrCodes(s Style) []string {
	codes := make([]string, 0, 4)
	if s.Bold {
		codes = append(codes, "1")
	}
	if s.Dim {
		codes = append(codes, "2")
	}
	if s.Underline {
		codes = append(codes, "4")
	}
	switch {
	case s.FGTrue != nil:
		rgb := *s.FGTrue
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", rgb[0], rgb[1], rgb[2]))
	case s.FG256 != nil:
		codes = append(codes, fmt.Sprintf("38;5;%d", *s.FG256))
	case s.FGBasic != nil:
		codes = append(codes, fmt.Sprintf("3%d", *s.FGBasic))
	}
	return codes
}

// Painter bundles the decisions needed to color output. The zero value paints nothing.
type Painter struct {
	Enabled bool
	Scheme  Scheme
	Profile Profile
}

// NewPainter resolves mode against stdout and the environment.
func NewPainter(mode ColorMode, stdout *os.File, env map[string]string) Painter {
	return Painter{
		Enabled: Resolve(mode, stdout, env),
		Scheme:  DetectScheme(env),
		Profile: DetectProfile(env),
	}
}

func (p Painter) Paint(s Style, text string) string { return Apply(s, text, p.Enabled) }

func (p Painter) Header(text string) string { return p.Paint(HeaderStyle(), text) }

func (p Painter) Location(text string) string { return p.Paint(LocationStyle(), text) }

// Span colors text by span category; code spans are refined by token type.
func (p Painter) Span(category, token, text string) string {
	if !p.Enabled {
		return text
	}
	if category == "code" && token != "" {
		return Apply(TokenStyle(token, p.Scheme, p.Profile), text, true)
	}
	return Apply(CategoryStyle(category, p.Scheme, p.Profile), text, true)
}
