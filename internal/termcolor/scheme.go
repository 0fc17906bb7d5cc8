package termcolor

import (
	"strconv"
	"strings"

	"github.com/phyten/ppcheck/internal/colorutil"
)

type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeDark
	SchemeLight
)

// EnvTheme forces the scheme ("dark" or "light") regardless of COLORFGBG.
const EnvTheme = "PPCHECK_THEME"

var schemeBackgrounds = map[Scheme]colorutil.RGB{
	SchemeDark:  colorutil.MustHex("#111827"),
	SchemeLight: colorutil.MustHex("#f9fafb"),
}

// Background is the assumed terminal background used for contrast checks.
func (s Scheme) Background() colorutil.RGB {
	if bg, ok := schemeBackgrounds[s]; ok {
		return bg
	}
	return schemeBackgrounds[SchemeDark]
}

// DetectScheme は PPCHECK_THEME、COLORFGBG の背景色番号、TERM 名の順に明暗を推定します。既定は dark。
func DetectScheme(env map[string]string) Scheme {
	switch strings.ToLower(strings.TrimSpace(env[EnvTheme])) {
	case "dark":
		return SchemeDark
	case "light":
		return SchemeLight
	}
	if raw := strings.TrimSpace(env["COLORFGBG"]); raw != "" {
		parts := strings.Split(raw, ";")
		bgRaw := strings.TrimSpace(parts[len(parts)-1])
		if bgRaw == "" && len(parts) >= 2 {
			bgRaw = strings.TrimSpace(parts[len(parts)-2])
		}
		if bg, err := strconv.Atoi(bgRaw); err == nil && bg >= 0 {
			if bg >= 7 {
				return SchemeLight
			}
			return SchemeDark
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "light") {
		return SchemeLight
	}
	return SchemeDark
}
