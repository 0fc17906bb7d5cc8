package termcolor

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type ColorMode int

const (
	ModeAuto ColorMode = iota
	ModeAlways
	ModeNever
)

func (m ColorMode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseMode accepts auto|always|never (case-insensitive); empty is auto.
func ParseMode(v string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return ModeAuto, nil
	case "always":
		return ModeAlways, nil
	case "never":
		return ModeNever, nil
	default:
		return ModeAuto, fmt.Errorf("unknown color mode: %s", v)
	}
}

type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// EnvMap turns os.Environ() style entries into a lookup map.
func EnvMap(values []string) map[string]string {
	env := make(map[string]string, len(values))
	for _, entry := range values {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		env[key] = value
	}
	return env
}

type envRule struct {
	key   string
	match func(string) bool
	mode  ColorMode
}

// 先に一致した規則が勝つ。NO_COLOR と TERM=dumb は強制指定より優先する。
var envRules = []envRule{
	{"TERM", func(v string) bool { return strings.EqualFold(v, "dumb") }, ModeNever},
	{"NO_COLOR", func(v string) bool { return v != "" }, ModeNever},
	{"CLICOLOR", func(v string) bool { return v == "0" }, ModeNever},
	{"CLICOLOR_FORCE", forceColor, ModeAlways},
	{"FORCE_COLOR", forceColor, ModeAlways},
}

// DetectMode decides what ModeAuto means for stdout: environment rules first,
// then whether stdout is a terminal.
func DetectMode(stdout *os.File, env map[string]string) ColorMode {
	if stdout == nil {
		return ModeNever
	}
	for _, rule := range envRules {
		if rule.match(strings.TrimSpace(env[rule.key])) {
			return rule.mode
		}
	}
	if isTerminal(stdout) {
		return ModeAlways
	}
	return ModeNever
}

// Resolve reports whether colors should be emitted for the requested mode.
func Resolve(mode ColorMode, stdout *os.File, env map[string]string) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return DetectMode(stdout, env) == ModeAlways
	}
}

// DetectProfile inspects COLORTERM/TERM: truecolor or 24-bit wins, then
// *256color, otherwise the basic 8-color set.
func DetectProfile(env map[string]string) Profile {
	colorterm := strings.ToLower(strings.TrimSpace(env["COLORTERM"]))
	for _, marker := range []string{"truecolor", "24bit", "24-bit"} {
		if strings.Contains(colorterm, marker) {
			return ProfileTrueColor
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func forceColor(v string) bool { return v != "" && v != "0" }
