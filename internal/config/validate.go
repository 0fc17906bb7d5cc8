package config

import (
	"fmt"
	"strings"

	engineopts "github.com/phyten/ppcheck/internal/engine/opts"
)

// CanonicalizeColor accepts auto|always|never; empty means auto.
func CanonicalizeColor(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "":
		return "auto", nil
	case "auto", "always", "never":
		return mode, nil
	default:
		return "", fmt.Errorf("invalid color: %s", raw)
	}
}

func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// NormalizeEngine canonicalises the settings that engine.Options does not carry.
func NormalizeEngine(values EngineSettings) (EngineSettings, error) {
	var err error
	if values.Output, err = engineopts.NormalizeOutput(values.Output); err != nil {
		return values, err
	}
	if values.Color, err = CanonicalizeColor(values.Color); err != nil {
		return values, err
	}
	return values, nil
}

func NormalizeUI(values UISettings) (UISettings, error) {
	values.Fields = strings.TrimSpace(values.Fields)
	values.Sort = strings.TrimSpace(values.Sort)
	if err := ValidatePort(values.Port); err != nil {
		return values, err
	}
	return values, nil
}
