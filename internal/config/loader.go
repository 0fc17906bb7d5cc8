package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	engineopts "github.com/phyten/ppcheck/internal/engine/opts"
)

var engineKeyMap = map[string]string{
	"lang":            "lang",
	"langs":           "lang",
	"languages":       "lang",
	"path":            "path",
	"paths":           "path",
	"exclude":         "exclude",
	"excludes":        "exclude",
	"path_regex":      "path_regex",
	"path_regexes":    "path_regex",
	"exclude_typical": "exclude_typical",
	"no_git":          "no_git",
	"jobs":            "jobs",
	"repo":            "repo",
	"max_file_bytes":  "max_file_bytes",
	"max_bytes":       "max_file_bytes",
	"all_spans":       "all_spans",
	"operators":       "operators",
	"with_link":       "with_link",
	"output":          "output",
	"color":           "color",
}

var uiKeyMap = map[string]string{
	"fields": "fields",
	"sort":   "sort",
	"port":   "port",
	"open":   "open",
}

// Load は拡張子 (.yaml/.yml/.toml/.json) に応じて設定ファイルを読み込みます。空のパスは空の Config を返します。
func Load(path string) (Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	raw, err := decodeRaw(strings.ToLower(filepath.Ext(path)), data)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		return cfg, nil
	}
	decoded, err := decodeConfigMap(raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return decoded, nil
}

func decodeRaw(ext string, data []byte) (map[string]any, error) {
	var raw map[string]any
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return raw, nil
}

func decodeConfigMap(raw map[string]any) (Config, error) {
	var cfg Config
	engineSection := make(map[string]any)
	uiSection := make(map[string]any)

	for _, sec := range []struct {
		name    string
		allowed map[string]string
		dst     map[string]any
	}{
		{"engine", engineKeyMap, engineSection},
		{"ui", uiKeyMap, uiSection},
	} {
		block, ok := raw[sec.name]
		if !ok {
			continue
		}
		sub, err := toStringKeyMap(block)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", sec.name, err)
		}
		if err := fillSection(sec.dst, sub, sec.allowed, sec.name); err != nil {
			return cfg, err
		}
	}

	// engine/ui のキーはトップレベルにも書ける
	for key, value := range raw {
		norm := normalizeKey(key)
		if norm == "engine" || norm == "ui" {
			continue
		}
		if canonical, ok := engineKeyMap[norm]; ok {
			engineSection[canonical] = value
			continue
		}
		if canonical, ok := uiKeyMap[norm]; ok {
			uiSection[canonical] = value
			continue
		}
		return cfg, fmt.Errorf("unknown config key: %s", key)
	}

	if err := assignEngine(engineSection, &cfg.Engine); err != nil {
		return cfg, fmt.Errorf("engine: %w", err)
	}
	if err := assignUI(uiSection, &cfg.UI); err != nil {
		return cfg, fmt.Errorf("ui: %w", err)
	}
	return cfg, nil
}

func fillSection(dst, src map[string]any, allowed map[string]string, section string) error {
	for key, value := range src {
		canonical, ok := allowed[normalizeKey(key)]
		if !ok {
			return fmt.Errorf("unknown %s key: %s", section, key)
		}
		dst[canonical] = value
	}
	return nil
}

func assignEngine(section map[string]any, dst *EngineConfig) error {
	for key, value := range section {
		var err error
		switch key {
		case "lang":
			dst.Langs, err = listField(value, key)
		case "path":
			dst.Paths, err = listField(value, key)
		case "exclude":
			dst.Excludes, err = listField(value, key)
		case "path_regex":
			dst.PathRegex, err = listField(value, key)
		case "exclude_typical":
			dst.ExcludeTypical, err = boolField(value, key)
		case "no_git":
			dst.NoGit, err = boolField(value, key)
		case "all_spans":
			dst.AllSpans, err = boolField(value, key)
		case "operators":
			dst.Operators, err = boolField(value, key)
		case "with_link":
			dst.WithLink, err = boolField(value, key)
		case "jobs":
			dst.Jobs, err = intField(value, key)
		case "max_file_bytes":
			dst.MaxFileBytes, err = intField(value, key)
		case "repo":
			dst.Repo, err = stringField(value, key, false)
		case "output":
			dst.Output, err = stringField(value, key, true)
		case "color":
			dst.Color, err = stringField(value, key, true)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func assignUI(section map[string]any, dst *UIConfig) error {
	for key, value := range section {
		var err error
		switch key {
		case "fields":
			dst.Fields, err = stringField(value, key, true)
		case "sort":
			dst.Sort, err = stringField(value, key, true)
		case "port":
			dst.Port, err = intField(value, key)
		case "open":
			dst.Open, err = boolField(value, key)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func stringField(value any, field string, trim bool) (*string, error) {
	s, err := expectString(value, field)
	if err != nil {
		return nil, err
	}
	if trim {
		s = strings.TrimSpace(s)
	}
	return &s, nil
}

func boolField(value any, field string) (*bool, error) {
	b, err := expectBool(value, field)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func intField(value any, field string) (*int, error) {
	n, err := expectInt(value, field)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func listField(value any, field string) (*[]string, error) {
	list, err := expectStringList(value, field)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func expectString(value any, field string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%s cannot be null", field)
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string for %s, got %T", field, value)
}

func expectBool(value any, field string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return engineopts.ParseBool(v, field)
	default:
		return false, fmt.Errorf("expected bool for %s, got %T", field, value)
	}
}

func expectInt(value any, field string) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer for %s, got %v", field, value)
		}
		return int(v), nil
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %v", field, value)
		}
		return n, nil
	case string:
		trimmed := strings.TrimSpace(v)
		n, err := strconv.Atoi(trimmed)
		if trimmed == "" || err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %q", field, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer for %s, got %T", field, value)
	}
}

func expectStringList(value any, field string) ([]string, error) {
	switch v := value.(type) {
	case string:
		return engineopts.SplitMulti([]string{v}), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, err := expectString(item, field)
			if err != nil {
				return nil, err
			}
			out = append(out, str)
		}
		return normalizeList(out), nil
	case []string:
		return normalizeList(v), nil
	default:
		return nil, fmt.Errorf("expected string or list for %s, got %T", field, value)
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func toStringKeyMap(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, value := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key: %v", k)
			}
			out[key] = value
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected map, got %T", v)
	}
}

func normalizeKey(key string) string {
	norm := strings.ToLower(strings.TrimSpace(key))
	return strings.ReplaceAll(norm, "-", "_")
}
