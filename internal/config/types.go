package config

import (
	"strings"

	"github.com/phyten/ppcheck/internal/engine"
)

type EngineConfig struct {
	Langs          *[]string `yaml:"lang" toml:"lang" json:"lang"`
	Paths          *[]string `yaml:"path" toml:"path" json:"path"`
	Excludes       *[]string `yaml:"exclude" toml:"exclude" json:"exclude"`
	PathRegex      *[]string `yaml:"path_regex" toml:"path_regex" json:"path_regex"`
	ExcludeTypical *bool     `yaml:"exclude_typical" toml:"exclude_typical" json:"exclude_typical"`
	NoGit          *bool     `yaml:"no_git" toml:"no_git" json:"no_git"`
	Jobs           *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	Repo           *string   `yaml:"repo" toml:"repo" json:"repo"`
	MaxFileBytes   *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
	AllSpans       *bool     `yaml:"all_spans" toml:"all_spans" json:"all_spans"`
	Operators      *bool     `yaml:"operators" toml:"operators" json:"operators"`
	WithLink       *bool     `yaml:"with_link" toml:"with_link" json:"with_link"`
	Output         *string   `yaml:"output" toml:"output" json:"output"`
	Color          *string   `yaml:"color" toml:"color" json:"color"`
}

type UIConfig struct {
	Fields *string `yaml:"fields" toml:"fields" json:"fields"`
	Sort   *string `yaml:"sort" toml:"sort" json:"sort"`
	Port   *int    `yaml:"port" toml:"port" json:"port"`
	Open   *bool   `yaml:"open" toml:"open" json:"open"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine" toml:"engine" json:"engine"`
	UI     UIConfig     `yaml:"ui" toml:"ui" json:"ui"`
}

type EngineSettings struct {
	Langs          []string
	Paths          []string
	Excludes       []string
	PathRegex      []string
	ExcludeTypical bool
	NoGit          bool
	Jobs           int
	Repo           string
	MaxFileBytes   int
	AllSpans       bool
	Operators      bool
	WithLink       bool
	Output         string
	Color          string
}

type UISettings struct {
	Fields string
	Sort   string
	Port   int
	Open   bool
}

func EngineSettingsFromOptions(opts engine.Options) EngineSettings {
	return EngineSettings{
		Langs:          cloneStrings(opts.Langs),
		Paths:          cloneStrings(opts.Paths),
		Excludes:       cloneStrings(opts.Excludes),
		PathRegex:      cloneStrings(opts.PathRegex),
		ExcludeTypical: opts.ExcludeTypical,
		NoGit:          opts.NoGit,
		Jobs:           opts.Jobs,
		Repo:           opts.RepoDir,
		MaxFileBytes:   opts.MaxFileBytes,
		AllSpans:       opts.AllSpans,
		Operators:      opts.Operators,
		WithLink:       opts.WithLink,
		Output:         "table",
		Color:          "auto",
	}
}

func (s EngineSettings) ApplyToOptions(opts *engine.Options) {
	if opts == nil {
		return
	}
	opts.Langs = cloneStrings(s.Langs)
	opts.Paths = cloneStrings(s.Paths)
	opts.Excludes = cloneStrings(s.Excludes)
	opts.PathRegex = cloneStrings(s.PathRegex)
	opts.ExcludeTypical = s.ExcludeTypical
	opts.NoGit = s.NoGit
	opts.Jobs = s.Jobs
	if trimmed := strings.TrimSpace(s.Repo); trimmed != "" {
		opts.RepoDir = trimmed
	}
	opts.MaxFileBytes = s.MaxFileBytes
	opts.AllSpans = s.AllSpans
	opts.Operators = s.Operators
	opts.WithLink = s.WithLink
}

func DefaultUISettings() UISettings {
	return UISettings{Port: 8080}
}

// cloneStrings keeps nil and an explicitly empty list distinct.
func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
