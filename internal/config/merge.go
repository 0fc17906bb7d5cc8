package config

import "strings"

// MergeEngine applies layers in order; a nil field leaves the value below untouched.
func MergeEngine(base EngineSettings, layers ...EngineConfig) EngineSettings {
	out := base
	for _, layer := range layers {
		out.Langs = ResolveStrings(out.Langs, layer.Langs)
		out.Paths = ResolveStrings(out.Paths, layer.Paths)
		out.Excludes = ResolveStrings(out.Excludes, layer.Excludes)
		out.PathRegex = ResolveStrings(out.PathRegex, layer.PathRegex)
		out.ExcludeTypical = ResolveBool(out.ExcludeTypical, layer.ExcludeTypical)
		out.NoGit = ResolveBool(out.NoGit, layer.NoGit)
		out.Jobs = ResolveInt(out.Jobs, layer.Jobs)
		out.Repo = ResolveAndTrim(out.Repo, layer.Repo)
		out.MaxFileBytes = ResolveInt(out.MaxFileBytes, layer.MaxFileBytes)
		out.AllSpans = ResolveBool(out.AllSpans, layer.AllSpans)
		out.Operators = ResolveBool(out.Operators, layer.Operators)
		out.WithLink = ResolveBool(out.WithLink, layer.WithLink)
		out.Output = ResolveAndTrim(out.Output, layer.Output)
		out.Color = ResolveAndTrim(out.Color, layer.Color)
	}
	if strings.TrimSpace(out.Output) == "" {
		out.Output = "table"
	}
	if strings.TrimSpace(out.Color) == "" {
		out.Color = "auto"
	}
	return out
}

func MergeUI(base UISettings, layers ...UIConfig) UISettings {
	out := base
	for _, layer := range layers {
		out.Fields = ResolveAndTrim(out.Fields, layer.Fields)
		out.Sort = ResolveAndTrim(out.Sort, layer.Sort)
		out.Port = ResolveInt(out.Port, layer.Port)
		out.Open = ResolveBool(out.Open, layer.Open)
	}
	return out
}
