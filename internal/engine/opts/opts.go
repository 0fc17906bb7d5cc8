package opts

import (
	"fmt"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/phyten/ppcheck/internal/detect"
	"github.com/phyten/ppcheck/internal/engine"
)

const (
	maxJobs = 64
)

// Formats lists the accepted --output values.
var Formats = []string{"table", "tsv", "json", "ndjson", "csv", "md", "pretty"}

// Defaults returns the shared baseline options for both CLI and Web inputs.
func Defaults(repoDir string) engine.Options {
	jobs := runtime.NumCPU()
	if jobs < 1 {
		jobs = 1
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}
	return engine.Options{
		RepoDir:      repoDir,
		Langs:        append([]string(nil), detect.DefaultAllow...),
		Jobs:         jobs,
		MaxFileBytes: 0,
	}
}

// ApplyWebQueryToOptions copies recognised values from the query string into the
// provided options. Validation happens separately via NormalizeAndValidate.
func ApplyWebQueryToOptions(def engine.Options, q url.Values) (engine.Options, error) {
	out := def

	bools := []struct {
		key string
		dst *bool
	}{
		{"all_spans", &out.AllSpans},
		{"operators", &out.Operators},
		{"with_link", &out.WithLink},
		{"exclude_typical", &out.ExcludeTypical},
		{"no_git", &out.NoGit},
	}
	for _, b := range bools {
		if raw, ok := lastLiteralValue(q[b.key]); ok {
			v, err := ParseBool(raw, b.key)
			if err != nil {
				return out, err
			}
			*b.dst = v
		}
	}
	if raw, ok := lastLiteralValue(q["jobs"]); ok {
		n, err := ParseIntInRange(raw, "jobs", 1, maxJobs)
		if err != nil {
			return out, err
		}
		out.Jobs = n
	}
	if raw, ok := lastLiteralValue(q["max_file_bytes"]); ok {
		n, err := parseInt(raw, "max_file_bytes")
		if err != nil {
			return out, err
		}
		out.MaxFileBytes = n
	}
	if raw := q["path"]; len(raw) > 0 {
		out.Paths = SplitMulti(raw)
	}
	if raw := q["exclude"]; len(raw) > 0 {
		out.Excludes = SplitMulti(raw)
	}
	if raw := q["path_regex"]; len(raw) > 0 {
		out.PathRegex = SplitMulti(raw)
	}
	if raw := q["lang"]; len(raw) > 0 {
		out.Langs = SplitMulti(raw)
	}
	if raw, ok := lastRawValue(q["repo"]); ok {
		out.RepoDir = raw
	}

	return out, nil
}

// NormalizeAndValidate ensures the options are canonical and within the allowed ranges.
func NormalizeAndValidate(o *engine.Options) error {
	if o.Jobs < 1 || o.Jobs > maxJobs {
		return fmt.Errorf("jobs must be between 1 and %d", maxJobs)
	}
	if strings.TrimSpace(o.RepoDir) == "" {
		o.RepoDir = "."
	}
	if o.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0")
	}

	o.Paths = trimSlice(o.Paths)
	o.Excludes = trimSlice(o.Excludes)
	o.PathRegex = trimSlice(o.PathRegex)
	o.Langs = detect.CanonicalDetectLangs(trimSlice(o.Langs))
	for _, lang := range o.Langs {
		if !detect.KnownLanguage(lang) {
			return fmt.Errorf("unsupported --lang: %s", lang)
		}
	}
	if len(o.Langs) == 0 {
		o.Langs = append([]string(nil), detect.DefaultAllow...)
	}

	compiled, err := engine.CompilePathRegex(o.PathRegex)
	if err != nil {
		return fmt.Errorf("invalid --path-regex: %w", err)
	}
	o.PathRegexCompiled = compiled

	return nil
}

// ParseBool accepts 1/0, true/false, yes/no and on/off in any case.
func ParseBool(raw, key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange は raw を整数として読み、[lo, hi] に収まるか検査します。hi < lo のときは下限のみ検査します。
func ParseIntInRange(raw, key string, lo, hi int) (int, error) {
	n, err := parseInt(raw, key)
	if err != nil {
		return 0, err
	}
	bounded := hi >= lo
	switch {
	case bounded && (n < lo || n > hi):
		return 0, fmt.Errorf("%s must be between %d and %d", key, lo, hi)
	case !bounded && n < lo:
		return 0, fmt.Errorf("%s must be >= %d", key, lo)
	}
	return n, nil
}

// NormalizeOutput validates and lower-cases the CLI/Web output format value.
// "markdown" is accepted as an alias of "md".
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "markdown" {
		v = "md"
	}
	for _, f := range Formats {
		if v == f {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid --output: %s", value)
}

// SplitMulti flattens repeated values and comma-separated lists, dropping blanks.
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		out = appendNonBlank(out, strings.Split(raw, ",")...)
	}
	return out
}

func parseInt(raw, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	return n, nil
}

// lastLiteralValue returns the final comma-separated item across vals.
func lastLiteralValue(vals []string) (string, bool) {
	if flat := SplitMulti(vals); len(flat) > 0 {
		return flat[len(flat)-1], true
	}
	return "", false
}

// lastRawValue returns the final non-blank value without splitting on commas,
// so repository paths may contain them.
func lastRawValue(vals []string) (string, bool) {
	kept := appendNonBlank(nil, vals...)
	if len(kept) == 0 {
		return "", false
	}
	return kept[len(kept)-1], true
}

func trimSlice(values []string) []string {
	if len(values) == 0 {
		return values
	}
	return appendNonBlank(values[:0], values...)
}

func appendNonBlank(dst []string, values ...string) []string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
